package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of every calendar date exchanged with the backend.
const DateLayout = "2006-01-02"

type (
	// ID identifies an expense. The backend sends it as a string or a number.
	ID string

	// Amount is a monetary value as the backend transmits it: a JSON string or number.
	Amount string

	Date struct {
		time.Time
	}

	Expense struct {
		ID          ID     `json:"id"`
		Date        string `json:"date"`
		Amount      Amount `json:"amount"`
		Description string `json:"description"`
		Category    string `json:"category"`
		AISummary   string `json:"aiSummary,omitempty"`
	}

	// Draft is what the user submits; category and summary are assigned by the backend.
	Draft struct {
		Date        string `json:"date"`
		Amount      Amount `json:"amount"`
		Description string `json:"description"`
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrEmptyDescription = errors.New("empty description")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string. Surrounding whitespace is ignored.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date in wire format.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// SameMonth reports whether both dates fall in the same calendar month and year.
func (d Date) SameMonth(o Date) bool {
	return d.Year() == o.Year() && d.Month() == o.Month()
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return NewDate(d.Year(), int(d.Month()), 1)
}

// LastOfMonth returns the last day of d's month.
func (d Date) LastOfMonth() Date {
	return NewDate(d.Year(), int(d.Month())+1, 0)
}

// ParseRecordDate parses a date sent by the backend. Besides YYYY-MM-DD it
// accepts an RFC 3339 timestamp, which spreadsheet backends emit for date
// cells; the calendar day is taken as written in the timestamp.
func ParseRecordDate(s string) (Date, error) {
	if d, err := ParseDate(s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

// ParsedDate returns the expense date, or false when the backend sent garbage.
func (e Expense) ParsedDate() (Date, bool) {
	d, err := ParseRecordDate(e.Date)
	if err != nil {
		return Date{}, false
	}
	return d, true
}

// Value is the numeric amount; anything unparseable counts as zero.
func (e Expense) Value() float64 {
	return e.Amount.Float()
}

// Float parses the amount, degrading to 0 on failure.
func (a Amount) Float() float64 {
	v, err := ParseAmount(string(a))
	if err != nil {
		return 0
	}
	return v
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	// Numbers are kept verbatim so no precision is lost before parsing.
	*a = Amount(b)
	return nil
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return errors.New("id must be a string or a number")
	}
	*id = ID(b)
	return nil
}

// NewDraft builds a draft dated on the given day.
func NewDraft(day Date, amount, description string) Draft {
	return Draft{
		Date:        day.String(),
		Amount:      Amount(strings.TrimSpace(amount)),
		Description: description,
	}
}

func (d Draft) Validate() error {
	if _, err := ParseDate(d.Date); err != nil {
		return err
	}
	v, err := ParseAmount(string(d.Amount))
	if err != nil {
		return err
	}
	if v < 0 {
		return ErrNegativeAmount
	}
	if len(strings.TrimSpace(d.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(d.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

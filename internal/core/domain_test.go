package core

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-10-01", true},
		{" 2025-12-31 ", true},
		{"2025-02-30", false},
		{"01/10/2025", false},
		{"", false},
	}
	for i, tc := range cases {
		_, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseRecordDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-10-01", "2025-10-01", true},
		{"2025-10-01T18:30:00.000Z", "2025-10-01", true},
		{"2025-10-01T23:30:00+05:30", "2025-10-01", true},
		{"2025-10-01 18:30", "", false},
		{"garbage", "", false},
	}
	for _, tc := range cases {
		d, err := ParseRecordDate(tc.in)
		if tc.ok != (err == nil) {
			t.Fatalf("ParseRecordDate(%q) error = %v, want ok %v", tc.in, err, tc.ok)
		}
		if tc.ok && d.String() != tc.want {
			t.Fatalf("ParseRecordDate(%q) = %s, want %s", tc.in, d, tc.want)
		}
	}

	if _, err := ParseDate("2025-10-01T18:30:00.000Z"); err == nil {
		t.Fatal("drafts must stay YYYY-MM-DD")
	}
}

func TestMonthBounds(t *testing.T) {
	d := NewDate(2024, 2, 14)
	if got := d.FirstOfMonth().String(); got != "2024-02-01" {
		t.Fatalf("first of month: %s", got)
	}
	if got := d.LastOfMonth().String(); got != "2024-02-29" {
		t.Fatalf("last of month: %s", got)
	}
	if got := NewDate(2025, 12, 3).LastOfMonth().String(); got != "2025-12-31" {
		t.Fatalf("december rollover: %s", got)
	}
	if !d.SameMonth(NewDate(2024, 2, 1)) || d.SameMonth(NewDate(2023, 2, 14)) {
		t.Fatalf("SameMonth mismatch")
	}
}

func TestExpenseDecodeMixedTypes(t *testing.T) {
	raw := `[
		{"id": 1, "date": "2025-10-01", "amount": "250", "description": "Coffee", "category": "Food & Dining"},
		{"id": "abc", "date": "2025-09-25", "amount": 799.5, "description": "Netflix", "category": "Entertainment", "aiSummary": "Streaming"},
		{"date": "2025-09-25", "amount": null, "description": "x", "category": "Other"}
	]`
	var got []Expense
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got[0].ID != "1" || got[0].Value() != 250 {
		t.Fatalf("unexpected first: %+v", got[0])
	}
	if got[1].ID != "abc" || got[1].Value() != 799.5 || got[1].AISummary != "Streaming" {
		t.Fatalf("unexpected second: %+v", got[1])
	}
	if got[2].ID != "" || got[2].Value() != 0 {
		t.Fatalf("unexpected third: %+v", got[2])
	}
}

func TestIDRejectsObjects(t *testing.T) {
	var e Expense
	if err := json.Unmarshal([]byte(`{"id": {"x": 1}}`), &e); err == nil {
		t.Fatalf("expected error for object id")
	}
}

func TestDraftValidate(t *testing.T) {
	good := NewDraft(NewDate(2025, 1, 1), "100", "ok")
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := NewDraft(NewDate(2025, 1, 1), "0", "free sample").Validate(); err != nil {
		t.Fatalf("zero amount should be allowed, got %v", err)
	}

	bads := []Draft{
		{Date: "", Amount: "1", Description: "a"},
		{Date: "2025-01-01", Amount: "", Description: "a"},
		{Date: "2025-01-01", Amount: "-5", Description: "a"},
		{Date: "2025-01-01", Amount: "x", Description: "a"},
		{Date: "2025-01-01", Amount: "1", Description: "   "},
	}
	for i, d := range bads {
		if err := d.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

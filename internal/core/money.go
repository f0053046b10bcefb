// Package core holds the expense record as the backend exchanges it.
//
// This file contains amount parsing. Amounts travel as free-form strings,
// so parsing is lenient about whitespace and strict about everything else.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string to a float64.
//
// Leading and trailing whitespace is ignored and a leading '+' is accepted.
// Empty strings, NaN, infinities and anything strconv rejects return
// ErrInvalidAmount. Negative values parse successfully; callers decide
// whether they are acceptable.
//
// Examples:
//   ParseAmount("250")     -> 250, nil
//   ParseAmount(" 12.50 ") -> 12.5, nil
//   ParseAmount("abc")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package report

import (
	"strconv"
	"strings"
)

// FormatRupees renders v the way en-IN currency formatting does: rupee sign,
// lakh/crore digit grouping and exactly two decimals (₹1,00,000.00).
func FormatRupees(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	out := "₹" + groupIndian(intPart) + "." + frac
	if neg && strings.Trim(intPart+frac, "0") != "" {
		return "-" + out
	}
	return out
}

// groupIndian inserts commas after the last three digits and then every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

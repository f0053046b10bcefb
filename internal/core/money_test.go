package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1", 1, true},
		{"250", 250, true},
		{"1.23", 1.23, true},
		{" 2.50 ", 2.5, true},
		{"+3", 3, true},
		{"-1", -1, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestAmountFloatDegradesToZero(t *testing.T) {
	if got := Amount("oops").Float(); got != 0 {
		t.Fatalf("expected 0 for garbage, got %v", got)
	}
	if got := Amount("799").Float(); got != 799 {
		t.Fatalf("expected 799, got %v", got)
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		1.005:  1.0, // binary representation sits just below .005
		1.236:  1.24,
		10:     10,
		0.125:  0.13,
		-1.234: -1.23,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Errorf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}

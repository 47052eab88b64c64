package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"1000", 100000, true},
		{"0", 0, true},
		{"12.344", 1234, true}, // rounds down
		{"12.345", 1235, true}, // half-up
		{"€ 950", 95000, true},
		{"-3,5", -350, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		m, err := ParseAmount(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParseAmount(%q): unexpected error %v", tc.in, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseAmount(%q): expected error", tc.in)
			} else if !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("ParseAmount(%q): error %v is not ErrInvalidAmount", tc.in, err)
			}
			continue
		}
		if m.Cents != tc.cents {
			t.Errorf("ParseAmount(%q) = %d cents, want %d", tc.in, m.Cents, tc.cents)
		}
	}
}

func TestMoneyFormatEUR(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{123456, "€ 1.234,56"},
		{95000, "€ 950,00"},
		{0, "€ 0,00"},
		{-100, "€ -1,00"},
		{123456789, "€ 1.234.567,89"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).FormatEUR(); got != tc.want {
			t.Errorf("FormatEUR(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(Money{Cents: 95050})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "950.5" {
		t.Errorf("marshal = %s, want 950.5", data)
	}

	var m Money
	for _, in := range []string{"950.00", `"950.00"`, "950"} {
		if err := json.Unmarshal([]byte(in), &m); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if m.Cents != 95000 {
			t.Errorf("unmarshal %s = %d cents, want 95000", in, m.Cents)
		}
	}

	if err := json.Unmarshal([]byte("null"), &m); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 100000}
	b := Money{Cents: 5000}
	if got := a.Sub(b).Cents; got != 95000 {
		t.Errorf("Sub = %d, want 95000", got)
	}
	if got := a.Add(b).Cents; got != 105000 {
		t.Errorf("Add = %d, want 105000", got)
	}
	if !b.Sub(a).IsNegative() {
		t.Error("expected negative result")
	}
}

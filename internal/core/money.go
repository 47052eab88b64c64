// Money parsing and formatting. Amounts are stored as integer cents;
// github.com/shopspring/decimal is used only at the parse/format boundary
// so that sums never accumulate floating-point drift.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount in cents. Two amounts are equal iff their
// cents agree.
type Money struct {
	Cents int64
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }
func (m Money) IsNegative() bool  { return m.Cents < 0 }
func (m Money) IsZero() bool      { return m.Cents == 0 }

// Decimal returns the amount as an exact decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// ParseAmount converts a user-entered decimal string to Money.
// Both dot (12.34) and comma (12,34) decimal separators are accepted;
// a leading euro sign is ignored. Anything beyond two decimals is
// rounded half-up. Negative values parse fine; operations that require
// non-negative amounts check the sign themselves.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "€"))
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	cents := d.Shift(2).Round(0)
	if !cents.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	return Money{Cents: cents.IntPart()}, nil
}

// String renders the plain decimal value, e.g. "950.5" or "-3".
func (m Money) String() string {
	return m.Decimal().String()
}

// FormatEUR renders the amount the way the dashboard shows it:
// "€ 1.234,56" with Italian-style separators.
func (m Money) FormatEUR() string {
	sign := ""
	cents := m.Cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := cents / 100
	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("€ %s%s,%02d", sign, b.String(), cents%100)
}

// MarshalJSON writes the amount as a plain JSON number ("950.5", "1000")
// so the persisted document stays readable and interoperable.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

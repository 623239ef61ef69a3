package value

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNegativeMoney is returned when a monetary amount would drop below zero.
var ErrNegativeMoney = errors.New("money cannot be negative")

// Money is a non-negative monetary amount. The zero value is zero baht.
type Money struct {
	d decimal.Decimal
}

// NewMoney validates d and wraps it. Negative amounts are rejected, never clamped.
func NewMoney(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s", ErrNegativeMoney, d.String())
	}
	return Money{d: d}, nil
}

// MoneyFromInt builds a Money from a whole amount.
func MoneyFromInt(v int64) (Money, error) {
	return NewMoney(decimal.NewFromInt(v))
}

// ParseMoney parses a decimal string such as "70" or "12.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return NewMoney(d)
}

// Zero returns a zero amount.
func Zero() Money {
	return Money{d: decimal.Zero}
}

// Add returns m + other. Both operands are non-negative so the sum is too.
func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

// Mul returns m * factor.
func (m Money) Mul(factor int) (Money, error) {
	return NewMoney(m.d.Mul(decimal.NewFromInt(int64(factor))))
}

// Decimal exposes the underlying amount.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

func (m Money) Equal(other Money) bool {
	return m.d.Equal(other.d)
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// String renders the exact amount without rounding.
func (m Money) String() string {
	return m.d.String()
}

// StringFixed renders the amount rounded to places decimals, for display.
func (m Money) StringFixed(places int32) string {
	return m.d.StringFixed(places)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.d.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := NewMoney(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Package types provides common value types.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
type Money = decimal.Decimal

// Quantity is a fixed-point quantity with 4 decimal places (scale = 1e4).
// Postgres stores it as a scaled BIGINT; JSON carries it as a number.
type Quantity int64

const QuantityScale int64 = 10_000

const quantityDigits = 4

func NewQuantity(units int64) Quantity { return Quantity(units * QuantityScale) }

// NewQuantityFromDecimal rounds d half away from zero to 4 fractional digits.
func NewQuantityFromDecimal(d decimal.Decimal) Quantity {
	return Quantity(d.Shift(quantityDigits).Round(0).IntPart())
}

// ParseQuantity accepts plain and exponent notation ("12.5", "1e3").
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	return NewQuantityFromDecimal(d), nil
}

func (q Quantity) Decimal() decimal.Decimal { return decimal.New(int64(q), -quantityDigits) }

// Value prices q at unitPrice. An unpriced quantity is worth zero.
func (q Quantity) Value(unitPrice *Money) Money {
	if unitPrice == nil {
		return decimal.Zero
	}
	return q.Decimal().Mul(*unitPrice)
}

func (q Quantity) IsZero() bool { return q == 0 }

// String returns a decimal string with 4 fractional digits.
func (q Quantity) String() string {
	return q.Decimal().StringFixed(quantityDigits)
}

// MarshalJSON encodes Quantity as a JSON number without trailing zeros.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.Decimal().String()), nil
}

// UnmarshalJSON accepts either a JSON number or a string. null decodes to zero.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			*q = 0
			return nil
		}
	}

	parsed, err := ParseQuantity(raw)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

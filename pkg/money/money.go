package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance below which two balances are considered equal.
// Differences smaller than one cent of the currency unit are floating-point
// noise from user input, not real discrepancies.
var Epsilon = decimal.NewFromFloat(0.01)

// Amount represents a currency amount with exact decimal arithmetic.
type Amount struct {
	decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{decimal.Zero}

// New creates an Amount from a decimal.
func New(d decimal.Decimal) Amount {
	return Amount{d}
}

// FromFloat creates an Amount from a float64.
func FromFloat(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// FromInt creates an Amount from an int64.
func FromInt(i int64) Amount {
	return Amount{decimal.NewFromInt(i)}
}

// Parse parses a decimal string like "150000.50" into an Amount.
func Parse(s string) (Amount, error) {
	if s == "" {
		return Zero, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d}, nil
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{a.Decimal.Sub(b.Decimal)}
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{a.Decimal.Neg()}
}

// Abs returns |a|.
func (a Amount) Abs() Amount {
	return Amount{a.Decimal.Abs()}
}

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool {
	return a.Decimal.IsPositive()
}

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool {
	return a.Decimal.IsNegative()
}

// Equal reports exact equality.
func (a Amount) Equal(b Amount) bool {
	return a.Decimal.Equal(b.Decimal)
}

// WithinEpsilon reports whether |a - b| <= Epsilon.
func WithinEpsilon(a, b Amount) bool {
	return a.Sub(b).Abs().Decimal.LessThanOrEqual(Epsilon)
}

// Negligible reports whether |a| <= Epsilon.
func Negligible(a Amount) bool {
	return a.Abs().Decimal.LessThanOrEqual(Epsilon)
}

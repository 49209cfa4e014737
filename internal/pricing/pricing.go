// Package pricing computes line, cart and order totals and owns the single
// conversion between display-scale prices and integer cents.
package pricing

import (
	"errors"
	"math"
	"math/bits"

	"github.com/shopspring/decimal"
)

// ErrTotalOutOfRange is returned when a cents total cannot be represented
// as a non-negative int64.
var ErrTotalOutOfRange = errors.New("order total is out of range")

// centsExponent shifts display-scale values to cents and back.
const centsExponent = 2

// Line is a priced, quantified selection at display scale.
type Line struct {
	Price    decimal.Decimal
	Quantity int
}

// CentsLine is a priced, quantified selection in cents.
type CentsLine struct {
	Price    int64
	Quantity int
}

// ToCents converts a display-scale amount to integer cents, rounding half
// away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Shift(centsExponent).Round(0).IntPart()
}

// FromCents converts integer cents to a display-scale amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -centsExponent)
}

// LineTotal returns price × quantity.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Total sums price × quantity over lines.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.Price, l.Quantity))
	}
	return total
}

// Sum adds component prices such as a base price and its surcharges.
func Sum(components ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, components...)
}

// CentsTotal sums price × quantity over lines already expressed in cents.
// Negative inputs and sums above math.MaxInt64 yield ErrTotalOutOfRange
// instead of a wrapped value.
func CentsTotal(lines []CentsLine) (int64, error) {
	var total uint64
	for _, l := range lines {
		if l.Price < 0 || l.Quantity < 0 {
			return 0, ErrTotalOutOfRange
		}
		hi, line := bits.Mul64(uint64(l.Price), uint64(l.Quantity))
		if hi != 0 {
			return 0, ErrTotalOutOfRange
		}
		var carry uint64
		total, carry = bits.Add64(total, line, 0)
		if carry != 0 || total > math.MaxInt64 {
			return 0, ErrTotalOutOfRange
		}
	}
	return int64(total), nil
}

// Format renders an amount with two decimals for display.
func Format(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(centsExponent)
}

package pricing

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestToCents(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		expected int64
	}{
		{name: "Whole", amount: d("1500"), expected: 150000},
		{name: "Two decimals", amount: d("19.99"), expected: 1999},
		{name: "Half rounds up", amount: d("0.005"), expected: 1},
		{name: "Below half rounds down", amount: d("0.004"), expected: 0},
		{name: "Zero", amount: decimal.Zero, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToCents(tt.amount))
		})
	}
}

func TestFromCents(t *testing.T) {
	assert.True(t, d("19.99").Equal(FromCents(1999)))
	assert.True(t, d("1500").Equal(FromCents(150000)))
	assert.Equal(t, int64(4321), ToCents(FromCents(4321)))
}

func TestTotal(t *testing.T) {
	lines := []Line{
		{Price: d("1200"), Quantity: 2},
		{Price: d("19.99"), Quantity: 3},
	}
	assert.True(t, d("2459.97").Equal(Total(lines)), Total(lines).String())
	assert.True(t, decimal.Zero.Equal(Total(nil)))
}

func TestCentsTotal(t *testing.T) {
	tests := []struct {
		name     string
		lines    []CentsLine
		expected int64
		err      error
	}{
		{
			name:     "Sums lines",
			lines:    []CentsLine{{Price: 150000, Quantity: 1}, {Price: 50000, Quantity: 2}},
			expected: 250000,
		},
		{name: "No lines", expected: 0},
		{
			name:     "Exactly the int64 maximum",
			lines:    []CentsLine{{Price: math.MaxInt64, Quantity: 1}},
			expected: math.MaxInt64,
		},
		{
			name:  "Product wraps to zero",
			lines: []CentsLine{{Price: 1 << 62, Quantity: 4}},
			err:   ErrTotalOutOfRange,
		},
		{
			name:  "Product above int64",
			lines: []CentsLine{{Price: 1 << 62, Quantity: 2}},
			err:   ErrTotalOutOfRange,
		},
		{
			name:  "Sum above int64",
			lines: []CentsLine{{Price: math.MaxInt64, Quantity: 1}, {Price: 1, Quantity: 1}},
			err:   ErrTotalOutOfRange,
		},
		{
			name:  "Negative price",
			lines: []CentsLine{{Price: -1, Quantity: 1}},
			err:   ErrTotalOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := CentsTotal(tt.lines)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, total)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1200.00", Format(d("1200")))
	assert.Equal(t, "$19.90", Format(d("19.9")))
}

package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinor(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{19.99, 1999},
		{0, 0},
		{1234.565, 123457},
		{0.01, 1},
		{-3.25, -325},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToMinor(tt.in), "amount %v", tt.in)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "€1,234.56", Format(1234.56))
	assert.Equal(t, "€500.00", Format(500))
}

func TestFormatIn_UnknownCodeFallsBack(t *testing.T) {
	assert.Equal(t, "€10.00", FormatIn(10, "NOPE"))
	assert.Equal(t, "$10.00", FormatIn(10, "usd"))
}

func TestFormatFixed(t *testing.T) {
	assert.Equal(t, "1234.56", FormatFixed(1234.56))
	assert.Equal(t, "7.00", FormatFixed(7))
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 10.57, Round2(10.565), 1e-9)
	assert.InDelta(t, 10.56, Round2(10.564), 1e-9)
}

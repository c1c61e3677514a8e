package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound_HalfAwayFromZero(t *testing.T) {
	tests := map[string]string{
		"2.345":   "2.35",
		"-2.345":  "-2.35",
		"2.344":   "2.34",
		"10.005":  "10.01",
		"72.9024": "72.9",
	}
	for in, want := range tests {
		assert.Equal(t, want, Round(decimal.RequireFromString(in)).String(), in)
	}
}

func TestFormatter_Amount(t *testing.T) {
	en := NewFormatter("en")
	assert.Equal(t, "1,234,567.89", en.Amount(decimal.RequireFromString("1234567.885")))
	assert.Equal(t, "0.00", en.Amount(decimal.Zero))

	de := NewFormatter("de")
	assert.Equal(t, "1.234.567,89", de.Amount(decimal.RequireFromString("1234567.885")))
}

func TestFormatter_Line(t *testing.T) {
	f := NewFormatter("en")
	assert.Equal(t, MissingRate, f.Line(decimal.NewFromInt(5), false))
	assert.Equal(t, "145.80", f.Line(decimal.RequireFromString("145.8048"), true))
}

func TestFormatter_BadLocaleFallsBack(t *testing.T) {
	assert.NotPanics(t, func() {
		NewFormatter("not a locale!").Amount(decimal.NewFromInt(1))
	})
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "1234567.89", Plain(decimal.RequireFromString("1234567.885")))
	assert.Equal(t, "3.00", Plain(decimal.NewFromInt(3)))
}

package shab

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateAcceptedLayouts(t *testing.T) {
	// All three layouts name the same calendar date and must normalize
	// to the same point in time.
	inputs := []string{"2025-09-04", "04.09.2025", "20250904"}
	first := ParseDate(inputs[0])
	require.NotNil(t, first)
	assert.Equal(t, 2025, first.Year())
	assert.Equal(t, "September", first.Month().String())
	assert.Equal(t, 4, first.Day())
	assert.Equal(t, "UTC", first.Location().String())

	for _, input := range inputs[1:] {
		parsed := ParseDate(input)
		require.NotNil(t, parsed, input)
		assert.True(t, parsed.Equal(*first), input)
	}
}

func TestParseDateUnparsable(t *testing.T) {
	for _, input := range []string{"", "  ", "not a date", "2025-13-40", "4 septembre 2025"} {
		assert.Nil(t, ParseDate(input), input)
	}
}

func TestParseTime(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"14:30", "14:30"},
		{"14:30:00", "14:30"},
		{"14:30:15", "14:30:15"},
		{"14.30", "14:30"},
		{" 09:00 ", "09:00"},
		{"garbage", ""},
		{"", ""},
		{"25:00", ""},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ParseTime(tc.input), tc.input)
	}
}

func TestParseAmount(t *testing.T) {
	expected := decimal.RequireFromString("650000.00")

	// Grouping noise is stripped; digit-equal inputs coerce to the same
	// magnitude.
	for _, input := range []string{"650'000.00", "650 000.00", " 650'000.00 "} {
		amount := ParseAmount(input)
		require.NotNil(t, amount, input)
		assert.True(t, amount.Equal(expected), "%s -> %s", input, amount)
	}

	grouped := ParseAmount("500 000")
	require.NotNil(t, grouped)
	assert.True(t, grouped.Equal(decimal.NewFromInt(500000)))
}

func TestParseAmountPreservesFraction(t *testing.T) {
	amount := ParseAmount("650'000.50")
	require.NotNil(t, amount)
	assert.Equal(t, "650000.5", amount.String())
}

func TestParseAmountGroupingDots(t *testing.T) {
	// Dots that are not a trailing fraction are grouping separators.
	amount := ParseAmount("1.250.000")
	require.NotNil(t, amount)
	assert.True(t, amount.Equal(decimal.NewFromInt(1250000)))
}

func TestParseAmountTrailingSentenceDot(t *testing.T) {
	// A capture that drags the sentence dot along must not corrupt the
	// fraction handling.
	amount := ParseAmount("650'000.00.")
	require.NotNil(t, amount)
	assert.True(t, amount.Equal(decimal.RequireFromString("650000.00")))
}

func TestParseAmountNoDigits(t *testing.T) {
	for _, input := range []string{"", "   ", "CHF", "''"} {
		assert.Nil(t, ParseAmount(input), input)
	}
}

func TestGetTextDefault(t *testing.T) {
	assert.Equal(t, "a", GetText("  ", "a", "b"))
	assert.Equal(t, "", GetText("", "   "))
	assert.Equal(t, "fallback", GetTextDefault("fallback", "", " "))
}

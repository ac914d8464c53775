package shab

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Coercion helpers shared by the element and pattern extractors. All of
// them are failure tolerant: anything that cannot be coerced comes back as
// the zero value or nil, never as an error.

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"20060102",
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"15.04",
}

// GetText returns the first candidate that is non-blank after trimming.
func GetText(candidates ...string) string {
	return GetTextDefault("", candidates...)
}

// GetTextDefault returns the first non-blank candidate, else def.
func GetTextDefault(def string, candidates ...string) string {
	for _, candidate := range candidates {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return def
}

// ParseDate parses s against the accepted gazette date layouts in order:
// ISO, European dotted, compact. The result is normalized to midnight UTC.
// Unparsable input yields nil.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day
		}
	}
	return nil
}

// ParseTime parses a time of day (HH:MM, HH:MM:SS or HH.MM) and returns it
// normalized to "HH:MM", or "HH:MM:SS" when seconds are present and
// non-zero. Unparsable input yields the empty string.
func ParseTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Second() != 0 {
			return t.Format("15:04:05")
		}
		return t.Format("15:04")
	}
	return ""
}

var trailingFraction = regexp.MustCompile(`^\d+\.\d{1,2}$`)

// ParseAmount coerces a currency or measurement string to a decimal.
// Apostrophes and spaces are grouping noise and always stripped. A single
// trailing ".dd" is kept as the fraction; any other dots are treated as
// grouping separators and dropped. Returns nil when no number remains.
func ParseAmount(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	// A capture reaching past the number can drag a sentence dot along.
	s = strings.Trim(s, ".")
	if s == "" {
		return nil
	}
	if !trailingFraction.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &value
}

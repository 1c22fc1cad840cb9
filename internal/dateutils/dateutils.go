// Package dateutils converts institution date patterns into Go layouts and
// normalizes statement dates to ISO calendar dates.
//
// Institution files describe dates with Unicode-style tokens such as
// "MM/dd/yyyy" or "d MMM yyyy". Format compiles such a pattern once and then
// parses values with a strict layout first and a lenient one second, so that
// exports mixing "03/05/2024" and "3/5/2024" are both accepted.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayoutISO is the canonical stored date layout.
const DateLayoutISO = "2006-01-02"

var whitespace = regexp.MustCompile(`\s+`)

// tokenLayouts maps a pattern token to its strict and lenient Go layout.
var tokenLayouts = map[string][2]string{
	"yyyy": {"2006", "2006"},
	"yy":   {"06", "06"},
	"MMMM": {"January", "January"},
	"MMM":  {"Jan", "Jan"},
	"MM":   {"01", "1"},
	"M":    {"1", "1"},
	"dd":   {"02", "2"},
	"d":    {"2", "2"},
	"HH":   {"15", "15"},
	"H":    {"15", "15"},
	"hh":   {"03", "3"},
	"h":    {"3", "3"},
	"mm":   {"04", "4"},
	"m":    {"4", "4"},
	"ss":   {"05", "5"},
	"s":    {"5", "5"},
	"a":    {"PM", "PM"},
	"EEE":  {"Mon", "Mon"},
	"EEEE": {"Monday", "Monday"},
}

// Format is a compiled institution date pattern.
type Format struct {
	pattern string
	layouts []string
}

// Compile translates pattern into Go layouts. A pattern that already
// contains the Go reference year "2006" is used verbatim.
func Compile(pattern string) (*Format, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, fmt.Errorf("empty date pattern")
	}
	if strings.Contains(pattern, "2006") {
		return &Format{pattern: pattern, layouts: []string{pattern}}, nil
	}

	var strict, lenient strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '\'':
			end := i + 1
			for end < len(runes) && runes[end] != '\'' {
				end++
			}
			if end >= len(runes) {
				return nil, fmt.Errorf("date pattern %q: unterminated quoted literal", pattern)
			}
			lit := string(runes[i+1 : end])
			strict.WriteString(lit)
			lenient.WriteString(lit)
			i = end + 1
		case isPatternLetter(r):
			j := i
			for j < len(runes) && runes[j] == r {
				j++
			}
			tok := string(runes[i:j])
			layout, ok := tokenLayouts[tok]
			if !ok {
				return nil, fmt.Errorf("date pattern %q: unsupported token %q", pattern, tok)
			}
			strict.WriteString(layout[0])
			lenient.WriteString(layout[1])
			i = j
		default:
			strict.WriteRune(r)
			lenient.WriteRune(r)
			i++
		}
	}

	layouts := []string{strict.String()}
	if l := lenient.String(); l != layouts[0] {
		layouts = append(layouts, l)
	}
	return &Format{pattern: pattern, layouts: layouts}, nil
}

func isPatternLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Pattern returns the pattern the format was compiled from.
func (f *Format) Pattern() string { return f.pattern }

// Layouts returns the Go layouts tried by Parse, strict first.
func (f *Format) Layouts() []string {
	out := make([]string, len(f.layouts))
	copy(out, f.layouts)
	return out
}

// Parse parses raw with the compiled layouts. Impossible calendar dates
// such as day 32 or February 30 are rejected.
func (f *Format) Parse(raw string) (time.Time, error) {
	value := CleanDateString(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	var lastErr error
	for _, layout := range f.layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("date %q does not match pattern %q: %w", value, f.pattern, lastErr)
}

// ParseISO parses raw and returns it as YYYY-MM-DD.
func (f *Format) ParseISO(raw string) (string, error) {
	t, err := f.Parse(raw)
	if err != nil {
		return "", err
	}
	return ToISODate(t), nil
}

// ToISODate formats date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanDateString trims value and collapses inner whitespace runs.
func CleanDateString(value string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(value), " ")
}

// IsISOMonth reports whether value is a YYYY-MM month key.
func IsISOMonth(value string) bool {
	if len(value) != 7 {
		return false
	}
	_, err := time.Parse("2006-01", value)
	return err == nil
}

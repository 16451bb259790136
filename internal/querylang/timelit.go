package querylang

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timeLiteralPattern matches an @-prefixed ISO calendar date with an optional
// clock time and zone. Shape only; isTimeLiteral checks the calendar. The
// prefix keeps 2024-01-15 an arithmetic expression.
var timeLiteralPattern = regexp.MustCompile(
	`^@\d{4}-\d{2}-\d{2}(?:T\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-]\d{2}:\d{2})?)?`)

const timeLiteralPrefix = "@"

// Layouts accepted inside expressions, most specific first.
var timeLiteralLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	time.DateOnly,
}

// Layouts accepted for a standalone time value in the order box.
var calendarLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.DateTime,
	time.DateOnly,
	"2006/01/02 15:04:05",
	"2006/01/02",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// parseTimeLiteral parses the text of a TokTime token, prefix included.
func parseTimeLiteral(text string) (time.Time, bool) {
	text = strings.TrimPrefix(text, timeLiteralPrefix)
	for _, layout := range timeLiteralLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isTimeLiteral(text string) bool {
	_, ok := parseTimeLiteral(text)
	return ok
}

// ParseCalendarTime parses a standalone timestamp: a run of decimal digits
// (unix seconds) or one of the recognised calendar layouts.
func ParseCalendarTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if isAllDigits(s) {
		secs, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// Still a numeric timestamp, just not representable.
			return time.Time{}, true
		}
		return time.Unix(secs, 0).UTC(), true
	}
	for _, layout := range calendarLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Package datefilter parses message timestamps and decides whether the
// scroller has loaded far enough back.
package datefilter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the MM/DD/YYYY grammar used for both the target and the host's
// timestamps.
const Layout = "01/02/2006"

// datePattern matches the first "3/15/2019" or "03/15/2019" in a string.
// Host timestamps sometimes carry a trailing time of day.
var datePattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)

// ParseDate extracts a calendar date from text. The result is midnight UTC.
func ParseDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	matches := datePattern.FindStringSubmatch(text)
	if matches == nil {
		return time.Time{}, fmt.Errorf("invalid date format (use MM/DD/YYYY): %q", text)
	}

	month, _ := strconv.Atoi(matches[1])
	day, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid month: %s", matches[1])
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 02/30 into March; reject instead.
	if date.Day() != day || date.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("invalid day: %s", matches[2])
	}

	return date, nil
}

// Verdict is the outcome of comparing a loaded timestamp with the target.
type Verdict int

const (
	// Undeterminable means no usable timestamp was available.
	Undeterminable Verdict = iota
	// NotReached means the earliest loaded message is on or after the target.
	NotReached
	// Reached means the earliest loaded message is older than the target.
	Reached
)

func (v Verdict) String() string {
	switch v {
	case NotReached:
		return "not-reached"
	case Reached:
		return "reached"
	default:
		return "undeterminable"
	}
}

// Target is the date the user wants to scroll back to.
type Target struct {
	Date  time.Time
	Raw   string
	Valid bool
}

// NewTarget parses the user's input once. Malformed input yields an invalid
// Target rather than an error so that every comparison against it is
// Undeterminable.
func NewTarget(raw string) Target {
	t := Target{Raw: raw}
	if date, err := ParseDate(raw); err == nil {
		t.Date = date
		t.Valid = true
	}
	return t
}

// Compare classifies the host's earliest timestamp text. ok reports whether
// any text was extracted at all.
func (t Target) Compare(text string, ok bool) Verdict {
	if !ok || !t.Valid {
		return Undeterminable
	}

	date, err := ParseDate(text)
	if err != nil {
		return Undeterminable
	}

	if date.Before(t.Date) {
		return Reached
	}
	return NotReached
}

// String returns the target in MM/DD/YYYY form, or the raw input when invalid.
func (t Target) String() string {
	if !t.Valid {
		return fmt.Sprintf("invalid date %q", t.Raw)
	}
	return t.Date.Format(Layout)
}

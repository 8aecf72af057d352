// Package timerange parses the human readable slot ranges used across the
// schedule ("9:00 AM - 10:00 AM", "9 AM - 10 AM", "09:00 - 10:00") into
// minute-of-day intervals so that ranges entered in different styles compare
// by value.
package timerange

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const MinutesPerDay = 24 * 60

var ErrMalformed = errors.New("malformed time range")

// Accepted clock layouts, tried in order.
var clockLayouts = []string{"3:04 PM", "3 PM", "15:04"}

// Range is a [Start, End) interval in minutes since midnight.
type Range struct {
	Start int `json:"start_minute"`
	End   int `json:"end_minute"`
}

// Valid reports whether the range lies within one day and is not empty.
// Overnight ranges are not supported.
func (r Range) Valid() bool {
	return r.Start >= 0 && r.End <= MinutesPerDay-1 && r.Start < r.End
}

func (r Range) Duration() time.Duration {
	return time.Duration(r.End-r.Start) * time.Minute
}

// Key is a stable textual identity for the range, e.g. "540-600".
func (r Range) Key() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// String renders the range in the canonical display format.
func (r Range) String() string {
	return Format(r)
}

// Parse splits text on a single "-" and parses both sides as clock times.
func Parse(text string) (Range, error) {
	normalized := strings.ReplaceAll(text, "–", "-")
	parts := strings.Split(normalized, "-")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: %q", ErrMalformed, text)
	}

	start, ok := ParseClock(parts[0])
	if !ok {
		return Range{}, fmt.Errorf("%w: bad start in %q", ErrMalformed, text)
	}
	end, ok := ParseClock(parts[1])
	if !ok {
		return Range{}, fmt.Errorf("%w: bad end in %q", ErrMalformed, text)
	}

	return Range{Start: start, End: end}, nil
}

// ParseClock parses one side of a range and returns minutes since midnight.
func ParseClock(token string) (int, bool) {
	token = strings.ToUpper(strings.Join(strings.Fields(token), " "))
	if token == "" {
		return 0, false
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, token)
		if err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// Format renders r as "9:00 AM - 10:00 AM".
func Format(r Range) string {
	return FormatClock(r.Start) + " - " + FormatClock(r.End)
}

func FormatClock(minute int) string {
	t := time.Date(2000, time.January, 1, 0, minute, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}

// Canonical re-renders text in the display format. Unparseable input is
// returned untouched.
func Canonical(text string) string {
	r, err := Parse(text)
	if err != nil {
		return text
	}
	return Format(r)
}

// Set is a set of ranges compared by minute value.
type Set map[Range]struct{}

// ParseSet parses every entry; entries that fail are returned separately
// and left out of the set.
func ParseSet(texts []string) (Set, []string) {
	set := make(Set, len(texts))
	var invalid []string
	for _, text := range texts {
		r, err := Parse(text)
		if err != nil || !r.Valid() {
			invalid = append(invalid, text)
			continue
		}
		set[r] = struct{}{}
	}
	return set, invalid
}

func (s Set) Contains(r Range) bool {
	_, ok := s[r]
	return ok
}

// Sorted returns the ranges ordered by start then end.
func (s Set) Sorted() []Range {
	out := make([]Range, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

package clock

import "time"

// Clock reports the current local time in the application zone.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type Zone struct {
	loc *time.Location
}

func NewZone(loc *time.Location) *Zone {
	if loc == nil {
		loc = time.UTC
	}
	return &Zone{loc: loc}
}

func (z *Zone) Now() time.Time { return time.Now().In(z.loc) }

func (z *Zone) Location() *time.Location { return z.loc }

// Fixed always returns the same instant. Used by tests and one-shot tools.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time { return f.At }

func (f Fixed) Location() *time.Location { return f.At.Location() }

package schedule

import (
	"time"

	"courtbook/internal/domain"
	"courtbook/internal/pkg/timerange"
)

const (
	firstSlotHour = 9
	lastSlotHour  = 21
)

// SlotState summarises a resolved slot for display.
type SlotState string

const (
	SlotOpen        SlotState = "open"
	SlotBooked      SlotState = "booked"
	SlotFull        SlotState = "full"
	SlotPast        SlotState = "past"
	SlotUnavailable SlotState = "unavailable"
)

type Occupant struct {
	Name  string `json:"name"`
	Email string `json:"-"`
}

type Slot struct {
	TimeRange string          `json:"time_range"`
	Range     timerange.Range `json:"-"`

	PrivateOccupant *Occupant  `json:"private_occupant,omitempty"`
	GroupOccupants  []Occupant `json:"group_occupants"`
	GroupSize       int        `json:"group_size"`
	GroupCapacity   int        `json:"group_capacity"`

	Available   bool      `json:"is_available"`
	Past        bool      `json:"is_past"`
	PrivateOpen bool      `json:"private_open"`
	GroupOpen   bool      `json:"group_open"`
	State       SlotState `json:"state"`
}

type Day struct {
	Date    time.Time `json:"-"`
	DateKey string    `json:"date"`
	Weekday int       `json:"weekday"`
	Slots   []Slot    `json:"slots"`

	NoClasses        bool     `json:"no_classes"`
	NoClassesReason  string   `json:"no_classes_reason,omitempty"`
	CustomTimeRanges []string `json:"custom_time_ranges,omitempty"`

	Coach *domain.CoachAssignment `json:"coach,omitempty"`
}

// DefaultRanges is the daily grid: one-hour slots from 09:00 to 21:00.
func DefaultRanges() []timerange.Range {
	out := make([]timerange.Range, 0, lastSlotHour-firstSlotHour)
	for h := firstSlotHour; h < lastSlotHour; h++ {
		out = append(out, timerange.Range{Start: h * 60, End: (h + 1) * 60})
	}
	return out
}

// InDefaultGrid reports whether r is one of the DefaultRanges.
func InDefaultGrid(r timerange.Range) bool {
	return r.Start%60 == 0 && r.End == r.Start+60 &&
		r.Start >= firstSlotHour*60 && r.End <= lastSlotHour*60
}

// NewDay builds the unresolved grid for date.
func NewDay(date time.Time) Day {
	date = domain.StartOfDay(date)
	ranges := DefaultRanges()
	slots := make([]Slot, 0, len(ranges))
	for _, r := range ranges {
		slots = append(slots, Slot{
			TimeRange:      timerange.Format(r),
			Range:          r,
			GroupOccupants: []Occupant{},
		})
	}
	return Day{
		Date:    date,
		DateKey: domain.FormatDate(date),
		Weekday: domain.WeekdayIndex(date),
		Slots:   slots,
	}
}

// GenerateMonth returns one Day per calendar day of month in ascending order.
func GenerateMonth(year int, month time.Month, loc *time.Location) []Day {
	if loc == nil {
		loc = time.UTC
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	days := make([]Day, 0, 31)
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		days = append(days, NewDay(d))
	}
	return days
}

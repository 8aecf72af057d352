package schedule

import (
	"sort"
	"strings"
	"time"

	"courtbook/internal/domain"
	"courtbook/internal/pkg/timerange"
)

// Rules carries the capacity policy shared by the resolver and the booking
// engine.
type Rules struct {
	GroupCapacity int
	Policy        domain.ExclusionPolicy
}

func DefaultRules() Rules {
	return Rules{GroupCapacity: 5, Policy: domain.ExclusionExclusive}
}

// Admit decides whether a booking of lesson type t by email fits next to the
// existing bookings of one slot-date. An empty reason means admitted.
func (r Rules) Admit(t domain.LessonType, email string, existing []domain.Booking) domain.SkipReason {
	var private, group int
	for _, b := range existing {
		if !b.Status.Occupies() {
			continue
		}
		if b.LessonType == t && email != "" && strings.EqualFold(b.Email, email) {
			return domain.SkipAlreadyBooked
		}
		switch b.LessonType {
		case domain.LessonPrivate:
			private++
		case domain.LessonGroup:
			group++
		}
	}

	exclusive := r.Policy != domain.ExclusionIndependent
	switch t {
	case domain.LessonPrivate:
		if private > 0 || (exclusive && group > 0) {
			return domain.SkipAlreadyBooked
		}
	case domain.LessonGroup:
		if exclusive && private > 0 {
			return domain.SkipAlreadyBooked
		}
		if group >= r.GroupCapacity {
			return domain.SkipGroupFull
		}
	}
	return ""
}

// Restriction is the parsed custom-range set of a date. A date whose ranges
// are all unparseable is unrestricted.
type Restriction struct {
	set     timerange.Set
	Invalid []string
}

func RestrictionFor(o *domain.ScheduleOverride) Restriction {
	if o == nil || len(o.CustomTimeRanges) == 0 {
		return Restriction{}
	}
	set, invalid := timerange.ParseSet(o.CustomTimeRanges)
	return Restriction{set: set, Invalid: invalid}
}

func (r Restriction) Configured() bool {
	return len(r.set) > 0
}

func (r Restriction) Allows(rg timerange.Range) bool {
	if !r.Configured() {
		return true
	}
	return r.set.Contains(rg)
}

func (r Restriction) Ranges() []timerange.Range {
	return r.set.Sorted()
}

// IsPast reports whether slot rg on date has ended. Only today's slots can
// be past here; earlier dates are left to the caller.
func IsPast(date time.Time, rg timerange.Range, now time.Time) bool {
	if !rg.Valid() {
		return false
	}
	now = now.In(date.Location())
	if !domain.SameDate(date, now) {
		return false
	}
	return domain.SlotEnded(date, rg, now)
}

// ResolveDay annotates every slot of day with availability and occupancy.
// Custom ranges that fall outside the default grid are added as extra slots.
func ResolveDay(day Day, o *domain.ScheduleOverride, bookings []domain.Booking, now time.Time, rules Rules) Day {
	restriction := RestrictionFor(o)
	if o != nil {
		day.NoClasses = o.NoClasses
		day.NoClassesReason = o.Reason
		day.CustomTimeRanges = append([]string(nil), o.CustomTimeRanges...)
	}

	slots := make([]Slot, 0, len(day.Slots))
	seen := make(map[timerange.Range]bool, len(day.Slots))
	for _, s := range day.Slots {
		seen[s.Range] = true
		slots = append(slots, s)
	}
	for _, rg := range restriction.Ranges() {
		if !seen[rg] {
			slots = append(slots, Slot{TimeRange: timerange.Format(rg), Range: rg, GroupOccupants: []Occupant{}})
		}
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Range.Start < slots[j].Range.Start })

	bySlot := make(map[timerange.Range][]domain.Booking)
	for _, b := range bookings {
		if b.Date != day.DateKey || !b.Status.Occupies() {
			continue
		}
		if rg, ok := b.Slot(); ok {
			bySlot[rg] = append(bySlot[rg], b)
		}
	}

	for i := range slots {
		slots[i] = resolveSlot(slots[i], day, restriction, bySlot[slots[i].Range], now, rules)
	}
	day.Slots = slots
	return day
}

func resolveSlot(s Slot, day Day, restriction Restriction, occupants []domain.Booking, now time.Time, rules Rules) Slot {
	s.GroupOccupants = []Occupant{}
	s.PrivateOccupant = nil
	for _, b := range occupants {
		switch b.LessonType {
		case domain.LessonPrivate:
			if s.PrivateOccupant == nil {
				s.PrivateOccupant = &Occupant{Name: b.Name, Email: b.Email}
			}
		case domain.LessonGroup:
			s.GroupOccupants = append(s.GroupOccupants, Occupant{Name: b.Name, Email: b.Email})
		}
	}
	s.GroupSize = len(s.GroupOccupants)
	s.GroupCapacity = rules.GroupCapacity

	s.Available = !day.NoClasses && restriction.Allows(s.Range)
	s.Past = IsPast(day.Date, s.Range, now)
	s.PrivateOpen = rules.Admit(domain.LessonPrivate, "", occupants) == ""
	s.GroupOpen = rules.Admit(domain.LessonGroup, "", occupants) == ""

	switch {
	case !s.Available:
		s.State = SlotUnavailable
	case s.Past:
		s.State = SlotPast
	case !s.PrivateOpen && !s.GroupOpen && s.GroupSize >= rules.GroupCapacity:
		s.State = SlotFull
	case !s.PrivateOpen && !s.GroupOpen:
		s.State = SlotBooked
	default:
		s.State = SlotOpen
	}
	if !s.Available || s.Past {
		s.PrivateOpen = false
		s.GroupOpen = false
	}
	return s
}

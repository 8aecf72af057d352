package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"courtbook/internal/domain"
	"courtbook/internal/pkg/clock"
	"courtbook/internal/pkg/timerange"
)

type Service struct {
	overrides OverrideRepository
	bookings  BookingReader
	coaches   CoachResolver
	clock     clock.Clock
	rules     Rules
	events    Broadcaster
	log       *zap.Logger
}

func NewService(
	overrides OverrideRepository,
	bookings BookingReader,
	coaches CoachResolver,
	clk clock.Clock,
	rules Rules,
	events Broadcaster,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		overrides: overrides,
		bookings:  bookings,
		coaches:   coaches,
		clock:     clk,
		rules:     rules,
		events:    events,
		log:       log,
	}
}

func (s *Service) Rules() Rules {
	return s.rules
}

// MonthView resolves every day of the month against overrides, bookings and
// the current time.
func (s *Service) MonthView(ctx context.Context, year int, month time.Month) ([]Day, error) {
	if month < time.January || month > time.December {
		return nil, ErrInvalidMonth
	}
	days := GenerateMonth(year, month, s.clock.Location())
	from, to := days[0].DateKey, days[len(days)-1].DateKey

	overrides, err := s.overrides.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	bookings, err := s.bookings.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	byDate := make(map[string]*domain.ScheduleOverride, len(overrides))
	for i := range overrides {
		byDate[overrides[i].Date] = &overrides[i]
	}

	now := s.clock.Now()
	for i := range days {
		days[i] = ResolveDay(days[i], byDate[days[i].DateKey], bookings, now, s.rules)
	}
	return days, nil
}

// DayView resolves a single date and attaches its coach.
func (s *Service) DayView(ctx context.Context, date string) (*Day, error) {
	d, err := domain.ParseDate(date, s.clock.Location())
	if err != nil {
		return nil, err
	}
	key := domain.FormatDate(d)

	override, err := s.overrides.GetByDate(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get override: %w", err)
	}
	bookings, err := s.bookings.ListBetween(ctx, key, key)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	day := ResolveDay(NewDay(d), override, bookings, s.clock.Now(), s.rules)
	if s.coaches != nil {
		coach, err := s.coaches.AssignCoachForDate(ctx, key)
		if err != nil {
			s.log.Warn("coach lookup failed", zap.String("date", key), zap.Error(err))
		} else {
			day.Coach = coach
		}
	}
	return &day, nil
}

func (s *Service) GetOverride(ctx context.Context, date string) (*domain.ScheduleOverride, error) {
	d, err := domain.ParseDate(date, s.clock.Location())
	if err != nil {
		return nil, err
	}
	key := domain.FormatDate(d)
	o, err := s.overrides.GetByDate(ctx, key)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return &domain.ScheduleOverride{Date: key, CustomTimeRanges: datatypes.JSONSlice[string]{}}, nil
	}
	return o, nil
}

// SetOverride upserts the date's override. Custom ranges entered by an
// administrator must parse; they are stored in canonical display form.
func (s *Service) SetOverride(ctx context.Context, date string, req SetOverrideRequest) (*domain.ScheduleOverride, error) {
	d, err := domain.ParseDate(date, s.clock.Location())
	if err != nil {
		return nil, err
	}

	set := make(timerange.Set)
	var invalid []string
	for _, text := range req.CustomTimeRanges {
		r, err := timerange.Parse(text)
		if err != nil || !r.Valid() {
			invalid = append(invalid, text)
			continue
		}
		set[r] = struct{}{}
	}
	if len(invalid) > 0 {
		return nil, &RangeError{Invalid: invalid}
	}

	ranges := make(datatypes.JSONSlice[string], 0, len(set))
	for _, r := range set.Sorted() {
		ranges = append(ranges, timerange.Format(r))
	}

	o := &domain.ScheduleOverride{
		Date:             domain.FormatDate(d),
		NoClasses:        req.NoClasses,
		Reason:           strings.TrimSpace(req.Reason),
		CustomTimeRanges: ranges,
	}
	if err := s.overrides.Upsert(ctx, o); err != nil {
		return nil, fmt.Errorf("upsert override: %w", err)
	}

	s.log.Info("schedule override saved",
		zap.String("date", o.Date),
		zap.Bool("no_classes", o.NoClasses),
		zap.Int("custom_ranges", len(o.CustomTimeRanges)),
	)
	if s.events != nil {
		s.events.DayChanged(o.Date)
	}
	return o, nil
}

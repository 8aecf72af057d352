package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"courtbook/internal/config"
	"courtbook/internal/domain"
	"courtbook/internal/modules/notification"
	"courtbook/internal/modules/schedule"
	"courtbook/internal/pkg/clock"
	"courtbook/internal/pkg/timerange"
	"courtbook/internal/repository"
)

const DefaultMaxWeeks = 12

type OutcomeStatus string

const (
	OutcomeBooked  OutcomeStatus = "booked"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Request describes one recurring booking. Payment has been verified by the
// caller and is trusted as given.
type Request struct {
	LessonType       domain.LessonType
	StartDate        string
	TimeRange        string
	WeekCount        int
	Name             string
	Email            string
	UserID           *int64
	PaymentStatus    domain.PaymentStatus
	PaymentReference string
}

type Outcome struct {
	WeekNumber int               `json:"week_number"`
	Date       string            `json:"date"`
	Status     OutcomeStatus     `json:"status"`
	Reason     domain.SkipReason `json:"reason,omitempty"`
	BookingID  int64             `json:"booking_id,omitempty"`
	GroupSize  int               `json:"group_size,omitempty"`
	CoachName  string            `json:"coach_name,omitempty"`
}

type Result struct {
	SeriesID     string            `json:"recurring_series_id,omitempty"`
	LessonType   domain.LessonType `json:"lesson_type"`
	TimeRange    string            `json:"time_range"`
	WeekCount    int               `json:"week_count"`
	SuccessCount int               `json:"success_count"`
	Outcomes     []Outcome         `json:"outcomes"`
	TotalCents   int64             `json:"total_cents"`
	Currency     string            `json:"currency"`
}

// Failed reports the business outcome: nothing was booked.
func (r *Result) Failed() bool {
	return r.SuccessCount == 0
}

// SkipCounts tallies skipped and failed occurrences by reason.
func (r *Result) SkipCounts() map[domain.SkipReason]int {
	out := make(map[domain.SkipReason]int)
	for _, o := range r.Outcomes {
		if o.Status != OutcomeBooked {
			out[o.Reason]++
		}
	}
	return out
}

type EngineConfig struct {
	MaxWeeks int
	Rules    schedule.Rules
	Pricing  config.Pricing
}

type Deps struct {
	Bookings  Repository
	Overrides OverrideReader
	Coaches   CoachDirectory
	Locker    SlotLocker
	Clock     clock.Clock
	Notifier  Notifier
	Events    Broadcaster
}

// Engine books a lesson type on the same slot for consecutive weeks.
type Engine struct {
	Deps
	cfg EngineConfig
	log *zap.Logger
}

func NewEngine(deps Deps, cfg EngineConfig, log *zap.Logger) *Engine {
	if cfg.MaxWeeks < 1 {
		cfg.MaxWeeks = DefaultMaxWeeks
	}
	if cfg.Rules.GroupCapacity < 1 {
		cfg.Rules = schedule.DefaultRules()
	}
	if deps.Locker == nil {
		deps.Locker = NewMemoryLocker()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{Deps: deps, cfg: cfg, log: log}
}

func clampWeeks(n, max int) int {
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

type occurrence struct {
	week    int
	date    time.Time
	key     string
	slot    timerange.Range
	booking *domain.Booking
}

// BookRecurring books req.WeekCount weekly occurrences starting at
// req.StartDate. Input errors are returned before anything is written; each
// occurrence after that succeeds or is skipped on its own.
func (e *Engine) BookRecurring(ctx context.Context, req Request) (*Result, error) {
	lesson, err := domain.ParseLessonType(string(req.LessonType))
	if err != nil {
		return nil, err
	}
	loc := e.Clock.Location()
	start, err := domain.ParseDate(req.StartDate, loc)
	if err != nil {
		return nil, err
	}
	slot, err := timerange.Parse(req.TimeRange)
	if err != nil || !slot.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeRange, req.TimeRange)
	}
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" {
		return nil, ErrInvalidBooker
	}
	payment := req.PaymentStatus
	if payment == "" {
		payment = domain.PaymentUnpaid
	}

	weeks := clampWeeks(req.WeekCount, e.cfg.MaxWeeks)
	res := &Result{
		LessonType: lesson,
		TimeRange:  timerange.Format(slot),
		WeekCount:  weeks,
		Outcomes:   make([]Outcome, 0, weeks),
		Currency:   e.cfg.Pricing.Currency,
	}
	if weeks > 1 {
		res.SeriesID = uuid.NewString()
	}

	now := e.Clock.Now().In(loc)
	today := domain.StartOfDay(now)
	var booked []occurrence

	for week := 0; week < weeks; week++ {
		occ := occurrence{
			week: week,
			date: start.AddDate(0, 0, 7*week),
			slot: slot,
		}
		occ.key = domain.FormatDate(occ.date)

		template := domain.Booking{
			Date:             occ.key,
			TimeRange:        res.TimeRange,
			StartMinute:      slot.Start,
			EndMinute:        slot.End,
			LessonType:       lesson,
			Name:             name,
			Email:            email,
			UserID:           req.UserID,
			PaymentStatus:    payment,
			PaymentReference: req.PaymentReference,
			PriceCents:       e.cfg.Pricing.For(lesson),
			Currency:         e.cfg.Pricing.Currency,
			SeriesID:         res.SeriesID,
			WeekNumber:       week + 1,
			TotalWeeks:       weeks,
			Status:           domain.BookingActive,
		}

		out := e.bookOccurrence(ctx, &occ, template, now, today)
		res.Outcomes = append(res.Outcomes, out)
		if out.Status == OutcomeBooked {
			res.SuccessCount++
			res.TotalCents += occ.booking.PriceCents
			booked = append(booked, occ)
		}
	}

	e.log.Info("recurring booking processed",
		zap.String("series_id", res.SeriesID),
		zap.String("lesson_type", string(lesson)),
		zap.String("start_date", domain.FormatDate(start)),
		zap.String("time_range", res.TimeRange),
		zap.Int("weeks", weeks),
		zap.Int("booked", res.SuccessCount),
	)

	if len(booked) > 0 {
		e.announce(ctx, res, booked)
	}
	return res, nil
}

func (e *Engine) bookOccurrence(ctx context.Context, occ *occurrence, b domain.Booking, now, today time.Time) Outcome {
	out := Outcome{WeekNumber: occ.week + 1, Date: occ.key}
	skip := func(r domain.SkipReason) Outcome {
		out.Status = OutcomeSkipped
		out.Reason = r
		return out
	}
	fail := func(step string, err error) Outcome {
		e.log.Error("occurrence failed",
			zap.String("step", step),
			zap.String("date", occ.key),
			zap.Int("week", occ.week+1),
			zap.Error(err),
		)
		out.Status = OutcomeFailed
		out.Reason = domain.SkipStorageError
		return out
	}

	override, err := e.Overrides.GetByDate(ctx, occ.key)
	if err != nil {
		return fail("override", err)
	}
	if override != nil && override.NoClasses {
		return skip(domain.SkipNoClasses)
	}
	restriction := schedule.RestrictionFor(override)
	if restriction.Configured() {
		if !restriction.Allows(occ.slot) {
			return skip(domain.SkipSlotUnavailable)
		}
	} else if !schedule.InDefaultGrid(occ.slot) {
		return skip(domain.SkipSlotUnavailable)
	}
	if occ.date.Before(today) || schedule.IsPast(occ.date, occ.slot, now) {
		return skip(domain.SkipPast)
	}

	unlock, err := e.Locker.Lock(ctx, SlotKey(occ.key, occ.slot))
	if err != nil {
		return fail("lock", err)
	}
	defer unlock()

	existing, err := e.Bookings.FindForSlot(ctx, occ.key, occ.slot)
	if err != nil {
		return fail("load bookings", err)
	}
	if reason := e.cfg.Rules.Admit(b.LessonType, b.Email, existing); reason != "" {
		return skip(reason)
	}

	if e.Coaches != nil {
		coach, err := e.Coaches.AssignCoachForDate(ctx, occ.key)
		if err != nil {
			e.log.Warn("coach assignment failed, booking unassigned", zap.String("date", occ.key), zap.Error(err))
		} else if coach != nil {
			b.CoachName = coach.CoachName
			if coach.CoachID > 0 {
				id := coach.CoachID
				b.CoachID = &id
			}
		}
	}

	if err := e.Bookings.Create(ctx, &b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return skip(domain.SkipAlreadyBooked)
		}
		return fail("insert", err)
	}
	occ.booking = &b

	out.Status = OutcomeBooked
	out.BookingID = b.ID
	out.CoachName = b.CoachName
	if b.LessonType == domain.LessonGroup {
		out.GroupSize = 1
		for _, x := range existing {
			if x.LessonType == domain.LessonGroup && x.Status.Occupies() {
				out.GroupSize++
			}
		}
	}
	return out
}

// announce hands one confirmation to the notifier and pushes calendar updates.
// Neither may fail the booking.
func (e *Engine) announce(ctx context.Context, res *Result, booked []occurrence) {
	if e.Events != nil {
		for _, o := range booked {
			e.Events.DayChanged(o.key)
		}
	}
	if e.Notifier == nil {
		return
	}

	first := booked[0].booking
	msg := notification.Message{
		Type:           domain.NotifBookingConfirmed,
		RecipientName:  first.Name,
		RecipientEmail: first.Email,
		LessonType:     res.LessonType,
		Date:           first.Date,
		TimeRange:      res.TimeRange,
		SeriesID:       res.SeriesID,
		TotalWeeks:     res.WeekCount,
		TotalCents:     res.TotalCents,
		Currency:       res.Currency,
	}
	if res.WeekCount > 1 {
		msg.Type = domain.NotifSeriesConfirmed
	}
	for _, o := range booked {
		msg.Booked = append(msg.Booked, notification.Occurrence{
			BookingID:  o.booking.ID,
			Date:       o.booking.Date,
			TimeRange:  o.booking.TimeRange,
			WeekNumber: o.booking.WeekNumber,
			CoachName:  o.booking.CoachName,
		})
	}
	for _, o := range res.Outcomes {
		if o.Status != OutcomeBooked {
			msg.Skipped = append(msg.Skipped, notification.Skip{Date: o.Date, WeekNumber: o.WeekNumber, Reason: o.Reason})
		}
	}
	msg.CoachChatIDs = e.coachChats(ctx, booked)

	e.Notifier.Enqueue(msg)
}

func (e *Engine) coachChats(ctx context.Context, booked []occurrence) []int64 {
	if e.Coaches == nil {
		return nil
	}
	ids := make(map[int64]struct{})
	for _, o := range booked {
		if o.booking.CoachID != nil {
			ids[*o.booking.CoachID] = struct{}{}
		}
	}
	sorted := make([]int64, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var chats []int64
	for _, id := range sorted {
		c, err := e.Coaches.GetCoach(ctx, id)
		if err != nil {
			e.log.Warn("coach lookup for notification failed", zap.Int64("coach_id", id), zap.Error(err))
			continue
		}
		if c.TelegramChatID != 0 {
			chats = append(chats, c.TelegramChatID)
		}
	}
	return chats
}

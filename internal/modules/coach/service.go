package coach

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"courtbook/internal/domain"
	"courtbook/internal/repository"
)

type Service struct {
	repo   Repository
	loc    *time.Location
	events Broadcaster
	log    *zap.Logger
}

func NewService(repo Repository, loc *time.Location, events Broadcaster, log *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, loc: loc, events: events, log: log}
}

func (s *Service) CreateCoach(ctx context.Context, req CreateCoachRequest) (*domain.Coach, error) {
	c := &domain.Coach{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		TelegramChatID: req.TelegramChatID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create coach: %w", err)
	}
	return c, nil
}

func (s *Service) GetCoach(ctx context.Context, id int64) (*domain.Coach, error) {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCoachNotFound
	}
	return c, err
}

// ListWeekly returns every coach with the weekdays they hold.
func (s *Service) ListWeekly(ctx context.Context) ([]domain.CoachWeeklyAvailability, error) {
	coaches, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	claims, err := s.repo.Claims(ctx)
	if err != nil {
		return nil, err
	}

	days := make(map[int64][]int, len(coaches))
	for _, cl := range claims {
		days[cl.CoachID] = append(days[cl.CoachID], cl.Weekday)
	}
	out := make([]domain.CoachWeeklyAvailability, 0, len(coaches))
	for _, c := range coaches {
		wd := days[c.ID]
		if wd == nil {
			wd = []int{}
		}
		out = append(out, domain.CoachWeeklyAvailability{CoachID: c.ID, CoachName: c.Name, Weekdays: wd})
	}
	return out, nil
}

func (s *Service) GetWeekly(ctx context.Context, coachID int64) (*domain.CoachWeeklyAvailability, error) {
	c, err := s.GetCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	days, err := s.repo.WeekdaysOf(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if days == nil {
		days = []int{}
	}
	return &domain.CoachWeeklyAvailability{CoachID: c.ID, CoachName: c.Name, Weekdays: days}, nil
}

// SetWeeklyAvailability replaces the coach's weekday set. Nothing is written
// when any requested weekday belongs to another coach.
func (s *Service) SetWeeklyAvailability(ctx context.Context, coachID int64, weekdays []int) (*domain.CoachWeeklyAvailability, error) {
	set := make(map[int]struct{}, len(weekdays))
	for _, d := range weekdays {
		if d < 0 || d > 6 {
			return nil, ErrInvalidWeekday
		}
		set[d] = struct{}{}
	}
	days := make([]int, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Ints(days)

	c, err := s.GetCoach(ctx, coachID)
	if err != nil {
		return nil, err
	}

	claims, err := s.repo.Claims(ctx)
	if err != nil {
		return nil, fmt.Errorf("load claims: %w", err)
	}
	var conflicts []WeekdayConflict
	for _, cl := range claims {
		if cl.CoachID == coachID {
			continue
		}
		if _, ok := set[cl.Weekday]; !ok {
			continue
		}
		wc := WeekdayConflict{Weekday: cl.Weekday, CoachID: cl.CoachID}
		if cl.Coach != nil {
			wc.CoachName = cl.Coach.Name
		}
		conflicts = append(conflicts, wc)
	}
	if len(conflicts) > 0 {
		return nil, &ClaimError{Conflicts: conflicts}
	}

	if err := s.repo.ReplaceWeekdays(ctx, coachID, days); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with another coach between the check and the write.
			return nil, ErrWeekdayClaimed
		}
		return nil, fmt.Errorf("replace weekdays: %w", err)
	}

	s.log.Info("weekly availability replaced", zap.Int64("coach_id", coachID), zap.Ints("weekdays", days))
	return &domain.CoachWeeklyAvailability{CoachID: c.ID, CoachName: c.Name, Weekdays: days}, nil
}

// SetDateAvailability stores the per-date fallback coach. An empty request
// clears it.
func (s *Service) SetDateAvailability(ctx context.Context, date string, req SetDateRequest) (*domain.CoachDateAvailability, error) {
	d, err := domain.ParseDate(date, s.loc)
	if err != nil {
		return nil, err
	}
	key := domain.FormatDate(d)

	a := &domain.CoachDateAvailability{Date: key, CoachName: strings.TrimSpace(req.CoachName)}
	if req.CoachID != nil && *req.CoachID > 0 {
		c, err := s.GetCoach(ctx, *req.CoachID)
		if err != nil {
			return nil, err
		}
		id := c.ID
		a.CoachID = &id
		a.CoachName = c.Name
	}

	if a.CoachID == nil && a.CoachName == "" {
		if err := s.repo.DeleteDateAvailability(ctx, key); err != nil {
			return nil, fmt.Errorf("clear date availability: %w", err)
		}
	} else if err := s.repo.UpsertDateAvailability(ctx, a); err != nil {
		return nil, fmt.Errorf("save date availability: %w", err)
	}

	if s.events != nil {
		s.events.DayChanged(key)
	}
	return a, nil
}

// AssignCoachForDate resolves the responsible coach: the weekly claim for the
// date's weekday wins, then the per-date entry. Nil means unassigned.
func (s *Service) AssignCoachForDate(ctx context.Context, date string) (*domain.CoachAssignment, error) {
	d, err := domain.ParseDate(date, s.loc)
	if err != nil {
		return nil, err
	}

	weekly, err := s.repo.CoachForWeekday(ctx, domain.WeekdayIndex(d))
	if err != nil {
		return nil, fmt.Errorf("weekly lookup: %w", err)
	}
	if weekly != nil {
		return &domain.CoachAssignment{CoachID: weekly.ID, CoachName: weekly.Name}, nil
	}

	byDate, err := s.repo.DateAvailability(ctx, domain.FormatDate(d))
	if err != nil {
		return nil, fmt.Errorf("date lookup: %w", err)
	}
	if byDate == nil {
		return nil, nil
	}

	if byDate.CoachID != nil {
		c, err := s.repo.GetByID(ctx, *byDate.CoachID)
		switch {
		case err == nil:
			return &domain.CoachAssignment{CoachID: c.ID, CoachName: c.Name}, nil
		case !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("coach lookup: %w", err)
		}
	}
	if byDate.CoachName != "" {
		return &domain.CoachAssignment{CoachName: byDate.CoachName}, nil
	}
	return nil, nil
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"courtbook/internal/domain"
	"courtbook/internal/modules/notification"
	"courtbook/internal/pkg/clock"
	"courtbook/internal/repository"
)

// Actor is who asks for a change.
type Actor struct {
	Role    domain.UserRole
	CoachID int64
}

type Service struct {
	repo     Repository
	clock    clock.Clock
	notifier Notifier
	events   Broadcaster
	log      *zap.Logger
}

func NewService(repo Repository, clk clock.Clock, notifier Notifier, events Broadcaster, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, clock: clk, notifier: notifier, events: events, log: log}
}

// ListMine returns the customer's bookings with done transitions applied and
// persisted.
func (s *Service) ListMine(ctx context.Context, userID *int64, email string) ([]domain.Booking, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if userID == nil && email == "" {
		return []domain.Booking{}, nil
	}
	list, err := s.repo.ListForCustomer(ctx, userID, email)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	now, loc := s.clock.Now(), s.clock.Location()
	var done []int64
	for i := range list {
		var changed bool
		if list[i], changed = ReconcileStatus(list[i], now, loc); changed {
			done = append(done, list[i].ID)
		}
	}
	if len(done) > 0 {
		if _, err := s.repo.MarkDone(ctx, done); err != nil {
			s.log.Warn("persisting done status failed", zap.Int("count", len(done)), zap.Error(err))
		}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	reconciled, _ := ReconcileStatus(*b, s.clock.Now(), s.clock.Location())
	return &reconciled, nil
}

// Cancel is allowed to admins and to the coach the booking is assigned to.
// Only bookings that are still active can be cancelled.
func (s *Service) Cancel(ctx context.Context, id int64, actor Actor, reason string) (*domain.Booking, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleCoach:
		if b.CoachID == nil || actor.CoachID == 0 || *b.CoachID != actor.CoachID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	if b.Status != domain.BookingActive {
		return nil, ErrInvalidStatusTransition
	}

	now := s.clock.Now()
	reason = strings.TrimSpace(reason)
	if err := s.repo.Cancel(ctx, id, reason, now); err != nil {
		if errors.Is(err, repository.ErrStateConflict) {
			return nil, ErrInvalidStatusTransition
		}
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	b.Status = domain.BookingCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now

	s.log.Info("booking cancelled",
		zap.Int64("booking_id", id),
		zap.String("by", string(actor.Role)),
		zap.String("date", b.Date),
	)
	if s.events != nil {
		s.events.DayChanged(b.Date)
	}
	if s.notifier != nil {
		s.notifier.Enqueue(notification.Message{
			Type:           domain.NotifBookingCancelled,
			RecipientName:  b.Name,
			RecipientEmail: b.Email,
			LessonType:     b.LessonType,
			Date:           b.Date,
			TimeRange:      b.TimeRange,
			SeriesID:       b.SeriesID,
			Reason:         reason,
		})
	}
	return b, nil
}

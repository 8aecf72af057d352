package booking

import (
	"context"
	"time"

	"courtbook/internal/domain"
	"courtbook/internal/modules/notification"
	"courtbook/internal/pkg/timerange"
)

type Repository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	FindForSlot(ctx context.Context, date string, slot timerange.Range) ([]domain.Booking, error)
	ListForCustomer(ctx context.Context, userID *int64, email string) ([]domain.Booking, error)
	ListActiveThrough(ctx context.Context, date string) ([]domain.Booking, error)
	MarkDone(ctx context.Context, ids []int64) (int64, error)
	Cancel(ctx context.Context, id int64, reason string, at time.Time) error
}

type OverrideReader interface {
	GetByDate(ctx context.Context, date string) (*domain.ScheduleOverride, error)
}

// CoachDirectory resolves the coach of a date and looks coaches up by id.
type CoachDirectory interface {
	AssignCoachForDate(ctx context.Context, date string) (*domain.CoachAssignment, error)
	GetCoach(ctx context.Context, id int64) (*domain.Coach, error)
}

type Notifier interface {
	Enqueue(m notification.Message) bool
}

type Broadcaster interface {
	DayChanged(date string)
}

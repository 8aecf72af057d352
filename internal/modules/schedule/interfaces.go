package schedule

import (
	"context"

	"courtbook/internal/domain"
)

type OverrideRepository interface {
	GetByDate(ctx context.Context, date string) (*domain.ScheduleOverride, error)
	ListBetween(ctx context.Context, from, to string) ([]domain.ScheduleOverride, error)
	Upsert(ctx context.Context, o *domain.ScheduleOverride) error
}

type BookingReader interface {
	ListBetween(ctx context.Context, from, to string) ([]domain.Booking, error)
}

// CoachResolver attaches the responsible coach to day views.
type CoachResolver interface {
	AssignCoachForDate(ctx context.Context, date string) (*domain.CoachAssignment, error)
}

// Broadcaster is told about every date whose availability changed.
type Broadcaster interface {
	DayChanged(date string)
}

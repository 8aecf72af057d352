package coach

import (
	"context"

	"courtbook/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, c *domain.Coach) error
	GetByID(ctx context.Context, id int64) (*domain.Coach, error)
	List(ctx context.Context) ([]domain.Coach, error)

	Claims(ctx context.Context) ([]domain.CoachWeekday, error)
	CoachForWeekday(ctx context.Context, weekday int) (*domain.Coach, error)
	WeekdaysOf(ctx context.Context, coachID int64) ([]int, error)
	ReplaceWeekdays(ctx context.Context, coachID int64, weekdays []int) error

	DateAvailability(ctx context.Context, date string) (*domain.CoachDateAvailability, error)
	UpsertDateAvailability(ctx context.Context, a *domain.CoachDateAvailability) error
	DeleteDateAvailability(ctx context.Context, date string) error
}

type Broadcaster interface {
	DayChanged(date string)
}

package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"courtbook/internal/domain"
	"courtbook/internal/pkg/clock"
)

type sweepRepository interface {
	ListActiveThrough(ctx context.Context, date string) ([]domain.Booking, error)
	MarkDone(ctx context.Context, ids []int64) (int64, error)
}

// Sweeper persists done transitions in the background so reports do not
// depend on someone reading the booking first.
type Sweeper struct {
	repo     sweepRepository
	clock    clock.Clock
	interval time.Duration
	log      *zap.Logger
}

func NewSweeper(repo sweepRepository, clk clock.Clock, interval time.Duration, log *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{repo: repo, clock: clk, interval: interval, log: log}
}

// RunOnce marks every ended active booking done and returns how many changed.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	now := s.clock.Now()
	loc := s.clock.Location()

	active, err := s.repo.ListActiveThrough(ctx, domain.FormatDate(now.In(loc)))
	if err != nil {
		return 0, fmt.Errorf("list active bookings: %w", err)
	}

	var ids []int64
	for _, b := range active {
		if _, changed := ReconcileStatus(b, now, loc); changed {
			ids = append(ids, b.ID)
		}
	}
	n, err := s.repo.MarkDone(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("mark done: %w", err)
	}
	return n, nil
}

// Run sweeps immediately and then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	s.log.Info("status sweeper started", zap.Duration("interval", s.interval))
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			s.log.Info("status sweeper stopped")
			return nil
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	n, err := s.RunOnce(ctx)
	if err != nil {
		s.log.Error("status sweep failed", zap.Error(err))
		return
	}
	s.log.Info("status sweep completed", zap.Int64("done", n), zap.Duration("took", time.Since(start)))
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"courtbook/internal/domain"
)

type CoachRepository struct {
	db *gorm.DB
}

func NewCoachRepository(db *gorm.DB) *CoachRepository {
	return &CoachRepository{db: db}
}

func (r *CoachRepository) Create(ctx context.Context, c *domain.Coach) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *CoachRepository) GetByID(ctx context.Context, id int64) (*domain.Coach, error) {
	var c domain.Coach
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *CoachRepository) List(ctx context.Context) ([]domain.Coach, error) {
	var out []domain.Coach
	err := r.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

// Claims returns every weekday claim with its coach loaded.
func (r *CoachRepository) Claims(ctx context.Context) ([]domain.CoachWeekday, error) {
	var out []domain.CoachWeekday
	err := r.db.WithContext(ctx).Preload("Coach").Order("weekday").Find(&out).Error
	return out, err
}

// CoachForWeekday returns nil without error when nobody claims weekday.
func (r *CoachRepository) CoachForWeekday(ctx context.Context, weekday int) (*domain.Coach, error) {
	var claim domain.CoachWeekday
	err := r.db.WithContext(ctx).Preload("Coach").Where("weekday = ?", weekday).First(&claim).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return claim.Coach, nil
}

func (r *CoachRepository) WeekdaysOf(ctx context.Context, coachID int64) ([]int, error) {
	var days []int
	err := r.db.WithContext(ctx).
		Model(&domain.CoachWeekday{}).
		Where("coach_id = ?", coachID).
		Order("weekday").
		Pluck("weekday", &days).Error
	return days, err
}

// ReplaceWeekdays swaps the coach's claims in one transaction. A weekday
// already held by another coach fails with ErrDuplicate.
func (r *CoachRepository) ReplaceWeekdays(ctx context.Context, coachID int64, weekdays []int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("coach_id = ?", coachID).Delete(&domain.CoachWeekday{}).Error; err != nil {
			return err
		}
		if len(weekdays) == 0 {
			return nil
		}
		rows := make([]domain.CoachWeekday, 0, len(weekdays))
		for _, d := range weekdays {
			rows = append(rows, domain.CoachWeekday{CoachID: coachID, Weekday: d})
		}
		if err := tx.Create(&rows).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

// DateAvailability returns nil without error when the date has no entry.
func (r *CoachRepository) DateAvailability(ctx context.Context, date string) (*domain.CoachDateAvailability, error) {
	var a domain.CoachDateAvailability
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *CoachRepository) UpsertDateAvailability(ctx context.Context, a *domain.CoachDateAvailability) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"coach_id", "coach_name", "updated_at"}),
	}).Create(a).Error
}

func (r *CoachRepository) DeleteDateAvailability(ctx context.Context, date string) error {
	return r.db.WithContext(ctx).Where("date = ?", date).Delete(&domain.CoachDateAvailability{}).Error
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"courtbook/internal/domain"
)

type OverrideRepository struct {
	db *gorm.DB
}

func NewOverrideRepository(db *gorm.DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

// GetByDate returns nil without error when the date has no override.
func (r *OverrideRepository) GetByDate(ctx context.Context, date string) (*domain.ScheduleOverride, error) {
	var o domain.ScheduleOverride
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OverrideRepository) ListBetween(ctx context.Context, from, to string) ([]domain.ScheduleOverride, error) {
	var out []domain.ScheduleOverride
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date").
		Find(&out).Error
	return out, err
}

// Upsert keeps a single row per date.
func (r *OverrideRepository) Upsert(ctx context.Context, o *domain.ScheduleOverride) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"no_classes", "reason", "custom_time_ranges", "updated_at"}),
	}).Create(o).Error
}

func (r *OverrideRepository) Delete(ctx context.Context, date string) error {
	return r.db.WithContext(ctx).Where("date = ?", date).Delete(&domain.ScheduleOverride{}).Error
}

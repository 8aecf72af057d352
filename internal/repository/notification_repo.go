package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"courtbook/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ?", id).
		Update("sent_at", at).Error
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipient string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []domain.Notification
	err := r.db.WithContext(ctx).
		Where("recipient = ?", recipient).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeleteOlderThan removes delivered notifications older than age.
func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("sent_at IS NOT NULL AND created_at < ?", time.Now().Add(-age)).
		Delete(&domain.Notification{})
	return tx.RowsAffected, tx.Error
}

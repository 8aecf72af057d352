package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"courtbook/internal/domain"
	"courtbook/internal/pkg/timerange"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts b. A second active private booking on the same slot-date
// trips the partial unique index and comes back as ErrDuplicate.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// FindForSlot returns the seat-holding bookings of one slot-date.
func (r *BookingRepository) FindForSlot(ctx context.Context, date string, slot timerange.Range) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("date = ? AND start_minute = ? AND end_minute = ?", date, slot.Start, slot.End).
		Where("status <> ?", domain.BookingCancelled).
		Order("id").
		Find(&out).Error
	return out, err
}

// ListBetween returns seat-holding bookings whose date lies in [from, to].
func (r *BookingRepository) ListBetween(ctx context.Context, from, to string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Where("status <> ?", domain.BookingCancelled).
		Order("date, start_minute, id").
		Find(&out).Error
	return out, err
}

// ListForCustomer matches on the account id when known and on email otherwise.
func (r *BookingRepository) ListForCustomer(ctx context.Context, userID *int64, email string) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx)
	switch {
	case userID != nil && email != "":
		q = q.Where("user_id = ? OR email = ?", *userID, email)
	case userID != nil:
		q = q.Where("user_id = ?", *userID)
	default:
		q = q.Where("email = ?", email)
	}
	var out []domain.Booking
	err := q.Order("date, start_minute, id").Find(&out).Error
	return out, err
}

func (r *BookingRepository) ListBySeries(ctx context.Context, seriesID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("series_id = ?", seriesID).
		Order("week_number").
		Find(&out).Error
	return out, err
}

// ListActiveThrough returns active bookings dated on or before date.
func (r *BookingRepository) ListActiveThrough(ctx context.Context, date string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND date <= ?", domain.BookingActive, date).
		Order("date, start_minute").
		Find(&out).Error
	return out, err
}

// MarkDone moves the given bookings from active to done and reports how many
// rows changed.
func (r *BookingRepository) MarkDone(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id IN ? AND status = ?", ids, domain.BookingActive).
		Update("status", domain.BookingDone)
	return tx.RowsAffected, tx.Error
}

func (r *BookingRepository) Cancel(ctx context.Context, id int64, reason string, at time.Time) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, domain.BookingActive).
		Updates(map[string]any{
			"status":              domain.BookingCancelled,
			"cancellation_reason": reason,
			"cancelled_at":        at,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStateConflict
	}
	return nil
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Update("payment_status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

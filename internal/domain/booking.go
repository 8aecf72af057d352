package domain

import (
	"errors"
	"strings"
	"time"

	"courtbook/internal/pkg/timerange"
)

var (
	ErrInvalidLessonType    = errors.New("invalid lesson type")
	ErrInvalidBookingStatus = errors.New("invalid booking status")
)

type LessonType string

const (
	LessonPrivate LessonType = "private"
	LessonGroup   LessonType = "group"
)

func ParseLessonType(s string) (LessonType, error) {
	switch LessonType(strings.ToLower(strings.TrimSpace(s))) {
	case LessonPrivate:
		return LessonPrivate, nil
	case LessonGroup:
		return LessonGroup, nil
	default:
		return "", ErrInvalidLessonType
	}
}

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
	BookingDone      BookingStatus = "done"
)

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingActive, BookingCancelled, BookingDone:
		return BookingStatus(s), nil
	default:
		return "", ErrInvalidBookingStatus
	}
}

// Occupies reports whether a booking in this status holds its seat.
func (s BookingStatus) Occupies() bool {
	switch s {
	case BookingActive, BookingDone:
		return true
	case BookingCancelled:
		return false
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// SkipReason explains why one occurrence of a series was not booked.
type SkipReason string

const (
	SkipNoClasses       SkipReason = "no_classes"
	SkipSlotUnavailable SkipReason = "slot_unavailable"
	SkipPast            SkipReason = "past"
	SkipAlreadyBooked   SkipReason = "already_booked"
	SkipGroupFull       SkipReason = "group_full"
	SkipStorageError    SkipReason = "storage_error"
)

// ExclusionPolicy decides whether private and group lessons may share a slot.
type ExclusionPolicy string

const (
	// ExclusionExclusive: a private booking blocks group bookings on the
	// same slot-date and any group booking blocks a private one.
	ExclusionExclusive ExclusionPolicy = "exclusive"
	// ExclusionIndependent: private (capacity 1) and group capacities are
	// counted separately.
	ExclusionIndependent ExclusionPolicy = "independent"
)

func ParseExclusionPolicy(s string) (ExclusionPolicy, error) {
	switch ExclusionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case ExclusionExclusive:
		return ExclusionExclusive, nil
	case ExclusionIndependent:
		return ExclusionIndependent, nil
	default:
		return "", errors.New("invalid exclusion policy")
	}
}

// Booking is one occupied slot occurrence. Date is stored as DateLayout text
// and the slot as canonical minutes next to its display text.
type Booking struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Date        string     `json:"date" gorm:"type:varchar(10);not null;index:idx_bookings_slot,priority:1;uniqueIndex:uniq_active_private_slot,priority:1,where:lesson_type = 'private' AND status = 'active'"`
	TimeRange   string     `json:"time_range" gorm:"type:varchar(32);not null"`
	StartMinute int        `json:"start_minute" gorm:"not null;index:idx_bookings_slot,priority:2;uniqueIndex:uniq_active_private_slot,priority:2"`
	EndMinute   int        `json:"end_minute" gorm:"not null;index:idx_bookings_slot,priority:3;uniqueIndex:uniq_active_private_slot,priority:3"`
	LessonType  LessonType `json:"lesson_type" gorm:"type:varchar(16);not null"`

	Name   string `json:"name" gorm:"not null"`
	Email  string `json:"email" gorm:"not null;index"`
	UserID *int64 `json:"user_id,omitempty" gorm:"index"`

	CoachID   *int64 `json:"coach_id,omitempty" gorm:"index"`
	CoachName string `json:"coach_name,omitempty"`

	PaymentStatus    PaymentStatus `json:"payment_status" gorm:"type:varchar(16);not null;default:'unpaid'"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	PriceCents       int64         `json:"price_cents"`
	Currency         string        `json:"currency" gorm:"type:varchar(3)"`

	SeriesID   string `json:"recurring_series_id,omitempty" gorm:"type:varchar(36);index"`
	WeekNumber int    `json:"week_number"`
	TotalWeeks int    `json:"total_weeks"`

	Status             BookingStatus `json:"status" gorm:"type:varchar(16);not null;default:'active';index"`
	CancellationReason string        `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }

// Slot returns the canonical minute range. Rows written before minutes were
// stored fall back to parsing the display text.
func (b Booking) Slot() (timerange.Range, bool) {
	r := timerange.Range{Start: b.StartMinute, End: b.EndMinute}
	if r.Valid() {
		return r, true
	}
	parsed, err := timerange.Parse(b.TimeRange)
	if err != nil || !parsed.Valid() {
		return timerange.Range{}, false
	}
	return parsed, true
}

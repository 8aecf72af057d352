package booking

import (
	"time"

	"courtbook/internal/domain"
)

// ReconcileStatus moves an active booking to done once its slot has ended.
// It is pure and idempotent; bookings whose date or slot cannot be parsed
// are left alone.
func ReconcileStatus(b domain.Booking, now time.Time, loc *time.Location) (domain.Booking, bool) {
	if b.Status != domain.BookingActive {
		return b, false
	}
	slot, ok := b.Slot()
	if !ok {
		return b, false
	}
	date, err := domain.ParseDate(b.Date, loc)
	if err != nil {
		return b, false
	}
	if !domain.SlotEnded(date, slot, now) {
		return b, false
	}
	b.Status = domain.BookingDone
	return b, true
}

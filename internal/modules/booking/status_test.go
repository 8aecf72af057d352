package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"courtbook/internal/domain"
)

func TestReconcileStatus(t *testing.T) {
	loc := time.UTC
	base := domain.Booking{
		Date:        "2026-03-02",
		TimeRange:   "9:00 AM - 10:00 AM",
		StartMinute: 540,
		EndMinute:   600,
		Status:      domain.BookingActive,
	}

	cases := []struct {
		name    string
		mutate  func(b *domain.Booking)
		now     time.Time
		status  domain.BookingStatus
		changed bool
	}{
		{"before end", nil, time.Date(2026, 3, 2, 9, 59, 0, 0, loc), domain.BookingActive, false},
		{"at end", nil, time.Date(2026, 3, 2, 10, 0, 0, 0, loc), domain.BookingDone, true},
		{"next day", nil, time.Date(2026, 3, 3, 0, 0, 0, 0, loc), domain.BookingDone, true},
		{"cancelled stays", func(b *domain.Booking) { b.Status = domain.BookingCancelled }, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), domain.BookingCancelled, false},
		{"done stays", func(b *domain.Booking) { b.Status = domain.BookingDone }, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), domain.BookingDone, false},
		{"text fallback", func(b *domain.Booking) { b.StartMinute, b.EndMinute = 0, 0 }, time.Date(2026, 3, 2, 11, 0, 0, 0, loc), domain.BookingDone, true},
		{"unparseable date", func(b *domain.Booking) { b.Date = "soon" }, time.Date(2027, 1, 1, 0, 0, 0, 0, loc), domain.BookingActive, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := base
			if tc.mutate != nil {
				tc.mutate(&b)
			}
			got, changed := ReconcileStatus(b, tc.now, loc)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.changed, changed)

			again, changedAgain := ReconcileStatus(got, tc.now, loc)
			assert.Equal(t, got.Status, again.Status)
			assert.False(t, changedAgain)
		})
	}
}

package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/internal/domain"
)

func TestMigrateSQLiteCreatesTables(t *testing.T) {
	db, err := Connect("file:database_test?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db, nil))

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasIndex(&domain.Booking{}, "uniq_active_private_slot"))
}

func TestPartialIndexAllowsCancelledDuplicates(t *testing.T) {
	db, err := Connect("file:database_partial_test?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	b := func(status domain.BookingStatus) *domain.Booking {
		return &domain.Booking{
			Date: "2025-06-02", TimeRange: "9:00 AM - 10:00 AM",
			StartMinute: 540, EndMinute: 600, LessonType: domain.LessonPrivate,
			Name: "A", Email: "a@example.com", Status: status,
			PaymentStatus: domain.PaymentUnpaid,
		}
	}

	require.NoError(t, db.Create(b(domain.BookingCancelled)).Error)
	require.NoError(t, db.Create(b(domain.BookingActive)).Error)
	assert.Error(t, db.Create(b(domain.BookingActive)).Error)
}

package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courtbook/internal/database"
	"courtbook/internal/domain"
	"courtbook/internal/pkg/clock"
	"courtbook/internal/repository"
)

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) DayChanged(date string) {
	m.Called(date)
}

type stubCoaches struct {
	assignment *domain.CoachAssignment
}

func (s stubCoaches) AssignCoachForDate(context.Context, string) (*domain.CoachAssignment, error) {
	return s.assignment, nil
}

type fixture struct {
	svc      *Service
	bookings *repository.BookingRepository
	events   *mockBroadcaster
}

func setup(t *testing.T, now time.Time) fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:schedule_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	events := &mockBroadcaster{}
	bookings := repository.NewBookingRepository(db)
	svc := NewService(
		repository.NewOverrideRepository(db),
		bookings,
		stubCoaches{assignment: &domain.CoachAssignment{CoachID: 1, CoachName: "Ann"}},
		clock.Fixed{At: now},
		DefaultRules(),
		events,
		nil,
	)
	return fixture{svc: svc, bookings: bookings, events: events}
}

func TestSetOverrideStoresCanonicalRanges(t *testing.T) {
	f := setup(t, june(1, 8, 0))
	f.events.On("DayChanged", "2025-06-02").Return().Once()

	o, err := f.svc.SetOverride(context.Background(), "2025-06-02", SetOverrideRequest{
		CustomTimeRanges: []string{"14:00-15:00", "9 AM - 10 AM", "09:00 - 10:00"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"9:00 AM - 10:00 AM", "2:00 PM - 3:00 PM"}, []string(o.CustomTimeRanges))
	f.events.AssertExpectations(t)

	stored, err := f.svc.GetOverride(context.Background(), "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, o.CustomTimeRanges, stored.CustomTimeRanges)
}

func TestSetOverrideRejectsBadRanges(t *testing.T) {
	f := setup(t, june(1, 8, 0))

	_, err := f.svc.SetOverride(context.Background(), "2025-06-02", SetOverrideRequest{
		CustomTimeRanges: []string{"9 AM - 10 AM", "lunch"},
	})
	var rangeErr *RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
	assert.Equal(t, []string{"lunch"}, rangeErr.Invalid)
	f.events.AssertNotCalled(t, "DayChanged", mock.Anything)

	_, err = f.svc.SetOverride(context.Background(), "06/02/2025", SetOverrideRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestGetOverrideMissingIsEmpty(t *testing.T) {
	f := setup(t, june(1, 8, 0))

	o, err := f.svc.GetOverride(context.Background(), "2025-06-05")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-05", o.Date)
	assert.False(t, o.NoClasses)
	assert.Empty(t, o.CustomTimeRanges)
}

func TestMonthViewAppliesOverridesAndBookings(t *testing.T) {
	f := setup(t, june(1, 8, 0))
	ctx := context.Background()
	f.events.On("DayChanged", mock.Anything).Return()

	_, err := f.svc.SetOverride(ctx, "2025-06-10", SetOverrideRequest{NoClasses: true, Reason: "maintenance"})
	require.NoError(t, err)
	b := booking("2025-06-02", nineToTen, domain.LessonPrivate, "p@example.com")
	require.NoError(t, f.bookings.Create(ctx, &b))

	days, err := f.svc.MonthView(ctx, 2025, time.June)
	require.NoError(t, err)
	require.Len(t, days, 30)

	assert.Equal(t, SlotBooked, days[1].Slots[0].State)
	assert.True(t, days[9].NoClasses)
	assert.Equal(t, "maintenance", days[9].NoClassesReason)
	for _, s := range days[9].Slots {
		assert.False(t, s.Available)
	}

	_, err = f.svc.MonthView(ctx, 2025, time.Month(13))
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestDayViewAttachesCoach(t *testing.T) {
	f := setup(t, june(2, 18, 0))

	day, err := f.svc.DayView(context.Background(), "2025-06-02")
	require.NoError(t, err)
	require.NotNil(t, day.Coach)
	assert.Equal(t, "Ann", day.Coach.CoachName)
	assert.True(t, day.Slots[0].Past)
	assert.False(t, day.Slots[11].Past)
}

package coach

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/internal/database"
	"courtbook/internal/domain"
	"courtbook/internal/repository"
)

type recorder struct {
	dates []string
}

func (r *recorder) DayChanged(date string) {
	r.dates = append(r.dates, date)
}

func setupService(t *testing.T) (*Service, *repository.CoachRepository, *recorder) {
	t.Helper()
	dsn := fmt.Sprintf("file:coach_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	repo := repository.NewCoachRepository(db)
	events := &recorder{}
	return NewService(repo, time.UTC, events, nil), repo, events
}

func newCoach(t *testing.T, svc *Service, name string) *domain.Coach {
	t.Helper()
	c, err := svc.CreateCoach(context.Background(), CreateCoachRequest{Name: name})
	require.NoError(t, err)
	return c
}

func TestSetWeeklyAvailabilityRejectsClaimedWeekday(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	ann := newCoach(t, svc, "Ann")
	bob := newCoach(t, svc, "Bob")

	got, err := svc.SetWeeklyAvailability(ctx, ann.ID, []int{2, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got.Weekdays)

	_, err = svc.SetWeeklyAvailability(ctx, bob.ID, []int{1, 2})
	var claimErr *ClaimError
	require.ErrorAs(t, err, &claimErr)
	assert.ErrorIs(t, err, ErrWeekdayClaimed)
	assert.Equal(t, []WeekdayConflict{{Weekday: 2, CoachID: ann.ID, CoachName: "Ann"}}, claimErr.Conflicts)

	// Neither coach changed.
	bobWeekly, err := svc.GetWeekly(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobWeekly.Weekdays)
	annWeekly, err := svc.GetWeekly(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, annWeekly.Weekdays)
}

func TestSetWeeklyAvailabilityReplacesWholesale(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	ann := newCoach(t, svc, "Ann")
	bob := newCoach(t, svc, "Bob")

	_, err := svc.SetWeeklyAvailability(ctx, ann.ID, []int{0, 1})
	require.NoError(t, err)
	_, err = svc.SetWeeklyAvailability(ctx, ann.ID, []int{3})
	require.NoError(t, err)

	_, err = svc.SetWeeklyAvailability(ctx, bob.ID, []int{0, 1})
	require.NoError(t, err)

	list, err := svc.ListWeekly(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []int{3}, list[0].Weekdays)
	assert.Equal(t, []int{0, 1}, list[1].Weekdays)
}

func TestSetWeeklyAvailabilityValidation(t *testing.T) {
	svc, _, _ := setupService(t)
	ann := newCoach(t, svc, "Ann")

	_, err := svc.SetWeeklyAvailability(context.Background(), ann.ID, []int{7})
	assert.ErrorIs(t, err, ErrInvalidWeekday)

	_, err = svc.SetWeeklyAvailability(context.Background(), 999, []int{1})
	assert.ErrorIs(t, err, ErrCoachNotFound)
}

func TestAssignCoachForDateOrder(t *testing.T) {
	svc, repo, events := setupService(t)
	ctx := context.Background()
	ann := newCoach(t, svc, "Ann")
	bob := newCoach(t, svc, "Bob")

	// 2025-06-02 is a Monday (weekday 0).
	_, err := svc.SetWeeklyAvailability(ctx, ann.ID, []int{0})
	require.NoError(t, err)
	_, err = svc.SetDateAvailability(ctx, "2025-06-02", SetDateRequest{CoachID: &bob.ID})
	require.NoError(t, err)

	a, err := svc.AssignCoachForDate(ctx, "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, &domain.CoachAssignment{CoachID: ann.ID, CoachName: "Ann"}, a)

	// Tuesday has no weekly claim, so the per-date entry applies.
	_, err = svc.SetDateAvailability(ctx, "2025-06-03", SetDateRequest{CoachID: &bob.ID})
	require.NoError(t, err)
	a, err = svc.AssignCoachForDate(ctx, "2025-06-03")
	require.NoError(t, err)
	assert.Equal(t, &domain.CoachAssignment{CoachID: bob.ID, CoachName: "Bob"}, a)

	// Embedded name only.
	require.NoError(t, repo.UpsertDateAvailability(ctx, &domain.CoachDateAvailability{Date: "2025-06-04", CoachName: "Guest"}))
	a, err = svc.AssignCoachForDate(ctx, "2025-06-04")
	require.NoError(t, err)
	assert.Equal(t, &domain.CoachAssignment{CoachName: "Guest"}, a)

	// Dangling id falls back to the embedded name.
	ghost := int64(404)
	require.NoError(t, repo.UpsertDateAvailability(ctx, &domain.CoachDateAvailability{Date: "2025-06-05", CoachID: &ghost, CoachName: "Former"}))
	a, err = svc.AssignCoachForDate(ctx, "2025-06-05")
	require.NoError(t, err)
	assert.Equal(t, &domain.CoachAssignment{CoachName: "Former"}, a)

	a, err = svc.AssignCoachForDate(ctx, "2025-06-06")
	require.NoError(t, err)
	assert.Nil(t, a)

	_, err = svc.AssignCoachForDate(ctx, "June 6")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	assert.Equal(t, []string{"2025-06-02", "2025-06-03"}, events.dates)
}

func TestSetDateAvailabilityClears(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.SetDateAvailability(ctx, "2025-06-03", SetDateRequest{CoachName: "Guest"})
	require.NoError(t, err)
	_, err = svc.SetDateAvailability(ctx, "2025-06-03", SetDateRequest{})
	require.NoError(t, err)

	a, err := svc.AssignCoachForDate(ctx, "2025-06-03")
	require.NoError(t, err)
	assert.Nil(t, a)
}

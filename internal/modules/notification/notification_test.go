package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courtbook/internal/database"
	"courtbook/internal/domain"
	"courtbook/internal/repository"
)

type collectSender struct {
	mu   sync.Mutex
	got  []Message
	fail bool
}

func (c *collectSender) Name() string { return "collect" }

func (c *collectSender) Send(_ context.Context, m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, m)
	if c.fail {
		return errors.New("boom")
	}
	return nil
}

func (c *collectSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func seriesMessage() Message {
	return Message{
		Type:           domain.NotifSeriesConfirmed,
		RecipientName:  "Sam <script>",
		RecipientEmail: "sam@example.com",
		LessonType:     domain.LessonGroup,
		Date:           "2025-06-02",
		TimeRange:      "9:00 AM - 10:00 AM",
		SeriesID:       "series-1",
		TotalWeeks:     3,
		Booked: []Occurrence{
			{Date: "2025-06-02", TimeRange: "9:00 AM - 10:00 AM", WeekNumber: 1, CoachName: "Ann"},
			{Date: "2025-06-16", TimeRange: "9:00 AM - 10:00 AM", WeekNumber: 3},
		},
		Skipped:    []Skip{{Date: "2025-06-09", WeekNumber: 2, Reason: domain.SkipNoClasses}},
		TotalCents: 4000,
		Currency:   "USD",
	}
}

func TestDetailsHTML(t *testing.T) {
	body := seriesMessage().DetailsHTML()

	assert.Contains(t, body, "<b>2 of 3 weekly lessons booked</b>")
	assert.Contains(t, body, "Sam &lt;script&gt;")
	assert.Contains(t, body, "Week 1: 2025-06-02, 9:00 AM - 10:00 AM with Ann")
	assert.Contains(t, body, "Week 2: 2025-06-09 (no classes that day)")
	assert.Contains(t, body, "40.00 USD")
	assert.NotContains(t, body, "<script>")
}

func TestDispatcherDeliversAndDrains(t *testing.T) {
	ok := &collectSender{}
	broken := &collectSender{fail: true}
	d := NewDispatcher(8, 2, nil, ok, broken)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = d.Run(ctx)
		close(done)
	}()

	for i := 0; i < 5; i++ {
		require.True(t, d.Enqueue(Message{Type: domain.NotifBookingConfirmed, RecipientEmail: fmt.Sprintf("%d@example.com", i)}))
	}
	require.Eventually(t, func() bool { return ok.count() == 5 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 5, broken.count(), "one failing sender does not stop the others")

	cancel()
	<-done
}

func TestDispatcherEnqueueNeverBlocks(t *testing.T) {
	d := NewDispatcher(1, 1, nil)

	assert.True(t, d.Enqueue(Message{}))
	assert.False(t, d.Enqueue(Message{}))
}

func TestOutboxSenderPersists(t *testing.T) {
	db, err := database.Connect("file:notification_outbox?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	repo := repository.NewNotificationRepository(db)

	require.NoError(t, NewOutboxSender(repo).Send(context.Background(), seriesMessage()))

	rows, err := repo.ListByRecipient(context.Background(), "sam@example.com", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.NotifSeriesConfirmed, rows[0].Type)
	assert.Equal(t, "series-1", rows[0].SeriesID)
	assert.Contains(t, string(rows[0].Data), `"total_cents":4000`)
}

type mockTelegram struct {
	mock.Mock
}

func (m *mockTelegram) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func TestTelegramSenderTargetsCoaches(t *testing.T) {
	api := &mockTelegram{}
	api.On("SendMessage", mock.Anything, mock.MatchedBy(func(p *bot.SendMessageParams) bool {
		return p.ChatID == int64(11) && p.ParseMode == models.ParseModeHTML
	})).Return(&models.Message{}, nil).Once()

	m := seriesMessage()
	m.CoachChatIDs = []int64{11, 11, 0}
	require.NoError(t, NewTelegramSender(api, 99).Send(context.Background(), m))
	api.AssertExpectations(t)
}

func TestTelegramSenderFallsBackToAdmin(t *testing.T) {
	api := &mockTelegram{}
	api.On("SendMessage", mock.Anything, mock.MatchedBy(func(p *bot.SendMessageParams) bool {
		return p.ChatID == int64(99)
	})).Return(nil, errors.New("blocked")).Once()

	err := NewTelegramSender(api, 99).Send(context.Background(), seriesMessage())
	assert.ErrorContains(t, err, "blocked")
	api.AssertExpectations(t)
}

package notification

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"courtbook/internal/domain"
)

type OutboxRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
}

// OutboxSender records every message in the notifications table, where the
// mailer picks it up.
type OutboxSender struct {
	repo OutboxRepository
}

func NewOutboxSender(repo OutboxRepository) *OutboxSender {
	return &OutboxSender{repo: repo}
}

func (s *OutboxSender) Name() string { return string(domain.ChannelOutbox) }

func (s *OutboxSender) Send(ctx context.Context, m Message) error {
	data, err := json.Marshal(struct {
		LessonType domain.LessonType `json:"lesson_type"`
		Booked     []Occurrence      `json:"booked"`
		Skipped    []Skip            `json:"skipped,omitempty"`
		TotalCents int64             `json:"total_cents"`
		Currency   string            `json:"currency"`
		QueuedAt   time.Time         `json:"queued_at"`
	}{m.LessonType, m.Booked, m.Skipped, m.TotalCents, m.Currency, time.Now().UTC()})
	if err != nil {
		return err
	}

	return s.repo.Create(ctx, &domain.Notification{
		Type:      m.Type,
		Recipient: m.RecipientEmail,
		Subject:   m.Subject(),
		Body:      m.DetailsHTML(),
		SeriesID:  m.SeriesID,
		Data:      datatypes.JSON(data),
	})
}

package notification

import (
	"context"
	"errors"
	"html"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"courtbook/internal/domain"
)

// TelegramAPI is the part of *bot.Bot the sender uses.
type TelegramAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramSender alerts the coaches of a booking, or the admin chat when no
// coach has a chat configured.
type TelegramSender struct {
	api         TelegramAPI
	adminChatID int64
}

func NewTelegramSender(api TelegramAPI, adminChatID int64) *TelegramSender {
	return &TelegramSender{api: api, adminChatID: adminChatID}
}

func (s *TelegramSender) Name() string { return string(domain.ChannelTelegram) }

func (s *TelegramSender) Send(ctx context.Context, m Message) error {
	chats := uniqueChats(m.CoachChatIDs)
	if len(chats) == 0 && s.adminChatID != 0 {
		chats = []int64{s.adminChatID}
	}

	text := m.DetailsHTML()
	if m.RecipientEmail != "" {
		text += "Client: " + html.EscapeString(m.RecipientEmail) + "\n"
	}

	var errs []error
	for _, chatID := range chats {
		_, err := s.api.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func uniqueChats(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

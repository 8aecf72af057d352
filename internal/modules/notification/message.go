package notification

import (
	"fmt"
	"html"
	"strings"

	"courtbook/internal/domain"
)

// Occurrence is one booked date of a message.
type Occurrence struct {
	BookingID  int64  `json:"booking_id"`
	Date       string `json:"date"`
	TimeRange  string `json:"time_range"`
	WeekNumber int    `json:"week_number"`
	CoachName  string `json:"coach_name,omitempty"`
}

// Skip is one occurrence of a series that was not booked.
type Skip struct {
	Date       string            `json:"date"`
	WeekNumber int               `json:"week_number"`
	Reason     domain.SkipReason `json:"reason"`
}

// Message is everything a sender needs; rendering happens per sender.
type Message struct {
	Type           domain.NotificationType
	RecipientName  string
	RecipientEmail string
	LessonType     domain.LessonType
	Date           string
	TimeRange      string
	SeriesID       string
	TotalWeeks     int
	Booked         []Occurrence
	Skipped        []Skip
	TotalCents     int64
	Currency       string
	Reason         string

	// CoachChatIDs are Telegram chats of the coaches involved.
	CoachChatIDs []int64
}

func (m Message) Subject() string {
	switch m.Type {
	case domain.NotifSeriesConfirmed:
		return fmt.Sprintf("%d of %d weekly lessons booked", len(m.Booked), m.TotalWeeks)
	case domain.NotifBookingCancelled:
		return fmt.Sprintf("Lesson on %s cancelled", m.Date)
	default:
		return fmt.Sprintf("Lesson booked for %s", m.Date)
	}
}

// DetailsHTML renders the body with the tag subset Telegram accepts.
func (m Message) DetailsHTML() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(m.Subject()))
	if m.RecipientName != "" {
		fmt.Fprintf(&b, "Hi %s,\n", html.EscapeString(m.RecipientName))
	}

	switch m.Type {
	case domain.NotifBookingCancelled:
		fmt.Fprintf(&b, "Your %s lesson at %s was cancelled.\n", m.LessonType, html.EscapeString(m.TimeRange))
		if m.Reason != "" {
			fmt.Fprintf(&b, "Reason: %s\n", html.EscapeString(m.Reason))
		}
		b.WriteString("Any payment will be refunded.\n")
		return b.String()
	case domain.NotifSeriesConfirmed:
		fmt.Fprintf(&b, "Weekly %s lessons at %s:\n", m.LessonType, html.EscapeString(m.TimeRange))
	default:
		fmt.Fprintf(&b, "Your %s lesson:\n", m.LessonType)
	}

	for _, o := range m.Booked {
		line := fmt.Sprintf("• Week %d: %s, %s", o.WeekNumber, o.Date, o.TimeRange)
		if o.CoachName != "" {
			line += " with " + o.CoachName
		}
		b.WriteString(html.EscapeString(line))
		b.WriteByte('\n')
	}
	if len(m.Skipped) > 0 {
		b.WriteString("<i>Not booked:</i>\n")
		for _, s := range m.Skipped {
			fmt.Fprintf(&b, "• Week %d: %s (%s)\n", s.WeekNumber, s.Date, humanReason(s.Reason))
		}
	}
	if m.TotalCents > 0 {
		fmt.Fprintf(&b, "Total: <b>%s</b>\n", FormatMoney(m.TotalCents, m.Currency))
	}
	return b.String()
}

func humanReason(r domain.SkipReason) string {
	switch r {
	case domain.SkipNoClasses:
		return "no classes that day"
	case domain.SkipSlotUnavailable:
		return "slot not offered"
	case domain.SkipPast:
		return "already over"
	case domain.SkipAlreadyBooked:
		return "already booked"
	case domain.SkipGroupFull:
		return "group full"
	case domain.SkipStorageError:
		return "could not be saved"
	default:
		return string(r)
	}
}

func FormatMoney(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}

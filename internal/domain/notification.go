package domain

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotifBookingConfirmed NotificationType = "booking_confirmed"
	NotifSeriesConfirmed  NotificationType = "series_confirmed"
	NotifBookingCancelled NotificationType = "booking_cancelled"
)

type NotificationChannel string

const (
	ChannelOutbox   NotificationChannel = "outbox"
	ChannelTelegram NotificationChannel = "telegram"
)

// Notification is an outbox row written for every confirmation message.
type Notification struct {
	ID        int64            `gorm:"primaryKey;column:id" json:"id"`
	Type      NotificationType `gorm:"column:type;type:varchar(32);not null" json:"type"`
	Recipient string           `gorm:"column:recipient;not null;index" json:"recipient"`
	Subject   string           `gorm:"column:subject" json:"subject"`
	Body      string           `gorm:"column:body;type:text" json:"body"`
	SeriesID  string           `gorm:"column:series_id;type:varchar(36);index" json:"series_id,omitempty"`
	Data      datatypes.JSON   `gorm:"column:data" json:"data,omitempty"`
	SentAt    *time.Time       `gorm:"column:sent_at" json:"sent_at,omitempty"`
	CreatedAt time.Time        `gorm:"column:created_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

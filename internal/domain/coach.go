package domain

import "time"

type Coach struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	Email          string    `json:"email" gorm:"index"`
	TelegramChatID int64     `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Coach) TableName() string { return "coaches" }

// CoachWeekday claims one weekday (Monday=0) for a coach. The unique index on
// weekday backs the one-coach-per-weekday rule checked by the coach service.
type CoachWeekday struct {
	ID      int64 `gorm:"primaryKey"`
	CoachID int64 `gorm:"not null;index"`
	Weekday int   `gorm:"not null;uniqueIndex"`

	Coach *Coach `gorm:"foreignKey:CoachID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (CoachWeekday) TableName() string { return "coach_weekdays" }

// CoachWeeklyAvailability is the set of weekdays a coach stands for.
type CoachWeeklyAvailability struct {
	CoachID   int64  `json:"coach_id"`
	CoachName string `json:"coach_name"`
	Weekdays  []int  `json:"weekdays"`
}

func (a CoachWeeklyAvailability) Has(weekday int) bool {
	for _, d := range a.Weekdays {
		if d == weekday {
			return true
		}
	}
	return false
}

// CoachDateAvailability overrides the weekly assignment for one date. Either
// CoachID or an embedded CoachName identifies the coach.
type CoachDateAvailability struct {
	ID        int64     `json:"-" gorm:"primaryKey"`
	Date      string    `json:"date" gorm:"type:varchar(10);not null;uniqueIndex"`
	CoachID   *int64    `json:"coach_id,omitempty"`
	CoachName string    `json:"coach_name,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CoachDateAvailability) TableName() string { return "coach_date_availabilities" }

// CoachAssignment is the coach responsible for a date. CoachID is zero when
// only a name is known.
type CoachAssignment struct {
	CoachID   int64  `json:"coach_id,omitempty"`
	CoachName string `json:"coach_name"`
}

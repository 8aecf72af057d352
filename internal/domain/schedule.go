package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ScheduleOverride is the per-date exception to the default slot grid.
// At most one row exists per date.
type ScheduleOverride struct {
	ID               int64                       `json:"-" gorm:"primaryKey"`
	Date             string                      `json:"date" gorm:"type:varchar(10);not null;uniqueIndex"`
	NoClasses        bool                        `json:"no_classes" gorm:"not null;default:false"`
	Reason           string                      `json:"reason,omitempty"`
	CustomTimeRanges datatypes.JSONSlice[string] `json:"custom_time_ranges"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

func (ScheduleOverride) TableName() string { return "schedule_overrides" }

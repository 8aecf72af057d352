package coach

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidWeekday = errors.New("weekday must be between 0 and 6")
	ErrCoachNotFound  = errors.New("coach not found")
	ErrWeekdayClaimed = errors.New("weekday already claimed by another coach")
	ErrForbidden      = errors.New("not allowed to manage this coach")
)

type WeekdayConflict struct {
	Weekday   int    `json:"weekday"`
	CoachID   int64  `json:"coach_id"`
	CoachName string `json:"coach_name"`
}

// ClaimError carries the weekdays that collide with other coaches.
type ClaimError struct {
	Conflicts []WeekdayConflict
}

func (e *ClaimError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%d (%s)", c.Weekday, c.CoachName))
	}
	return ErrWeekdayClaimed.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ClaimError) Unwrap() error {
	return ErrWeekdayClaimed
}

package coach

type CreateCoachRequest struct {
	Name           string `json:"name" binding:"required,max=120"`
	Email          string `json:"email" binding:"omitempty,email"`
	TelegramChatID int64  `json:"telegram_chat_id"`
}

// SetWeeklyRequest replaces the caller's weekdays. Admins name the coach.
type SetWeeklyRequest struct {
	CoachID  int64 `json:"coach_id"`
	Weekdays []int `json:"weekdays" binding:"max=7,dive,weekday"`
}

type SetDateRequest struct {
	CoachID   *int64 `json:"coach_id"`
	CoachName string `json:"coach_name" binding:"max=120"`
}

type AssignmentQuery struct {
	Date string `form:"date" binding:"required,isodate"`
}

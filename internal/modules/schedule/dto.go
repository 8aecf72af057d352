package schedule

type MonthQuery struct {
	Year  int `form:"year" binding:"required,min=2000,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

type DayQuery struct {
	Date string `form:"date" binding:"required,isodate"`
}

type SetOverrideRequest struct {
	NoClasses        bool     `json:"no_classes"`
	Reason           string   `json:"reason" binding:"max=500"`
	CustomTimeRanges []string `json:"custom_time_ranges" binding:"max=48"`
}

type MonthResponse struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Days  []Day `json:"days"`
}

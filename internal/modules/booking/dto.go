package booking

type RecurringBookingRequest struct {
	LessonType       string `json:"lesson_type" binding:"required,oneof=private group"`
	StartDate        string `json:"start_date" binding:"required,isodate"`
	TimeRange        string `json:"time_range" binding:"required,timerange"`
	WeekCount        int    `json:"week_count"`
	Name             string `json:"name" binding:"max=120"`
	Email            string `json:"email" binding:"omitempty,email"`
	PaymentReference string `json:"payment_reference" binding:"max=200"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

package booking

type CreateBookingRequest struct {
	FieldID       int64  `json:"field_id" binding:"required"`
	Date          string `json:"date" binding:"required"`
	StartHour     int    `json:"start_hour" binding:"min=0,max=23"`
	DurationHours int    `json:"duration_hours" binding:"required"`
}

type UpdateBookingRequest struct {
	Date          *string `json:"date"`
	StartHour     *int    `json:"start_hour" binding:"omitempty,min=0,max=23"`
	DurationHours *int    `json:"duration_hours" binding:"omitempty,min=1"`
}

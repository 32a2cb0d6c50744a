package domain

import "time"

type FieldStatus string

const (
	FieldAvailable   FieldStatus = "available"
	FieldUnavailable FieldStatus = "unavailable"
)

// Field is the bookable venue unit. It is owned by the field catalog;
// this core only reads it.
type Field struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	OpenHour     int         `json:"open_hour"`
	CloseHour    int         `json:"close_hour"`
	PricePerHour float64     `json:"price_per_hour"`
	Status       FieldStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

package models

import "time"

type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "AVAILABLE"
	AvailabilityUnavailable AvailabilityStatus = "UNAVAILABLE"
	AvailabilityMaybe       AvailabilityStatus = "MAYBE"
)

type Availability struct {
	ID       int                `json:"id"`
	PlayerID int                `json:"player_id"`
	UserID   int                `json:"user_id"`
	Date     time.Time          `json:"date"`
	Status   AvailabilityStatus `json:"status"`
	Notes    *string            `json:"notes,omitempty"`
}

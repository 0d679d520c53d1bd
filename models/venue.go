package models

import "time"

type Venue struct {
	ID        int       `json:"id"`
	TeamID    int       `json:"team_id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	Courts    int       `json:"courts"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	MatchCount int `json:"match_count,omitempty"`
}

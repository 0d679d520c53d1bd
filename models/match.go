package models

import "time"

type MatchType string

const (
	MatchTypeSingles MatchType = "SINGLES"
	MatchTypeDoubles MatchType = "DOUBLES"
)

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "SCHEDULED"
	MatchStatusLive      MatchStatus = "LIVE"
	MatchStatusCompleted MatchStatus = "COMPLETED"
	MatchStatusCancelled MatchStatus = "CANCELLED"
)

// MaxPerSide returns how many players each side fields for the match type.
func (t MatchType) MaxPerSide() int {
	if t == MatchTypeDoubles {
		return 2
	}
	return 1
}

type Match struct {
	ID          int         `json:"id"`
	TeamID      int         `json:"team_id"`
	VenueID     *int        `json:"venue_id,omitempty"`
	Type        MatchType   `json:"type"`
	Status      MatchStatus `json:"status"`
	ScheduledAt time.Time   `json:"scheduled_at"`
	WinningSide *int        `json:"winning_side,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`

	Sets     []Set         `json:"sets,omitempty"`
	Players  []MatchPlayer `json:"players,omitempty"`
	Venue    *Venue        `json:"venue,omitempty"`
	Comments []Comment     `json:"comments,omitempty"`
}

type Set struct {
	ID          int        `json:"id"`
	MatchID     int        `json:"match_id"`
	SetNumber   int        `json:"set_number"`
	Side1Score  int        `json:"side1_score"`
	Side2Score  int        `json:"side2_score"`
	IsComplete  bool       `json:"is_complete"`
	WinningSide *int       `json:"winning_side,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type MatchPlayer struct {
	ID       int `json:"id"`
	MatchID  int `json:"match_id"`
	PlayerID int `json:"player_id"`
	Side     int `json:"side"`
	Position int `json:"position"`

	Player *Player `json:"player,omitempty"`
}

package models

import "time"

type Comment struct {
	ID        int       `json:"id"`
	MatchID   int       `json:"match_id"`
	UserID    int       `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty"`
}

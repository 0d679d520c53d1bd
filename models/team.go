package models

import "time"

type MemberRole string

const (
	RoleAdmin  MemberRole = "ADMIN"
	RoleMember MemberRole = "MEMBER"
)

type Team struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	InviteCode  string    `json:"invite_code"`
	CreatedAt   time.Time `json:"created_at"`

	Members []TeamMember `json:"members,omitempty"`

	// Counters populated on team listings.
	MemberCount int `json:"member_count,omitempty"`
	MatchCount  int `json:"match_count,omitempty"`

	// Role of the requesting user, populated on "my teams" listings.
	Role MemberRole `json:"role,omitempty"`
}

type TeamMember struct {
	ID       int        `json:"id"`
	UserID   int        `json:"user_id"`
	TeamID   int        `json:"team_id"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`

	User   *User   `json:"user,omitempty"`
	Player *Player `json:"player,omitempty"`
}

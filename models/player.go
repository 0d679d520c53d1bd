package models

import "time"

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
)

type Player struct {
	ID           int        `json:"id"`
	TeamID       int        `json:"team_id"`
	TeamMemberID int        `json:"team_member_id"`
	DisplayName  string     `json:"display_name"`
	SkillLevel   SkillLevel `json:"skill_level"`
	CreatedAt    time.Time  `json:"created_at"`

	TeamMember *TeamMember `json:"team_member,omitempty"`

	AvatarKey *string `json:"-"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

package models

// PlayerSummary is the trimmed player shape embedded in stat rows.
type PlayerSummary struct {
	ID          int        `json:"id"`
	DisplayName string     `json:"display_name"`
	SkillLevel  SkillLevel `json:"skill_level"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
}

type PlayerStats struct {
	Player         PlayerSummary `json:"player"`
	TotalMatches   int           `json:"total_matches"`
	Wins           int           `json:"wins"`
	Losses         int           `json:"losses"`
	WinRate        int           `json:"win_rate"`
	SinglesMatches int           `json:"singles_matches"`
	SinglesWins    int           `json:"singles_wins"`
	DoublesMatches int           `json:"doubles_matches"`
	DoublesWins    int           `json:"doubles_wins"`
	SetsWon        int           `json:"sets_won"`
	SetsLost       int           `json:"sets_lost"`
	PointsScored   int           `json:"points_scored"`
	PointsConceded int           `json:"points_conceded"`
}

type HeadToHeadRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type MonthlyTrend struct {
	Month   string `json:"month"`
	Matches int    `json:"matches"`
	Singles int    `json:"singles"`
	Doubles int    `json:"doubles"`
}

// TeamStats is the full statistics payload for one team.
type TeamStats struct {
	PlayerStats  []PlayerStats                    `json:"player_stats"`
	HeadToHead   map[int]map[int]HeadToHeadRecord `json:"h2h"`
	MonthlyTrend []MonthlyTrend                   `json:"monthly_trend"`
	TotalMatches int                              `json:"total_matches"`
	TotalSingles int                              `json:"total_singles"`
	TotalDoubles int                              `json:"total_doubles"`
}

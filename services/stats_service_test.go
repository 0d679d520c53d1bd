package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smashpoint/badminton-league/models"
)

func intPtr(v int) *int { return &v }

func statsTestFixture() (*fakeTeamRepo, *fakePlayerRepo, *fakeMatchRepo, *fakeSetRepo) {
	teamRepo := &fakeTeamRepo{members: map[int]*models.TeamMember{
		10: {ID: 1, UserID: 10, TeamID: 1, Role: models.RoleMember},
	}}
	playerRepo := &fakePlayerRepo{players: []*models.Player{
		{ID: 1, TeamID: 1, DisplayName: "Ana", SkillLevel: models.SkillAdvanced},
		{ID: 2, TeamID: 1, DisplayName: "Ben", SkillLevel: models.SkillIntermediate},
	}}

	now := time.Now()
	matchRepo := &fakeMatchRepo{
		matches: []*models.Match{
			{
				ID:          100,
				TeamID:      1,
				Type:        models.MatchTypeSingles,
				Status:      models.MatchStatusCompleted,
				ScheduledAt: now,
				WinningSide: intPtr(1),
			},
		},
		playersByMatch: map[int][]models.MatchPlayer{
			100: {
				{MatchID: 100, PlayerID: 1, Side: 1, Position: 1},
				{MatchID: 100, PlayerID: 2, Side: 2, Position: 1},
			},
		},
	}
	setRepo := &fakeSetRepo{setsByMatch: map[int][]models.Set{
		100: {
			testCompletedSet(1, 21, 15, 1),
			testCompletedSet(2, 21, 18, 1),
		},
	}}
	return teamRepo, playerRepo, matchRepo, setRepo
}

func TestGetTeamStatsSinglesMatch(t *testing.T) {
	teamRepo, playerRepo, matchRepo, setRepo := statsTestFixture()
	svc := NewStatsService(teamRepo, playerRepo, matchRepo, setRepo, nil)

	stats, err := svc.GetTeamStats(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("GetTeamStats() error: %v", err)
	}

	if stats.TotalMatches != 1 || stats.TotalSingles != 1 || stats.TotalDoubles != 0 {
		t.Errorf("totals = %d/%d/%d, want 1/1/0",
			stats.TotalMatches, stats.TotalSingles, stats.TotalDoubles)
	}
	if len(stats.PlayerStats) != 2 {
		t.Fatalf("got %d player rows, want 2", len(stats.PlayerStats))
	}

	// Winner sorts first on wins.
	winner := stats.PlayerStats[0]
	loser := stats.PlayerStats[1]
	if winner.Player.ID != 1 {
		t.Fatalf("expected player 1 on top, got player %d", winner.Player.ID)
	}

	if winner.Wins != 1 || winner.Losses != 0 || winner.WinRate != 100 {
		t.Errorf("winner record = %d-%d (%d%%), want 1-0 (100%%)", winner.Wins, winner.Losses, winner.WinRate)
	}
	if winner.SinglesMatches != 1 || winner.SinglesWins != 1 || winner.DoublesMatches != 0 {
		t.Errorf("winner splits = singles %d/%d doubles %d, want 1/1 and 0",
			winner.SinglesMatches, winner.SinglesWins, winner.DoublesMatches)
	}
	if winner.SetsWon != 2 || winner.SetsLost != 0 {
		t.Errorf("winner sets = %d-%d, want 2-0", winner.SetsWon, winner.SetsLost)
	}
	if winner.PointsScored != 42 || winner.PointsConceded != 33 {
		t.Errorf("winner points = %d scored %d conceded, want 42 and 33",
			winner.PointsScored, winner.PointsConceded)
	}

	if loser.Wins != 0 || loser.Losses != 1 || loser.WinRate != 0 {
		t.Errorf("loser record = %d-%d (%d%%), want 0-1 (0%%)", loser.Wins, loser.Losses, loser.WinRate)
	}
	if loser.SetsWon != 0 || loser.SetsLost != 2 {
		t.Errorf("loser sets = %d-%d, want 0-2", loser.SetsWon, loser.SetsLost)
	}
	if loser.PointsScored != 33 || loser.PointsConceded != 42 {
		t.Errorf("loser points = %d scored %d conceded, want 33 and 42",
			loser.PointsScored, loser.PointsConceded)
	}

	record, ok := stats.HeadToHead[1][2]
	if !ok || record.Wins != 1 || record.Losses != 0 {
		t.Errorf("h2h[1][2] = %+v, want {Wins:1 Losses:0}", record)
	}
	mirror, ok := stats.HeadToHead[2][1]
	if !ok || mirror.Wins != 0 || mirror.Losses != 1 {
		t.Errorf("h2h[2][1] = %+v, want {Wins:0 Losses:1}", mirror)
	}

	if len(stats.MonthlyTrend) != trendMonths {
		t.Fatalf("got %d trend buckets, want %d", len(stats.MonthlyTrend), trendMonths)
	}
	current := stats.MonthlyTrend[trendMonths-1]
	if current.Matches != 1 || current.Singles != 1 {
		t.Errorf("current month bucket = %+v, want 1 match, 1 singles", current)
	}
}

func TestGetTeamStatsHeadToHeadZeroRecords(t *testing.T) {
	teamRepo, playerRepo, matchRepo, setRepo := statsTestFixture()
	playerRepo.players = append(playerRepo.players,
		&models.Player{ID: 3, TeamID: 1, DisplayName: "Cleo", SkillLevel: models.SkillBeginner})

	svc := NewStatsService(teamRepo, playerRepo, matchRepo, setRepo, nil)
	stats, err := svc.GetTeamStats(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("GetTeamStats() error: %v", err)
	}

	// Pairs that never met still get a 0-0 row in both directions.
	for _, pair := range [][2]int{{3, 1}, {3, 2}, {1, 3}, {2, 3}} {
		record, ok := stats.HeadToHead[pair[0]][pair[1]]
		if !ok {
			t.Errorf("h2h[%d][%d] missing, want a zero record", pair[0], pair[1])
			continue
		}
		if record.Wins != 0 || record.Losses != 0 {
			t.Errorf("h2h[%d][%d] = %+v, want {Wins:0 Losses:0}", pair[0], pair[1], record)
		}
	}

	played, ok := stats.HeadToHead[1][2]
	if !ok || played.Wins != 1 || played.Losses != 0 {
		t.Errorf("h2h[1][2] = %+v, want {Wins:1 Losses:0}", played)
	}
}

func TestGetTeamStatsEmptyTeam(t *testing.T) {
	teamRepo := &fakeTeamRepo{members: map[int]*models.TeamMember{
		10: {ID: 1, UserID: 10, TeamID: 1, Role: models.RoleMember},
	}}
	playerRepo := &fakePlayerRepo{players: []*models.Player{
		{ID: 1, TeamID: 1, DisplayName: "Ana"},
	}}
	matchRepo := &fakeMatchRepo{}
	setRepo := &fakeSetRepo{}

	svc := NewStatsService(teamRepo, playerRepo, matchRepo, setRepo, nil)
	stats, err := svc.GetTeamStats(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("GetTeamStats() error: %v", err)
	}

	if stats.TotalMatches != 0 {
		t.Errorf("TotalMatches = %d, want 0", stats.TotalMatches)
	}
	if len(stats.PlayerStats) != 1 {
		t.Fatalf("got %d player rows, want 1", len(stats.PlayerStats))
	}
	row := stats.PlayerStats[0]
	if row.Wins != 0 || row.Losses != 0 || row.WinRate != 0 {
		t.Errorf("empty record = %d-%d (%d%%), want all zero", row.Wins, row.Losses, row.WinRate)
	}
	if len(stats.MonthlyTrend) != trendMonths {
		t.Errorf("got %d trend buckets, want %d", len(stats.MonthlyTrend), trendMonths)
	}
}

func TestGetTeamStatsRequiresMembership(t *testing.T) {
	teamRepo, playerRepo, matchRepo, setRepo := statsTestFixture()
	svc := NewStatsService(teamRepo, playerRepo, matchRepo, setRepo, nil)

	_, err := svc.GetTeamStats(context.Background(), 1, 999)
	if !errors.Is(err, ErrNotTeamMember) {
		t.Errorf("GetTeamStats() error = %v, want %v", err, ErrNotTeamMember)
	}
}

func TestBuildMonthlyTrendLabelsAndBuckets(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	matches := []*models.Match{
		{Type: models.MatchTypeSingles, ScheduledAt: time.Date(2025, time.March, 2, 18, 0, 0, 0, time.UTC)},
		{Type: models.MatchTypeDoubles, ScheduledAt: time.Date(2025, time.January, 20, 18, 0, 0, 0, time.UTC)},
		{Type: models.MatchTypeSingles, ScheduledAt: time.Date(2024, time.June, 1, 18, 0, 0, 0, time.UTC)}, // out of window
	}

	trend := buildMonthlyTrend(matches, now)
	if len(trend) != trendMonths {
		t.Fatalf("got %d buckets, want %d", len(trend), trendMonths)
	}
	if trend[0].Month != "Oct 24" || trend[trendMonths-1].Month != "Mar 25" {
		t.Errorf("trend window = %s .. %s, want Oct 24 .. Mar 25",
			trend[0].Month, trend[trendMonths-1].Month)
	}

	total := 0
	for _, bucket := range trend {
		total += bucket.Matches
	}
	if total != 2 {
		t.Errorf("bucketed %d matches, want 2 (one outside the window)", total)
	}
	if trend[trendMonths-1].Singles != 1 {
		t.Errorf("March bucket singles = %d, want 1", trend[trendMonths-1].Singles)
	}
}

package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smashpoint/badminton-league/models"
	"github.com/smashpoint/badminton-league/repositories"
	"github.com/smashpoint/badminton-league/storage"
)

const trendMonths = 6

type StatsService interface {
	GetTeamStats(ctx context.Context, teamID, currentUserID int) (*models.TeamStats, error)
}

type statsService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	matchRepo  repositories.MatchRepository
	setRepo    repositories.SetRepository
	uploader   storage.FileUploader
}

func NewStatsService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	setRepo repositories.SetRepository,
	uploader storage.FileUploader,
) StatsService {
	return &statsService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		setRepo:    setRepo,
		uploader:   uploader,
	}
}

// GetTeamStats aggregates completed matches into per-player records,
// head-to-head tallies for singles, and a six-month match trend. Wins and
// losses only count matches that were actually decided.
func (s *statsService) GetTeamStats(ctx context.Context, teamID, currentUserID int) (*models.TeamStats, error) {
	if _, err := requireMember(ctx, s.teamRepo, currentUserID, teamID); err != nil {
		return nil, err
	}

	var (
		players        []*models.Player
		matches        []*models.Match
		setsByMatch    map[int][]models.Set
		playersByMatch map[int][]models.MatchPlayer
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.playerRepo.ListByTeam(gCtx, teamID)
		return err
	})
	g.Go(func() error {
		completed := models.MatchStatusCompleted
		var err error
		matches, err = s.matchRepo.ListByTeam(gCtx, teamID, &completed, 0)
		if err != nil {
			return err
		}
		matchIDs := make([]int, len(matches))
		for i, match := range matches {
			matchIDs[i] = match.ID
		}
		if setsByMatch, err = s.setRepo.ListByMatchIDs(gCtx, matchIDs); err != nil {
			return err
		}
		playersByMatch, err = s.matchRepo.ListPlayersByMatchIDs(gCtx, matchIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load stats inputs for team %d: %w", teamID, err)
	}

	statsByPlayer := make(map[int]*models.PlayerStats, len(players))
	for _, player := range players {
		populatePlayerAvatarURL(player, s.uploader)
		statsByPlayer[player.ID] = &models.PlayerStats{
			Player: models.PlayerSummary{
				ID:          player.ID,
				DisplayName: player.DisplayName,
				SkillLevel:  player.SkillLevel,
				AvatarURL:   player.AvatarURL,
			},
		}
	}

	// Every distinct pair starts at 0-0 so pairs that never met still show
	// up in the matrix.
	headToHead := make(map[int]map[int]models.HeadToHeadRecord, len(players))
	for _, p := range players {
		headToHead[p.ID] = make(map[int]models.HeadToHeadRecord, len(players)-1)
		for _, q := range players {
			if q.ID != p.ID {
				headToHead[p.ID][q.ID] = models.HeadToHeadRecord{}
			}
		}
	}
	teamStats := &models.TeamStats{
		HeadToHead:   headToHead,
		TotalMatches: len(matches),
	}

	for _, match := range matches {
		if match.Type == models.MatchTypeSingles {
			teamStats.TotalSingles++
		} else {
			teamStats.TotalDoubles++
		}

		decided := match.WinningSide != nil
		assignments := playersByMatch[match.ID]

		for _, mp := range assignments {
			ps, ok := statsByPlayer[mp.PlayerID]
			if !ok {
				continue
			}

			if decided {
				won := mp.Side == *match.WinningSide
				ps.TotalMatches++
				if won {
					ps.Wins++
				} else {
					ps.Losses++
				}
				if match.Type == models.MatchTypeSingles {
					ps.SinglesMatches++
					if won {
						ps.SinglesWins++
					}
				} else {
					ps.DoublesMatches++
					if won {
						ps.DoublesWins++
					}
				}
			}

			for _, set := range setsByMatch[match.ID] {
				if !set.IsComplete {
					continue
				}
				if mp.Side == 1 {
					ps.PointsScored += set.Side1Score
					ps.PointsConceded += set.Side2Score
				} else {
					ps.PointsScored += set.Side2Score
					ps.PointsConceded += set.Side1Score
				}
				if set.WinningSide != nil {
					if *set.WinningSide == mp.Side {
						ps.SetsWon++
					} else {
						ps.SetsLost++
					}
				}
			}
		}

		if decided && match.Type == models.MatchTypeSingles && len(assignments) == 2 {
			recordHeadToHead(headToHead, assignments, *match.WinningSide)
		}
	}

	playerStats := make([]models.PlayerStats, 0, len(players))
	for _, player := range players {
		ps := statsByPlayer[player.ID]
		if ps.TotalMatches > 0 {
			ps.WinRate = int(math.Round(float64(ps.Wins) * 100 / float64(ps.TotalMatches)))
		}
		playerStats = append(playerStats, *ps)
	}
	sort.SliceStable(playerStats, func(i, j int) bool {
		if playerStats[i].Wins != playerStats[j].Wins {
			return playerStats[i].Wins > playerStats[j].Wins
		}
		return playerStats[i].WinRate > playerStats[j].WinRate
	})
	teamStats.PlayerStats = playerStats
	teamStats.MonthlyTrend = buildMonthlyTrend(matches, time.Now())

	return teamStats, nil
}

func recordHeadToHead(h2h map[int]map[int]models.HeadToHeadRecord, assignments []models.MatchPlayer, winningSide int) {
	var winnerID, loserID int
	for _, mp := range assignments {
		if mp.Side == winningSide {
			winnerID = mp.PlayerID
		} else {
			loserID = mp.PlayerID
		}
	}
	if winnerID == 0 || loserID == 0 {
		return
	}

	if h2h[winnerID] == nil {
		h2h[winnerID] = make(map[int]models.HeadToHeadRecord)
	}
	if h2h[loserID] == nil {
		h2h[loserID] = make(map[int]models.HeadToHeadRecord)
	}
	winnerRecord := h2h[winnerID][loserID]
	winnerRecord.Wins++
	h2h[winnerID][loserID] = winnerRecord

	loserRecord := h2h[loserID][winnerID]
	loserRecord.Losses++
	h2h[loserID][winnerID] = loserRecord
}

// buildMonthlyTrend buckets completed matches into the last six calendar
// months, oldest first, labelled like "Jan 06".
func buildMonthlyTrend(matches []*models.Match, now time.Time) []models.MonthlyTrend {
	trend := make([]models.MonthlyTrend, trendMonths)
	indexByLabel := make(map[string]int, trendMonths)
	for i := 0; i < trendMonths; i++ {
		month := time.Date(now.Year(), now.Month()-time.Month(trendMonths-1-i), 1, 0, 0, 0, 0, now.Location())
		label := month.Format("Jan 06")
		trend[i] = models.MonthlyTrend{Month: label}
		indexByLabel[label] = i
	}

	for _, match := range matches {
		label := match.ScheduledAt.Format("Jan 06")
		i, ok := indexByLabel[label]
		if !ok {
			continue
		}
		trend[i].Matches++
		if match.Type == models.MatchTypeSingles {
			trend[i].Singles++
		} else {
			trend[i].Doubles++
		}
	}
	return trend
}

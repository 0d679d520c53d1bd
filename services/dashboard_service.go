package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/smashpoint/badminton-league/models"
	"github.com/smashpoint/badminton-league/repositories"
)

const dashboardMatchLimit = 5

type DashboardService interface {
	GetTeamDashboard(ctx context.Context, teamID, currentUserID int) (*DashboardData, error)
}

// DashboardData is the team landing page payload.
type DashboardData struct {
	Team            *models.Team    `json:"team"`
	UpcomingMatches []*models.Match `json:"upcoming_matches"`
	LiveMatches     []*models.Match `json:"live_matches"`
	RecentMatches   []*models.Match `json:"recent_matches"`
	PlayerCount     int             `json:"player_count"`
}

type dashboardService struct {
	teamRepo   repositories.TeamRepository
	matchRepo  repositories.MatchRepository
	playerRepo repositories.PlayerRepository
}

func NewDashboardService(
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
) DashboardService {
	return &dashboardService{
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
	}
}

func (s *dashboardService) GetTeamDashboard(ctx context.Context, teamID, currentUserID int) (*DashboardData, error) {
	if _, err := requireMember(ctx, s.teamRepo, currentUserID, teamID); err != nil {
		return nil, err
	}

	data := &DashboardData{}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		team, err := s.teamRepo.GetByID(gCtx, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return err
		}
		data.Team = team
		return nil
	})
	g.Go(func() error {
		scheduled := models.MatchStatusScheduled
		matches, err := s.matchRepo.ListByTeam(gCtx, teamID, &scheduled, dashboardMatchLimit)
		if err != nil {
			return err
		}
		data.UpcomingMatches = matches
		return nil
	})
	g.Go(func() error {
		live := models.MatchStatusLive
		matches, err := s.matchRepo.ListByTeam(gCtx, teamID, &live, dashboardMatchLimit)
		if err != nil {
			return err
		}
		data.LiveMatches = matches
		return nil
	})
	g.Go(func() error {
		completed := models.MatchStatusCompleted
		matches, err := s.matchRepo.ListByTeam(gCtx, teamID, &completed, dashboardMatchLimit)
		if err != nil {
			return err
		}
		data.RecentMatches = matches
		return nil
	})
	g.Go(func() error {
		players, err := s.playerRepo.ListByTeam(gCtx, teamID)
		if err != nil {
			return err
		}
		data.PlayerCount = len(players)
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load dashboard for team %d: %w", teamID, err)
	}
	return data, nil
}

package services

import (
	"context"

	"github.com/smashpoint/badminton-league/models"
	"github.com/smashpoint/badminton-league/repositories"
)

// Test fakes embed the repository interface so only the methods a test
// exercises need overriding; calling anything else panics loudly.

type fakeTeamRepo struct {
	repositories.TeamRepository
	members map[int]*models.TeamMember // keyed by user ID
}

func (f *fakeTeamRepo) GetMember(ctx context.Context, userID, teamID int) (*models.TeamMember, error) {
	member, ok := f.members[userID]
	if !ok || member.TeamID != teamID {
		return nil, repositories.ErrMemberNotFound
	}
	return member, nil
}

type fakePlayerRepo struct {
	repositories.PlayerRepository
	players []*models.Player
}

func (f *fakePlayerRepo) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	result := make([]*models.Player, 0)
	for _, p := range f.players {
		if p.TeamID == teamID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakePlayerRepo) ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error) {
	result := make([]*models.Player, 0)
	for _, id := range ids {
		for _, p := range f.players {
			if p.ID == id {
				result = append(result, p)
			}
		}
	}
	return result, nil
}

type fakeMatchRepo struct {
	repositories.MatchRepository
	matches        []*models.Match
	playersByMatch map[int][]models.MatchPlayer
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	for _, m := range f.matches {
		if m.ID == id {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) ListByTeam(ctx context.Context, teamID int, status *models.MatchStatus, limit int) ([]*models.Match, error) {
	result := make([]*models.Match, 0)
	for _, m := range f.matches {
		if m.TeamID != teamID {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		result = append(result, m)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (f *fakeMatchRepo) ListPlayersByMatchIDs(ctx context.Context, matchIDs []int) (map[int][]models.MatchPlayer, error) {
	result := make(map[int][]models.MatchPlayer)
	for _, id := range matchIDs {
		if players, ok := f.playersByMatch[id]; ok {
			result[id] = players
		}
	}
	return result, nil
}

type fakeSetRepo struct {
	repositories.SetRepository
	setsByMatch map[int][]models.Set
}

func (f *fakeSetRepo) ListByMatchIDs(ctx context.Context, matchIDs []int) (map[int][]models.Set, error) {
	result := make(map[int][]models.Set)
	for _, id := range matchIDs {
		if sets, ok := f.setsByMatch[id]; ok {
			result[id] = sets
		}
	}
	return result, nil
}

type fakeVenueRepo struct {
	repositories.VenueRepository
	venues []*models.Venue
}

func (f *fakeVenueRepo) GetByID(ctx context.Context, id int) (*models.Venue, error) {
	for _, v := range f.venues {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, repositories.ErrVenueNotFound
}

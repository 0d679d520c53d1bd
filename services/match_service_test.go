package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smashpoint/badminton-league/models"
)

func matchTestService() (MatchService, *fakeMatchRepo) {
	teamRepo := &fakeTeamRepo{members: map[int]*models.TeamMember{
		10: {ID: 1, UserID: 10, TeamID: 1, Role: models.RoleAdmin},
		11: {ID: 2, UserID: 11, TeamID: 1, Role: models.RoleMember},
	}}
	playerRepo := &fakePlayerRepo{players: []*models.Player{
		{ID: 1, TeamID: 1, DisplayName: "Ana"},
		{ID: 2, TeamID: 1, DisplayName: "Ben"},
		{ID: 3, TeamID: 1, DisplayName: "Kim"},
		{ID: 4, TeamID: 1, DisplayName: "Lee"},
		{ID: 9, TeamID: 2, DisplayName: "Outsider"},
	}}
	venueRepo := &fakeVenueRepo{venues: []*models.Venue{
		{ID: 1, TeamID: 1, Name: "Main Hall", Courts: 4},
		{ID: 2, TeamID: 2, Name: "Other Club", Courts: 2},
	}}
	matchRepo := &fakeMatchRepo{
		matches: []*models.Match{
			{ID: 100, TeamID: 1, Type: models.MatchTypeSingles, Status: models.MatchStatusScheduled, ScheduledAt: time.Now()},
			{ID: 101, TeamID: 1, Type: models.MatchTypeSingles, Status: models.MatchStatusCompleted, ScheduledAt: time.Now(), WinningSide: intPtr(1)},
		},
	}

	svc := NewMatchService(nil, matchRepo, nil, teamRepo, playerRepo, venueRepo, nil, nil, nil)
	return svc, matchRepo
}

func singlesInput() CreateMatchInput {
	return CreateMatchInput{
		TeamID:      1,
		Type:        models.MatchTypeSingles,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Players: []MatchPlayerInput{
			{PlayerID: 1, Side: 1, Position: 1},
			{PlayerID: 2, Side: 2, Position: 1},
		},
	}
}

func TestCreateMatchValidation(t *testing.T) {
	svc, _ := matchTestService()
	ctx := context.Background()

	longNotes := strings.Repeat("x", 501)

	tests := []struct {
		name    string
		mutate  func(*CreateMatchInput)
		userID  int
		wantErr error
	}{
		{
			name:    "unknown match type",
			mutate:  func(in *CreateMatchInput) { in.Type = "TRIPLES" },
			userID:  10,
			wantErr: ErrInvalidMatchType,
		},
		{
			name:    "missing scheduled time",
			mutate:  func(in *CreateMatchInput) { in.ScheduledAt = time.Time{} },
			userID:  10,
			wantErr: ErrScheduledAtRequired,
		},
		{
			name:    "notes too long",
			mutate:  func(in *CreateMatchInput) { in.Notes = &longNotes },
			userID:  10,
			wantErr: ErrNotesTooLong,
		},
		{
			name:    "requester not on team",
			mutate:  func(in *CreateMatchInput) {},
			userID:  99,
			wantErr: ErrNotTeamMember,
		},
		{
			name: "singles needs exactly two players",
			mutate: func(in *CreateMatchInput) {
				in.Players = append(in.Players, MatchPlayerInput{PlayerID: 3, Side: 1, Position: 2})
			},
			userID:  10,
			wantErr: ErrWrongPlayerCount,
		},
		{
			name: "both players on one side",
			mutate: func(in *CreateMatchInput) {
				in.Players[1].Side = 1
				in.Players[1].Position = 1
			},
			userID:  10,
			wantErr: ErrDuplicatePosition,
		},
		{
			name: "position beyond side capacity",
			mutate: func(in *CreateMatchInput) {
				in.Players[0].Position = 2
			},
			userID:  10,
			wantErr: ErrInvalidPosition,
		},
		{
			name: "same player twice",
			mutate: func(in *CreateMatchInput) {
				in.Players[1].PlayerID = 1
			},
			userID:  10,
			wantErr: ErrDuplicatePlayer,
		},
		{
			name: "player from another team",
			mutate: func(in *CreateMatchInput) {
				in.Players[1].PlayerID = 9
			},
			userID:  10,
			wantErr: ErrPlayerNotOnTeam,
		},
		{
			name: "unknown player",
			mutate: func(in *CreateMatchInput) {
				in.Players[1].PlayerID = 777
			},
			userID:  10,
			wantErr: ErrPlayerNotOnTeam,
		},
		{
			name: "venue belongs to another team",
			mutate: func(in *CreateMatchInput) {
				in.VenueID = intPtr(2)
			},
			userID:  10,
			wantErr: ErrVenueNotOnTeam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := singlesInput()
			tt.mutate(&input)
			_, err := svc.CreateMatch(ctx, input, tt.userID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateMatch() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateMatchDoublesSideBalance(t *testing.T) {
	svc, _ := matchTestService()

	input := CreateMatchInput{
		TeamID:      1,
		Type:        models.MatchTypeDoubles,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Players: []MatchPlayerInput{
			{PlayerID: 1, Side: 1, Position: 1},
			{PlayerID: 2, Side: 1, Position: 2},
			{PlayerID: 3, Side: 2, Position: 1},
			{PlayerID: 4, Side: 1, Position: 1}, // third player on side 1
		},
	}

	_, err := svc.CreateMatch(context.Background(), input, 10)
	if err == nil {
		t.Fatal("CreateMatch() expected error for unbalanced sides")
	}
}

func TestIsValidStatusTransition(t *testing.T) {
	tests := []struct {
		current models.MatchStatus
		next    models.MatchStatus
		want    bool
	}{
		{models.MatchStatusScheduled, models.MatchStatusCancelled, true},
		{models.MatchStatusLive, models.MatchStatusCancelled, true},
		{models.MatchStatusScheduled, models.MatchStatusLive, false},
		{models.MatchStatusScheduled, models.MatchStatusCompleted, false},
		{models.MatchStatusLive, models.MatchStatusCompleted, false},
		{models.MatchStatusCompleted, models.MatchStatusCancelled, false},
		{models.MatchStatusCancelled, models.MatchStatusScheduled, false},
	}

	for _, tt := range tests {
		if got := isValidStatusTransition(tt.current, tt.next); got != tt.want {
			t.Errorf("isValidStatusTransition(%s, %s) = %v, want %v", tt.current, tt.next, got, tt.want)
		}
	}
}

func TestUpdateMatchStatusRules(t *testing.T) {
	ctx := context.Background()
	cancelled := models.MatchStatusCancelled
	live := models.MatchStatusLive

	t.Run("member cannot change status", func(t *testing.T) {
		svc, _ := matchTestService()
		_, err := svc.UpdateMatch(ctx, 100, UpdateMatchInput{Status: &cancelled}, 11)
		if !errors.Is(err, ErrAdminOnly) {
			t.Errorf("UpdateMatch() error = %v, want %v", err, ErrAdminOnly)
		}
	})

	t.Run("admin cannot force a match live", func(t *testing.T) {
		svc, _ := matchTestService()
		_, err := svc.UpdateMatch(ctx, 100, UpdateMatchInput{Status: &live}, 10)
		if !errors.Is(err, ErrIllegalStatusChange) {
			t.Errorf("UpdateMatch() error = %v, want %v", err, ErrIllegalStatusChange)
		}
	})

	t.Run("completed match is terminal", func(t *testing.T) {
		svc, _ := matchTestService()
		_, err := svc.UpdateMatch(ctx, 101, UpdateMatchInput{Status: &cancelled}, 10)
		if !errors.Is(err, ErrIllegalStatusChange) {
			t.Errorf("UpdateMatch() error = %v, want %v", err, ErrIllegalStatusChange)
		}
	})

	t.Run("empty update rejected", func(t *testing.T) {
		svc, _ := matchTestService()
		_, err := svc.UpdateMatch(ctx, 100, UpdateMatchInput{}, 10)
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("UpdateMatch() error = %v, want %v", err, ErrValidationFailed)
		}
	})

	t.Run("unknown match", func(t *testing.T) {
		svc, _ := matchTestService()
		_, err := svc.UpdateMatch(ctx, 999, UpdateMatchInput{Status: &cancelled}, 10)
		if !errors.Is(err, ErrMatchNotFound) {
			t.Errorf("UpdateMatch() error = %v, want %v", err, ErrMatchNotFound)
		}
	})
}

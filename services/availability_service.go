package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smashpoint/badminton-league/models"
	"github.com/smashpoint/badminton-league/repositories"
)

type AvailabilityService interface {
	SetAvailability(ctx context.Context, input SetAvailabilityInput, currentUserID int) (*models.Availability, error)
	ListPlayerAvailability(ctx context.Context, playerID, currentUserID int) ([]models.Availability, error)
}

type SetAvailabilityInput struct {
	PlayerID int                       `json:"player_id"`
	Date     time.Time                 `json:"date"`
	Status   models.AvailabilityStatus `json:"status"`
	Notes    *string                   `json:"notes,omitempty"`
}

type availabilityService struct {
	availabilityRepo repositories.AvailabilityRepository
	playerRepo       repositories.PlayerRepository
	teamRepo         repositories.TeamRepository
}

func NewAvailabilityService(
	availabilityRepo repositories.AvailabilityRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
) AvailabilityService {
	return &availabilityService{
		availabilityRepo: availabilityRepo,
		playerRepo:       playerRepo,
		teamRepo:         teamRepo,
	}
}

func (s *availabilityService) getPlayer(ctx context.Context, playerID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}
	return player, nil
}

// SetAvailability records or replaces a player's availability for one date.
// Only the player's own user may set it.
func (s *availabilityService) SetAvailability(ctx context.Context, input SetAvailabilityInput, currentUserID int) (*models.Availability, error) {
	switch input.Status {
	case models.AvailabilityAvailable, models.AvailabilityUnavailable, models.AvailabilityMaybe:
	default:
		return nil, ErrInvalidAvailability
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidationFailed)
	}

	player, err := s.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if player.TeamMember == nil || player.TeamMember.UserID != currentUserID {
		return nil, ErrNotProfileOwner
	}

	entry := &models.Availability{
		PlayerID: input.PlayerID,
		UserID:   currentUserID,
		Date:     input.Date,
		Status:   input.Status,
		Notes:    input.Notes,
	}
	if err := s.availabilityRepo.Upsert(ctx, entry); err != nil {
		if errors.Is(err, repositories.ErrAvailabilityPlayerInvalid) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to save availability: %w", err)
	}
	return entry, nil
}

func (s *availabilityService) ListPlayerAvailability(ctx context.Context, playerID, currentUserID int) ([]models.Availability, error) {
	player, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.teamRepo, currentUserID, player.TeamID); err != nil {
		return nil, err
	}

	entries, err := s.availabilityRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability for player %d: %w", playerID, err)
	}
	return entries, nil
}

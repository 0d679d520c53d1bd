package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smashpoint/badminton-league/models"
	"github.com/smashpoint/badminton-league/repositories"
)

const (
	maxVenueNameLength = 100
	maxVenueCourts     = 20
)

type VenueService interface {
	CreateVenue(ctx context.Context, input VenueInput, currentUserID int) (*models.Venue, error)
	ListTeamVenues(ctx context.Context, teamID, currentUserID int) ([]*models.Venue, error)
	UpdateVenue(ctx context.Context, venueID int, input VenueInput, currentUserID int) (*models.Venue, error)
	DeleteVenue(ctx context.Context, venueID, currentUserID int) error
}

type VenueInput struct {
	TeamID  int     `json:"team_id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Courts  int     `json:"courts"`
	Notes   *string `json:"notes,omitempty"`
}

type venueService struct {
	venueRepo repositories.VenueRepository
	teamRepo  repositories.TeamRepository
}

func NewVenueService(venueRepo repositories.VenueRepository, teamRepo repositories.TeamRepository) VenueService {
	return &venueService{venueRepo: venueRepo, teamRepo: teamRepo}
}

func validateVenueInput(input *VenueInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if len(input.Name) < 2 || len(input.Name) > maxVenueNameLength {
		return ErrVenueNameInvalid
	}
	if input.Courts < 1 || input.Courts > maxVenueCourts {
		return ErrVenueCourtsInvalid
	}
	return nil
}

func (s *venueService) CreateVenue(ctx context.Context, input VenueInput, currentUserID int) (*models.Venue, error) {
	if _, err := requireAdmin(ctx, s.teamRepo, currentUserID, input.TeamID); err != nil {
		return nil, err
	}
	if err := validateVenueInput(&input); err != nil {
		return nil, err
	}

	venue := &models.Venue{
		TeamID:  input.TeamID,
		Name:    input.Name,
		Address: input.Address,
		Courts:  input.Courts,
		Notes:   input.Notes,
	}
	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}
	return venue, nil
}

func (s *venueService) ListTeamVenues(ctx context.Context, teamID, currentUserID int) ([]*models.Venue, error) {
	if _, err := requireMember(ctx, s.teamRepo, currentUserID, teamID); err != nil {
		return nil, err
	}
	venues, err := s.venueRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues for team %d: %w", teamID, err)
	}
	return venues, nil
}

func (s *venueService) getVenueForAdmin(ctx context.Context, venueID, currentUserID int) (*models.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to get venue %d: %w", venueID, err)
	}
	if _, err := requireAdmin(ctx, s.teamRepo, currentUserID, venue.TeamID); err != nil {
		return nil, err
	}
	return venue, nil
}

func (s *venueService) UpdateVenue(ctx context.Context, venueID int, input VenueInput, currentUserID int) (*models.Venue, error) {
	venue, err := s.getVenueForAdmin(ctx, venueID, currentUserID)
	if err != nil {
		return nil, err
	}
	if err := validateVenueInput(&input); err != nil {
		return nil, err
	}

	venue.Name = input.Name
	venue.Address = input.Address
	venue.Courts = input.Courts
	venue.Notes = input.Notes
	if err := s.venueRepo.Update(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to update venue %d: %w", venueID, err)
	}
	return venue, nil
}

func (s *venueService) DeleteVenue(ctx context.Context, venueID, currentUserID int) error {
	if _, err := s.getVenueForAdmin(ctx, venueID, currentUserID); err != nil {
		return err
	}
	// Matches keep their rows; their venue reference is nulled by the FK.
	if err := s.venueRepo.Delete(ctx, venueID); err != nil {
		return fmt.Errorf("failed to delete venue %d: %w", venueID, err)
	}
	return nil
}

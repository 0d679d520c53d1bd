package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/smashpoint/badminton-league/models"
	"github.com/smashpoint/badminton-league/repositories"
	"github.com/smashpoint/badminton-league/storage"
)

var ErrUnsupportedAvatarType = errors.New("unsupported avatar content type")

type PlayerService interface {
	ListTeamPlayers(ctx context.Context, teamID, currentUserID int) ([]*models.Player, error)
	GetPlayerByID(ctx context.Context, playerID, currentUserID int) (*models.Player, error)
	UpdateProfile(ctx context.Context, playerID int, input UpdatePlayerInput, currentUserID int) (*models.Player, error)
	UploadAvatar(ctx context.Context, playerID int, contentType string, data io.Reader, currentUserID int) (*models.Player, error)
}

type UpdatePlayerInput struct {
	DisplayName *string            `json:"display_name,omitempty"`
	SkillLevel  *models.SkillLevel `json:"skill_level,omitempty"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	uploader   storage.FileUploader
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		uploader:   uploader,
	}
}

func (s *playerService) ListTeamPlayers(ctx context.Context, teamID, currentUserID int) ([]*models.Player, error) {
	if _, err := requireMember(ctx, s.teamRepo, currentUserID, teamID); err != nil {
		return nil, err
	}
	players, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for team %d: %w", teamID, err)
	}
	for _, player := range players {
		populatePlayerAvatarURL(player, s.uploader)
	}
	return players, nil
}

func (s *playerService) GetPlayerByID(ctx context.Context, playerID, currentUserID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}
	if _, err := requireMember(ctx, s.teamRepo, currentUserID, player.TeamID); err != nil {
		return nil, err
	}
	populatePlayerAvatarURL(player, s.uploader)
	return player, nil
}

// getOwnPlayer loads a player and verifies the requester is the user behind
// the profile.
func (s *playerService) getOwnPlayer(ctx context.Context, playerID, currentUserID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}
	if player.TeamMember == nil || player.TeamMember.UserID != currentUserID {
		return nil, ErrNotProfileOwner
	}
	return player, nil
}

func (s *playerService) UpdateProfile(ctx context.Context, playerID int, input UpdatePlayerInput, currentUserID int) (*models.Player, error) {
	player, err := s.getOwnPlayer(ctx, playerID, currentUserID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if len(name) < 2 {
			return nil, ErrNameTooShort
		}
		player.DisplayName = name
	}
	if input.SkillLevel != nil {
		switch *input.SkillLevel {
		case models.SkillBeginner, models.SkillIntermediate, models.SkillAdvanced:
			player.SkillLevel = *input.SkillLevel
		default:
			return nil, ErrInvalidSkillLevel
		}
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player %d: %w", playerID, err)
	}
	populatePlayerAvatarURL(player, s.uploader)
	return player, nil
}

func (s *playerService) UploadAvatar(ctx context.Context, playerID int, contentType string, data io.Reader, currentUserID int) (*models.Player, error) {
	if s.uploader == nil {
		return nil, errors.New("file uploads are not configured")
	}

	player, err := s.getOwnPlayer(ctx, playerID, currentUserID)
	if err != nil {
		return nil, err
	}

	ext, err := extensionForContentType(contentType)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%d/%s%s", player.TeamID, uuid.NewString(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar for player %d: %w", playerID, err)
	}

	oldKey := player.AvatarKey
	if err := s.playerRepo.UpdateAvatarKey(ctx, playerID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to store avatar key for player %d: %w", playerID, err)
	}

	// Best effort: the new avatar is already live, a stale object is only
	// wasted storage.
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	player.AvatarKey = &result.Key
	populatePlayerAvatarURL(player, s.uploader)
	return player, nil
}

func extensionForContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAvatarType, contentType)
	}
}

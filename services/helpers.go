package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/smashpoint/badminton-league/models"
	"github.com/smashpoint/badminton-league/repositories"
	"github.com/smashpoint/badminton-league/storage"
)

// requireMember resolves the requesting user's membership in a team,
// translating a missing row into the authorization error the handlers map
// to 403.
func requireMember(ctx context.Context, teamRepo repositories.TeamRepository, userID, teamID int) (*models.TeamMember, error) {
	member, err := teamRepo.GetMember(ctx, userID, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, ErrNotTeamMember
		}
		return nil, fmt.Errorf("failed to resolve membership of user %d in team %d: %w", userID, teamID, err)
	}
	return member, nil
}

// requireAdmin is requireMember plus the ADMIN role gate.
func requireAdmin(ctx context.Context, teamRepo repositories.TeamRepository, userID, teamID int) (*models.TeamMember, error) {
	member, err := requireMember(ctx, teamRepo, userID, teamID)
	if err != nil {
		return nil, err
	}
	if member.Role != models.RoleAdmin {
		return nil, ErrAdminOnly
	}
	return member, nil
}

func populatePlayerAvatarURL(player *models.Player, uploader storage.FileUploader) {
	if player != nil && player.AvatarKey != nil && *player.AvatarKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*player.AvatarKey)
		if url != "" {
			player.AvatarURL = &url
		}
	}
}

package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/smashpoint/badminton-league/models"
	"github.com/smashpoint/badminton-league/repositories"
)

const (
	inviteCodeLength  = 8
	inviteCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxTeamMembers    = 10
	maxInviteAttempts = 3
	maxTeamNameLength = 50
	maxDescriptionLen = 200
)

var ErrInviteCodeGeneration = errors.New("failed to generate unique invite code")

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput, currentUserID int) (*models.Team, error)
	GetTeamByID(ctx context.Context, teamID, currentUserID int) (*models.Team, error)
	ListMyTeams(ctx context.Context, currentUserID int) ([]*models.Team, error)
	JoinByInviteCode(ctx context.Context, inviteCode string, currentUserID int) (*models.Team, error)
	ListMembers(ctx context.Context, teamID, currentUserID int) ([]*models.TeamMember, error)
	UpdateMemberRole(ctx context.Context, teamID, memberID int, role models.MemberRole, currentUserID int) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, memberID, currentUserID int) error
}

type CreateTeamInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type teamService struct {
	db         *sql.DB
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	userRepo   repositories.UserRepository
}

func NewTeamService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	userRepo repositories.UserRepository,
) TeamService {
	return &teamService{
		db:         db,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		userRepo:   userRepo,
	}
}

func generateInviteCode() (string, error) {
	randomBytes := make([]byte, inviteCodeLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	code := make([]byte, inviteCodeLength)
	for i, b := range randomBytes {
		code[i] = inviteCodeCharset[int(b)%len(inviteCodeCharset)]
	}
	return string(code), nil
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput, currentUserID int) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 || len(name) > maxTeamNameLength {
		return nil, ErrTeamNameInvalid
	}
	if input.Description != nil && len(*input.Description) > maxDescriptionLen {
		return nil, fmt.Errorf("%w: description too long", ErrValidationFailed)
	}

	user, err := s.userRepo.GetByID(ctx, currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", currentUserID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			_ = tx.Rollback()
		}
	}()

	team := &models.Team{
		Name:        name,
		Description: input.Description,
	}

	// Invite codes are short, so a collision is possible; retry a few times.
	for attempt := 0; attempt < maxInviteAttempts; attempt++ {
		code, genErr := generateInviteCode()
		if genErr != nil {
			txErr = fmt.Errorf("%w: %w", ErrInviteCodeGeneration, genErr)
			return nil, txErr
		}
		team.InviteCode = code

		txErr = s.teamRepo.Create(ctx, tx, team)
		if txErr == nil {
			break
		}
		if !errors.Is(txErr, repositories.ErrTeamInviteCodeConflict) {
			return nil, fmt.Errorf("failed to create team: %w", txErr)
		}
	}
	if txErr != nil {
		return nil, fmt.Errorf("%w after %d attempts", ErrInviteCodeGeneration, maxInviteAttempts)
	}

	member := &models.TeamMember{
		UserID: currentUserID,
		TeamID: team.ID,
		Role:   models.RoleAdmin,
	}
	if txErr = s.teamRepo.CreateMember(ctx, tx, member); txErr != nil {
		return nil, fmt.Errorf("failed to add creator to team %d: %w", team.ID, txErr)
	}

	player := &models.Player{
		TeamID:       team.ID,
		TeamMemberID: member.ID,
		DisplayName:  user.Name,
		SkillLevel:   models.SkillIntermediate,
	}
	if txErr = s.playerRepo.Create(ctx, tx, player); txErr != nil {
		return nil, fmt.Errorf("failed to create player profile for team %d: %w", team.ID, txErr)
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit team creation: %w", txErr)
	}

	team.Role = models.RoleAdmin
	team.MemberCount = 1
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, teamID, currentUserID int) (*models.Team, error) {
	if _, err := requireMember(ctx, s.teamRepo, currentUserID, teamID); err != nil {
		return nil, err
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	return team, nil
}

func (s *teamService) ListMyTeams(ctx context.Context, currentUserID int) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByUserID(ctx, currentUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for user %d: %w", currentUserID, err)
	}
	return teams, nil
}

func (s *teamService) JoinByInviteCode(ctx context.Context, inviteCode string, currentUserID int) (*models.Team, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	if code == "" {
		return nil, ErrInvalidInviteCode
	}

	team, err := s.teamRepo.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	if _, err := s.teamRepo.GetMember(ctx, currentUserID, team.ID); err == nil {
		return nil, ErrAlreadyTeamMember
	} else if !errors.Is(err, repositories.ErrMemberNotFound) {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}

	count, err := s.teamRepo.CountMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	if count >= maxTeamMembers {
		return nil, ErrTeamFull
	}

	user, err := s.userRepo.GetByID(ctx, currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", currentUserID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			_ = tx.Rollback()
		}
	}()

	member := &models.TeamMember{
		UserID: currentUserID,
		TeamID: team.ID,
		Role:   models.RoleMember,
	}
	if txErr = s.teamRepo.CreateMember(ctx, tx, member); txErr != nil {
		if errors.Is(txErr, repositories.ErrMemberConflict) {
			return nil, ErrAlreadyTeamMember
		}
		return nil, fmt.Errorf("failed to join team %d: %w", team.ID, txErr)
	}

	player := &models.Player{
		TeamID:       team.ID,
		TeamMemberID: member.ID,
		DisplayName:  user.Name,
		SkillLevel:   models.SkillIntermediate,
	}
	if txErr = s.playerRepo.Create(ctx, tx, player); txErr != nil {
		return nil, fmt.Errorf("failed to create player profile in team %d: %w", team.ID, txErr)
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit team join: %w", txErr)
	}

	team.Role = models.RoleMember
	return team, nil
}

func (s *teamService) ListMembers(ctx context.Context, teamID, currentUserID int) ([]*models.TeamMember, error) {
	if _, err := requireMember(ctx, s.teamRepo, currentUserID, teamID); err != nil {
		return nil, err
	}
	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", teamID, err)
	}
	return members, nil
}

func (s *teamService) UpdateMemberRole(ctx context.Context, teamID, memberID int, role models.MemberRole, currentUserID int) (*models.TeamMember, error) {
	if role != models.RoleAdmin && role != models.RoleMember {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidationFailed, role)
	}
	if _, err := requireAdmin(ctx, s.teamRepo, currentUserID, teamID); err != nil {
		return nil, err
	}

	member, err := s.teamRepo.GetMemberByID(ctx, memberID)
	if err != nil || member.TeamID != teamID {
		return nil, ErrMemberNotFound
	}

	// Never demote the final admin.
	if member.Role == models.RoleAdmin && role == models.RoleMember {
		admins, err := s.teamRepo.CountAdmins(ctx, teamID)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	if err := s.teamRepo.UpdateMemberRole(ctx, memberID, role); err != nil {
		return nil, fmt.Errorf("failed to update role of member %d: %w", memberID, err)
	}
	member.Role = role
	return member, nil
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, memberID, currentUserID int) error {
	requester, err := requireMember(ctx, s.teamRepo, currentUserID, teamID)
	if err != nil {
		return err
	}

	member, err := s.teamRepo.GetMemberByID(ctx, memberID)
	if err != nil || member.TeamID != teamID {
		return ErrMemberNotFound
	}

	// Members may leave on their own; removing anyone else takes an admin.
	isSelfRemoval := member.UserID == currentUserID
	if !isSelfRemoval && requester.Role != models.RoleAdmin {
		return ErrAdminOnly
	}

	if member.Role == models.RoleAdmin {
		admins, err := s.teamRepo.CountAdmins(ctx, teamID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.teamRepo.DeleteMember(ctx, memberID); err != nil {
		return fmt.Errorf("failed to remove member %d: %w", memberID, err)
	}
	return nil
}

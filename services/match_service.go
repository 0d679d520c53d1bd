package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smashpoint/badminton-league/models"
	"github.com/smashpoint/badminton-league/repositories"
	"github.com/smashpoint/badminton-league/storage"
)

const (
	maxNotesLength    = 500
	defaultMatchLimit = 50
	staleScheduledAge = 48 * time.Hour
)

type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput, currentUserID int) (*models.Match, error)
	GetMatch(ctx context.Context, matchID, currentUserID int) (*models.Match, error)
	ListTeamMatches(ctx context.Context, teamID int, status *models.MatchStatus, limit, currentUserID int) ([]*models.Match, error)
	UpdateMatch(ctx context.Context, matchID int, input UpdateMatchInput, currentUserID int) (*models.Match, error)
	DeleteMatch(ctx context.Context, matchID, currentUserID int) error
	AutoCancelStaleMatches(ctx context.Context) error
}

type MatchPlayerInput struct {
	PlayerID int `json:"player_id"`
	Side     int `json:"side"`
	Position int `json:"position"`
}

type CreateMatchInput struct {
	TeamID      int                `json:"team_id"`
	VenueID     *int               `json:"venue_id,omitempty"`
	Type        models.MatchType   `json:"type"`
	ScheduledAt time.Time          `json:"scheduled_at"`
	Notes       *string            `json:"notes,omitempty"`
	Players     []MatchPlayerInput `json:"players"`
}

type UpdateMatchInput struct {
	Status *models.MatchStatus `json:"status,omitempty"`
	Notes  *string             `json:"notes,omitempty"`
}

type matchService struct {
	db          *sql.DB
	matchRepo   repositories.MatchRepository
	setRepo     repositories.SetRepository
	teamRepo    repositories.TeamRepository
	playerRepo  repositories.PlayerRepository
	venueRepo   repositories.VenueRepository
	commentRepo repositories.CommentRepository
	uploader    storage.FileUploader
	logger      *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	setRepo repositories.SetRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	venueRepo repositories.VenueRepository,
	commentRepo repositories.CommentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:          db,
		matchRepo:   matchRepo,
		setRepo:     setRepo,
		teamRepo:    teamRepo,
		playerRepo:  playerRepo,
		venueRepo:   venueRepo,
		commentRepo: commentRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *matchService) validatePlayers(ctx context.Context, input CreateMatchInput) error {
	maxPerSide := input.Type.MaxPerSide()
	expectedPlayers := maxPerSide * 2

	if len(input.Players) != expectedPlayers {
		return fmt.Errorf("%w: %s requires %d players", ErrWrongPlayerCount, input.Type, expectedPlayers)
	}

	seenPlayers := make(map[int]bool, expectedPlayers)
	seenSlots := make(map[[2]int]bool, expectedPlayers)
	sideCounts := map[int]int{}

	for _, p := range input.Players {
		if p.Side != 1 && p.Side != 2 {
			return fmt.Errorf("%w: side must be 1 or 2", ErrValidationFailed)
		}
		if p.Position < 1 || p.Position > maxPerSide {
			return ErrInvalidPosition
		}
		if seenPlayers[p.PlayerID] {
			return ErrDuplicatePlayer
		}
		seenPlayers[p.PlayerID] = true
		slot := [2]int{p.Side, p.Position}
		if seenSlots[slot] {
			return ErrDuplicatePosition
		}
		seenSlots[slot] = true
		sideCounts[p.Side]++
	}

	if sideCounts[1] != maxPerSide || sideCounts[2] != maxPerSide {
		return fmt.Errorf("%w: %s requires %d per side", ErrWrongPlayerCount, input.Type, maxPerSide)
	}

	ids := make([]int, 0, len(seenPlayers))
	for id := range seenPlayers {
		ids = append(ids, id)
	}
	teamPlayers, err := s.playerRepo.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify match players: %w", err)
	}
	if len(teamPlayers) != len(ids) {
		return ErrPlayerNotOnTeam
	}
	for _, player := range teamPlayers {
		if player.TeamID != input.TeamID {
			return ErrPlayerNotOnTeam
		}
	}
	return nil
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput, currentUserID int) (*models.Match, error) {
	if input.Type != models.MatchTypeSingles && input.Type != models.MatchTypeDoubles {
		return nil, ErrInvalidMatchType
	}
	if input.ScheduledAt.IsZero() {
		return nil, ErrScheduledAtRequired
	}
	if input.Notes != nil && len(*input.Notes) > maxNotesLength {
		return nil, ErrNotesTooLong
	}

	if _, err := requireMember(ctx, s.teamRepo, currentUserID, input.TeamID); err != nil {
		return nil, err
	}

	if err := s.validatePlayers(ctx, input); err != nil {
		return nil, err
	}

	if input.VenueID != nil {
		venue, err := s.venueRepo.GetByID(ctx, *input.VenueID)
		if err != nil || venue.TeamID != input.TeamID {
			return nil, ErrVenueNotOnTeam
		}
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

	match := &models.Match{
		TeamID:      input.TeamID,
		VenueID:     input.VenueID,
		Type:        input.Type,
		Status:      models.MatchStatusScheduled,
		ScheduledAt: input.ScheduledAt,
		Notes:       input.Notes,
	}
	if txErr = s.matchRepo.Create(ctx, tx, match); txErr != nil {
		return nil, fmt.Errorf("failed to create match: %w", txErr)
	}

	for _, p := range input.Players {
		mp := &models.MatchPlayer{
			MatchID:  match.ID,
			PlayerID: p.PlayerID,
			Side:     p.Side,
			Position: p.Position,
		}
		if txErr = s.matchRepo.CreatePlayer(ctx, tx, mp); txErr != nil {
			return nil, fmt.Errorf("failed to assign player %d: %w", p.PlayerID, txErr)
		}
	}

	// Every match starts with an empty first set.
	firstSet := &models.Set{MatchID: match.ID, SetNumber: 1}
	if txErr = s.setRepo.Create(ctx, tx, firstSet); txErr != nil {
		return nil, fmt.Errorf("failed to create first set: %w", txErr)
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit match creation: %w", txErr)
	}

	if err := s.loadMatchRelations(ctx, nil, match); err != nil {
		return nil, err
	}
	return match, nil
}

// loadMatchRelations fills in sets, player assignments, venue and comments
// on an already-loaded match. When exec is non-nil the reads join the
// caller's transaction.
func (s *matchService) loadMatchRelations(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	sets, err := s.setRepo.ListByMatch(ctx, exec, match.ID)
	if err != nil {
		return err
	}
	match.Sets = sets

	players, err := s.matchRepo.ListPlayersByMatch(ctx, exec, match.ID)
	if err != nil {
		return err
	}
	for i := range players {
		populatePlayerAvatarURL(players[i].Player, s.uploader)
	}
	match.Players = players

	if match.VenueID != nil {
		venue, err := s.venueRepo.GetByID(ctx, *match.VenueID)
		if err != nil && !errors.Is(err, repositories.ErrVenueNotFound) {
			return err
		}
		match.Venue = venue
	}

	comments, err := s.commentRepo.ListByMatch(ctx, exec, match.ID)
	if err != nil {
		return err
	}
	match.Comments = comments
	return nil
}

func (s *matchService) GetMatch(ctx context.Context, matchID, currentUserID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	if _, err := requireMember(ctx, s.teamRepo, currentUserID, match.TeamID); err != nil {
		return nil, err
	}
	if err := s.loadMatchRelations(ctx, nil, match); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListTeamMatches(ctx context.Context, teamID int, status *models.MatchStatus, limit, currentUserID int) ([]*models.Match, error) {
	if _, err := requireMember(ctx, s.teamRepo, currentUserID, teamID); err != nil {
		return nil, err
	}
	if status != nil {
		switch *status {
		case models.MatchStatusScheduled, models.MatchStatusLive, models.MatchStatusCompleted, models.MatchStatusCancelled:
		default:
			return nil, ErrInvalidMatchStatus
		}
	}
	if limit <= 0 {
		limit = defaultMatchLimit
	}

	matches, err := s.matchRepo.ListByTeam(ctx, teamID, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for team %d: %w", teamID, err)
	}

	matchIDs := make([]int, len(matches))
	for i, match := range matches {
		matchIDs[i] = match.ID
	}

	setsByMatch, err := s.setRepo.ListByMatchIDs(ctx, matchIDs)
	if err != nil {
		return nil, err
	}
	playersByMatch, err := s.matchRepo.ListPlayersByMatchIDs(ctx, matchIDs)
	if err != nil {
		return nil, err
	}

	venues, err := s.venueRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	venuesByID := make(map[int]*models.Venue, len(venues))
	for _, venue := range venues {
		venuesByID[venue.ID] = venue
	}

	for _, match := range matches {
		match.Sets = setsByMatch[match.ID]
		match.Players = playersByMatch[match.ID]
		for i := range match.Players {
			populatePlayerAvatarURL(match.Players[i].Player, s.uploader)
		}
		if match.VenueID != nil {
			match.Venue = venuesByID[*match.VenueID]
		}
	}
	return matches, nil
}

// Legal admin-driven status transitions. The engine owns SCHEDULED→LIVE and
// →COMPLETED; the only administrative move is cancelling an unfinished match.
func isValidStatusTransition(current, next models.MatchStatus) bool {
	allowed := map[models.MatchStatus][]models.MatchStatus{
		models.MatchStatusScheduled: {models.MatchStatusCancelled},
		models.MatchStatusLive:      {models.MatchStatusCancelled},
		models.MatchStatusCompleted: {},
		models.MatchStatusCancelled: {},
	}
	for _, status := range allowed[current] {
		if next == status {
			return true
		}
	}
	return false
}

func (s *matchService) UpdateMatch(ctx context.Context, matchID int, input UpdateMatchInput, currentUserID int) (*models.Match, error) {
	if input.Status == nil && input.Notes == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidationFailed)
	}

	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}

	member, err := requireMember(ctx, s.teamRepo, currentUserID, match.TeamID)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if member.Role != models.RoleAdmin {
			return nil, ErrAdminOnly
		}
		switch *input.Status {
		case models.MatchStatusScheduled, models.MatchStatusLive, models.MatchStatusCompleted, models.MatchStatusCancelled:
		default:
			return nil, ErrInvalidMatchStatus
		}
		if !isValidStatusTransition(match.Status, *input.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalStatusChange, match.Status, *input.Status)
		}
		// Cancellation keeps existing set rows; only the status flips.
		if err := s.matchRepo.UpdateStatus(ctx, nil, matchID, *input.Status); err != nil {
			return nil, err
		}
		match.Status = *input.Status
	}

	if input.Notes != nil {
		if len(*input.Notes) > maxNotesLength {
			return nil, ErrNotesTooLong
		}
		if err := s.matchRepo.UpdateNotes(ctx, matchID, input.Notes); err != nil {
			return nil, err
		}
		match.Notes = input.Notes
	}

	if err := s.loadMatchRelations(ctx, nil, match); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) DeleteMatch(ctx context.Context, matchID, currentUserID int) error {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	if _, err := requireAdmin(ctx, s.teamRepo, currentUserID, match.TeamID); err != nil {
		return err
	}
	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		return fmt.Errorf("failed to delete match %d: %w", matchID, err)
	}
	return nil
}

// AutoCancelStaleMatches cancels matches that were never started and whose
// scheduled time is long past. Run periodically from main.
func (s *matchService) AutoCancelStaleMatches(ctx context.Context) error {
	cutoff := time.Now().Add(-staleScheduledAge)
	affected, err := s.matchRepo.CancelStaleScheduled(ctx, cutoff)
	if err != nil {
		return err
	}
	if affected > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "cancelled stale scheduled matches",
			slog.Int64("count", affected),
			slog.Time("cutoff", cutoff))
	}
	return nil
}

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
	"github.com/smashpoint/badminton-league/scoring"
)

// Sequencing and validation errors for score reports. ErrWrongSet is always
// wrapped with the set number that may be updated instead.
var (
	ErrInvalidScore       = errors.New("scores must be between 0 and 30")
	ErrInvalidSetNumber   = errors.New("set number must be between 1 and 3")
	ErrMatchFinished      = errors.New("match is already finished")
	ErrAllSetsComplete    = errors.New("all sets already complete")
	ErrWrongSet           = errors.New("wrong set for score report")
	ErrSetAlreadyComplete = errors.New("this set is already complete")
)

type ScoringService interface {
	RecordSetScore(ctx context.Context, input RecordScoreInput, currentUserID int) (*ScoreResult, error)
}

type RecordScoreInput struct {
	MatchID    int `json:"match_id"`
	SetNumber  int `json:"set_number"`
	Side1Score int `json:"side1_score"`
	Side2Score int `json:"side2_score"`
}

// ScoreResult carries the refreshed match plus the set the report landed on.
type ScoreResult struct {
	Match *models.Match `json:"match"`
	Set   *models.Set   `json:"set"`
}

type scoringService struct {
	db        *sql.DB
	matchRepo repositories.MatchRepository
	setRepo   repositories.SetRepository
	teamRepo  repositories.TeamRepository
	matches   MatchService
	hub       *scoring.Hub
	logger    *slog.Logger
}

func NewScoringService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	setRepo repositories.SetRepository,
	teamRepo repositories.TeamRepository,
	matches MatchService,
	hub *scoring.Hub,
	logger *slog.Logger,
) ScoringService {
	return &scoringService{
		db:        db,
		matchRepo: matchRepo,
		setRepo:   setRepo,
		teamRepo:  teamRepo,
		matches:   matches,
		hub:       hub,
		logger:    logger,
	}
}

// validateScoreReport checks that the match can still take scores and that
// the report targets the one set allowed to receive them.
func validateScoreReport(status models.MatchStatus, sets []models.Set, setNumber int) error {
	if status == models.MatchStatusCompleted || status == models.MatchStatusCancelled {
		return ErrMatchFinished
	}
	for i := range sets {
		if sets[i].SetNumber == setNumber && sets[i].IsComplete {
			return ErrSetAlreadyComplete
		}
	}
	expected := scoring.ExpectedSetNumber(sets)
	if expected > scoring.MaxSets {
		return ErrAllSetsComplete
	}
	if setNumber != expected {
		return fmt.Errorf("%w: only set %d can be updated right now", ErrWrongSet, expected)
	}
	return nil
}

// RecordSetScore applies one score report: it updates (or creates) the one
// set that may legally receive scores, flips a scheduled match live on the
// first report, and when the report completes a set either decides the match
// or opens the next set. All writes happen in a single transaction holding a
// row lock on the match, so concurrent reports for the same match apply one
// at a time.
func (s *scoringService) RecordSetScore(ctx context.Context, input RecordScoreInput, currentUserID int) (*ScoreResult, error) {
	if input.Side1Score < 0 || input.Side1Score > scoring.MaxScore ||
		input.Side2Score < 0 || input.Side2Score > scoring.MaxScore {
		return nil, ErrInvalidScore
	}
	if input.SetNumber < 1 || input.SetNumber > scoring.MaxSets {
		return nil, ErrInvalidSetNumber
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

	match, txErr := s.matchRepo.GetByIDForUpdate(ctx, tx, input.MatchID)
	if txErr != nil {
		if errors.Is(txErr, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to lock match %d: %w", input.MatchID, txErr)
	}

	if _, txErr = requireMember(ctx, s.teamRepo, currentUserID, match.TeamID); txErr != nil {
		return nil, txErr
	}

	sets, txErr := s.setRepo.ListByMatch(ctx, tx, input.MatchID)
	if txErr != nil {
		return nil, fmt.Errorf("failed to load sets for match %d: %w", input.MatchID, txErr)
	}

	if txErr = validateScoreReport(match.Status, sets, input.SetNumber); txErr != nil {
		return nil, txErr
	}

	var target *models.Set
	for i := range sets {
		if sets[i].SetNumber == input.SetNumber {
			target = &sets[i]
			break
		}
	}

	if target == nil {
		target = &models.Set{MatchID: input.MatchID, SetNumber: input.SetNumber}
		if txErr = s.setRepo.Create(ctx, tx, target); txErr != nil {
			return nil, fmt.Errorf("failed to create set %d: %w", input.SetNumber, txErr)
		}
		sets = append(sets, *target)
		target = &sets[len(sets)-1]
	}

	// First score report starts the match.
	if match.Status == models.MatchStatusScheduled {
		if txErr = s.matchRepo.UpdateStatus(ctx, tx, match.ID, models.MatchStatusLive); txErr != nil {
			return nil, txErr
		}
		match.Status = models.MatchStatusLive
	}

	target.Side1Score = input.Side1Score
	target.Side2Score = input.Side2Score
	if winner := scoring.SetWinner(input.Side1Score, input.Side2Score); winner != 0 {
		now := time.Now()
		target.IsComplete = true
		target.WinningSide = &winner
		target.CompletedAt = &now
	} else {
		target.IsComplete = false
		target.WinningSide = nil
		target.CompletedAt = nil
	}
	if txErr = s.setRepo.Update(ctx, tx, target); txErr != nil {
		return nil, fmt.Errorf("failed to update set %d: %w", target.SetNumber, txErr)
	}

	matchCompleted := false
	if target.IsComplete {
		if matchWinner := scoring.MatchWinner(sets); matchWinner != 0 {
			if txErr = s.matchRepo.UpdateStatusWinner(ctx, tx, match.ID, models.MatchStatusCompleted, matchWinner); txErr != nil {
				return nil, txErr
			}
			matchCompleted = true
		} else if next := target.SetNumber + 1; next <= scoring.MaxSets {
			exists := false
			for i := range sets {
				if sets[i].SetNumber == next {
					exists = true
					break
				}
			}
			if !exists {
				nextSet := &models.Set{MatchID: match.ID, SetNumber: next}
				if txErr = s.setRepo.Create(ctx, tx, nextSet); txErr != nil {
					return nil, fmt.Errorf("failed to create set %d: %w", next, txErr)
				}
			}
		}
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit score report: %w", txErr)
	}

	refreshed, err := s.matches.GetMatch(ctx, input.MatchID, currentUserID)
	if err != nil {
		return nil, err
	}

	var reportedSet *models.Set
	for i := range refreshed.Sets {
		if refreshed.Sets[i].SetNumber == input.SetNumber {
			reportedSet = &refreshed.Sets[i]
			break
		}
	}

	result := &ScoreResult{Match: refreshed, Set: reportedSet}
	s.broadcast(refreshed, result, matchCompleted)
	return result, nil
}

func (s *scoringService) broadcast(match *models.Match, result *ScoreResult, matchCompleted bool) {
	if s.hub == nil {
		return
	}
	room := scoring.MatchRoom(match.ID)
	s.hub.BroadcastToRoom(room, scoring.WebSocketMessage{
		Type:    scoring.EventScoreUpdated,
		Payload: result,
		RoomID:  room,
	})
	if matchCompleted {
		s.hub.BroadcastToRoom(room, scoring.WebSocketMessage{
			Type:    scoring.EventMatchCompleted,
			Payload: match,
			RoomID:  room,
		})
		if s.logger != nil {
			s.logger.Info("match completed",
				slog.Int("match_id", match.ID),
				slog.Int("winning_side", derefInt(match.WinningSide)))
		}
	}
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

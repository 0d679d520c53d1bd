package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/smashpoint/badminton-league/models"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchVenueInvalid       = errors.New("match venue conflict or invalid")
	ErrMatchPlayerInvalid      = errors.New("match player conflict or invalid")
	ErrMatchPlayerSlotConflict = errors.New("duplicate side/position in match")
	ErrMatchPlayerDuplicate    = errors.New("player already assigned to this match")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	CreatePlayer(ctx context.Context, exec SQLExecutor, mp *models.MatchPlayer) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTeam(ctx context.Context, teamID int, status *models.MatchStatus, limit int) ([]*models.Match, error)
	ListPlayersByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.MatchPlayer, error)
	ListPlayersByMatchIDs(ctx context.Context, matchIDs []int) (map[int][]models.MatchPlayer, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	UpdateStatusWinner(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, winningSide int) error
	UpdateNotes(ctx context.Context, id int, notes *string) error
	Delete(ctx context.Context, id int) error
	CancelStaleScheduled(ctx context.Context, cutoff time.Time) (int64, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches (team_id, venue_id, type, status, scheduled_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.TeamID,
		match.VenueID,
		match.Type,
		match.Status,
		match.ScheduledAt,
		match.Notes,
	).Scan(&match.ID, &match.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "matches_team_id_fkey":
				return ErrTeamNotFound
			case "matches_venue_id_fkey":
				return ErrMatchVenueInvalid
			}
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) CreatePlayer(ctx context.Context, exec SQLExecutor, mp *models.MatchPlayer) error {
	query := `
		INSERT INTO match_players (match_id, player_id, side, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		mp.MatchID,
		mp.PlayerID,
		mp.Side,
		mp.Position,
	).Scan(&mp.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "match_players_match_id_side_position_key":
				return ErrMatchPlayerSlotConflict
			case "match_players_match_id_player_id_key":
				return ErrMatchPlayerDuplicate
			case "match_players_player_id_fkey":
				return ErrMatchPlayerInvalid
			case "match_players_match_id_fkey":
				return ErrMatchNotFound
			}
		}
		return fmt.Errorf("failed to create match player: %w", err)
	}
	return nil
}

const matchColumns = `id, team_id, venue_id, type, status, scheduled_at, winning_side, notes, created_at`

func scanMatch(row *sql.Row, match *models.Match) error {
	return row.Scan(
		&match.ID,
		&match.TeamID,
		&match.VenueID,
		&match.Type,
		&match.Status,
		&match.ScheduledAt,
		&match.WinningSide,
		&match.Notes,
		&match.CreatedAt,
	)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	if exec == nil {
		exec = r.db
	}
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	if err := scanMatch(exec.QueryRowContext(ctx, query, id), match); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

// GetByIDForUpdate locks the match row for the duration of the enclosing
// transaction; concurrent score reports on the same match serialize here.
func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`

	match := &models.Match{}
	if err := scanMatch(exec.QueryRowContext(ctx, query, id), match); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to lock match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTeam(ctx context.Context, teamID int, statusFilter *models.MatchStatus, limit int) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE team_id = $1`)

	args := []interface{}{teamID}
	placeholderIndex := 2

	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY scheduled_at DESC, id DESC")

	if limit > 0 {
		queryBuilder.WriteString(" LIMIT $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for team %d: %w", teamID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := rows.Scan(
			&match.ID,
			&match.TeamID,
			&match.VenueID,
			&match.Type,
			&match.Status,
			&match.ScheduledAt,
			&match.WinningSide,
			&match.Notes,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListPlayersByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.MatchPlayer, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		SELECT mp.id, mp.match_id, mp.player_id, mp.side, mp.position,
		       p.id, p.team_id, p.team_member_id, p.display_name, p.skill_level, p.avatar_key, p.created_at
		FROM match_players mp
		JOIN players p ON p.id = mp.player_id
		WHERE mp.match_id = $1
		ORDER BY mp.side ASC, mp.position ASC`

	rows, err := exec.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for match %d: %w", matchID, err)
	}
	defer rows.Close()

	return scanMatchPlayers(rows)
}

func (r *postgresMatchRepository) ListPlayersByMatchIDs(ctx context.Context, matchIDs []int) (map[int][]models.MatchPlayer, error) {
	result := make(map[int][]models.MatchPlayer)
	if len(matchIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT mp.id, mp.match_id, mp.player_id, mp.side, mp.position,
		       p.id, p.team_id, p.team_member_id, p.display_name, p.skill_level, p.avatar_key, p.created_at
		FROM match_players mp
		JOIN players p ON p.id = mp.player_id
		WHERE mp.match_id = ANY($1)
		ORDER BY mp.match_id ASC, mp.side ASC, mp.position ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query players for matches: %w", err)
	}
	defer rows.Close()

	players, err := scanMatchPlayers(rows)
	if err != nil {
		return nil, err
	}
	for _, mp := range players {
		result[mp.MatchID] = append(result[mp.MatchID], mp)
	}
	return result, nil
}

func scanMatchPlayers(rows *sql.Rows) ([]models.MatchPlayer, error) {
	players := make([]models.MatchPlayer, 0)
	for rows.Next() {
		var mp models.MatchPlayer
		var player models.Player
		if scanErr := rows.Scan(
			&mp.ID,
			&mp.MatchID,
			&mp.PlayerID,
			&mp.Side,
			&mp.Position,
			&player.ID,
			&player.TeamID,
			&player.TeamMemberID,
			&player.DisplayName,
			&player.SkillLevel,
			&player.AvatarKey,
			&player.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match player row: %w", scanErr)
		}
		mp.Player = &player
		players = append(players, mp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	if exec == nil {
		exec = r.db
	}
	query := `UPDATE matches SET status = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatusWinner(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, winningSide int) error {
	query := `UPDATE matches SET status = $1, winning_side = $2 WHERE id = $3`
	result, err := exec.ExecContext(ctx, query, status, winningSide, id)
	if err != nil {
		return fmt.Errorf("failed to update winner of match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateNotes(ctx context.Context, id int, notes *string) error {
	query := `UPDATE matches SET notes = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, notes, id)
	if err != nil {
		return fmt.Errorf("failed to update notes of match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// CancelStaleScheduled cancels every match still SCHEDULED whose scheduled
// time is before the cutoff, returning how many were flipped.
func (r *postgresMatchRepository) CancelStaleScheduled(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE matches SET status = $1 WHERE status = $2 AND scheduled_at < $3`
	result, err := r.db.ExecContext(ctx, query, models.MatchStatusCancelled, models.MatchStatusScheduled, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel stale scheduled matches: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return affected, nil
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	// Sets, player assignments and comments cascade via FK constraints.
	query := `DELETE FROM matches WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

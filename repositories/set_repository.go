package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/smashpoint/badminton-league/models"
)

var (
	ErrSetNotFound       = errors.New("set not found")
	ErrSetNumberConflict = errors.New("set number already exists for this match")
)

type SetRepository interface {
	Create(ctx context.Context, exec SQLExecutor, set *models.Set) error
	Update(ctx context.Context, exec SQLExecutor, set *models.Set) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Set, error)
	ListByMatchIDs(ctx context.Context, matchIDs []int) (map[int][]models.Set, error)
}

type postgresSetRepository struct {
	db *sql.DB
}

func NewPostgresSetRepository(db *sql.DB) SetRepository {
	return &postgresSetRepository{db: db}
}

func (r *postgresSetRepository) Create(ctx context.Context, exec SQLExecutor, set *models.Set) error {
	query := `
		INSERT INTO sets (match_id, set_number, side1_score, side2_score, is_complete, winning_side, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		set.MatchID,
		set.SetNumber,
		set.Side1Score,
		set.Side2Score,
		set.IsComplete,
		set.WinningSide,
		set.CompletedAt,
	).Scan(&set.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "sets_match_id_set_number_key":
				return ErrSetNumberConflict
			case "sets_match_id_fkey":
				return ErrMatchNotFound
			}
		}
		return fmt.Errorf("failed to create set: %w", err)
	}
	return nil
}

func (r *postgresSetRepository) Update(ctx context.Context, exec SQLExecutor, set *models.Set) error {
	query := `
		UPDATE sets
		SET side1_score = $1, side2_score = $2, is_complete = $3, winning_side = $4, completed_at = $5
		WHERE id = $6`

	result, err := exec.ExecContext(ctx, query,
		set.Side1Score,
		set.Side2Score,
		set.IsComplete,
		set.WinningSide,
		set.CompletedAt,
		set.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update set %d: %w", set.ID, err)
	}
	return checkAffectedRows(result, ErrSetNotFound)
}

func (r *postgresSetRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Set, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		SELECT id, match_id, set_number, side1_score, side2_score, is_complete, winning_side, completed_at
		FROM sets
		WHERE match_id = $1
		ORDER BY set_number ASC`

	rows, err := exec.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sets for match %d: %w", matchID, err)
	}
	defer rows.Close()

	sets, err := scanSets(rows)
	if err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *postgresSetRepository) ListByMatchIDs(ctx context.Context, matchIDs []int) (map[int][]models.Set, error) {
	result := make(map[int][]models.Set)
	if len(matchIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT id, match_id, set_number, side1_score, side2_score, is_complete, winning_side, completed_at
		FROM sets
		WHERE match_id = ANY($1)
		ORDER BY match_id ASC, set_number ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query sets for matches: %w", err)
	}
	defer rows.Close()

	sets, err := scanSets(rows)
	if err != nil {
		return nil, err
	}
	for _, s := range sets {
		result[s.MatchID] = append(result[s.MatchID], s)
	}
	return result, nil
}

func scanSets(rows *sql.Rows) ([]models.Set, error) {
	sets := make([]models.Set, 0)
	for rows.Next() {
		var set models.Set
		if scanErr := rows.Scan(
			&set.ID,
			&set.MatchID,
			&set.SetNumber,
			&set.Side1Score,
			&set.Side2Score,
			&set.IsComplete,
			&set.WinningSide,
			&set.CompletedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan set row: %w", scanErr)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during set rows iteration: %w", err)
	}
	return sets, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/smashpoint/badminton-league/models"
)

var ErrAvailabilityPlayerInvalid = errors.New("availability player conflict or invalid")

type AvailabilityRepository interface {
	Upsert(ctx context.Context, entry *models.Availability) error
	ListByPlayer(ctx context.Context, playerID int) ([]models.Availability, error)
}

type postgresAvailabilityRepository struct {
	db *sql.DB
}

func NewPostgresAvailabilityRepository(db *sql.DB) AvailabilityRepository {
	return &postgresAvailabilityRepository{db: db}
}

func (r *postgresAvailabilityRepository) Upsert(ctx context.Context, entry *models.Availability) error {
	query := `
		INSERT INTO availability (player_id, user_id, date, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id, date)
		DO UPDATE SET status = EXCLUDED.status, notes = EXCLUDED.notes
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		entry.PlayerID,
		entry.UserID,
		entry.Date,
		entry.Status,
		entry.Notes,
	).Scan(&entry.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "availability_player_id_fkey" {
			return ErrAvailabilityPlayerInvalid
		}
		return fmt.Errorf("failed to upsert availability: %w", err)
	}
	return nil
}

func (r *postgresAvailabilityRepository) ListByPlayer(ctx context.Context, playerID int) ([]models.Availability, error) {
	query := `
		SELECT id, player_id, user_id, date, status, notes
		FROM availability
		WHERE player_id = $1
		ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability for player %d: %w", playerID, err)
	}
	defer rows.Close()

	entries := make([]models.Availability, 0)
	for rows.Next() {
		var entry models.Availability
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.PlayerID,
			&entry.UserID,
			&entry.Date,
			&entry.Status,
			&entry.Notes,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan availability row: %w", scanErr)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during availability rows iteration: %w", err)
	}
	return entries, nil
}

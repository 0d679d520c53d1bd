package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smashpoint/badminton-league/models"
)

var ErrVenueNotFound = errors.New("venue not found")

type VenueRepository interface {
	Create(ctx context.Context, venue *models.Venue) error
	GetByID(ctx context.Context, id int) (*models.Venue, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Venue, error)
	Update(ctx context.Context, venue *models.Venue) error
	Delete(ctx context.Context, id int) error
}

type postgresVenueRepository struct {
	db *sql.DB
}

func NewPostgresVenueRepository(db *sql.DB) VenueRepository {
	return &postgresVenueRepository{db: db}
}

func (r *postgresVenueRepository) Create(ctx context.Context, venue *models.Venue) error {
	query := `
		INSERT INTO venues (team_id, name, address, courts, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		venue.TeamID,
		venue.Name,
		venue.Address,
		venue.Courts,
		venue.Notes,
	).Scan(&venue.ID, &venue.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

func (r *postgresVenueRepository) GetByID(ctx context.Context, id int) (*models.Venue, error) {
	query := `SELECT id, team_id, name, address, courts, notes, created_at FROM venues WHERE id = $1`

	venue := &models.Venue{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&venue.ID,
		&venue.TeamID,
		&venue.Name,
		&venue.Address,
		&venue.Courts,
		&venue.Notes,
		&venue.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to scan venue by id %d: %w", id, err)
	}
	return venue, nil
}

func (r *postgresVenueRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Venue, error) {
	query := `
		SELECT v.id, v.team_id, v.name, v.address, v.courts, v.notes, v.created_at,
		       (SELECT COUNT(*) FROM matches m WHERE m.venue_id = v.id)
		FROM venues v
		WHERE v.team_id = $1
		ORDER BY v.name ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query venues for team %d: %w", teamID, err)
	}
	defer rows.Close()

	venues := make([]*models.Venue, 0)
	for rows.Next() {
		var venue models.Venue
		if scanErr := rows.Scan(
			&venue.ID,
			&venue.TeamID,
			&venue.Name,
			&venue.Address,
			&venue.Courts,
			&venue.Notes,
			&venue.CreatedAt,
			&venue.MatchCount,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan venue row: %w", scanErr)
		}
		venues = append(venues, &venue)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during venue rows iteration: %w", err)
	}
	return venues, nil
}

func (r *postgresVenueRepository) Update(ctx context.Context, venue *models.Venue) error {
	query := `UPDATE venues SET name = $1, address = $2, courts = $3, notes = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, venue.Name, venue.Address, venue.Courts, venue.Notes, venue.ID)
	if err != nil {
		return fmt.Errorf("failed to update venue %d: %w", venue.ID, err)
	}
	return checkAffectedRows(result, ErrVenueNotFound)
}

func (r *postgresVenueRepository) Delete(ctx context.Context, id int) error {
	// matches.venue_id is ON DELETE SET NULL, so history survives.
	query := `DELETE FROM venues WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete venue %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrVenueNotFound)
}

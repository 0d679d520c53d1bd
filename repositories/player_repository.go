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
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerConflict = errors.New("member already has a player profile")
)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		INSERT INTO players (team_id, team_member_id, display_name, skill_level)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		player.TeamID,
		player.TeamMemberID,
		player.DisplayName,
		player.SkillLevel,
	).Scan(&player.ID, &player.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "players_team_member_id_key":
				return ErrPlayerConflict
			case "players_team_id_fkey":
				return ErrTeamNotFound
			case "players_team_member_id_fkey":
				return ErrMemberNotFound
			}
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT p.id, p.team_id, p.team_member_id, p.display_name, p.skill_level, p.avatar_key, p.created_at,
		       tm.id, tm.user_id, tm.team_id, tm.role, tm.joined_at
		FROM players p
		JOIN team_members tm ON tm.id = p.team_member_id
		WHERE p.id = $1`

	player := &models.Player{}
	member := &models.TeamMember{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&player.ID,
		&player.TeamID,
		&player.TeamMemberID,
		&player.DisplayName,
		&player.SkillLevel,
		&player.AvatarKey,
		&player.CreatedAt,
		&member.ID,
		&member.UserID,
		&member.TeamID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player by id %d: %w", id, err)
	}
	player.TeamMember = member
	return player, nil
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	query := `
		SELECT p.id, p.team_id, p.team_member_id, p.display_name, p.skill_level, p.avatar_key, p.created_at
		FROM players p
		WHERE p.team_id = $1
		ORDER BY p.display_name ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for team %d: %w", teamID, err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

func (r *postgresPlayerRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error) {
	if len(ids) == 0 {
		return []*models.Player{}, nil
	}
	query := `
		SELECT p.id, p.team_id, p.team_member_id, p.display_name, p.skill_level, p.avatar_key, p.created_at
		FROM players p
		WHERE p.id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query players by ids: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

func scanPlayers(rows *sql.Rows) ([]*models.Player, error) {
	players := make([]*models.Player, 0)
	for rows.Next() {
		var player models.Player
		if scanErr := rows.Scan(
			&player.ID,
			&player.TeamID,
			&player.TeamMemberID,
			&player.DisplayName,
			&player.SkillLevel,
			&player.AvatarKey,
			&player.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		players = append(players, &player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `UPDATE players SET display_name = $1, skill_level = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, player.DisplayName, player.SkillLevel, player.ID)
	if err != nil {
		return fmt.Errorf("failed to update player %d: %w", player.ID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	query := `UPDATE players SET avatar_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, avatarKey, id)
	if err != nil {
		return fmt.Errorf("failed to update avatar of player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

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
	ErrTeamNotFound           = errors.New("team not found")
	ErrTeamInviteCodeConflict = errors.New("team invite code conflict")
	ErrMemberNotFound         = errors.New("team member not found")
	ErrMemberConflict         = errors.New("user is already a member of this team")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Team, error)
	ListByUserID(ctx context.Context, userID int) ([]*models.Team, error)

	CreateMember(ctx context.Context, exec SQLExecutor, member *models.TeamMember) error
	GetMember(ctx context.Context, userID, teamID int) (*models.TeamMember, error)
	GetMemberByID(ctx context.Context, memberID int) (*models.TeamMember, error)
	ListMembers(ctx context.Context, teamID int) ([]*models.TeamMember, error)
	UpdateMemberRole(ctx context.Context, memberID int, role models.MemberRole) error
	DeleteMember(ctx context.Context, memberID int) error
	CountMembers(ctx context.Context, teamID int) (int, error)
	CountAdmins(ctx context.Context, teamID int) (int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (name, description, invite_code)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		team.Name,
		team.Description,
		team.InviteCode,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "teams_invite_code_key" {
			return ErrTeamInviteCodeConflict
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT id, name, description, invite_code, created_at FROM teams WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.InviteCode,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team by id %d: %w", id, err)
	}
	return team, nil
}

func (r *postgresTeamRepository) GetByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	query := `SELECT id, name, description, invite_code, created_at FROM teams WHERE invite_code = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.InviteCode,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team by invite code: %w", err)
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByUserID(ctx context.Context, userID int) ([]*models.Team, error) {
	query := `
		SELECT t.id, t.name, t.description, t.invite_code, t.created_at, tm.role,
		       (SELECT COUNT(*) FROM team_members m WHERE m.team_id = t.id),
		       (SELECT COUNT(*) FROM matches ma WHERE ma.team_id = t.id)
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1
		ORDER BY tm.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for user %d: %w", userID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var team models.Team
		if scanErr := rows.Scan(
			&team.ID,
			&team.Name,
			&team.Description,
			&team.InviteCode,
			&team.CreatedAt,
			&team.Role,
			&team.MemberCount,
			&team.MatchCount,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		teams = append(teams, &team)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) CreateMember(ctx context.Context, exec SQLExecutor, member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (user_id, team_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at`

	err := exec.QueryRowContext(ctx, query,
		member.UserID,
		member.TeamID,
		member.Role,
	).Scan(&member.ID, &member.JoinedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "team_members_user_id_team_id_key":
				return ErrMemberConflict
			case "team_members_team_id_fkey":
				return ErrTeamNotFound
			case "team_members_user_id_fkey":
				return ErrUserNotFound
			}
		}
		return fmt.Errorf("failed to create team member: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetMember(ctx context.Context, userID, teamID int) (*models.TeamMember, error) {
	query := `
		SELECT id, user_id, team_id, role, joined_at
		FROM team_members
		WHERE user_id = $1 AND team_id = $2`

	member := &models.TeamMember{}
	err := r.db.QueryRowContext(ctx, query, userID, teamID).Scan(
		&member.ID,
		&member.UserID,
		&member.TeamID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to scan membership of user %d in team %d: %w", userID, teamID, err)
	}
	return member, nil
}

func (r *postgresTeamRepository) GetMemberByID(ctx context.Context, memberID int) (*models.TeamMember, error) {
	query := `
		SELECT id, user_id, team_id, role, joined_at
		FROM team_members
		WHERE id = $1`

	member := &models.TeamMember{}
	err := r.db.QueryRowContext(ctx, query, memberID).Scan(
		&member.ID,
		&member.UserID,
		&member.TeamID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to scan team member %d: %w", memberID, err)
	}
	return member, nil
}

func (r *postgresTeamRepository) ListMembers(ctx context.Context, teamID int) ([]*models.TeamMember, error) {
	query := `
		SELECT tm.id, tm.user_id, tm.team_id, tm.role, tm.joined_at,
		       u.id, u.name, u.email, u.created_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members for team %d: %w", teamID, err)
	}
	defer rows.Close()

	members := make([]*models.TeamMember, 0)
	for rows.Next() {
		var member models.TeamMember
		var user models.User
		if scanErr := rows.Scan(
			&member.ID,
			&member.UserID,
			&member.TeamID,
			&member.Role,
			&member.JoinedAt,
			&user.ID,
			&user.Name,
			&user.Email,
			&user.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team member row: %w", scanErr)
		}
		member.User = &user
		members = append(members, &member)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team member rows iteration: %w", err)
	}
	return members, nil
}

func (r *postgresTeamRepository) UpdateMemberRole(ctx context.Context, memberID int, role models.MemberRole) error {
	query := `UPDATE team_members SET role = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, role, memberID)
	if err != nil {
		return fmt.Errorf("failed to update role of member %d: %w", memberID, err)
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresTeamRepository) DeleteMember(ctx context.Context, memberID int) error {
	query := `DELETE FROM team_members WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member %d: %w", memberID, err)
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresTeamRepository) CountMembers(ctx context.Context, teamID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM team_members WHERE team_id = $1`, teamID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members of team %d: %w", teamID, err)
	}
	return count, nil
}

func (r *postgresTeamRepository) CountAdmins(ctx context.Context, teamID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM team_members WHERE team_id = $1 AND role = $2`,
		teamID, models.RoleAdmin,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins of team %d: %w", teamID, err)
	}
	return count, nil
}

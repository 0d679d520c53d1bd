package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smashpoint/badminton-league/models"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int) (*models.Comment, error)
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Comment, error)
	Delete(ctx context.Context, id int) error
}

type postgresCommentRepository struct {
	db *sql.DB
}

func NewPostgresCommentRepository(db *sql.DB) CommentRepository {
	return &postgresCommentRepository{db: db}
}

func (r *postgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (match_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		comment.MatchID,
		comment.UserID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *postgresCommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	query := `SELECT id, match_id, user_id, content, created_at FROM comments WHERE id = $1`

	comment := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID,
		&comment.MatchID,
		&comment.UserID,
		&comment.Content,
		&comment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to scan comment by id %d: %w", id, err)
	}
	return comment, nil
}

func (r *postgresCommentRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Comment, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		SELECT c.id, c.match_id, c.user_id, c.content, c.created_at,
		       u.id, u.name
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.match_id = $1
		ORDER BY c.created_at ASC`

	rows, err := exec.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments for match %d: %w", matchID, err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var comment models.Comment
		var user models.User
		if scanErr := rows.Scan(
			&comment.ID,
			&comment.MatchID,
			&comment.UserID,
			&comment.Content,
			&comment.CreatedAt,
			&user.ID,
			&user.Name,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", scanErr)
		}
		comment.User = &user
		comments = append(comments, comment)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during comment rows iteration: %w", err)
	}
	return comments, nil
}

func (r *postgresCommentRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM comments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrCommentNotFound)
}

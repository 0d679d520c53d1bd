package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smashpoint/badminton-league/models"
	"github.com/smashpoint/badminton-league/repositories"
)

const maxCommentLength = 500

type CommentService interface {
	AddComment(ctx context.Context, matchID int, content string, currentUserID int) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID, currentUserID int) error
}

type commentService struct {
	commentRepo repositories.CommentRepository
	matchRepo   repositories.MatchRepository
	teamRepo    repositories.TeamRepository
	userRepo    repositories.UserRepository
}

func NewCommentService(
	commentRepo repositories.CommentRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		matchRepo:   matchRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
	}
}

func (s *commentService) AddComment(ctx context.Context, matchID int, content string, currentUserID int) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}
	if len(content) > maxCommentLength {
		return nil, ErrCommentTooLong
	}

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

	comment := &models.Comment{
		MatchID: matchID,
		UserID:  currentUserID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if user, err := s.userRepo.GetByID(ctx, currentUserID); err == nil {
		user.PasswordHash = ""
		comment.User = user
	}
	return comment, nil
}

// DeleteComment removes a comment; authors may delete their own, team admins
// may delete anyone's.
func (s *commentService) DeleteComment(ctx context.Context, commentID, currentUserID int) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to get comment %d: %w", commentID, err)
	}

	if comment.UserID != currentUserID {
		match, err := s.matchRepo.GetByID(ctx, nil, comment.MatchID)
		if err != nil {
			return fmt.Errorf("failed to get match %d: %w", comment.MatchID, err)
		}
		if _, err := requireAdmin(ctx, s.teamRepo, currentUserID, match.TeamID); err != nil {
			return err
		}
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", commentID, err)
	}
	return nil
}

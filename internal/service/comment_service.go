package service

import (
	"context"

	"gorm.io/gorm"

	"taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// CommentService exposes comment operations. A comment has no owner of its
// own; every operation resolves the referenced task and checks that it belongs
// to the caller, inside one transaction.
type CommentService interface {
	ListComments(ctx context.Context, ownerID uint, taskID *uint) ([]model.Comment, error)
	CreateComment(ctx context.Context, ownerID, taskID uint, content string) (*model.Comment, error)
	UpdateComment(ctx context.Context, ownerID, id uint, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, ownerID, id uint) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
	}
}

// ListComments returns the comments of one caller-owned task when taskID is
// set, otherwise the comments of every task the caller owns.
func (s *commentService) ListComments(ctx context.Context, ownerID uint, taskID *uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := s.commentRepo.WithTransaction(ctx, func(ctx context.Context, commentRepo repository.CommentRepository, taskRepo repository.TaskRepository) error {
		if taskID != nil {
			if _, err := taskRepo.FindByIDForOwner(ctx, *taskID, ownerID); err != nil {
				if err == gorm.ErrRecordNotFound {
					return errors.ErrTaskNotFound
				}
				return err
			}
			var err error
			comments, err = commentRepo.ListByTaskID(ctx, *taskID)
			return err
		}

		taskIDs, err := taskRepo.ListIDsByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		comments, err = commentRepo.ListByTaskIDs(ctx, taskIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

// CreateComment stores a comment after verifying the referenced task exists
// and belongs to the caller.
func (s *commentService) CreateComment(ctx context.Context, ownerID, taskID uint, content string) (*model.Comment, error) {
	comment := &model.Comment{
		TaskID:  taskID,
		Content: content,
	}
	err := s.commentRepo.WithTransaction(ctx, func(ctx context.Context, commentRepo repository.CommentRepository, taskRepo repository.TaskRepository) error {
		if _, err := taskRepo.FindByIDForOwner(ctx, taskID, ownerID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrTaskNotFound
			}
			return err
		}
		return commentRepo.Create(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment replaces the content after walking the ownership chain:
// missing comment, missing task and foreign task all read as comment-not-found.
func (s *commentService) UpdateComment(ctx context.Context, ownerID, id uint, content string) (*model.Comment, error) {
	var updated *model.Comment
	err := s.commentRepo.WithTransaction(ctx, func(ctx context.Context, commentRepo repository.CommentRepository, taskRepo repository.TaskRepository) error {
		comment, err := s.findOwned(ctx, commentRepo, taskRepo, ownerID, id)
		if err != nil {
			return err
		}
		comment.Content = content
		if err := commentRepo.Save(ctx, comment); err != nil {
			return err
		}
		updated = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteComment removes the comment through the same ownership chain.
func (s *commentService) DeleteComment(ctx context.Context, ownerID, id uint) error {
	return s.commentRepo.WithTransaction(ctx, func(ctx context.Context, commentRepo repository.CommentRepository, taskRepo repository.TaskRepository) error {
		if _, err := s.findOwned(ctx, commentRepo, taskRepo, ownerID, id); err != nil {
			return err
		}
		return commentRepo.DeleteByID(ctx, id)
	})
}

func (s *commentService) findOwned(ctx context.Context, commentRepo repository.CommentRepository, taskRepo repository.TaskRepository, ownerID, id uint) (*model.Comment, error) {
	comment, err := commentRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCommentNotFound
		}
		return nil, err
	}
	if _, err := taskRepo.FindByIDForOwner(ctx, comment.TaskID, ownerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// CommentRepository defines comment persistence operations. Comments are not
// owner-scoped at the storage level; the service resolves ownership through
// the referenced task.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uint) (*model.Comment, error)
	Save(ctx context.Context, comment *model.Comment) error
	DeleteByID(ctx context.Context, id uint) error
	ListByTaskID(ctx context.Context, taskID uint) ([]model.Comment, error)
	ListByTaskIDs(ctx context.Context, taskIDs []uint) ([]model.Comment, error)
	// WithTransaction runs fn with comment and task repositories bound to the
	// same transaction, so ownership checks and writes are atomic.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, comments CommentRepository, tasks TaskRepository) error) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Save(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) ListByTaskID(ctx context.Context, taskID uint) ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) ListByTaskIDs(ctx context.Context, taskIDs []uint) ([]model.Comment, error) {
	if len(taskIDs) == 0 {
		return []model.Comment{}, nil
	}
	var comments []model.Comment
	if err := r.db.WithContext(ctx).Where("task_id IN ?", taskIDs).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, comments CommentRepository, tasks TaskRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &commentRepository{db: tx}, &taskRepository{db: tx})
	})
}

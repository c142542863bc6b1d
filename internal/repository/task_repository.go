package repository

import (
	"context"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// TaskRepository defines task persistence operations. Every lookup is scoped
// to an owner so that a foreign task behaves exactly like a missing one.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByIDForOwner(ctx context.Context, id, ownerID uint) (*model.Task, error)
	Save(ctx context.Context, task *model.Task) error
	DeleteByIDForOwner(ctx context.Context, id, ownerID uint) error
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Task, error)
	ListIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TaskRepository) error) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByIDForOwner finds a task by ID belonging to the given owner.
// Returns gorm.ErrRecordNotFound both when the task is absent and when it
// exists but belongs to someone else.
func (r *taskRepository) FindByIDForOwner(ctx context.Context, id, ownerID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Save(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// DeleteByIDForOwner removes the task if it belongs to the owner. Reports
// gorm.ErrRecordNotFound when nothing was deleted.
func (r *taskRepository) DeleteByIDForOwner(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) ListIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// WithTransaction executes a function within a database transaction.
func (r *taskRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TaskRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &taskRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

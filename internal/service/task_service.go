package service

import (
	"context"

	"gorm.io/gorm"

	"taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// TaskUpdate carries a partial update. Nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskService exposes task operations scoped to an owner.
type TaskService interface {
	ListTasks(ctx context.Context, ownerID uint) ([]model.Task, error)
	CreateTask(ctx context.Context, ownerID uint, title, description string) (*model.Task, error)
	UpdateTask(ctx context.Context, ownerID, id uint, update TaskUpdate) (*model.Task, error)
	DeleteTask(ctx context.Context, ownerID, id uint) error
}

type taskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

func (s *taskService) ListTasks(ctx context.Context, ownerID uint) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *taskService) CreateTask(ctx context.Context, ownerID uint, title, description string) (*model.Task, error) {
	task := &model.Task{
		Title:       title,
		Description: description,
		Completed:   false,
		OwnerID:     ownerID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies only the supplied fields. A task that is absent or owned
// by someone else fails with the same not-found error.
func (s *taskService) UpdateTask(ctx context.Context, ownerID, id uint, update TaskUpdate) (*model.Task, error) {
	var updated *model.Task
	err := s.taskRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.TaskRepository) error {
		task, err := repo.FindByIDForOwner(ctx, id, ownerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrTaskNotFound
			}
			return err
		}

		if update.Title != nil {
			task.Title = *update.Title
		}
		if update.Description != nil {
			task.Description = *update.Description
		}
		if update.Completed != nil {
			task.Completed = *update.Completed
		}

		if err := repo.Save(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes the task. Its comments are left in place.
func (s *taskService) DeleteTask(ctx context.Context, ownerID, id uint) error {
	if err := s.taskRepo.DeleteByIDForOwner(ctx, id, ownerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrTaskNotFound
		}
		return err
	}
	return nil
}

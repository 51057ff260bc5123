package service

import (
	"context"
	"errors"

	"github.com/jeweai/media_vault/biz/dal/model"
	"gorm.io/gorm"
)

// --------------------- Task Operations ---------------------

func (l *Logic) CreateTask(ctx context.Context, task *model.Task) error {
	return l.taskDAO.Create(ctx, l.db, task)
}

// GetTask loads a task by worker job id, unscoped by owner: the callback path
// carries no user identity.
func (l *Logic) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	task, err := l.taskDAO.GetByID(ctx, l.db, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	return task, err
}

func (l *Logic) GetTaskForOwner(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	task, err := l.taskDAO.GetByIDForOwner(ctx, l.db, ownerID, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	return task, err
}

func (l *Logic) ListTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	return l.taskDAO.ListByOwner(ctx, l.db, ownerID)
}

// FindTaskForAsset resolves the task related to an asset: the task that
// produced it first, else the task that consumed it as a reference. Returns
// nil with no error when the asset has no related task.
func (l *Logic) FindTaskForAsset(ctx context.Context, ownerID, assetID string) (*model.Task, error) {
	task, err := l.taskDAO.FindByResultAsset(ctx, l.db, ownerID, assetID)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	task, err = l.taskDAO.FindByReferenceAsset(ctx, l.db, ownerID, assetID)
	if err == nil {
		return task, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

// TransitionTask performs a conditional status update. Returns false when the
// task had already left every status in from, which callers treat as a
// duplicate delivery.
func (l *Logic) TransitionTask(ctx context.Context, taskID string, from []string, updates map[string]any) (bool, error) {
	return l.taskDAO.Transition(ctx, l.db, taskID, from, updates)
}

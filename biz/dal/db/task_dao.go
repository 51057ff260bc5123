package db

import (
	"context"

	"github.com/jeweai/media_vault/biz/dal/model"

	"gorm.io/gorm"
)

// TaskDAO handles persistence for generation tasks. The primary key is the
// job id assigned by the external worker.
type TaskDAO struct{}

func NewTaskDAO() *TaskDAO { return &TaskDAO{} }

func (dao *TaskDAO) Create(ctx context.Context, db *gorm.DB, task *model.Task) error {
	if task == nil || task.ID == "" {
		return gorm.ErrInvalidValue
	}
	return db.WithContext(ctx).Create(task).Error
}

// GetByID loads a task without owner scoping. Worker callbacks carry no user
// identity; the task id alone is the trust anchor on that path.
func (dao *TaskDAO) GetByID(ctx context.Context, db *gorm.DB, taskID string) (*model.Task, error) {
	var task model.Task
	if err := db.WithContext(ctx).Where("id = ?", taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (dao *TaskDAO) GetByIDForOwner(ctx context.Context, db *gorm.DB, ownerID, taskID string) (*model.Task, error) {
	var task model.Task
	if err := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", taskID, ownerID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (dao *TaskDAO) ListByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByResultAsset returns the task whose result is the given asset, if any.
func (dao *TaskDAO) FindByResultAsset(ctx context.Context, db *gorm.DB, ownerID, assetID string) (*model.Task, error) {
	var task model.Task
	err := db.WithContext(ctx).
		Where("owner_id = ? AND result_asset_id = ?", ownerID, assetID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByReferenceAsset returns the task that used the given asset as its
// generation reference, if any.
func (dao *TaskDAO) FindByReferenceAsset(ctx context.Context, db *gorm.DB, ownerID, assetID string) (*model.Task, error) {
	var task model.Task
	err := db.WithContext(ctx).
		Where("owner_id = ? AND reference_asset_id = ?", ownerID, assetID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Transition applies updates only while the task is still in one of the
// expected prior statuses. It returns false when no row matched, which means
// the task has already moved on: the caller treats that as a duplicate
// delivery, not an error.
func (dao *TaskDAO) Transition(ctx context.Context, db *gorm.DB, taskID string, fromStatuses []string, updates map[string]any) (bool, error) {
	result := db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ? AND status IN ?", taskID, fromStatuses).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jeweai/media_vault/biz/dal/model"

	"gorm.io/gorm"
)

// FolderDAO handles CRUD operations for folder tree nodes. Every query is
// scoped by owner id; cross-tenant rows are invisible, not forbidden.
type FolderDAO struct{}

func NewFolderDAO() *FolderDAO { return &FolderDAO{} }

// scopeParent matches a nullable parent pointer. NULL represents the root.
func scopeParent(q *gorm.DB, parentID *string) *gorm.DB {
	if parentID == nil {
		return q.Where("parent_id IS NULL")
	}
	return q.Where("parent_id = ?", *parentID)
}

func (dao *FolderDAO) Create(ctx context.Context, db *gorm.DB, folder *model.Folder) error {
	if folder == nil {
		return gorm.ErrInvalidValue
	}
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(folder).Error
}

// Update applies the given columns to a folder. A map is used so that a nil
// parent_id (move to root) is written instead of skipped.
func (dao *FolderDAO) Update(ctx context.Context, db *gorm.DB, ownerID, folderID string, updates map[string]any) error {
	result := db.WithContext(ctx).
		Model(&model.Folder{}).
		Where("id = ? AND owner_id = ?", folderID, ownerID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (dao *FolderDAO) Delete(ctx context.Context, db *gorm.DB, ownerID, folderID string) error {
	return db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", folderID, ownerID).
		Delete(&model.Folder{}).Error
}

func (dao *FolderDAO) GetByID(ctx context.Context, db *gorm.DB, ownerID, folderID string) (*model.Folder, error) {
	var folder model.Folder
	if err := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", folderID, ownerID).
		First(&folder).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

func (dao *FolderDAO) ListByParent(ctx context.Context, db *gorm.DB, ownerID string, parentID *string) ([]model.Folder, error) {
	var folders []model.Folder
	q := db.WithContext(ctx).Where("owner_id = ?", ownerID)
	q = scopeParent(q, parentID)
	if err := q.Order("created_at DESC").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// CountSiblings counts live folders with the same name under the same parent,
// excluding excludeID when renaming in place.
func (dao *FolderDAO) CountSiblings(ctx context.Context, db *gorm.DB, ownerID string, parentID *string, name, excludeID string) (int64, error) {
	var count int64
	q := db.WithContext(ctx).
		Model(&model.Folder{}).
		Where("owner_id = ? AND name = ?", ownerID, name)
	q = scopeParent(q, parentID)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

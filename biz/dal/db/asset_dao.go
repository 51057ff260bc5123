package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jeweai/media_vault/biz/dal/model"

	"gorm.io/gorm"
)

// AssetDAO handles CRUD operations for media asset records.
type AssetDAO struct{}

func NewAssetDAO() *AssetDAO { return &AssetDAO{} }

// scopeFolder matches a nullable folder pointer. NULL represents the root.
func scopeFolder(q *gorm.DB, folderID *string) *gorm.DB {
	if folderID == nil {
		return q.Where("folder_id IS NULL")
	}
	return q.Where("folder_id = ?", *folderID)
}

func (dao *AssetDAO) Create(ctx context.Context, db *gorm.DB, asset *model.Asset) error {
	if asset == nil {
		return gorm.ErrInvalidValue
	}
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(asset).Error
}

// Update applies the given columns to an asset. Locked-status policy is
// enforced by the service layer, not here: the task state machine needs to
// write through the same path.
func (dao *AssetDAO) Update(ctx context.Context, db *gorm.DB, ownerID, assetID string, updates map[string]any) error {
	result := db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("id = ? AND owner_id = ?", assetID, ownerID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (dao *AssetDAO) Delete(ctx context.Context, db *gorm.DB, ownerID, assetID string) error {
	return db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", assetID, ownerID).
		Delete(&model.Asset{}).Error
}

// HardDelete removes a row outright. Used to compensate a result-asset insert
// that lost the callback race.
func (dao *AssetDAO) HardDelete(ctx context.Context, db *gorm.DB, assetID string) error {
	return db.WithContext(ctx).Unscoped().Where("id = ?", assetID).Delete(&model.Asset{}).Error
}

func (dao *AssetDAO) GetByID(ctx context.Context, db *gorm.DB, ownerID, assetID string) (*model.Asset, error) {
	var asset model.Asset
	if err := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", assetID, ownerID).
		First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (dao *AssetDAO) ListByFolder(ctx context.Context, db *gorm.DB, ownerID string, folderID *string) ([]model.Asset, error) {
	var assets []model.Asset
	q := db.WithContext(ctx).Where("owner_id = ?", ownerID)
	q = scopeFolder(q, folderID)
	if err := q.Order("created_at DESC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// CountSiblings counts live assets with the same name in the same folder,
// excluding excludeID when renaming in place.
func (dao *AssetDAO) CountSiblings(ctx context.Context, db *gorm.DB, ownerID string, folderID *string, name, excludeID string) (int64, error) {
	var count int64
	q := db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("owner_id = ? AND name = ?", ownerID, name)
	q = scopeFolder(q, folderID)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCover counts live assets of the owner that point at the same cover
// key, excluding excludeID. Copies may share a cover with their source, so
// deletion has to check for co-owners first.
func (dao *AssetDAO) CountByCover(ctx context.Context, db *gorm.DB, ownerID, coverPath, excludeID string) (int64, error) {
	var count int64
	q := db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("owner_id = ? AND cover_path = ?", ownerID, coverPath)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReparentFolderContents moves every asset in fromFolderID to toFolderID in
// one statement. Used by recursive folder deletion.
func (dao *AssetDAO) ReparentFolderContents(ctx context.Context, db *gorm.DB, ownerID, fromFolderID string, toFolderID *string) error {
	return db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("owner_id = ? AND folder_id = ?", ownerID, fromFolderID).
		Update("folder_id", toFolderID).Error
}

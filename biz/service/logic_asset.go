package service

import (
	"context"
	"errors"

	"github.com/jeweai/media_vault/biz/dal/model"
	"gorm.io/gorm"
)

// --------------------- Asset Operations ---------------------

func (l *Logic) CreateAsset(ctx context.Context, asset *model.Asset) error {
	return l.assetDAO.Create(ctx, l.db, asset)
}

func (l *Logic) UpdateAsset(ctx context.Context, ownerID, assetID string, updates map[string]any) error {
	if err := l.assetDAO.Update(ctx, l.db, ownerID, assetID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssetNotFound
		}
		return err
	}
	return nil
}

func (l *Logic) DeleteAsset(ctx context.Context, ownerID, assetID string) error {
	return l.assetDAO.Delete(ctx, l.db, ownerID, assetID)
}

func (l *Logic) DiscardAsset(ctx context.Context, assetID string) error {
	return l.assetDAO.HardDelete(ctx, l.db, assetID)
}

func (l *Logic) GetAsset(ctx context.Context, ownerID, assetID string) (*model.Asset, error) {
	asset, err := l.assetDAO.GetByID(ctx, l.db, ownerID, assetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssetNotFound
	}
	return asset, err
}

func (l *Logic) ListAssets(ctx context.Context, ownerID string, folderID *string) ([]model.Asset, error) {
	return l.assetDAO.ListByFolder(ctx, l.db, ownerID, folderID)
}

// AssetNameTaken reports whether a live asset in the folder already uses name.
func (l *Logic) AssetNameTaken(ctx context.Context, ownerID string, folderID *string, name, excludeID string) (bool, error) {
	count, err := l.assetDAO.CountSiblings(ctx, l.db, ownerID, folderID, name, excludeID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountAssetsByCover counts other live assets sharing a cover key.
func (l *Logic) CountAssetsByCover(ctx context.Context, ownerID, coverPath, excludeID string) (int64, error) {
	return l.assetDAO.CountByCover(ctx, l.db, ownerID, coverPath, excludeID)
}

func (l *Logic) ReparentFolderAssets(ctx context.Context, ownerID, fromFolderID string, toFolderID *string) error {
	return l.assetDAO.ReparentFolderContents(ctx, l.db, ownerID, fromFolderID, toFolderID)
}

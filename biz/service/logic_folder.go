package service

import (
	"context"
	"errors"

	"github.com/jeweai/media_vault/biz/dal/model"
	"gorm.io/gorm"
)

// --------------------- Folder Operations ---------------------

func (l *Logic) CreateFolder(ctx context.Context, folder *model.Folder) error {
	return l.folderDAO.Create(ctx, l.db, folder)
}

func (l *Logic) UpdateFolder(ctx context.Context, ownerID, folderID string, updates map[string]any) error {
	if err := l.folderDAO.Update(ctx, l.db, ownerID, folderID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFolderNotFound
		}
		return err
	}
	return nil
}

func (l *Logic) DeleteFolder(ctx context.Context, ownerID, folderID string) error {
	return l.folderDAO.Delete(ctx, l.db, ownerID, folderID)
}

func (l *Logic) GetFolder(ctx context.Context, ownerID, folderID string) (*model.Folder, error) {
	folder, err := l.folderDAO.GetByID(ctx, l.db, ownerID, folderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFolderNotFound
	}
	return folder, err
}

func (l *Logic) ListFolders(ctx context.Context, ownerID string, parentID *string) ([]model.Folder, error) {
	return l.folderDAO.ListByParent(ctx, l.db, ownerID, parentID)
}

// FolderNameTaken reports whether a live sibling folder already uses name.
func (l *Logic) FolderNameTaken(ctx context.Context, ownerID string, parentID *string, name, excludeID string) (bool, error) {
	count, err := l.folderDAO.CountSiblings(ctx, l.db, ownerID, parentID, name, excludeID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jeweai/media_vault/biz/dal/model"
	"github.com/jeweai/media_vault/pkg/validator"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
)

// ListAssets returns the assets of one tree level and, when includeFolders
// is set, the child folders of the same level.
func (s *Service) ListAssets(ctx context.Context, folderID *string, includeFolders bool) (*Listing, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if folderID != nil {
		if _, err := s.logic.GetFolder(ctx, ownerID, *folderID); err != nil {
			return nil, err
		}
	}
	assets, err := s.logic.ListAssets(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}
	listing := &Listing{Assets: make([]AssetView, 0, len(assets))}
	for i := range assets {
		listing.Assets = append(listing.Assets, s.assetView(ctx, &assets[i]))
	}
	if includeFolders {
		folders, err := s.logic.ListFolders(ctx, ownerID, folderID)
		if err != nil {
			return nil, err
		}
		listing.Folders = folders
	}
	return listing, nil
}

// GetAsset returns one asset with resolved URLs, its related generation task
// when one exists, and the reference asset for generated media. Dangling
// lineage pointers degrade to absent fields rather than errors.
func (s *Service) GetAsset(ctx context.Context, assetID string) (*AssetDetail, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	asset, err := s.logic.GetAsset(ctx, ownerID, assetID)
	if err != nil {
		return nil, err
	}
	detail := &AssetDetail{AssetView: s.assetView(ctx, asset)}

	task, err := s.logic.FindTaskForAsset(ctx, ownerID, assetID)
	if err != nil {
		return nil, err
	}
	if task != nil {
		detail.TaskID = task.ID
		detail.TaskStatus = task.Status
		detail.TaskPrompt = task.Prompt
	}
	if asset.FromAssetID != "" {
		ref, err := s.logic.GetAsset(ctx, ownerID, asset.FromAssetID)
		if err == nil {
			view := s.assetView(ctx, ref)
			detail.ReferenceAsset = &view
		} else if !errors.Is(err, ErrAssetNotFound) {
			return nil, err
		}
	}
	return detail, nil
}

// UpdateAssetRequest renames and/or moves an asset. ToRoot moves it out of
// any folder; otherwise a non-nil FolderID moves it into that folder.
type UpdateAssetRequest struct {
	Name     *string
	FolderID *string
	ToRoot   bool
}

func (s *Service) UpdateAsset(ctx context.Context, assetID string, req *UpdateAssetRequest) (*AssetView, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	asset, err := s.logic.GetAsset(ctx, ownerID, assetID)
	if err != nil {
		return nil, err
	}
	if asset.Locked() {
		return nil, ErrAssetLocked
	}

	name := asset.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("asset name is required: %w", ErrInvalidArgument)
		}
	}

	folderID := asset.FolderID
	switch {
	case req.ToRoot:
		folderID = nil
	case req.FolderID != nil:
		if _, err := s.logic.GetFolder(ctx, ownerID, *req.FolderID); err != nil {
			return nil, err
		}
		folderID = req.FolderID
	}

	taken, err := s.logic.AssetNameTaken(ctx, ownerID, folderID, name, assetID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameConflict
	}

	updates := map[string]any{
		"name":      name,
		"folder_id": folderID,
	}
	if err := s.logic.UpdateAsset(ctx, ownerID, assetID, updates); err != nil {
		return nil, err
	}
	asset.Name = name
	asset.FolderID = folderID
	view := s.assetView(ctx, asset)
	return &view, nil
}

// CopyAsset duplicates an asset: a new private object, a new cover when the
// source has one, and a new record named "<base> copy<ext>". The copy lands
// in folderID when given, else next to the source. Copying is a read of the
// source, so it works on locked assets too, and the copy is never locked.
// Failure to copy the private object aborts the operation; failure to copy
// the cover falls back to sharing the source's cover key. The generated name
// is not checked against siblings, duplicate "X copy" entries are accepted.
func (s *Service) CopyAsset(ctx context.Context, assetID string, folderID *string) (*AssetView, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	src, err := s.logic.GetAsset(ctx, ownerID, assetID)
	if err != nil {
		return nil, err
	}
	destFolder := src.FolderID
	if folderID != nil {
		if _, err := s.logic.GetFolder(ctx, ownerID, *folderID); err != nil {
			return nil, err
		}
		destFolder = folderID
	}

	newID := uuid.NewString()
	newPath := ""
	if src.Path != "" {
		newPath = replaceKeyBasename(src.Path, newID)
		if err := s.gateway.CopyPrivate(ctx, src.Path, newPath); err != nil {
			return nil, fmt.Errorf("copy private object: %w", err)
		}
	}
	newCover := src.CoverPath
	if src.CoverPath != "" {
		dst := replaceKeyBasename(src.CoverPath, newID)
		if err := s.gateway.CopyCover(ctx, src.CoverPath, dst); err != nil {
			hlog.CtxWarnf(ctx, "cover copy %s -> %s failed, sharing source cover: %v", src.CoverPath, dst, err)
		} else {
			newCover = dst
		}
	}

	dup := &model.Asset{
		ID:          newID,
		OwnerID:     ownerID,
		FolderID:    destFolder,
		Name:        copyDisplayName(src.Name),
		Type:        src.Type,
		Source:      src.Source,
		Status:      model.AssetStatusUnlocked,
		Path:        newPath,
		CoverPath:   newCover,
		FromAssetID: src.FromAssetID,
		Width:       src.Width,
		Height:      src.Height,
		AspectRatio: src.AspectRatio,
		Duration:    src.Duration,
		Prompt:      src.Prompt,
		Metadata:    src.Metadata,
	}
	if err := s.logic.CreateAsset(ctx, dup); err != nil {
		if newPath != "" {
			if derr := s.gateway.DeletePrivate(ctx, newPath); derr != nil {
				hlog.CtxWarnf(ctx, "orphaned object %s after failed copy insert: %v", newPath, derr)
			}
		}
		return nil, err
	}
	view := s.assetView(ctx, dup)
	return &view, nil
}

// DeleteAsset removes the record and best-effort deletes the stored objects.
// Object deletion failures are logged, never surfaced: the record is gone
// either way and a later sweep can reclaim the bytes.
func (s *Service) DeleteAsset(ctx context.Context, assetID string) error {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return err
	}
	asset, err := s.logic.GetAsset(ctx, ownerID, assetID)
	if err != nil {
		return err
	}
	if asset.Locked() {
		return ErrAssetLocked
	}
	if asset.Path != "" {
		if err := s.gateway.DeletePrivate(ctx, asset.Path); err != nil {
			hlog.CtxWarnf(ctx, "delete object %s for asset %s: %v", asset.Path, assetID, err)
		}
	}
	if asset.CoverPath != "" && !s.coverShared(ctx, ownerID, assetID, asset.CoverPath) {
		if err := s.gateway.DeleteCover(ctx, asset.CoverPath); err != nil {
			hlog.CtxWarnf(ctx, "delete cover %s for asset %s: %v", asset.CoverPath, assetID, err)
		}
	}
	return s.logic.DeleteAsset(ctx, ownerID, assetID)
}

// coverShared reports whether another live asset of the owner still points
// at the same cover key. Copies share the source cover when the cover copy
// failed, so the key cannot be deleted unconditionally.
func (s *Service) coverShared(ctx context.Context, ownerID, assetID, coverPath string) bool {
	count, err := s.logic.CountAssetsByCover(ctx, ownerID, coverPath, assetID)
	if err != nil {
		hlog.CtxWarnf(ctx, "count cover references for %s: %v", coverPath, err)
		return true
	}
	return count > 0
}

// UploadAssetRequest carries one uploaded file.
type UploadAssetRequest struct {
	FileName    string
	ContentType string
	Size        int64
	FolderID    *string
	Data        io.Reader
	// Head holds the first bytes of the file for content sniffing.
	Head []byte
}

// UploadAsset validates and stores an uploaded file and records it as an
// unlocked upload-sourced asset.
func (s *Service) UploadAsset(ctx context.Context, req *UploadAssetRequest) (*AssetView, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.upload.ValidateFileSize(req.Size); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrInvalidArgument)
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(req.Head)
	}
	if err := s.upload.ValidateMimeType(contentType, req.Head); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrInvalidArgument)
	}
	if req.FolderID != nil {
		if _, err := s.logic.GetFolder(ctx, ownerID, *req.FolderID); err != nil {
			return nil, err
		}
	}

	name := strings.TrimSpace(req.FileName)
	if name == "" {
		name = "upload"
	}
	taken, err := s.logic.AssetNameTaken(ctx, ownerID, req.FolderID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameConflict
	}

	assetType := model.AssetTypeVideo
	if validator.IsImageType(contentType) {
		assetType = model.AssetTypeImage
	}
	id := uuid.NewString()
	key := fmt.Sprintf("uploads/%s/%s_%s", ownerID, id, sanitizeFileName(name))
	if err := s.gateway.UploadPrivate(ctx, key, req.Data, contentType, req.Size); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	asset := &model.Asset{
		ID:       id,
		OwnerID:  ownerID,
		FolderID: req.FolderID,
		Name:     name,
		Type:     assetType,
		Source:   model.AssetSourceUpload,
		Status:   model.AssetStatusUnlocked,
		Path:     key,
	}
	if err := s.logic.CreateAsset(ctx, asset); err != nil {
		if derr := s.gateway.DeletePrivate(ctx, key); derr != nil {
			hlog.CtxWarnf(ctx, "orphaned upload %s after failed insert: %v", key, derr)
		}
		return nil, err
	}
	view := s.assetView(ctx, asset)
	return &view, nil
}

// DownloadAsset streams the private object of an asset together with a file
// name to serve it under.
func (s *Service) DownloadAsset(ctx context.Context, assetID string) (io.ReadCloser, string, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, "", err
	}
	asset, err := s.logic.GetAsset(ctx, ownerID, assetID)
	if err != nil {
		return nil, "", err
	}
	if asset.Path == "" {
		return nil, "", ErrAssetNotFound
	}
	rc, err := s.gateway.GetPrivate(ctx, asset.Path)
	if err != nil {
		return nil, "", fmt.Errorf("open object %s: %w", asset.Path, err)
	}
	return rc, asset.Name, nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeweai/media_vault/biz/dal/model"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// CreateFolderRequest creates a folder under parentID, or at the root when
// parentID is nil.
type CreateFolderRequest struct {
	Name     string
	ParentID *string
}

func (s *Service) CreateFolder(ctx context.Context, req *CreateFolderRequest) (*model.Folder, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("folder name is required: %w", ErrInvalidArgument)
	}
	if req.ParentID != nil {
		if _, err := s.logic.GetFolder(ctx, ownerID, *req.ParentID); err != nil {
			return nil, err
		}
	}
	taken, err := s.logic.FolderNameTaken(ctx, ownerID, req.ParentID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameConflict
	}
	folder := &model.Folder{
		OwnerID:  ownerID,
		ParentID: req.ParentID,
		Name:     name,
	}
	if err := s.logic.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// UpdateFolderRequest renames and/or moves a folder. A nil Name leaves the
// name untouched. Move semantics: ToRoot moves to the root level; otherwise a
// non-nil ParentID moves under that folder; both nil leaves placement alone.
type UpdateFolderRequest struct {
	Name     *string
	ParentID *string
	ToRoot   bool
}

func (s *Service) UpdateFolder(ctx context.Context, folderID string, req *UpdateFolderRequest) (*model.Folder, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	folder, err := s.logic.GetFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	name := folder.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("folder name is required: %w", ErrInvalidArgument)
		}
	}

	parentID := folder.ParentID
	moving := false
	switch {
	case req.ToRoot:
		parentID = nil
		moving = folder.ParentID != nil
	case req.ParentID != nil:
		parentID = req.ParentID
		moving = folder.ParentID == nil || *folder.ParentID != *req.ParentID
	}

	if moving && parentID != nil {
		if *parentID == folderID {
			return nil, ErrCyclicMove
		}
		dest, err := s.logic.GetFolder(ctx, ownerID, *parentID)
		if err != nil {
			return nil, err
		}
		if err := s.ensureNotDescendant(ctx, ownerID, folderID, dest); err != nil {
			return nil, err
		}
	}

	taken, err := s.logic.FolderNameTaken(ctx, ownerID, parentID, name, folderID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameConflict
	}

	updates := map[string]any{
		"name":      name,
		"parent_id": parentID,
	}
	if err := s.logic.UpdateFolder(ctx, ownerID, folderID, updates); err != nil {
		return nil, err
	}
	folder.Name = name
	folder.ParentID = parentID
	return folder, nil
}

// ensureNotDescendant walks from dest up to the root and fails when the walk
// passes through folderID, which would make the move create a cycle.
func (s *Service) ensureNotDescendant(ctx context.Context, ownerID, folderID string, dest *model.Folder) error {
	seen := map[string]bool{}
	current := dest
	for depth := 0; depth < maxTreeDepth; depth++ {
		if current.ID == folderID {
			return ErrCyclicMove
		}
		if current.ParentID == nil {
			return nil
		}
		if seen[current.ID] {
			return ErrCyclicMove
		}
		seen[current.ID] = true
		parent, err := s.logic.GetFolder(ctx, ownerID, *current.ParentID)
		if err != nil {
			return err
		}
		current = parent
	}
	return ErrCyclicMove
}

// DeleteFolder removes a folder and its entire subtree of folders. Assets in
// the subtree are not deleted: every asset found below is moved to the parent
// of the deleted folder (the root when it had no parent).
func (s *Service) DeleteFolder(ctx context.Context, folderID string) error {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return err
	}
	folder, err := s.logic.GetFolder(ctx, ownerID, folderID)
	if err != nil {
		return err
	}
	// Every asset in the subtree lands at the deleted folder's own parent,
	// not at each asset's immediate grandparent.
	dest := folder.ParentID
	seen := map[string]bool{}
	if err := s.deleteFolderTree(ctx, ownerID, folder, dest, seen, 0); err != nil {
		return err
	}
	return nil
}

func (s *Service) deleteFolderTree(ctx context.Context, ownerID string, folder *model.Folder, dest *string, seen map[string]bool, depth int) error {
	if depth >= maxTreeDepth || seen[folder.ID] {
		return fmt.Errorf("folder tree too deep or cyclic at %s: %w", folder.ID, ErrInvalidArgument)
	}
	seen[folder.ID] = true

	children, err := s.logic.ListFolders(ctx, ownerID, &folder.ID)
	if err != nil {
		return err
	}
	for i := range children {
		if err := s.deleteFolderTree(ctx, ownerID, &children[i], dest, seen, depth+1); err != nil {
			return err
		}
	}
	if err := s.logic.ReparentFolderAssets(ctx, ownerID, folder.ID, dest); err != nil {
		return err
	}
	if err := s.logic.DeleteFolder(ctx, ownerID, folder.ID); err != nil {
		return err
	}
	hlog.CtxInfof(ctx, "deleted folder %s (owner %s)", folder.ID, ownerID)
	return nil
}

func (s *Service) GetFolder(ctx context.Context, folderID string) (*model.Folder, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.logic.GetFolder(ctx, ownerID, folderID)
}

// ListFolders returns the folders directly under parentID, or the root level
// when parentID is nil.
func (s *Service) ListFolders(ctx context.Context, parentID *string) ([]model.Folder, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		if _, err := s.logic.GetFolder(ctx, ownerID, *parentID); err != nil {
			return nil, err
		}
	}
	return s.logic.ListFolders(ctx, ownerID, parentID)
}

package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jeweai/media_vault/biz/dal/model"
)

func TestListAssets(t *testing.T) {
	env := newTestEnv(t)

	folder, _ := env.svc.CreateFolder(env.ctx, &CreateFolderRequest{Name: "Album"})
	env.createAsset(t, "root.png", nil)
	env.createAsset(t, "inside.png", &folder.ID)

	t.Run("RootWithFolders", func(t *testing.T) {
		listing, err := env.svc.ListAssets(env.ctx, nil, true)
		if err != nil {
			t.Fatalf("ListAssets failed: %v", err)
		}
		if len(listing.Assets) != 1 || listing.Assets[0].Name != "root.png" {
			t.Errorf("Expected [root.png], got %v", listing.Assets)
		}
		if len(listing.Folders) != 1 || listing.Folders[0].Name != "Album" {
			t.Errorf("Expected [Album], got %v", listing.Folders)
		}
	})

	t.Run("FolderWithoutFolders", func(t *testing.T) {
		listing, err := env.svc.ListAssets(env.ctx, &folder.ID, false)
		if err != nil {
			t.Fatalf("ListAssets failed: %v", err)
		}
		if len(listing.Assets) != 1 || listing.Assets[0].Name != "inside.png" {
			t.Errorf("Expected [inside.png], got %v", listing.Assets)
		}
		if listing.Folders != nil {
			t.Errorf("Expected no folders in listing, got %v", listing.Folders)
		}
	})

	t.Run("SignedURLResolved", func(t *testing.T) {
		listing, err := env.svc.ListAssets(env.ctx, nil, false)
		if err != nil {
			t.Fatalf("ListAssets failed: %v", err)
		}
		if !strings.HasPrefix(listing.Assets[0].URL, "https://signed.test/private/") {
			t.Errorf("Expected a signed private URL, got %q", listing.Assets[0].URL)
		}
	})
}

func TestGetAsset(t *testing.T) {
	env := newTestEnv(t)

	ref := env.createAsset(t, "ref.png", nil)
	if err := env.db.Model(&model.Asset{}).Where("id = ?", ref.ID).
		Update("cover_path", "covers/ref.png").Error; err != nil {
		t.Fatalf("Seed update failed: %v", err)
	}

	t.Run("URLClasses", func(t *testing.T) {
		detail, err := env.svc.GetAsset(env.ctx, ref.ID)
		if err != nil {
			t.Fatalf("GetAsset failed: %v", err)
		}
		if !strings.HasPrefix(detail.URL, "https://signed.test/private/") {
			t.Errorf("Expected signed URL, got %q", detail.URL)
		}
		if detail.CoverURL != "https://covers.test/covers/ref.png" {
			t.Errorf("Expected public cover URL, got %q", detail.CoverURL)
		}
	})

	t.Run("RelatedTaskAndReference", func(t *testing.T) {
		result := env.createAsset(t, "result.mp4", nil)
		if err := env.db.Model(&model.Asset{}).Where("id = ?", result.ID).
			Update("from_asset_id", ref.ID).Error; err != nil {
			t.Fatalf("Seed update failed: %v", err)
		}
		task := &model.Task{
			ID:               "job-detail",
			OwnerID:          testOwner,
			Type:             model.TaskTypeVideo,
			Prompt:           "sunset",
			ReferenceAssetID: ref.ID,
			ResultAssetID:    result.ID,
			Status:           model.TaskStatusCompleted,
		}
		if err := env.db.Create(task).Error; err != nil {
			t.Fatalf("Seed task failed: %v", err)
		}

		detail, err := env.svc.GetAsset(env.ctx, result.ID)
		if err != nil {
			t.Fatalf("GetAsset failed: %v", err)
		}
		if detail.TaskID != "job-detail" || detail.TaskStatus != model.TaskStatusCompleted {
			t.Errorf("Expected related task, got %+v", detail)
		}
		if detail.TaskPrompt != "sunset" {
			t.Errorf("Expected prompt via task, got %q", detail.TaskPrompt)
		}
		if detail.ReferenceAsset == nil || detail.ReferenceAsset.ID != ref.ID {
			t.Errorf("Expected reference asset %s, got %+v", ref.ID, detail.ReferenceAsset)
		}
	})

	t.Run("DanglingReferenceTolerated", func(t *testing.T) {
		orphan := env.createAsset(t, "orphan.png", nil)
		if err := env.db.Model(&model.Asset{}).Where("id = ?", orphan.ID).
			Update("from_asset_id", "deleted-long-ago").Error; err != nil {
			t.Fatalf("Seed update failed: %v", err)
		}
		detail, err := env.svc.GetAsset(env.ctx, orphan.ID)
		if err != nil {
			t.Fatalf("Expected dangling lineage to be tolerated, got %v", err)
		}
		if detail.ReferenceAsset != nil {
			t.Errorf("Expected absent reference, got %+v", detail.ReferenceAsset)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := env.svc.GetAsset(env.ctx, "missing")
		if !errors.Is(err, ErrAssetNotFound) {
			t.Errorf("Expected ErrAssetNotFound, got %v", err)
		}
	})
}

func TestUpdateAsset(t *testing.T) {
	env := newTestEnv(t)

	asset := env.createAsset(t, "photo.png", nil)

	t.Run("Rename", func(t *testing.T) {
		name := "renamed.png"
		view, err := env.svc.UpdateAsset(env.ctx, asset.ID, &UpdateAssetRequest{Name: &name})
		if err != nil {
			t.Fatalf("UpdateAsset failed: %v", err)
		}
		if view.Name != "renamed.png" {
			t.Errorf("Expected renamed asset, got %s", view.Name)
		}
	})

	t.Run("NameConflict", func(t *testing.T) {
		env.createAsset(t, "taken.png", nil)
		name := "taken.png"
		_, err := env.svc.UpdateAsset(env.ctx, asset.ID, &UpdateAssetRequest{Name: &name})
		if !errors.Is(err, ErrNameConflict) {
			t.Errorf("Expected ErrNameConflict, got %v", err)
		}
	})

	t.Run("MoveIntoFolder", func(t *testing.T) {
		folder, _ := env.svc.CreateFolder(env.ctx, &CreateFolderRequest{Name: "Album"})
		view, err := env.svc.UpdateAsset(env.ctx, asset.ID, &UpdateAssetRequest{FolderID: &folder.ID})
		if err != nil {
			t.Fatalf("UpdateAsset failed: %v", err)
		}
		if view.FolderID == nil || *view.FolderID != folder.ID {
			t.Errorf("Expected asset in folder, got %v", view.FolderID)
		}
	})

	t.Run("LockedForbidden", func(t *testing.T) {
		locked := env.createAsset(t, "locked.png", nil)
		if err := env.db.Model(&model.Asset{}).Where("id = ?", locked.ID).
			Update("status", model.AssetStatusLocked).Error; err != nil {
			t.Fatalf("Seed update failed: %v", err)
		}
		name := "rename-attempt.png"
		if _, err := env.svc.UpdateAsset(env.ctx, locked.ID, &UpdateAssetRequest{Name: &name}); !errors.Is(err, ErrAssetLocked) {
			t.Errorf("Expected ErrAssetLocked on update, got %v", err)
		}
		if err := env.svc.DeleteAsset(env.ctx, locked.ID); !errors.Is(err, ErrAssetLocked) {
			t.Errorf("Expected ErrAssetLocked on delete, got %v", err)
		}
		if _, err := env.svc.CopyAsset(env.ctx, locked.ID, nil); err != nil {
			t.Errorf("Expected copy of a locked asset to succeed, got %v", err)
		}
	})
}

func TestCopyAsset(t *testing.T) {
	env := newTestEnv(t)

	t.Run("Success", func(t *testing.T) {
		src := env.createAsset(t, "photo.png", nil)
		if err := env.db.Model(&model.Asset{}).Where("id = ?", src.ID).
			Update("cover_path", "covers/photo.png").Error; err != nil {
			t.Fatalf("Seed update failed: %v", err)
		}
		env.store.mu.Lock()
		env.store.objects["public/covers/photo.png"] = []byte("cover")
		env.store.mu.Unlock()

		view, err := env.svc.CopyAsset(env.ctx, src.ID, nil)
		if err != nil {
			t.Fatalf("CopyAsset failed: %v", err)
		}
		if view.Name != "photo copy.png" {
			t.Errorf("Expected 'photo copy.png', got %q", view.Name)
		}
		if view.Path == src.Path {
			t.Error("Expected the copy to have its own private key")
		}
		if !env.store.has("private", view.Path) {
			t.Errorf("Expected copied object %s in store", view.Path)
		}
		if view.CoverPath == "covers/photo.png" {
			t.Error("Expected the copy to get its own cover key")
		}
		if view.Status != model.AssetStatusUnlocked {
			t.Errorf("Expected unlocked copy, got %s", view.Status)
		}
	})

	t.Run("PrivateCopyFailureAborts", func(t *testing.T) {
		src := env.createAsset(t, "fragile.png", nil)
		env.store.failCopyOn = src.Path
		defer func() { env.store.failCopyOn = "" }()

		_, err := env.svc.CopyAsset(env.ctx, src.ID, nil)
		if err == nil {
			t.Fatal("Expected CopyAsset to fail when the private copy fails")
		}
		var count int64
		if err := env.db.Model(&model.Asset{}).Where("name = ?", "fragile copy.png").Count(&count).Error; err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected no row after aborted copy, got %d", count)
		}
	})

	t.Run("CoverCopyFailureSharesSource", func(t *testing.T) {
		src := env.createAsset(t, "sturdy.png", nil)
		if err := env.db.Model(&model.Asset{}).Where("id = ?", src.ID).
			Update("cover_path", "covers/sturdy.png").Error; err != nil {
			t.Fatalf("Seed update failed: %v", err)
		}
		env.store.failCopyOn = "covers/sturdy.png"
		defer func() { env.store.failCopyOn = "" }()

		view, err := env.svc.CopyAsset(env.ctx, src.ID, nil)
		if err != nil {
			t.Fatalf("CopyAsset failed: %v", err)
		}
		if view.CoverPath != "covers/sturdy.png" {
			t.Errorf("Expected shared source cover, got %q", view.CoverPath)
		}
	})

	t.Run("IntoFolder", func(t *testing.T) {
		src := env.createAsset(t, "movable.png", nil)
		folder, _ := env.svc.CreateFolder(env.ctx, &CreateFolderRequest{Name: "Dest"})
		view, err := env.svc.CopyAsset(env.ctx, src.ID, &folder.ID)
		if err != nil {
			t.Fatalf("CopyAsset failed: %v", err)
		}
		if view.FolderID == nil || *view.FolderID != folder.ID {
			t.Errorf("Expected copy in destination folder, got %v", view.FolderID)
		}
	})

	t.Run("DuplicateCopyNameAllowed", func(t *testing.T) {
		src := env.createAsset(t, "twice.png", nil)
		if _, err := env.svc.CopyAsset(env.ctx, src.ID, nil); err != nil {
			t.Fatalf("First copy failed: %v", err)
		}
		if _, err := env.svc.CopyAsset(env.ctx, src.ID, nil); err != nil {
			t.Errorf("Expected duplicate 'twice copy.png' to be accepted, got %v", err)
		}
	})
}

func TestDeleteAsset(t *testing.T) {
	env := newTestEnv(t)

	t.Run("RemovesRecordAndObjects", func(t *testing.T) {
		asset := env.createAsset(t, "doomed.png", nil)
		if err := env.svc.DeleteAsset(env.ctx, asset.ID); err != nil {
			t.Fatalf("DeleteAsset failed: %v", err)
		}
		if _, err := env.svc.GetAsset(env.ctx, asset.ID); !errors.Is(err, ErrAssetNotFound) {
			t.Errorf("Expected asset gone, got %v", err)
		}
		if env.store.has("private", asset.Path) {
			t.Error("Expected private object to be deleted")
		}
	})

	t.Run("StorageFailureStillDeletesRecord", func(t *testing.T) {
		asset := env.createAsset(t, "stubborn.png", nil)
		// Drop the object so the backend delete is a no-op; the record must
		// still go away.
		env.store.mu.Lock()
		delete(env.store.objects, "private/"+asset.Path)
		env.store.mu.Unlock()

		if err := env.svc.DeleteAsset(env.ctx, asset.ID); err != nil {
			t.Fatalf("DeleteAsset failed: %v", err)
		}
		if _, err := env.svc.GetAsset(env.ctx, asset.ID); !errors.Is(err, ErrAssetNotFound) {
			t.Errorf("Expected asset gone despite storage state, got %v", err)
		}
	})
}

func TestUploadAsset(t *testing.T) {
	env := newTestEnv(t)

	pngHeader := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)

	t.Run("Success", func(t *testing.T) {
		view, err := env.svc.UploadAsset(env.ctx, &UploadAssetRequest{
			FileName:    "fresh.png",
			ContentType: "image/png",
			Size:        int64(len(pngHeader)),
			Data:        bytes.NewReader(pngHeader),
			Head:        pngHeader,
		})
		if err != nil {
			t.Fatalf("UploadAsset failed: %v", err)
		}
		if view.Type != model.AssetTypeImage || view.Source != model.AssetSourceUpload {
			t.Errorf("Expected unlocked uploaded image, got %+v", view.Asset)
		}
		if view.Status != model.AssetStatusUnlocked {
			t.Errorf("Expected unlocked, got %s", view.Status)
		}
		if !env.store.has("private", view.Path) {
			t.Errorf("Expected stored object at %s", view.Path)
		}
		if !strings.HasPrefix(view.Path, "uploads/"+testOwner+"/") {
			t.Errorf("Unexpected object key %q", view.Path)
		}
	})

	t.Run("NameConflict", func(t *testing.T) {
		_, err := env.svc.UploadAsset(env.ctx, &UploadAssetRequest{
			FileName:    "fresh.png",
			ContentType: "image/png",
			Size:        int64(len(pngHeader)),
			Data:        bytes.NewReader(pngHeader),
			Head:        pngHeader,
		})
		if !errors.Is(err, ErrNameConflict) {
			t.Errorf("Expected ErrNameConflict, got %v", err)
		}
	})

	t.Run("RejectedType", func(t *testing.T) {
		payload := []byte("#!/bin/sh\necho hello")
		_, err := env.svc.UploadAsset(env.ctx, &UploadAssetRequest{
			FileName:    "script.sh",
			ContentType: "application/x-sh",
			Size:        int64(len(payload)),
			Data:        bytes.NewReader(payload),
			Head:        payload,
		})
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("StoreFailure", func(t *testing.T) {
		env.store.failPut = true
		defer func() { env.store.failPut = false }()
		_, err := env.svc.UploadAsset(env.ctx, &UploadAssetRequest{
			FileName:    "unstored.png",
			ContentType: "image/png",
			Size:        int64(len(pngHeader)),
			Data:        bytes.NewReader(pngHeader),
			Head:        pngHeader,
		})
		if err == nil {
			t.Fatal("Expected UploadAsset to fail when the store rejects the object")
		}
		var count int64
		if err := env.db.Model(&model.Asset{}).Where("name = ?", "unstored.png").Count(&count).Error; err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected no row after failed store, got %d", count)
		}
	})
}

func TestDownloadAsset(t *testing.T) {
	env := newTestEnv(t)

	asset := env.createAsset(t, "movie.mp4", nil)

	rc, name, err := env.svc.DownloadAsset(env.ctx, asset.ID)
	if err != nil {
		t.Fatalf("DownloadAsset failed: %v", err)
	}
	defer rc.Close()
	payload := make([]byte, 8)
	n, _ := rc.Read(payload)
	if string(payload[:n]) != "media" {
		t.Errorf("Expected object payload, got %q", payload[:n])
	}
	if name != "movie.mp4" {
		t.Errorf("Expected download name movie.mp4, got %q", name)
	}
}

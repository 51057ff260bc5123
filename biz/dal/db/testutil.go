package db

import (
	"context"
	"testing"

	"github.com/jeweai/media_vault/biz/dal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Reduce log noise in tests
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Folder{},
		&model.Asset{},
		&model.Task{},
	); err != nil {
		t.Fatalf("Failed to migrate tables: %v", err)
	}

	return db
}

// CleanupTestDB closes the database connection.
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close DB: %v", err)
	}
}

// CreateTestUser creates a user with the given credit balance.
func CreateTestUser(t *testing.T, db *gorm.DB, id string, credits int64) *model.User {
	t.Helper()
	dao := NewUserDAO()
	user := &model.User{
		ID:       id,
		Username: "user-" + id,
		Credits:  credits,
	}
	if err := dao.Create(context.Background(), db, user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestFolder creates a folder under the given parent.
func CreateTestFolder(t *testing.T, db *gorm.DB, ownerID, name string, parentID *string) *model.Folder {
	t.Helper()
	dao := NewFolderDAO()
	folder := &model.Folder{
		OwnerID:  ownerID,
		ParentID: parentID,
		Name:     name,
	}
	if err := dao.Create(context.Background(), db, folder); err != nil {
		t.Fatalf("Failed to create test folder: %v", err)
	}
	return folder
}

// CreateTestAsset creates an unlocked uploaded image asset.
func CreateTestAsset(t *testing.T, db *gorm.DB, ownerID, name string, folderID *string) *model.Asset {
	t.Helper()
	dao := NewAssetDAO()
	asset := &model.Asset{
		OwnerID:  ownerID,
		FolderID: folderID,
		Name:     name,
		Type:     model.AssetTypeImage,
		Source:   model.AssetSourceUpload,
		Status:   model.AssetStatusUnlocked,
		Path:     "uploads/" + ownerID + "/" + name,
	}
	if err := dao.Create(context.Background(), db, asset); err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}
	return asset
}

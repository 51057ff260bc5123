package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Asset type values.
const (
	AssetTypeImage = "image"
	AssetTypeVideo = "video"
)

// Asset source values.
const (
	AssetSourceUpload = "upload"
	AssetSourceAI     = "ai"
)

// Asset status values. A locked asset is still bound to an in-flight
// generation job and must reject ordinary mutation paths.
const (
	AssetStatusLocked   = "locked"
	AssetStatusUnlocked = "unlocked"
)

// Asset is a media record with storage pointers. Path is the object key in
// the private bucket, CoverPath the key of the preview thumbnail in the
// public bucket. FromAssetID is a non-owning lineage pointer back to the
// reference asset a generation was based on; a dangling value is tolerated.
type Asset struct {
	ID          string            `gorm:"column:id;primaryKey" json:"id"`
	OwnerID     string            `gorm:"column:owner_id;index:idx_asset_owner" json:"owner_id"`
	FolderID    *string           `gorm:"column:folder_id;index:idx_asset_folder" json:"folder_id"`
	Name        string            `gorm:"column:name" json:"name"`
	Type        string            `gorm:"column:type" json:"type"`
	Source      string            `gorm:"column:source" json:"source"`
	Status      string            `gorm:"column:status;default:unlocked" json:"status"`
	Path        string            `gorm:"column:path;type:text" json:"path,omitempty"`
	CoverPath   string            `gorm:"column:cover_path;type:text" json:"cover_path,omitempty"`
	FromAssetID string            `gorm:"column:from_asset_id;index:idx_asset_from" json:"from_asset_id,omitempty"`
	Width       int               `gorm:"column:width" json:"width,omitempty"`
	Height      int               `gorm:"column:height" json:"height,omitempty"`
	AspectRatio string            `gorm:"column:aspect_ratio" json:"aspect_ratio,omitempty"`
	Duration    string            `gorm:"column:duration" json:"duration,omitempty"`
	Prompt      string            `gorm:"column:prompt;type:text" json:"prompt,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at,omitempty"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName overrides gorm to use the assets table.
func (Asset) TableName() string {
	return "assets"
}

// Locked reports whether the asset rejects ordinary mutations.
func (a *Asset) Locked() bool {
	return a.Status == AssetStatusLocked
}

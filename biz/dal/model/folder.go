package model

import (
	"time"

	"gorm.io/gorm"
)

// Folder is a node in the per-user parent-pointer tree. A nil ParentID means
// the folder sits at the root. (owner_id, parent_id, name) must be unique
// among live rows; the service layer enforces this because NULL parent ids
// do not compose with SQL unique indexes across drivers.
type Folder struct {
	ID        string         `gorm:"column:id;primaryKey" json:"id"`
	OwnerID   string         `gorm:"column:owner_id;index:idx_folder_owner" json:"owner_id"`
	ParentID  *string        `gorm:"column:parent_id;index:idx_folder_parent" json:"parent_id"`
	Name      string         `gorm:"column:name" json:"name"`
	CreatedAt time.Time      `json:"created_at,omitempty"`
	UpdatedAt time.Time      `json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides gorm to use the folders table.
func (Folder) TableName() string {
	return "folders"
}

package model

import (
	"time"

	"gorm.io/datatypes"
)

// Task status values, monotonic along queued -> generating -> completed|failed.
const (
	TaskStatusQueued     = "queued"
	TaskStatusGenerating = "generating"
	TaskStatusCompleted  = "completed"
	TaskStatusFailed     = "failed"
)

// Task type values.
const (
	TaskTypeImage = "image"
	TaskTypeVideo = "video"
)

// Metadata keys accumulated from worker callbacks.
const (
	TaskMetaExternalID     = "externalId"
	TaskMetaFailureReason  = "failureReason"
	TaskMetaErrorMessage   = "errorMessage"
	TaskMetaResultURL      = "resultUrl"
	TaskMetaOriginalTaskID = "originalTaskId"
)

// Task tracks one generation job. The ID is the job identifier assigned by
// the external worker, which makes callback lookups idempotent by key.
// ReferenceAssetID and ResultAssetID are non-owning references.
type Task struct {
	ID               string            `gorm:"column:id;primaryKey" json:"id"`
	OwnerID          string            `gorm:"column:owner_id;index:idx_task_owner" json:"owner_id"`
	Type             string            `gorm:"column:type" json:"type"`
	Prompt           string            `gorm:"column:prompt;type:text" json:"prompt,omitempty"`
	StyleID          string            `gorm:"column:style_id" json:"style_id,omitempty"`
	ReferenceAssetID string            `gorm:"column:reference_asset_id;index:idx_task_ref" json:"reference_asset_id,omitempty"`
	ResultAssetID    string            `gorm:"column:result_asset_id;index:idx_task_result" json:"result_asset_id,omitempty"`
	Status           string            `gorm:"column:status;default:queued" json:"status"`
	Metadata         datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt        time.Time         `json:"created_at,omitempty"`
	UpdatedAt        time.Time         `json:"updated_at,omitempty"`
}

// TableName overrides gorm to use the tasks table.
func (Task) TableName() string {
	return "tasks"
}

// Terminal reports whether the status admits no further transition.
func (t *Task) Terminal() bool {
	return TerminalStatus(t.Status)
}

// TerminalStatus reports whether s is a terminal task status.
func TerminalStatus(s string) bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

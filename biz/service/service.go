package service

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/jeweai/media_vault/biz/dal/model"
	"github.com/jeweai/media_vault/pkg/common"
	"github.com/jeweai/media_vault/pkg/storage"
	"github.com/jeweai/media_vault/pkg/validator"
	"github.com/jeweai/media_vault/pkg/worker"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxTreeDepth bounds every ancestor walk and recursive delete. A well-formed
// tree never gets near it; it exists so corrupt parent pointers cannot spin
// a handler forever.
const maxTreeDepth = 64

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Dispatcher submits generation jobs to the external worker.
type Dispatcher interface {
	SubmitImage(ctx context.Context, req *worker.JobRequest) (string, error)
	SubmitVideo(ctx context.Context, req *worker.JobRequest) (string, error)
}

// TaskLocker serialises callback handling per task id. Optional; the
// conditional status update is the correctness anchor either way.
type TaskLocker interface {
	Acquire(ctx context.Context, key string) (string, error)
	Release(ctx context.Context, key, lockID string) error
}

// Options carries tunables for the service.
type Options struct {
	ImageCost int64
	VideoCost int64
	Upload    *validator.UploadConfig
	Locker    TaskLocker
}

// Service orchestrates folder, asset and task operations over the database
// and the object store gateway.
type Service struct {
	logic      *Logic
	gateway    *storage.Gateway
	dispatcher Dispatcher
	locker     TaskLocker
	upload     *validator.UploadConfig
	imageCost  int64
	videoCost  int64
}

func NewService(db *gorm.DB, gateway *storage.Gateway, dispatcher Dispatcher, opts Options) *Service {
	upload := opts.Upload
	if upload == nil {
		upload = validator.DefaultUploadConfig()
	}
	imageCost := opts.ImageCost
	if imageCost <= 0 {
		imageCost = 1
	}
	videoCost := opts.VideoCost
	if videoCost <= 0 {
		videoCost = 5
	}
	return &Service{
		logic:      NewLogic(db),
		gateway:    gateway,
		dispatcher: dispatcher,
		locker:     opts.Locker,
		upload:     upload,
		imageCost:  imageCost,
		videoCost:  videoCost,
	}
}

// ownerFromContext extracts the authenticated owner id placed there by the
// auth middleware.
func ownerFromContext(ctx context.Context) (string, error) {
	id, ok := common.GetUserID(ctx)
	if !ok {
		return "", ErrUnauthorized
	}
	return id, nil
}

// --------------------- View types ---------------------

// AssetView is an asset record with its two resolved URL classes: a signed
// short-lived URL for the private object and a fixed public URL for the cover.
type AssetView struct {
	*model.Asset
	URL      string `json:"url,omitempty"`
	CoverURL string `json:"cover_url,omitempty"`
}

// AssetDetail is the full single-asset view including the related generation
// task and, for generated media, the reference asset.
type AssetDetail struct {
	AssetView
	TaskID         string     `json:"task_id,omitempty"`
	TaskStatus     string     `json:"task_status,omitempty"`
	TaskPrompt     string     `json:"task_prompt,omitempty"`
	ReferenceAsset *AssetView `json:"reference_asset,omitempty"`
}

// Listing combines child folders and assets of one tree level.
type Listing struct {
	Folders []model.Folder `json:"folders,omitempty"`
	Assets  []AssetView    `json:"assets"`
}

func (s *Service) assetView(ctx context.Context, asset *model.Asset) AssetView {
	view := AssetView{Asset: asset}
	if asset.CoverPath != "" {
		view.CoverURL = s.gateway.PublicURL(asset.CoverPath)
	}
	if asset.Path != "" {
		url, err := s.gateway.SignedURL(ctx, asset.Path)
		if err == nil {
			view.URL = url
		}
	}
	return view
}

// --------------------- Shared helpers ---------------------

// sanitizeFileName keeps object keys predictable regardless of what the
// client called the file.
func sanitizeFileName(name string) string {
	name = path.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// copyDisplayName appends " copy" before the file extension, or at the end
// when there is none.
func copyDisplayName(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return name + " copy"
	}
	return strings.TrimSuffix(name, ext) + " copy" + ext
}

// replaceKeyBasename swaps the object id embedded in a key's filename while
// keeping its directory prefix and extension, producing the destination key
// for a copy.
func replaceKeyBasename(key, newID string) string {
	dir := path.Dir(key)
	ext := path.Ext(key)
	if dir == "." || dir == "/" {
		return newID + ext
	}
	return dir + "/" + newID + ext
}

// mergeMetadata overlays updates onto existing metadata without discarding
// keys the update does not mention. Empty update values are skipped.
func mergeMetadata(existing map[string]any, updates map[string]any) map[string]any {
	merged := make(map[string]any, len(existing)+len(updates))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range updates {
		if str, ok := v.(string); ok && str == "" {
			continue
		}
		merged[k] = v
	}
	return merged
}

// headBytes returns the sniffing prefix used for content-type detection.
func headBytes(data []byte) []byte {
	if len(data) > 512 {
		return data[:512]
	}
	return data
}

func toJSONMap(m map[string]any) datatypes.JSONMap {
	return datatypes.JSONMap(m)
}

func costForTaskType(s *Service, taskType string) (int64, error) {
	switch taskType {
	case model.TaskTypeImage:
		return s.imageCost, nil
	case model.TaskTypeVideo:
		return s.videoCost, nil
	default:
		return 0, fmt.Errorf("unknown task type %q: %w", taskType, ErrInvalidArgument)
	}
}

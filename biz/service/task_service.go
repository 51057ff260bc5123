package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jeweai/media_vault/biz/dal/model"
	"github.com/jeweai/media_vault/pkg/worker"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
)

// CreateTaskRequest starts a generation job. The reference is either an
// existing owned image asset (ReferenceAssetID) or a raw image payload
// (ReferenceImage + ReferenceImageName), which is stored as a fresh unlocked
// asset first.
type CreateTaskRequest struct {
	Type               string
	Prompt             string
	StyleID            string
	AspectRatio        string
	ReferenceAssetID   string
	ReferenceImage     []byte
	ReferenceImageName string
	ReferenceImageType string
}

func (s *Service) CreateTask(ctx context.Context, req *CreateTaskRequest) (*model.Task, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	cost, err := costForTaskType(s, req.Type)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required: %w", ErrInvalidArgument)
	}

	ref, err := s.resolveReference(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}

	width, height, ratio := presetDimensions(req.Type, req.AspectRatio)

	debited, err := s.logic.DebitCredits(ctx, ownerID, cost)
	if err != nil {
		return nil, err
	}
	if !debited {
		return nil, ErrInsufficientCredits
	}

	taskID, err := s.dispatch(ctx, req.Type, &worker.JobRequest{
		Prompt:      req.Prompt,
		StyleID:     req.StyleID,
		AssetID:     ref.ID,
		UserID:      ownerID,
		ImagePath:   ref.Path,
		Width:       width,
		Height:      height,
		AspectRatio: ratio,
	})
	if err != nil {
		if rerr := s.logic.RefundCredits(ctx, ownerID, cost); rerr != nil {
			hlog.CtxErrorf(ctx, "refund %d credits to %s after failed dispatch: %v", cost, ownerID, rerr)
		}
		return nil, fmt.Errorf("dispatch job: %w", err)
	}

	task := &model.Task{
		ID:               taskID,
		OwnerID:          ownerID,
		Type:             req.Type,
		Prompt:           req.Prompt,
		StyleID:          req.StyleID,
		ReferenceAssetID: ref.ID,
		Status:           model.TaskStatusQueued,
	}
	if err := s.logic.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// resolveReference returns the reference asset for a new task, storing the
// raw payload as a new asset when no existing one was named.
func (s *Service) resolveReference(ctx context.Context, ownerID string, req *CreateTaskRequest) (*model.Asset, error) {
	if req.ReferenceAssetID != "" {
		ref, err := s.logic.GetAsset(ctx, ownerID, req.ReferenceAssetID)
		if err != nil {
			return nil, err
		}
		if ref.Type != model.AssetTypeImage {
			return nil, fmt.Errorf("reference asset must be an image: %w", ErrInvalidArgument)
		}
		return ref, nil
	}
	if len(req.ReferenceImage) == 0 {
		return nil, fmt.Errorf("a reference asset or image is required: %w", ErrInvalidArgument)
	}
	name := strings.TrimSpace(req.ReferenceImageName)
	if name == "" {
		name = "reference.png"
	}
	view, err := s.UploadAsset(ctx, &UploadAssetRequest{
		FileName:    name,
		ContentType: req.ReferenceImageType,
		Size:        int64(len(req.ReferenceImage)),
		Data:        bytes.NewReader(req.ReferenceImage),
		Head:        headBytes(req.ReferenceImage),
	})
	if err != nil {
		return nil, err
	}
	return view.Asset, nil
}

func (s *Service) dispatch(ctx context.Context, taskType string, job *worker.JobRequest) (string, error) {
	if taskType == model.TaskTypeVideo {
		return s.dispatcher.SubmitVideo(ctx, job)
	}
	return s.dispatcher.SubmitImage(ctx, job)
}

// CallbackRequest is the worker's progress report, §6-shaped JSON decoded by
// the handler.
type CallbackRequest struct {
	TaskID         string
	Status         string
	ResultURL      string
	CoverPath      string
	VideoPath      string
	VideoCoverPath string
	ImagePath      string
	ImageCoverPath string
	Width          int
	Height         int
	AspectRatio    string
	Duration       string
	ExternalID     string
	FailureReason  string
	ErrorMessage   string
}

// normalizeCallbackStatus maps the worker's status aliases onto task states.
func normalizeCallbackStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "generating", "execute":
		return model.TaskStatusGenerating, nil
	case "completed", "complete":
		return model.TaskStatusCompleted, nil
	case "failed":
		return model.TaskStatusFailed, nil
	default:
		return "", fmt.Errorf("unknown callback status %q: %w", status, ErrInvalidArgument)
	}
}

// HandleCallback applies one worker progress report. Unknown task ids fail
// with NotFound; reports against a task already in a terminal state succeed
// without touching anything, so duplicate and late deliveries are absorbed.
func (s *Service) HandleCallback(ctx context.Context, req *CallbackRequest) error {
	if req.TaskID == "" || req.Status == "" {
		return fmt.Errorf("taskId and status are required: %w", ErrInvalidArgument)
	}
	status, err := normalizeCallbackStatus(req.Status)
	if err != nil {
		return err
	}

	if s.locker != nil {
		lockID, err := s.locker.Acquire(ctx, req.TaskID)
		if err != nil {
			hlog.CtxWarnf(ctx, "task %s callback lock unavailable, relying on conditional update: %v", req.TaskID, err)
		} else {
			defer func() {
				if err := s.locker.Release(ctx, req.TaskID, lockID); err != nil {
					hlog.CtxWarnf(ctx, "release callback lock for task %s: %v", req.TaskID, err)
				}
			}()
		}
	}

	task, err := s.logic.GetTask(ctx, req.TaskID)
	if err != nil {
		return err
	}
	if task.Terminal() {
		return nil
	}

	switch status {
	case model.TaskStatusGenerating:
		return s.markGenerating(ctx, task, req)
	case model.TaskStatusCompleted:
		return s.completeTask(ctx, task, req)
	default:
		return s.failTask(ctx, task, req)
	}
}

func (s *Service) markGenerating(ctx context.Context, task *model.Task, req *CallbackRequest) error {
	applied, err := s.logic.TransitionTask(ctx, task.ID,
		[]string{model.TaskStatusQueued, model.TaskStatusGenerating},
		map[string]any{"status": model.TaskStatusGenerating})
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}
	// Progress previews show up on the reference asset until the result
	// exists.
	if req.CoverPath != "" && task.ReferenceAssetID != "" {
		err := s.logic.UpdateAsset(ctx, task.OwnerID, task.ReferenceAssetID,
			map[string]any{"cover_path": req.CoverPath})
		if err != nil && !errors.Is(err, ErrAssetNotFound) {
			return err
		}
	}
	return nil
}

func (s *Service) completeTask(ctx context.Context, task *model.Task, req *CallbackRequest) error {
	path := req.ImagePath
	cover := req.ImageCoverPath
	ext := ".png"
	if task.Type == model.TaskTypeVideo {
		path = req.VideoPath
		cover = req.VideoCoverPath
		ext = ".mp4"
	}
	width, height := req.Width, req.Height
	if width <= 0 || height <= 0 {
		width, height, _ = presetDimensions(task.Type, req.AspectRatio)
	}
	ratio := req.AspectRatio
	if ratio == "" {
		ratio = reduceRatio(width, height)
	}

	result := &model.Asset{
		ID:          uuid.NewString(),
		OwnerID:     task.OwnerID,
		Name:        "generated-" + task.ID + ext,
		Type:        task.Type,
		Source:      model.AssetSourceAI,
		Status:      model.AssetStatusUnlocked,
		Path:        path,
		CoverPath:   cover,
		FromAssetID: task.ReferenceAssetID,
		Width:       width,
		Height:      height,
		AspectRatio: ratio,
		Duration:    req.Duration,
		Prompt:      task.Prompt,
	}
	if err := s.logic.CreateAsset(ctx, result); err != nil {
		return err
	}

	updates := map[string]any{
		"status":          model.TaskStatusCompleted,
		"result_asset_id": result.ID,
	}
	if req.ResultURL != "" {
		updates["metadata"] = toJSONMap(mergeMetadata(task.Metadata, map[string]any{
			model.TaskMetaResultURL: req.ResultURL,
		}))
	}
	applied, err := s.logic.TransitionTask(ctx, task.ID,
		[]string{model.TaskStatusQueued, model.TaskStatusGenerating}, updates)
	if err != nil {
		return err
	}
	if !applied {
		// A concurrent delivery won the transition; its asset stands, ours
		// must not linger as an orphan.
		if derr := s.logic.DiscardAsset(ctx, result.ID); derr != nil {
			hlog.CtxWarnf(ctx, "discard duplicate result asset %s for task %s: %v", result.ID, task.ID, derr)
		}
		return nil
	}
	hlog.CtxInfof(ctx, "task %s completed, result asset %s", task.ID, result.ID)
	return nil
}

func (s *Service) failTask(ctx context.Context, task *model.Task, req *CallbackRequest) error {
	meta := mergeMetadata(task.Metadata, map[string]any{
		model.TaskMetaExternalID:    req.ExternalID,
		model.TaskMetaFailureReason: req.FailureReason,
		model.TaskMetaErrorMessage:  req.ErrorMessage,
	})
	_, err := s.logic.TransitionTask(ctx, task.ID,
		[]string{model.TaskStatusQueued, model.TaskStatusGenerating},
		map[string]any{
			"status":   model.TaskStatusFailed,
			"metadata": toJSONMap(meta),
		})
	return err
}

// RetryTask re-dispatches a task's job and records the new attempt as a new
// task row pointing back at the original. The original row is never mutated.
func (s *Service) RetryTask(ctx context.Context, taskID string) (*model.Task, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	original, err := s.logic.GetTaskForOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	cost, err := costForTaskType(s, original.Type)
	if err != nil {
		return nil, err
	}

	imagePath := ""
	if original.ReferenceAssetID != "" {
		ref, err := s.logic.GetAsset(ctx, ownerID, original.ReferenceAssetID)
		if err != nil {
			return nil, err
		}
		imagePath = ref.Path
	}
	width, height, ratio := presetDimensions(original.Type, "")

	debited, err := s.logic.DebitCredits(ctx, ownerID, cost)
	if err != nil {
		return nil, err
	}
	if !debited {
		return nil, ErrInsufficientCredits
	}

	newID, err := s.dispatch(ctx, original.Type, &worker.JobRequest{
		Prompt:      original.Prompt,
		StyleID:     original.StyleID,
		AssetID:     original.ReferenceAssetID,
		UserID:      ownerID,
		ImagePath:   imagePath,
		Width:       width,
		Height:      height,
		AspectRatio: ratio,
	})
	if err != nil {
		if rerr := s.logic.RefundCredits(ctx, ownerID, cost); rerr != nil {
			hlog.CtxErrorf(ctx, "refund %d credits to %s after failed retry dispatch: %v", cost, ownerID, rerr)
		}
		return nil, fmt.Errorf("dispatch retry job: %w", err)
	}

	retry := &model.Task{
		ID:               newID,
		OwnerID:          ownerID,
		Type:             original.Type,
		Prompt:           original.Prompt,
		StyleID:          original.StyleID,
		ReferenceAssetID: original.ReferenceAssetID,
		Status:           model.TaskStatusQueued,
		Metadata:         toJSONMap(map[string]any{model.TaskMetaOriginalTaskID: original.ID}),
	}
	if err := s.logic.CreateTask(ctx, retry); err != nil {
		return nil, err
	}
	return retry, nil
}

func (s *Service) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.logic.GetTaskForOwner(ctx, ownerID, taskID)
}

func (s *Service) ListTasks(ctx context.Context) ([]model.Task, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.logic.ListTasks(ctx, ownerID)
}

package handler

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/jeweai/media_vault/biz/service"
)

// TaskHandler exposes generation task operations, including the worker's
// callback endpoint.
type TaskHandler struct {
	service *service.Service
}

func NewTaskHandler(svc *service.Service) *TaskHandler {
	return &TaskHandler{service: svc}
}

type createTaskRequest struct {
	Type             string `json:"type"`
	Prompt           string `json:"prompt"`
	StyleID          string `json:"style_id"`
	AspectRatio      string `json:"aspect_ratio"`
	ReferenceAssetID string `json:"reference_asset_id"`
}

// Create accepts either a JSON body referencing an existing asset or a
// multipart form carrying the reference image under "reference".
func (h *TaskHandler) Create(ctx context.Context, c *app.RequestContext) {
	contentType := string(c.ContentType())
	if strings.HasPrefix(contentType, "multipart/form-data") {
		h.createFromForm(ctx, c)
		return
	}

	var req createTaskRequest
	if err := c.BindAndValidate(&req); err != nil {
		writeError(c, service.ErrInvalidArgument)
		return
	}
	task, err := h.service.CreateTask(ctx, &service.CreateTaskRequest{
		Type:             req.Type,
		Prompt:           req.Prompt,
		StyleID:          req.StyleID,
		AspectRatio:      req.AspectRatio,
		ReferenceAssetID: req.ReferenceAssetID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, task)
}

func (h *TaskHandler) createFromForm(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("reference")
	if err != nil {
		writeError(c, fmt.Errorf("reference image is required: %w", service.ErrInvalidArgument))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()
	payload, err := io.ReadAll(file)
	if err != nil {
		writeError(c, err)
		return
	}

	task, err := h.service.CreateTask(ctx, &service.CreateTaskRequest{
		Type:               c.PostForm("type"),
		Prompt:             c.PostForm("prompt"),
		StyleID:            c.PostForm("style_id"),
		AspectRatio:        c.PostForm("aspect_ratio"),
		ReferenceImage:     payload,
		ReferenceImageName: fileHeader.Filename,
		ReferenceImageType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, task)
}

type callbackRequest struct {
	TaskID         string `json:"taskId"`
	Status         string `json:"status"`
	ResultURL      string `json:"resultUrl"`
	CoverPath      string `json:"coverPath"`
	VideoPath      string `json:"videoPath"`
	VideoCoverPath string `json:"videoCoverPath"`
	ImagePath      string `json:"imagePath"`
	ImageCoverPath string `json:"imageCoverPath"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	AspectRatio    string `json:"aspectRatio"`
	Duration       string `json:"duration"`
	ExternalID     string `json:"externalId"`
	FailureReason  string `json:"failureReason"`
	ErrorMessage   string `json:"errorMessage"`
}

// Callback receives the worker's progress reports. Not behind RequireAuth:
// the worker authenticates out of band and carries no user identity.
func (h *TaskHandler) Callback(ctx context.Context, c *app.RequestContext) {
	var req callbackRequest
	if err := c.BindAndValidate(&req); err != nil {
		writeError(c, service.ErrInvalidArgument)
		return
	}
	err := h.service.HandleCallback(ctx, &service.CallbackRequest{
		TaskID:         req.TaskID,
		Status:         req.Status,
		ResultURL:      req.ResultURL,
		CoverPath:      req.CoverPath,
		VideoPath:      req.VideoPath,
		VideoCoverPath: req.VideoCoverPath,
		ImagePath:      req.ImagePath,
		ImageCoverPath: req.ImageCoverPath,
		Width:          req.Width,
		Height:         req.Height,
		AspectRatio:    req.AspectRatio,
		Duration:       req.Duration,
		ExternalID:     req.ExternalID,
		FailureReason:  req.FailureReason,
		ErrorMessage:   req.ErrorMessage,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, nil)
}

func (h *TaskHandler) Retry(ctx context.Context, c *app.RequestContext) {
	task, err := h.service.RetryTask(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, task)
}

func (h *TaskHandler) Get(ctx context.Context, c *app.RequestContext) {
	task, err := h.service.GetTask(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, task)
}

func (h *TaskHandler) List(ctx context.Context, c *app.RequestContext) {
	tasks, err := h.service.ListTasks(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, tasks)
}

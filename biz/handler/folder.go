package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/jeweai/media_vault/biz/service"
)

// FolderHandler exposes folder tree operations.
type FolderHandler struct {
	service *service.Service
}

func NewFolderHandler(svc *service.Service) *FolderHandler {
	return &FolderHandler{service: svc}
}

type createFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

func (h *FolderHandler) Create(ctx context.Context, c *app.RequestContext) {
	var req createFolderRequest
	if err := c.BindAndValidate(&req); err != nil {
		writeError(c, service.ErrInvalidArgument)
		return
	}
	folder, err := h.service.CreateFolder(ctx, &service.CreateFolderRequest{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, folder)
}

type updateFolderRequest struct {
	Name     *string `json:"name"`
	ParentID *string `json:"parent_id"`
	ToRoot   bool    `json:"to_root"`
}

func (h *FolderHandler) Update(ctx context.Context, c *app.RequestContext) {
	var req updateFolderRequest
	if err := c.BindAndValidate(&req); err != nil {
		writeError(c, service.ErrInvalidArgument)
		return
	}
	folder, err := h.service.UpdateFolder(ctx, c.Param("id"), &service.UpdateFolderRequest{
		Name:     req.Name,
		ParentID: req.ParentID,
		ToRoot:   req.ToRoot,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, folder)
}

func (h *FolderHandler) Delete(ctx context.Context, c *app.RequestContext) {
	if err := h.service.DeleteFolder(ctx, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, nil)
}

func (h *FolderHandler) Get(ctx context.Context, c *app.RequestContext) {
	folder, err := h.service.GetFolder(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, folder)
}

func (h *FolderHandler) List(ctx context.Context, c *app.RequestContext) {
	var parentID *string
	if v := c.Query("parent_id"); v != "" {
		parentID = &v
	}
	folders, err := h.service.ListFolders(ctx, parentID)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, folders)
}

package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/jeweai/media_vault/biz/service"
)

// AssetHandler exposes asset repository operations.
type AssetHandler struct {
	service *service.Service
}

func NewAssetHandler(svc *service.Service) *AssetHandler {
	return &AssetHandler{service: svc}
}

func (h *AssetHandler) List(ctx context.Context, c *app.RequestContext) {
	var folderID *string
	if v := c.Query("folder_id"); v != "" {
		folderID = &v
	}
	includeFolders := c.Query("include_folders") == "true"
	listing, err := h.service.ListAssets(ctx, folderID, includeFolders)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, listing)
}

func (h *AssetHandler) Get(ctx context.Context, c *app.RequestContext) {
	detail, err := h.service.GetAsset(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, detail)
}

type updateAssetRequest struct {
	Name     *string `json:"name"`
	FolderID *string `json:"folder_id"`
	ToRoot   bool    `json:"to_root"`
}

func (h *AssetHandler) Update(ctx context.Context, c *app.RequestContext) {
	var req updateAssetRequest
	if err := c.BindAndValidate(&req); err != nil {
		writeError(c, service.ErrInvalidArgument)
		return
	}
	view, err := h.service.UpdateAsset(ctx, c.Param("id"), &service.UpdateAssetRequest{
		Name:     req.Name,
		FolderID: req.FolderID,
		ToRoot:   req.ToRoot,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, view)
}

type copyAssetRequest struct {
	FolderID *string `json:"folder_id"`
}

func (h *AssetHandler) Copy(ctx context.Context, c *app.RequestContext) {
	var req copyAssetRequest
	if len(c.Request.Body()) > 0 {
		if err := c.BindAndValidate(&req); err != nil {
			writeError(c, service.ErrInvalidArgument)
			return
		}
	}
	view, err := h.service.CopyAsset(ctx, c.Param("id"), req.FolderID)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, view)
}

func (h *AssetHandler) Delete(ctx context.Context, c *app.RequestContext) {
	if err := h.service.DeleteAsset(ctx, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, nil)
}

// Upload accepts one multipart file under "file" with an optional folder_id
// form value.
func (h *AssetHandler) Upload(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, fmt.Errorf("file is required: %w", service.ErrInvalidArgument))
		return
	}
	var folderID *string
	if v := c.PostForm("folder_id"); v != "" {
		folderID = &v
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		writeError(c, err)
		return
	}
	head = head[:n]
	data := io.MultiReader(bytes.NewReader(head), file)

	view, err := h.service.UploadAsset(ctx, &service.UploadAssetRequest{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		FolderID:    folderID,
		Data:        data,
		Head:        head,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, view)
}

// Download streams the private object behind an asset.
func (h *AssetHandler) Download(ctx context.Context, c *app.RequestContext) {
	rc, name, err := h.service.DownloadAsset(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Response.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", name))
	c.Data(consts.StatusOK, "application/octet-stream", data)
}

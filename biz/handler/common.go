package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/jeweai/media_vault/biz/service"
	"github.com/jeweai/media_vault/pkg/common"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return consts.StatusUnauthorized
	case errors.Is(err, service.ErrFolderNotFound),
		errors.Is(err, service.ErrAssetNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return consts.StatusNotFound
	case errors.Is(err, service.ErrAssetLocked):
		return consts.StatusForbidden
	case errors.Is(err, service.ErrNameConflict):
		return consts.StatusConflict
	case errors.Is(err, service.ErrCyclicMove),
		errors.Is(err, service.ErrInvalidArgument):
		return consts.StatusBadRequest
	case errors.Is(err, service.ErrInsufficientCredits):
		return consts.StatusPaymentRequired
	default:
		return consts.StatusInternalServerError
	}
}

// Ping is the liveness probe.
func Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]string{"message": "pong"})
}

func writeOK(c *app.RequestContext, data any) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Msg:  "success",
		Data: data,
	})
}

func writeError(c *app.RequestContext, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == consts.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, common.CommonResponse{
		Code:  status,
		Msg:   msg,
		Error: err.Error(),
	})
}

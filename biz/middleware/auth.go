package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/jeweai/media_vault/pkg/common"
)

// Auth returns a middleware that extracts the caller identity from request
// headers and adds it to the context. It does NOT enforce authentication, it
// only enriches the context when an identity is present.
func Auth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if userHeader := strings.TrimSpace(string(c.GetHeader("X-User-Id"))); userHeader != "" {
			ctx = common.ContextWithUserID(ctx, userHeader)
		}
		c.Next(ctx)
	}
}

// RequireAuth returns a middleware that enforces authentication.
// Requests without a valid X-User-Id header are rejected with 401.
func RequireAuth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		userHeader := strings.TrimSpace(string(c.GetHeader("X-User-Id")))
		if userHeader == "" {
			c.JSON(consts.StatusUnauthorized, common.CommonResponse{
				Code:  consts.StatusUnauthorized,
				Msg:   "missing X-User-Id header",
				Error: "authentication required",
			})
			c.Abort()
			return
		}

		ctx = common.ContextWithUserID(ctx, userHeader)
		c.Next(ctx)
	}
}

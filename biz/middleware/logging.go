package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Logging returns a middleware that logs request and response information.
// The owner id rides along when the caller presented one, so a request can
// be correlated with the tenant it touched.
func Logging() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()

		c.Next(ctx)

		latency := time.Since(start)
		method := string(c.Request.Method())
		path := string(c.Request.URI().Path())
		statusCode := c.Response.StatusCode()
		clientIP := c.ClientIP()

		owner := strings.TrimSpace(string(c.GetHeader("X-User-Id")))
		if owner == "" {
			owner = "-"
		}

		hlog.CtxInfof(ctx, "[%s] %s %s %d %v owner=%s",
			clientIP,
			method,
			path,
			statusCode,
			latency,
			owner,
		)
	}
}

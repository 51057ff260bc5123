package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/jeweai/media_vault/biz/handler"
	"github.com/jeweai/media_vault/biz/middleware"
)

// RegisterMediaRoutes configures HTTP routes for folders, assets and
// generation tasks. The worker callback stays outside RequireAuth because
// the worker carries no user identity.
func RegisterMediaRoutes(r *server.Hertz, folders *handler.FolderHandler, assets *handler.AssetHandler, tasks *handler.TaskHandler) {
	v1 := r.Group("/api/v1")

	v1.POST("/task/callback", tasks.Callback)

	authed := v1.Group("/", middleware.RequireAuth())

	folderGroup := authed.Group("/folder")
	folderGroup.POST("", folders.Create)
	folderGroup.GET("", folders.List)
	folderGroup.GET("/:id", folders.Get)
	folderGroup.PUT("/:id", folders.Update)
	folderGroup.DELETE("/:id", folders.Delete)

	assetGroup := authed.Group("/asset")
	assetGroup.GET("", assets.List)
	assetGroup.POST("/upload", assets.Upload)
	assetGroup.GET("/:id", assets.Get)
	assetGroup.PUT("/:id", assets.Update)
	assetGroup.POST("/:id/copy", assets.Copy)
	assetGroup.GET("/:id/download", assets.Download)
	assetGroup.DELETE("/:id", assets.Delete)

	taskGroup := authed.Group("/task")
	taskGroup.POST("", tasks.Create)
	taskGroup.GET("", tasks.List)
	taskGroup.GET("/:id", tasks.Get)
	taskGroup.POST("/:id/retry", tasks.Retry)

	r.GET("/ping", handler.Ping)
}

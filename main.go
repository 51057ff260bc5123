package main

import (
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"github.com/jeweai/media_vault/biz/dal/model"
	"github.com/jeweai/media_vault/biz/handler"
	"github.com/jeweai/media_vault/biz/middleware"
	"github.com/jeweai/media_vault/biz/router"
	"github.com/jeweai/media_vault/biz/service"
	"github.com/jeweai/media_vault/pkg/config"
	"github.com/jeweai/media_vault/pkg/database"
	"github.com/jeweai/media_vault/pkg/lock"
	"github.com/jeweai/media_vault/pkg/redis"
	"github.com/jeweai/media_vault/pkg/storage"
	"github.com/jeweai/media_vault/pkg/validator"
	"github.com/jeweai/media_vault/pkg/worker"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		hlog.Fatalf("load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		hlog.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Folder{}, &model.Asset{}, &model.Task{}); err != nil {
		hlog.Fatalf("migrate database: %v", err)
	}

	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		hlog.Fatalf("connect redis: %v", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		hlog.Fatalf("init object store: %v", err)
	}
	gateway, err := storage.NewGateway(store, storage.GatewayOptions{
		PrivateBucket: cfg.Storage.PrivateBucket,
		PublicBucket:  cfg.Storage.PublicBucket,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		PresignExpiry: cfg.Storage.PresignExpiry.Std(),
		Cache:         storage.NewURLCache(redisClient, cfg.Storage.URLCacheTTL.Std()),
	})
	if err != nil {
		hlog.Fatalf("init storage gateway: %v", err)
	}

	dispatcher := worker.NewClient(cfg.Worker.BaseURL, cfg.Worker.Timeout.Std())

	opts := service.Options{
		ImageCost: cfg.Credits.ImageCost,
		VideoCost: cfg.Credits.VideoCost,
		Upload:    validator.NewUploadConfig(cfg.Upload.MaxSize, cfg.Upload.AllowedTypes),
	}
	if redisClient != nil {
		opts.Locker = lock.New(redisClient, "media_vault:task_lock:", 30*time.Second, 5*time.Second)
	}
	svc := service.NewService(db, gateway, dispatcher, opts)

	h := server.Default(server.WithHostPorts(cfg.Server.Address))
	h.Use(middleware.Recovery())
	h.Use(middleware.Logging())
	h.Use(middleware.CORS(&cfg.CORS))
	h.Use(middleware.Auth())

	router.RegisterMediaRoutes(h,
		handler.NewFolderHandler(svc),
		handler.NewAssetHandler(svc),
		handler.NewTaskHandler(svc),
	)

	hlog.Infof("media_vault listening on %s (storage backend %s)", cfg.Server.Address, gateway.Backend())
	h.Spin()
}

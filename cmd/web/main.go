package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"folioweb/internal/backend"
	"folioweb/internal/cache"
	"folioweb/internal/config"
	"folioweb/internal/session"
	"folioweb/internal/web"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	logger.Info("web bootstrapped",
		slog.String("backend", cfg.Backend.BaseURL),
		slog.String("redis", cfg.Redis.Addr()),
	)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})

	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, logger)
	api := backend.NewAPI(client)
	store := session.NewStore(redisClient, api,
		cfg.Session.SigningKey, cfg.Session.TTL, cfg.Session.VerifyTTL, logger)

	// 任一后端调用返回 401 即销毁当前请求携带的会话记录，
	// 下一次请求自然回落到未登录状态。
	client.SetUnauthorizedHook(func(ctx context.Context) {
		if sid := session.SIDFromContext(ctx); sid != "" {
			store.Destroy(ctx, sid)
		}
	})

	snapshots := cache.NewSnapshotStore(redisClient, cfg.Cache.SnapshotTTL, logger)

	router := web.NewRouter(logger)
	web.RegisterRoutes(router, api, store, snapshots)

	address := fmt.Sprintf(":%d", cfg.Web.Port)
	logger.Info("web listening", slog.String("address", address))
	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start web server: %v", err)
	}
}

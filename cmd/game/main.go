// Package main runs the game core: content bootstrap, session restore, and
// the fixed-interval update loop, against the configured save-store backend.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/ravenstone/murpg/internal/config"
	"github.com/ravenstone/murpg/internal/game/content"
	"github.com/ravenstone/murpg/internal/game/session"
	"github.com/ravenstone/murpg/internal/observability"
	"github.com/ravenstone/murpg/internal/server"
	"github.com/ravenstone/murpg/internal/storage"
	"github.com/ravenstone/murpg/internal/storage/postgres"
	"github.com/ravenstone/murpg/internal/storage/redis"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	dataDir := flag.String("data", "", "content bootstrap directory; overrides config when set")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *dataDir != "" {
		cfg.Content.DataDir = *dataDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	store, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("opening save store", zap.Error(err))
	}
	defer store.Close()

	bootStart := time.Now()
	db := content.NewStore(logger, store)
	db.Bootstrap(cfg.Content.DataDir)
	logger.Info("content loaded",
		zap.Int("items", len(db.Items())),
		zap.Int("monsters", len(db.Monsters())),
		zap.Int("skills", len(db.Skills())),
		zap.Int("classes", len(db.Classes())),
		zap.Int("events", len(db.Events())),
		zap.Duration("elapsed", time.Since(bootStart)),
	)

	game := session.New(logger, cfg.Game, store, db)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("game-loop", server.NewTicker(cfg.Game.TickInterval, game.Update, logger))

	logger.Info("game starting",
		zap.String("backend", cfg.Storage.Backend),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("lifecycle error", zap.Error(err))
	}

	// Final snapshot so a clean shutdown never loses progress.
	if !game.SaveGame(true) {
		logger.Warn("final save failed")
	}
	logger.Info("game stopped",
		zap.Duration("uptime", time.Since(start)),
	)
}

// openStore builds the save store for the configured backend.
func openStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (storage.Store, error) {
	switch cfg.Backend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected", zap.String("host", cfg.Database.Host))
		return postgres.NewKV(pool), nil
	case "redis":
		kv, err := redis.NewKV(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		return kv, nil
	default:
		if err := storage.EnsureDir(cfg.Path); err != nil {
			return nil, err
		}
		return storage.NewFileStore(cfg.Path)
	}
}

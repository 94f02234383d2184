package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-enrollment-api/pkg/config"
	"github.com/noah-isme/academy-enrollment-api/pkg/docstore"
)

func newDocumentStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (docstore.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreRedis:
		client, err := docstore.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		logr.Info("document store ready", zap.String("driver", "redis"), zap.String("host", cfg.Redis.Host))
		return docstore.NewRedisStore(client), nil
	case config.StorePostgres:
		db, err := docstore.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		store := docstore.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure documents schema: %w", err)
		}
		logr.Info("document store ready", zap.String("driver", "postgres"), zap.String("database", cfg.Database.Name))
		return store, nil
	case config.StoreMemory, "":
		logr.Warn("using in-memory document store; enrollments are lost on restart")
		return docstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}
}

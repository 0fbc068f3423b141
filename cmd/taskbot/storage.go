package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kazz187/taskbot/internal/config"
	"github.com/kazz187/taskbot/pkg/storage"
)

// openStorage selects the document backend. The returned close func is never
// nil. local is set for filesystem storage, the only kind that can be watched.
func openStorage(ctx context.Context, env *config.StorageEnv) (store storage.Storage, local *storage.LocalStorage, closeFn func(), err error) {
	closeFn = func() {}
	switch env.Type {
	case "s3":
		store, err = storage.NewS3Storage(ctx, env.S3Bucket, env.S3Prefix, env.S3Region)
		if err != nil {
			return nil, nil, closeFn, fmt.Errorf("failed to create S3 storage: %w", err)
		}
	case "sqlite":
		db, err := storage.OpenSQLite(env.SQLitePath)
		if err != nil {
			return nil, nil, closeFn, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		store = db
		closeFn = func() {
			if err := db.Close(); err != nil {
				slog.Error("failed to close sqlite storage", "error", err)
			}
		}
	case "memory":
		slog.Warn("using in-memory storage, nothing will be persisted")
		store = storage.NewMemoryStorage()
	case "local", "":
		local, err = storage.NewLocalStorage(env.BaseDir)
		if err != nil {
			return nil, nil, closeFn, fmt.Errorf("failed to create local storage: %w", err)
		}
		store = local
	default:
		return nil, nil, closeFn, fmt.Errorf("unknown storage type %q", env.Type)
	}
	slog.Info("storage ready", "type", env.Type)
	return store, local, closeFn, nil
}

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/yungbote/travelplanner-backend/internal/clients/redis"
	"github.com/yungbote/travelplanner-backend/internal/data/filestore"
	"github.com/yungbote/travelplanner-backend/internal/data/sqlstore"
	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

type Stores struct {
	Backend        store.Backend
	LikeCountCache redis.LikeCountCache
}

func (s Stores) Close() error {
	var errs []error
	if s.LikeCountCache != nil {
		errs = append(errs, s.LikeCountCache.Close())
	}
	if s.Backend != nil {
		errs = append(errs, s.Backend.Close())
	}
	return errors.Join(errs...)
}

func wireStores(ctx context.Context, log *logger.Logger, cfg Config) (Stores, error) {
	log.Info("Wiring stores...", "backend", cfg.StoreBackend)
	var (
		backend store.Backend
		err     error
	)
	switch cfg.StoreBackend {
	case BackendSQL:
		backend, err = sqlstore.Open(sqlstore.Config{
			Driver:      cfg.DBDriver,
			DSN:         cfg.DBDSN,
			Log:         log,
			SQLLogLevel: cfg.DBLogLevel,
		})
	default:
		backend, err = filestore.Open(cfg.DataDir, filestore.Options{Log: log})
	}
	if err != nil {
		return Stores{}, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	out := Stores{Backend: backend}

	if cfg.SeedFile != "" {
		if err := seedAttractions(ctx, backend, cfg.SeedFile); err != nil {
			_ = out.Close()
			return Stores{}, err
		}
		log.Info("seeded attractions", "path", cfg.SeedFile)
	}

	if cfg.RedisAddr != "" {
		cache, err := redis.NewLikeCountCache(log, redis.LikeCountCacheConfig{
			Addr: cfg.RedisAddr,
			TTL:  cfg.LikeCountTTL,
		})
		if err != nil {
			// Counts still come from the store.
			log.Warn("like count cache disabled", "error", err)
		} else {
			out.LikeCountCache = cache
		}
	}
	return out, nil
}

// seedAttractions upserts a JSON array of attractions.
func seedAttractions(ctx context.Context, catalog store.Catalog, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var rows []*domain.Attraction
	if err := json.Unmarshal(raw, &rows); err != nil {
		return fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return catalog.UpsertAttractions(ctx, rows)
}

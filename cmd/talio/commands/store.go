package commands

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"talio/internal/config"
	"talio/internal/storage"
)

// openStore builds the configured backend, wrapped in the Redis cache when
// TALIO_CACHE_TTL is set.
func openStore(cfg config.Config, logger *log.Logger) (storage.Store, error) {
	var rc *redis.Client
	if cfg.RedisConn != "" {
		opts, err := cfg.RedisOptions()
		if err != nil {
			return nil, fmt.Errorf("redis options: %w", err)
		}
		rc = redis.NewClient(opts)
	}

	var store storage.Store
	switch cfg.Storage {
	case config.StorageMemory:
		store = storage.NewMemory()
	case config.StorageRedis:
		store = storage.NewRedis(rc, cfg.RecordPrefix)
	case config.StorageSQL:
		s, err := storage.OpenSQL(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			return nil, fmt.Errorf("open sql store: %w", err)
		}
		store = s
	case config.StorageTables:
		t, err := storage.NewTables(cfg.TablesConn, cfg.TableName)
		if err != nil {
			return nil, fmt.Errorf("open table store: %w", err)
		}
		store = t
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	if cfg.CacheTTL > 0 {
		logger.WithField("ttl", cfg.CacheTTL).Info("redis record cache enabled")
		store = storage.NewCache(store, rc, cfg.CacheTTL)
	}
	logger.WithField("storage", cfg.Storage).Info("store ready")
	return store, nil
}

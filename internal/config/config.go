package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
)

// Storage backends.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQL    = "sql"
	StorageTables = "tables"
)

// Config is the server configuration read from the environment.
type Config struct {
	ListenAddr string `env:"TALIO_LISTEN_ADDR" envDefault:":8080"`
	Debug      bool   `env:"DEBUG"`

	Storage          string        `env:"TALIO_STORAGE" envDefault:"memory"`
	RedisConn        string        `env:"REDIS_CONNECTION_STRING"`
	SQLDriver        string        `env:"TALIO_SQL_DRIVER" envDefault:"sqlite"`
	SQLDSN           string        `env:"TALIO_SQL_DSN" envDefault:"file:talio.db?_pragma=busy_timeout(5000)"`
	TablesConn       string        `env:"STORAGE_CONNECTION_STRING"`
	TableName        string        `env:"TALIO_TABLE" envDefault:"talio"`
	RecordPrefix     string        `env:"TALIO_RECORD_PREFIX" envDefault:"talio"`
	CacheTTL         time.Duration `env:"TALIO_CACHE_TTL" envDefault:"0s"`
	JournalQueue     string        `env:"TALIO_JOURNAL_QUEUE"`
	LongPollTimeout  time.Duration `env:"TALIO_LONG_POLL_TIMEOUT" envDefault:"10s"`
	IsolateFailures  bool          `env:"TALIO_ISOLATE_SUBSCRIBER_FAILURES"`
	CORSOrigins      []string      `env:"TALIO_CORS_ORIGINS" envDefault:"*" envSeparator:","`
	OTelEndpoint     string        `env:"TALIO_OTEL_ENDPOINT"`
	ShutdownDeadline time.Duration `env:"TALIO_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the settings of the chosen backend are present.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StorageRedis:
		if c.RedisConn == "" {
			return errors.New("REDIS_CONNECTION_STRING is required for redis storage")
		}
	case StorageSQL:
		if c.SQLDriver != "sqlite" && c.SQLDriver != "postgres" {
			return fmt.Errorf("unsupported TALIO_SQL_DRIVER %q", c.SQLDriver)
		}
		if c.SQLDSN == "" {
			return errors.New("TALIO_SQL_DSN is required for sql storage")
		}
	case StorageTables:
		if c.TablesConn == "" || c.TableName == "" {
			return errors.New("STORAGE_CONNECTION_STRING and TALIO_TABLE are required for tables storage")
		}
	default:
		return fmt.Errorf("unknown TALIO_STORAGE %q", c.Storage)
	}
	if c.CacheTTL < 0 {
		return errors.New("TALIO_CACHE_TTL must not be negative")
	}
	if c.CacheTTL > 0 && c.RedisConn == "" {
		return errors.New("REDIS_CONNECTION_STRING is required when TALIO_CACHE_TTL is set")
	}
	if c.JournalQueue != "" && c.TablesConn == "" {
		return errors.New("STORAGE_CONNECTION_STRING is required for the journal queue")
	}
	if c.LongPollTimeout <= 0 {
		return errors.New("TALIO_LONG_POLL_TIMEOUT must be greater than zero")
	}
	return nil
}

// RedisOptions accepts a redis URL or the "host:port,password=...,ssl=true"
// form used by Azure connection strings.
func (c Config) RedisOptions() (*redis.Options, error) {
	if c.RedisConn == "" {
		return nil, errors.New("missing redis config")
	}
	if opts, err := redis.ParseURL(c.RedisConn); err == nil {
		return opts, nil
	}
	parts := strings.Split(c.RedisConn, ",")
	opts := &redis.Options{Addr: parts[0]}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(kv[0]) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts, nil
}

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/secrets"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	DefaultTTL     = 24 * time.Hour
	DefaultMaxJobs = 100
)

// Config selects and configures the result store backend.
type Config struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	MaxJobs int           `mapstructure:"max-jobs"`
	SQLite  *SQLiteConfig `mapstructure:"sqlite"`
	Redis   *RedisConfig  `mapstructure:"redis"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// Persistent reports whether the backend outlives the process.
func (c *Config) Persistent() bool {
	if c == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case "", BackendMemory:
		return false
	default:
		return true
	}
}

// DefaultSQLitePath is results.db under the user cache directory, or the
// working directory when there is none.
func DefaultSQLitePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "resume-matcher.db"
	}
	return filepath.Join(dir, "resume-matcher", "results.db")
}

// Open builds the configured store. An empty backend means memory.
func Open(ctx context.Context, cfg *Config, log *zap.Logger) (Store, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	log = log.With(zap.String("store_backend", backend), zap.Duration("store_ttl", ttl))

	switch backend {
	case "", BackendMemory:
		maxJobs := cfg.MaxJobs
		if maxJobs == 0 {
			maxJobs = DefaultMaxJobs
		}
		return NewMemory(ttl, maxJobs, nil), nil

	case BackendSQLite:
		if cfg.SQLite == nil || strings.TrimSpace(cfg.SQLite.Path) == "" {
			return nil, fmt.Errorf("store.sqlite.path is required for the sqlite backend")
		}
		s, err := OpenSQLite(ctx, cfg.SQLite.Path, ttl, nil)
		if err != nil {
			return nil, err
		}
		if n, err := s.Purge(ctx); err != nil {
			log.Warn("purging expired results", zap.Error(err))
		} else if n > 0 {
			log.Debug("purged expired results", zap.Int("count", n))
		}
		return s, nil

	case BackendRedis:
		rc := cfg.Redis
		if rc == nil {
			rc = &RedisConfig{}
		}
		password, err := secrets.Optional(secrets.Source{
			Name: "redis password",
			File: rc.PasswordFile,
			Env:  "RESUME_MATCHER_REDIS_PASSWORD",
		})
		if err != nil {
			return nil, err
		}
		return NewRedis(ctx, rc.Addr, password, rc.DB, ttl, log), nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}

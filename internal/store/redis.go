package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisKeyPrefix   = "match:"
	redisPingTimeout = 2 * time.Second
	redisScanCount   = 100
)

// RedisConfig configures the redis store connection.
type RedisConfig struct {
	Addr         string `mapstructure:"addr"`
	PasswordFile string `mapstructure:"password-file"`
	DB           int    `mapstructure:"db"`
}

// Redis stores each entry as JSON under match:<job>:<candidate> with the
// store TTL. When the server is unreachable at startup every operation is
// bypassed: writes succeed without effect and reads find nothing.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	warnedUnavailable atomic.Bool
}

// NewRedis connects to addr. A failed ping yields a bypassing store, not an error.
func NewRedis(ctx context.Context, addr, password string, db int, ttl time.Duration, log *zap.Logger) *Redis {
	if log == nil {
		log = zap.NewNop()
	}
	if strings.TrimSpace(addr) == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, bypassing result store", zap.String("addr", addr), zap.Error(err))
		_ = client.Close()
		return &Redis{ttl: ttl, logger: log}
	}

	return &Redis{client: client, ttl: ttl, logger: log}
}

// Available reports whether the store talks to a live server.
func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn("redis request failed", zap.Error(err))
	}
}

func (r *Redis) Put(ctx context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	if !r.Available() {
		return nil
	}
	if e.StoredAt.IsZero() {
		e.StoredAt = time.Now()
	}

	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding entry: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(e.JobID, e.CandidateID), b, r.ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return fmt.Errorf("storing result: %w", err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, jobID, candidateID string) (Entry, error) {
	if !r.Available() {
		return Entry{}, ErrNotFound
	}

	b, err := r.client.Get(ctx, redisKey(jobID, candidateID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		r.warnUnavailableOnce(err)
		return Entry{}, fmt.Errorf("reading result: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return Entry{}, fmt.Errorf("decoding result: %w", err)
	}
	return e, nil
}

func (r *Redis) List(ctx context.Context, jobID string) ([]Entry, error) {
	entries := []Entry{}
	if !r.Available() {
		return entries, nil
	}

	keys, err := r.scan(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return entries, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return nil, fmt.Errorf("reading results: %w", err)
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// expired between SCAN and MGET
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("decoding result: %w", err)
		}
		entries = append(entries, e)
	}
	sortEntries(entries)
	return entries, nil
}

func (r *Redis) DeleteJob(ctx context.Context, jobID string) (int, error) {
	if !r.Available() {
		return 0, nil
	}

	keys, err := r.scan(ctx, jobID)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	n, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return 0, fmt.Errorf("deleting results: %w", err)
	}
	return int(n), nil
}

func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) scan(ctx context.Context, jobID string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, redisJobPattern(jobID), redisScanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.warnUnavailableOnce(err)
		return nil, fmt.Errorf("scanning results: %w", err)
	}
	return keys, nil
}

func redisKey(jobID, candidateID string) string {
	return redisKeyPrefix + jobID + ":" + candidateID
}

func redisJobPattern(jobID string) string {
	return redisKeyPrefix + escapeGlob(jobID) + ":*"
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

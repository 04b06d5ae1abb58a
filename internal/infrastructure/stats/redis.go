package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/config"
)

// Hash fields.
const (
	FieldGranted = "granted"
	FieldDenied  = "denied"
)

const (
	defaultPrefix = "parking:access"
	defaultTTL    = 24 * time.Hour
	pingTimeout   = 3 * time.Second

	minuteLayout = "200601021504"
)

// ErrDisabled is returned by Connect when redis.enabled is false.
var ErrDisabled = errors.New("stats: redis disabled in configuration")

// Totals holds the cumulative decision counters.
type Totals struct {
	Granted int64
	Denied  int64
}

// RedisStore records access decisions as Redis hash counters.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	// ttl applies to per-minute buckets only; the total never expires.
	ttl time.Duration
}

// Option configures a RedisStore.
type Option func(*RedisStore)

// WithPrefix sets the key prefix. Surrounding colons are trimmed.
func WithPrefix(prefix string) Option {
	return func(s *RedisStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

// WithTTL sets the retention of per-minute buckets. Zero keeps them forever.
func WithTTL(d time.Duration) Option {
	return func(s *RedisStore) { s.ttl = d }
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client, opts ...Option) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: defaultPrefix,
		ttl:    defaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect builds a client from cfg and pings it.
func Connect(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("stats: connecting to redis at %s: %w", cfg.Addr, err)
	}

	return NewRedisStore(rdb,
		WithPrefix(cfg.Prefix),
		WithTTL(time.Duration(cfg.TTLHours)*time.Hour),
	), nil
}

// RecordDecision increments the total and the bucket of the minute at.
// A zero at means now.
func (s *RedisStore) RecordDecision(ctx context.Context, granted bool, at time.Time) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	if at.IsZero() {
		at = time.Now()
	}

	field := FieldDenied
	if granted {
		field = FieldGranted
	}

	bucket := s.minuteKey(at)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.totalKey(), field, 1)
	pipe.HIncrBy(ctx, bucket, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, bucket, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("stats: recording decision: %w", err)
	}
	return nil
}

// Totals returns the cumulative counters. Missing fields read as zero.
func (s *RedisStore) Totals(ctx context.Context) (Totals, error) {
	if s == nil || s.rdb == nil {
		return Totals{}, nil
	}

	values, err := s.rdb.HGetAll(ctx, s.totalKey()).Result()
	if err != nil {
		return Totals{}, fmt.Errorf("stats: reading totals: %w", err)
	}

	return parseTotals(values)
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *RedisStore) totalKey() string {
	return s.prefix + ":total"
}

func (s *RedisStore) minuteKey(at time.Time) string {
	return fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format(minuteLayout))
}

func parseTotals(values map[string]string) (Totals, error) {
	var t Totals
	for field, target := range map[string]*int64{
		FieldGranted: &t.Granted,
		FieldDenied:  &t.Denied,
	} {
		raw, ok := values[field]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Totals{}, fmt.Errorf("stats: field %s: %w", field, err)
		}
		*target = n
	}
	return t, nil
}

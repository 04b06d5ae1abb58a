package stats

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/config"
)

func TestNewRedisStore_Options(t *testing.T) {
	s := NewRedisStore(nil)
	assert.Equal(t, defaultPrefix, s.prefix)
	assert.Equal(t, defaultTTL, s.ttl)

	s = NewRedisStore(nil, WithPrefix(":lot7:access:"), WithTTL(time.Hour))
	assert.Equal(t, "lot7:access", s.prefix)
	assert.Equal(t, time.Hour, s.ttl)

	s = NewRedisStore(nil, WithPrefix("::"))
	assert.Equal(t, defaultPrefix, s.prefix, "empty prefix keeps the default")
}

func TestKeys(t *testing.T) {
	s := NewRedisStore(nil, WithPrefix("parking:access"))
	at := time.Date(2026, 3, 1, 14, 7, 59, 0, time.FixedZone("IST", 2*60*60))

	assert.Equal(t, "parking:access:total", s.totalKey())
	assert.Equal(t, "parking:access:minute:202603011207", s.minuteKey(at), "bucket uses UTC minutes")
}

func TestParseTotals(t *testing.T) {
	got, err := parseTotals(map[string]string{FieldGranted: "7", FieldDenied: "2", "other": "x"})
	require.NoError(t, err)
	assert.Equal(t, Totals{Granted: 7, Denied: 2}, got)

	got, err = parseTotals(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, Totals{}, got)

	_, err = parseTotals(map[string]string{FieldDenied: "nope"})
	assert.Error(t, err)
}

func TestNilStore_IsNoop(t *testing.T) {
	var s *RedisStore
	ctx := context.Background()

	assert.NoError(t, s.RecordDecision(ctx, true, time.Time{}))
	totals, err := s.Totals(ctx)
	assert.NoError(t, err)
	assert.Equal(t, Totals{}, totals)
	assert.NoError(t, s.Close())
}

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(context.Background(), config.RedisConfig{Enabled: false})
	assert.True(t, errors.Is(err, ErrDisabled))
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), config.RedisConfig{
		Enabled: true,
		Addr:    "127.0.0.1:1",
	})
	assert.Error(t, err)
}

// testRedis returns a client on a local Redis, skipping when none is running.
func testRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("PARKING_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		t.Skip("Redis not available, skipping integration test")
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestRecordDecision_Redis(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()

	prefix := "parking-test:" + time.Now().Format("150405.000000000")
	s := NewRedisStore(rdb, WithPrefix(prefix), WithTTL(time.Minute))
	t.Cleanup(func() {
		keys, _ := rdb.Keys(context.Background(), prefix+":*").Result()
		if len(keys) > 0 {
			rdb.Del(context.Background(), keys...)
		}
	})

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordDecision(ctx, true, at))
	require.NoError(t, s.RecordDecision(ctx, true, at))
	require.NoError(t, s.RecordDecision(ctx, false, at))

	totals, err := s.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, Totals{Granted: 2, Denied: 1}, totals)

	bucket, err := rdb.HGetAll(ctx, s.minuteKey(at)).Result()
	require.NoError(t, err)
	assert.Equal(t, "2", bucket[FieldGranted])
	assert.Equal(t, "1", bucket[FieldDenied])

	ttl, err := rdb.TTL(ctx, s.minuteKey(at)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	totalTTL, err := rdb.TTL(ctx, s.totalKey()).Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), totalTTL, "total key never expires")
}

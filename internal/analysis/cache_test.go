package analysis

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey_Format(t *testing.T) {
	key, err := CacheKey(KindImpact, testResume(), testJob())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^tailor:analysis:impact:resume_001:job_001:[0-9a-f]{16}$`), key)
}

func TestCacheKey_ChangesWithContent(t *testing.T) {
	base, err := CacheKey(KindContext, testResume(), testJob())
	require.NoError(t, err)

	same, err := CacheKey(KindContext, testResume(), testJob())
	require.NoError(t, err)
	assert.Equal(t, base, same)

	edited := testResume()
	edited.Experiences[0].Bullets[1].Text = "Cut latency by 45%"
	changed, err := CacheKey(KindContext, edited, testJob())
	require.NoError(t, err)
	assert.NotEqual(t, base, changed)

	otherKind, err := CacheKey(KindUniqueness, testResume(), testJob())
	require.NoError(t, err)
	assert.NotEqual(t, base, otherKind)
}

func TestNewRedisCache_DefaultTTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer func() { _ = client.Close() }()

	assert.Equal(t, DefaultCacheTTL, NewRedisCache(client, 0).ttl)
	assert.Equal(t, time.Minute, NewRedisCache(client, time.Minute).ttl)
}

func TestRedisCache_UnreachableServerErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	cache := NewRedisCache(client, time.Minute)
	defer func() { _ = cache.Close() }()

	var dst map[string]any
	hit, err := cache.Get(context.Background(), "tailor:analysis:impact:r:j:0", &dst)
	require.Error(t, err)
	assert.False(t, hit)

	require.Error(t, cache.Set(context.Background(), "tailor:analysis:impact:r:j:0", map[string]int{"a": 1}))
}

func TestConnectRedis_Unreachable(t *testing.T) {
	_, err := ConnectRedis(context.Background(), RedisOptions{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	var aerr *Error
	assert.ErrorAs(t, err, &aerr)
}

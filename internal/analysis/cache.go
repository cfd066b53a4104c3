package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/redis/go-redis/v9"
)

// Kind names a sub-analysis
type Kind string

// Sub-analysis kinds
const (
	KindImpact     Kind = "impact"
	KindUniqueness Kind = "uniqueness"
	KindContext    Kind = "context"
	KindCompany    Kind = "company"
	KindSoftSkills Kind = "soft_skills"
)

const (
	keyPrefix = "tailor:analysis"
	// DefaultCacheTTL is how long a cached sub-analysis stays valid
	DefaultCacheTTL = 24 * time.Hour
)

// Cache stores sub-analysis results keyed by CacheKey.
// Get reports false when the key is absent.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// CacheKey derives the cache key of one sub-analysis. The trailing hash covers the
// résumé and job content so edits to either invalidate the entry.
func CacheKey(kind Kind, resume *types.ResumeContent, job *types.JobData) (string, error) {
	payload, err := json.Marshal(struct {
		Resume *types.ResumeContent `json:"resume"`
		Job    *types.JobData       `json:"job"`
	}{resume, job})
	if err != nil {
		return "", &Error{Message: "failed to hash analysis inputs", Cause: err}
	}
	sum := sha256.Sum256(payload)

	var resumeID, jobID string
	if resume != nil {
		resumeID = resume.ID
	}
	if job != nil {
		jobID = job.ID
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", keyPrefix, kind, resumeID, jobID, hex.EncodeToString(sum[:])[:16]), nil
}

// RedisOptions configures the Redis connection backing RedisCache
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache is a Cache backed by Redis, storing values as JSON strings
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing client. A non-positive ttl uses DefaultCacheTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// ConnectRedis opens a client and checks it with a ping
func ConnectRedis(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, &Error{Message: fmt.Sprintf("failed to connect to Redis at %s", opts.Addr), Cause: err}
	}
	return NewRedisCache(client, opts.TTL), nil
}

// Get loads and decodes a cached value into dst
func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set encodes and stores a value with the cache TTL
func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}

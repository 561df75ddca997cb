package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fraatlas/entities"
	"fraatlas/pkg/logger"
	"fraatlas/pkg/metrics"
)

// Cache stores the latest analysis per claim id. It is an optimisation
// only: a miss or an error always falls through to regeneration.
type Cache interface {
	Get(ctx context.Context, claimID string) (*entities.AnalysisRecord, bool)
	Set(ctx context.Context, claimID string, rec *entities.AnalysisRecord)
	Delete(ctx context.Context, claimIDs ...string)
}

func cacheKey(claimID string) string {
	return fmt.Sprintf("analysis:%s:%s", GeneratorVersion, claimID)
}

type memoryCache struct{ c *gocache.Cache }

// NewMemoryCache keeps entries in process for ttl.
func NewMemoryCache(ttl time.Duration) Cache {
	return &memoryCache{c: gocache.New(ttl, 2*ttl)}
}

func (m *memoryCache) Get(_ context.Context, claimID string) (*entities.AnalysisRecord, bool) {
	v, ok := m.c.Get(cacheKey(claimID))
	if !ok {
		return nil, false
	}
	rec, ok := v.(*entities.AnalysisRecord)
	return rec, ok
}

func (m *memoryCache) Set(_ context.Context, claimID string, rec *entities.AnalysisRecord) {
	m.c.SetDefault(cacheKey(claimID), rec)
}

func (m *memoryCache) Delete(_ context.Context, claimIDs ...string) {
	for _, id := range claimIDs {
		m.c.Delete(cacheKey(id))
	}
}

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache stores JSON-encoded records in Redis.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) Cache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (r *redisCache) Get(ctx context.Context, claimID string) (*entities.AnalysisRecord, bool) {
	b, err := r.rdb.Get(ctx, cacheKey(claimID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContext(ctx).Warn("analysis cache get failed", zap.String("claim_id", claimID), zap.Error(err))
		}
		return nil, false
	}
	var rec entities.AnalysisRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, false
	}
	return &rec, true
}

func (r *redisCache) Set(ctx context.Context, claimID string, rec *entities.AnalysisRecord) {
	b, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, cacheKey(claimID), b, r.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn("analysis cache set failed", zap.String("claim_id", claimID), zap.Error(err))
	}
}

func (r *redisCache) Delete(ctx context.Context, claimIDs ...string) {
	if len(claimIDs) == 0 {
		return
	}
	keys := make([]string, len(claimIDs))
	for i, id := range claimIDs {
		keys[i] = cacheKey(id)
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.FromContext(ctx).Warn("analysis cache delete failed", zap.Int("keys", len(keys)), zap.Error(err))
	}
}

// OpenCache builds the cache named by backend: "redis", "memory", or
// "none"/"" for no cache. The redis client is returned so callers can
// close it and health-check it; it is nil for other backends.
func OpenCache(backend, redisURL string, ttl time.Duration) (Cache, *redis.Client, error) {
	switch backend {
	case "redis":
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis url: %w", err)
		}
		rdb := redis.NewClient(opt)
		return NewRedisCache(rdb, ttl), rdb, nil
	case "memory":
		return NewMemoryCache(ttl), nil, nil
	case "", "none":
		return nil, nil, nil
	}
	return nil, nil, fmt.Errorf("unsupported cache backend %q", backend)
}

type cachedClient struct {
	next  Client
	cache Cache
}

// NewCached serves hits from cache and stores whatever next produces.
func NewCached(next Client, cache Cache) Client {
	return &cachedClient{next: next, cache: cache}
}

func (c *cachedClient) Analyze(ctx context.Context, claim *entities.Claim) (*entities.AnalysisRecord, error) {
	if rec, ok := c.cache.Get(ctx, claim.ID); ok {
		metrics.AnalysisCache.WithLabelValues("hit").Inc()
		return rec, nil
	}
	metrics.AnalysisCache.WithLabelValues("miss").Inc()
	rec, err := c.next.Analyze(ctx, claim)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, claim.ID, rec)
	return rec, nil
}

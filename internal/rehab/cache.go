package rehab

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte = 1024 * 1024

	minGenerationTTL = time.Hour
)

// SnapshotCache keeps recently read plan views in memory, so the read endpoints
// do not hit the database on every call.
//
// Every plan has a generation counter in redis, bumped on each write to the plan by any
// instance (service or recompute job). A view is cached together with the generation read
// before it was loaded, and is served only while that generation is still the current one.
type SnapshotCache struct {
	cache         *freecache.Cache
	redisClient   *redis.Client
	expireSeconds int
	generationTTL time.Duration
}

type cachedView struct {
	Generation uint64    `json:"generation"`
	View       *PlanView `json:"view"`
}

func NewSnapshotCache(redisClient *redis.Client, sizeMB int, ttl time.Duration) *SnapshotCache {
	expireSeconds := int(ttl.Seconds())
	if expireSeconds <= 0 {
		expireSeconds = 1
	}

	// must outlive any cached view, an expired counter starts over from zero
	generationTTL := 10 * ttl
	if generationTTL < minGenerationTTL {
		generationTTL = minGenerationTTL
	}

	return &SnapshotCache{
		cache:         freecache.NewCache(sizeMB * megabyte),
		redisClient:   redisClient,
		expireSeconds: expireSeconds,
		generationTTL: generationTTL,
	}
}

func viewCacheKey(planID string) []byte {
	return []byte("plan-view::" + planID)
}

func generationKey(planID string) string {
	return "rehab::plan-gen::" + planID
}

// Generation returns the current write generation of the plan.
// ok is false when it cannot be read, the cache must not be used then.
func (c *SnapshotCache) Generation(ctx context.Context, planID string) (_ uint64, ok bool) {
	gen, err := c.redisClient.Get(ctx, generationKey(planID)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		log.Warnf("get generation of plan [%s]: %s", planID, err)
		return 0, false
	}
	return gen, true
}

func (c *SnapshotCache) Get(planID string, generation uint64) (*PlanView, bool) {
	entryBytes, err := c.cache.Get(viewCacheKey(planID))
	if err != nil {
		return nil, false
	}

	entry := &cachedView{}
	if err := json.Unmarshal(entryBytes, entry); err != nil || entry.View == nil {
		log.Errorf("unmarshal cached view of plan [%s]: %v", planID, err)
		c.cache.Del(viewCacheKey(planID))
		return nil, false
	}

	if entry.Generation != generation {
		c.cache.Del(viewCacheKey(planID))
		return nil, false
	}

	return entry.View, true
}

// Set caches the view, generation is the one read before the view was loaded.
func (c *SnapshotCache) Set(view *PlanView, generation uint64) {
	entryBytes, err := json.Marshal(cachedView{
		Generation: generation,
		View:       view,
	})
	if err != nil {
		log.Errorf("marshal view of plan [%s]: %s", view.Plan.ID, err)
		return
	}
	if err := c.cache.Set(viewCacheKey(view.Plan.ID), entryBytes, c.expireSeconds); err != nil {
		log.Errorf("cache view of plan [%s]: %s", view.Plan.ID, err)
	}
}

// Invalidate drops the local view and bumps the plan generation, which
// makes views cached before the write stale on every instance.
func (c *SnapshotCache) Invalidate(ctx context.Context, planID string) {
	c.cache.Del(viewCacheKey(planID))

	key := generationKey(planID)
	if err := c.redisClient.Incr(ctx, key).Err(); err != nil {
		log.Errorf("bump generation of plan [%s]: %s", planID, err)
		return
	}
	if err := c.redisClient.Expire(ctx, key, c.generationTTL).Err(); err != nil {
		log.Errorf("set generation ttl of plan [%s]: %s", planID, err)
	}
}

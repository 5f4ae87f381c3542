package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"fulfillment-cutoff-service/internal/adapters/repositories"
	"fulfillment-cutoff-service/internal/domain"
	"fulfillment-cutoff-service/internal/platform/obs"
	"fulfillment-cutoff-service/internal/ports"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	ruleSetKeyPrefix   = "cutoff:rules:"
	defaultLoadTimeout = 5 * time.Second
)

// RedisRuleSetCache is a read-through cache in front of a CutoffRuleStore.
//
// Reads check Redis first and fall back to the wrapped store; concurrent
// misses for the same location share one store read. The shared read runs
// detached from any single caller, so one caller giving up does not fail the
// others. Writes go to the store and then evict the cached entries; a read
// that overlaps a write for the same location is never cached. Redis
// failures are logged and never fail a read.
type RedisRuleSetCache struct {
	Store       ports.CutoffRuleStore
	Client      *redis.Client
	TTL         time.Duration
	LoadTimeout time.Duration

	group singleflight.Group

	// mu orders cache fills against evictions; gen counts writes per location.
	mu  sync.Mutex
	gen map[string]uint64
}

func NewRedisRuleSetCache(store ports.CutoffRuleStore, client *redis.Client, ttl time.Duration) *RedisRuleSetCache {
	return &RedisRuleSetCache{
		Store:       store,
		Client:      client,
		TTL:         ttl,
		LoadTimeout: defaultLoadTimeout,
		gen:         make(map[string]uint64),
	}
}

func ruleSetKey(locationID string) string {
	return ruleSetKeyPrefix + locationID
}

func (c *RedisRuleSetCache) GetRuleSet(ctx context.Context, locationID string) (_ *domain.LocationCutoffRuleSet, err error) {
	defer obs.Time(ctx, "rules.cache.GetRuleSet")(&err)

	if rs, ok := c.lookup(ctx, locationID); ok {
		return rs, nil
	}

	gen := c.generation(locationID)
	ch := c.group.DoChan(locationID, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), locationID, gen)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Each caller gets its own copy of the shared result.
		return res.Val.(*domain.LocationCutoffRuleSet).Clone(), nil
	}
}

// load reads through to the store and caches the result unless a write for
// the location landed since gen was observed.
func (c *RedisRuleSetCache) load(ctx context.Context, locationID string, gen uint64) (*domain.LocationCutoffRuleSet, error) {
	ctx, cancel := context.WithTimeout(ctx, c.loadTimeout())
	defer cancel()

	rs, err := c.Store.GetRuleSet(ctx, locationID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen[locationID] == gen {
		c.store(ctx, rs)
	}
	return rs, nil
}

func (c *RedisRuleSetCache) ListRuleSets(ctx context.Context) ([]*domain.LocationCutoffRuleSet, error) {
	return c.Store.ListRuleSets(ctx)
}

func (c *RedisRuleSetCache) PutRuleSet(ctx context.Context, rs *domain.LocationCutoffRuleSet) error {
	return c.PutAll(ctx, []*domain.LocationCutoffRuleSet{rs})
}

func (c *RedisRuleSetCache) PutAll(ctx context.Context, sets []*domain.LocationCutoffRuleSet) error {
	if err := c.Store.PutAll(ctx, sets); err != nil {
		return err
	}

	if len(sets) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == nil {
		c.gen = make(map[string]uint64)
	}

	keys := make([]string, 0, len(sets))
	for _, rs := range sets {
		c.gen[rs.LocationID]++
		// Later readers start a fresh load instead of joining one that began
		// before this write.
		c.group.Forget(rs.LocationID)
		keys = append(keys, ruleSetKey(rs.LocationID))
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		// The TTL bounds how long a stale entry can survive.
		log.Printf("req_id=%s op=rules.cache.evict keys=%d err=%v", obs.RequestID(ctx), len(keys), err)
	}

	return nil
}

func (c *RedisRuleSetCache) generation(locationID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[locationID]
}

func (c *RedisRuleSetCache) loadTimeout() time.Duration {
	if c.LoadTimeout > 0 {
		return c.LoadTimeout
	}
	return defaultLoadTimeout
}

func (c *RedisRuleSetCache) lookup(ctx context.Context, locationID string) (*domain.LocationCutoffRuleSet, bool) {
	raw, err := c.Client.Get(ctx, ruleSetKey(locationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("req_id=%s op=rules.cache.get location_id=%s err=%v", obs.RequestID(ctx), locationID, err)
		return nil, false
	}

	var doc repositories.RuleSetDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Printf("req_id=%s op=rules.cache.decode location_id=%s err=%v", obs.RequestID(ctx), locationID, err)
		return nil, false
	}
	rs, err := repositories.RuleSetFromDoc(doc)
	if err != nil {
		log.Printf("req_id=%s op=rules.cache.decode location_id=%s err=%v", obs.RequestID(ctx), locationID, err)
		return nil, false
	}

	return rs, true
}

func (c *RedisRuleSetCache) store(ctx context.Context, rs *domain.LocationCutoffRuleSet) {
	raw, err := json.Marshal(repositories.RuleSetToDoc(rs))
	if err != nil {
		log.Printf("req_id=%s op=rules.cache.encode location_id=%s err=%v", obs.RequestID(ctx), rs.LocationID, err)
		return
	}
	if err := c.Client.Set(ctx, ruleSetKey(rs.LocationID), raw, c.TTL).Err(); err != nil {
		log.Printf("req_id=%s op=rules.cache.set location_id=%s err=%v", obs.RequestID(ctx), rs.LocationID, err)
	}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return client, nil
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultKeyPrefix namespaces every key the redis backend writes.
const defaultKeyPrefix = "showsearch:pages:"

// operationTimeout bounds a single round trip when the caller's context has no deadline.
const operationTimeout = 2 * time.Second

func init() {
	Register("redis", newRedisCache)
}

// redisCache stores each page under its own key with a sliding PX expiry and
// tracks recency in one sorted set:
//
//   - {prefix}page:{key}  the serialized page, expiring after ttl without a touch
//   - {prefix}lru         member = key, score = last access in µs
//
// Sorted set members older than ttl belong to pages Redis already expired;
// they are pruned whenever a page is written or counted.
// The scripts derive page keys from the prefix, so all keys must live on one node.
type redisCache struct {
	client  *redis.Client
	ttl     time.Duration
	maxSize int
	onEvict EvictCallback
	logger  Logger
	prefix  string
	lruKey  string
}

// touchPage reads a page and, on hit, restarts its expiry and recency.
//
// KEYS[1] = page key, KEYS[2] = lru set
// ARGV[1] = now µs, ARGV[2] = member, ARGV[3] = ttl ms
var touchPage = redis.NewScript(`
local val = redis.call('GET', KEYS[1])
if val then
    redis.call('PEXPIRE', KEYS[1], ARGV[3])
    redis.call('ZADD', KEYS[2], ARGV[1], ARGV[2])
end
return val
`)

// storePage writes a page, prunes members whose page has expired and evicts
// the least recently used pages above maxSize.
//
// KEYS[1] = page key, KEYS[2] = lru set
// ARGV[1] = value, ARGV[2] = now µs, ARGV[3] = member, ARGV[4] = maxSize,
// ARGV[5] = ttl ms, ARGV[6] = page key prefix
//
// Returns the evicted members.
var storePage = redis.NewScript(`
local now     = tonumber(ARGV[2])
local maxSize = tonumber(ARGV[4])
local ttlMs   = tonumber(ARGV[5])

redis.call('SET', KEYS[1], ARGV[1], 'PX', ttlMs)
redis.call('ZREMRANGEBYSCORE', KEYS[2], '-inf', '(' .. (now - ttlMs * 1000))
redis.call('ZADD', KEYS[2], now, ARGV[3])

local evicted = {}
local size = redis.call('ZCARD', KEYS[2])
while size > maxSize do
    local oldest = redis.call('ZPOPMIN', KEYS[2], 1)
    if #oldest == 0 then break end
    redis.call('DEL', ARGV[6] .. oldest[1])
    table.insert(evicted, oldest[1])
    size = size - 1
end
return evicted
`)

// countPages prunes expired members and returns the live count.
//
// KEYS[1] = lru set, ARGV[1] = now µs, ARGV[2] = ttl ms
var countPages = redis.NewScript(`
local cutoff = tonumber(ARGV[1]) - tonumber(ARGV[2]) * 1000
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', '(' .. cutoff)
return redis.call('ZCARD', KEYS[1])
`)

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if cfg.TTL <= 0 {
		_ = client.Close()
		return nil, fmt.Errorf("redis cache requires a positive ttl, got %s", cfg.TTL)
	}

	return &redisCache{
		client:  client,
		ttl:     cfg.TTL,
		maxSize: cfg.Size,
		onEvict: cfg.OnEvict,
		logger:  cfg.Logger,
		prefix:  cfg.KeyPrefix + "page:",
		lruKey:  cfg.KeyPrefix + "lru",
	}, nil
}

func (r *redisCache) pageKey(key string) string {
	return r.prefix + key
}

func (r *redisCache) logError(msg string, err error) {
	if r.logger != nil {
		r.logger.Error(msg, err)
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, operationTimeout)
}

func now() string {
	return strconv.FormatInt(time.Now().UnixMicro(), 10)
}

func (r *redisCache) ttlMillis() string {
	return strconv.FormatInt(r.ttl.Milliseconds(), 10)
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := touchPage.Run(ctx, r.client,
		[]string{r.pageKey(key), r.lruKey},
		now(), key, r.ttlMillis(),
	).Text()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logError("redis page Get failed", err)
		}
		return nil, false
	}
	return []byte(result), true
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	evicted, err := storePage.Run(ctx, r.client,
		[]string{r.pageKey(key), r.lruKey},
		value, now(), key, strconv.Itoa(r.maxSize), r.ttlMillis(), r.prefix,
	).StringSlice()
	if err != nil {
		r.logError("redis page Set failed", err)
		return
	}

	if r.onEvict == nil {
		return
	}
	for _, evictedKey := range evicted {
		r.onEvict(evictedKey, nil)
	}
}

func (r *redisCache) Delete(ctx context.Context, key string) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.pageKey(key))
		pipe.ZRem(ctx, r.lruKey, key)
		return nil
	})
	if err != nil {
		r.logError("redis page Delete failed", err)
	}
}

func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	n, err := countPages.Run(ctx, r.client, []string{r.lruKey}, now(), r.ttlMillis()).Int()
	if err != nil {
		r.logError("redis page Len failed", err)
		return 0
	}
	return n
}

func (r *redisCache) Close() error {
	return r.client.Close()
}

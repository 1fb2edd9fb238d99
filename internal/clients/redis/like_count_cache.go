package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

// LikeCount is a cache read. Generation is the post's invalidation counter at
// read time; pass it back to Set so a count computed before a concurrent
// Invalidate is not stored.
type LikeCount struct {
	N          int64
	Hit        bool
	Generation int64
}

// LikeCountCache memoizes per-post like counts.
type LikeCountCache interface {
	Get(ctx context.Context, postID string) (LikeCount, error)
	// Set stores n only if the post's generation still equals generation.
	// It reports whether the value was stored.
	Set(ctx context.Context, postID string, n, generation int64) (bool, error)
	Invalidate(ctx context.Context, postID string) error
	Close() error
}

// KEYS[1]=count KEYS[2]=generation ARGV[1]=n ARGV[2]=expected generation ARGV[3]=ttl ms
var setIfGeneration = goredis.NewScript(`
local cur = redis.call('GET', KEYS[2])
if not cur then cur = '0' end
if cur ~= ARGV[2] then return 0 end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

type likeCountCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

type LikeCountCacheConfig struct {
	Addr   string
	TTL    time.Duration
	Prefix string
}

func NewLikeCountCache(log *logger.Logger, cfg LikeCountCacheConfig) (LikeCountCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewLikeCountCacheFromClient(log, rdb, cfg.TTL, cfg.Prefix), nil
}

func NewLikeCountCacheFromClient(log *logger.Logger, rdb *goredis.Client, ttl time.Duration, prefix string) LikeCountCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if prefix == "" {
		prefix = "travel:likes:"
	}
	return &likeCountCache{
		log:    log.With("client", "RedisLikeCountCache"),
		rdb:    rdb,
		ttl:    ttl,
		prefix: prefix,
	}
}

func (c *likeCountCache) key(postID string) string    { return c.prefix + postID }
func (c *likeCountCache) genKey(postID string) string { return c.prefix + postID + ":gen" }

func (c *likeCountCache) Get(ctx context.Context, postID string) (LikeCount, error) {
	vals, err := c.rdb.MGet(ctx, c.key(postID), c.genKey(postID)).Result()
	if err != nil {
		return LikeCount{}, err
	}
	var out LikeCount
	if raw, ok := vals[1].(string); ok {
		g, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return LikeCount{}, fmt.Errorf("like count generation %q: %w", raw, err)
		}
		out.Generation = g
	}
	raw, ok := vals[0].(string)
	if !ok {
		return out, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.log.Warn("discarding unparsable cached like count", "post_id", postID, "value", raw)
		_ = c.rdb.Del(ctx, c.key(postID)).Err()
		return out, nil
	}
	out.N, out.Hit = n, true
	return out, nil
}

func (c *likeCountCache) Set(ctx context.Context, postID string, n, generation int64) (bool, error) {
	stored, err := setIfGeneration.Run(ctx, c.rdb,
		[]string{c.key(postID), c.genKey(postID)},
		strconv.FormatInt(n, 10), strconv.FormatInt(generation, 10), c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

func (c *likeCountCache) Invalidate(ctx context.Context, postID string) error {
	_, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Incr(ctx, c.genKey(postID))
		p.Del(ctx, c.key(postID))
		return nil
	})
	return err
}

func (c *likeCountCache) Close() error {
	return c.rdb.Close()
}

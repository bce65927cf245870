package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"
)

const keyPrefix = "textclass:sentiment:"

// Cache stores encoded results by key. Get reports a miss with ok=false.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Cached serves repeated analyses from a cache. Cache failures are logged
// and fall through to the wrapped analyzer; analyzer errors are returned.
type Cached struct {
	next  Analyzer
	cache Cache
	ttl   time.Duration
}

func NewCached(next Analyzer, cache Cache, ttl time.Duration) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl}
}

func (c *Cached) Analyze(ctx context.Context, text, lang string) (Result, error) {
	key := CacheKey(text, lang)

	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("sentiment cache read failed", "err", err)
	} else if ok {
		var res Result
		if err := json.Unmarshal([]byte(raw), &res); err == nil {
			return res, nil
		}
		slog.Warn("dropping undecodable cache entry", "key", key)
	}

	res, err := c.next.Analyze(ctx, text, lang)
	if err != nil {
		return Result{}, err
	}
	body, err := json.Marshal(res)
	if err != nil {
		return res, nil
	}
	if err := c.cache.Set(ctx, key, string(body), c.ttl); err != nil {
		slog.Warn("sentiment cache write failed", "err", err)
	}
	return res, nil
}

// CacheKey derives the cache key for text in lang.
func CacheKey(text, lang string) string {
	sum := sha256.Sum256([]byte(lang + "\x00" + text))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// ValkeyCache is a Cache backed by a Valkey (or Redis) server.
type ValkeyCache struct {
	client valkey.Client
}

func NewValkeyCache(client valkey.Client) *ValkeyCache {
	return &ValkeyCache{client: client}
}

// DialValkey connects to addr and pings it before returning.
func DialValkey(ctx context.Context, addr, password string) (valkey.Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:      []string{addr},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}
	return client, nil
}

func (v *ValkeyCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (v *ValkeyCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return v.client.Do(ctx, v.client.B().Set().Key(key).Value(value).Build()).Error()
	}
	secs := int64(ttl / time.Second)
	if secs < 1 {
		secs = 1
	}
	return v.client.Do(ctx, v.client.B().Set().Key(key).Value(value).ExSeconds(secs).Build()).Error()
}

func (v *ValkeyCache) Close() {
	v.client.Close()
}

package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"fieldpulse/config"
)

// ReportCache is a short-TTL redis cache for rendered dashboard
// responses. It caches HTTP output, never engine state: a miss always
// triggers a full recomputation of the pipeline.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache returns nil when redis is disabled; callers treat a nil
// cache as a permanent miss.
func NewReportCache(cfg config.RedisConfig, ttl time.Duration) *ReportCache {
	if !cfg.Enabled {
		return nil
	}
	return &ReportCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: ttl,
	}
}

// Key builds a cache key from the caller identity and filter set, bucketed
// to the TTL so entries expire on a predictable boundary.
func (rc *ReportCache) Key(userID uint, parts ...string) string {
	bucket := time.Now().Truncate(rc.ttl).Format(time.RFC3339)
	all := append([]string{fmt.Sprint(userID)}, append(parts, bucket)...)
	h := sha256.Sum256([]byte(strings.Join(all, "|")))
	return "dashboard:" + hex.EncodeToString(h[:16])
}

func (rc *ReportCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if rc == nil {
		return nil, false
	}
	payload, err := rc.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (rc *ReportCache) Set(ctx context.Context, key string, payload []byte) {
	if rc == nil {
		return
	}
	// Best effort; a failed cache write never fails the request.
	_ = rc.client.Set(ctx, key, payload, rc.ttl).Err()
}

func (rc *ReportCache) Close() error {
	if rc == nil {
		return nil
	}
	return rc.client.Close()
}

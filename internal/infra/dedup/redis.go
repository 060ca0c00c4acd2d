package dedup

import (
	"context"
	"time"

	"payment-reconciler/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// RedisWindow shares the seen-events set between replicas. Each id is a key
// that expires after the retention period.
type RedisWindow struct {
	client    redis.Cmdable
	prefix    string
	retention time.Duration
}

func NewRedisWindow(client redis.Cmdable, prefix string, retention time.Duration) *RedisWindow {
	return &RedisWindow{client: client, prefix: prefix, retention: retention}
}

func (w *RedisWindow) Claim(ctx context.Context, eventID string) (bool, error) {
	ok, err := w.client.SetNX(ctx, w.prefix+eventID, 1, w.retention).Result()
	if err != nil {
		return false, errs.Wrap(err, "redis setnx")
	}
	return ok, nil
}

func (w *RedisWindow) Release(ctx context.Context, eventID string) error {
	if err := w.client.Del(ctx, w.prefix+eventID).Err(); err != nil {
		return errs.Wrap(err, "redis del")
	}
	return nil
}

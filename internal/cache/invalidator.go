package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Invalidator drops read-side cache entries in Redis. It is strictly
// best-effort: a failed invalidation is logged and discarded, never
// propagated to the mutation that triggered it.
type Invalidator struct {
	rdb *redis.Client
	log *logrus.Logger
}

func NewInvalidator(addr string, log *logrus.Logger) *Invalidator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Invalidator{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		log: log,
	}
}

func (i *Invalidator) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := i.rdb.Del(ctx, keys...).Err(); err != nil {
		i.log.WithError(err).WithField("keys", keys).Warn("cache invalidation failed")
	}
}

func (i *Invalidator) Close() error {
	return i.rdb.Close()
}

// Noop satisfies the invalidator ports when no Redis is configured.
type Noop struct{}

func (Noop) Invalidate(context.Context, ...string) {}

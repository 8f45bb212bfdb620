package locker

import (
	"context"
	"fmt"
	"stays/infras/otel"
	"stays/shared/constant"
	"time"

	"github.com/google/uuid"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	lockKeyPrefix = "lock:"
	retryInterval = 25 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goRedis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *goRedis.Client
	otel   otel.Otel
	opts   options
}

func newRedis(client *goRedis.Client, ot otel.Otel, opts options) *redisLocker {
	return &redisLocker{
		client: client,
		otel:   ot,
		opts:   opts,
	}
}

func (r *redisLocker) Acquire(ctx context.Context, key string) (release Release, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelLockScopeName, constant.OtelLockScopeName+".Acquire")
	defer scope.End()
	defer scope.TraceIfError(err)

	lockKey := lockKeyPrefix + key
	token := uuid.NewString()

	scope.SetAttribute("lock.key", lockKey)

	deadline := time.Now().Add(r.opts.wait)
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, lockKey, token, r.opts.ttl).Result()
		if err != nil {
			log.Error().Err(err).Str("key", lockKey).Msg("failed to acquire lock")

			return nil, fmt.Errorf("failed to acquire lock %s: %w", lockKey, err)
		}

		if ok {
			return r.releaser(ctx, lockKey, token), nil
		}

		if time.Now().After(deadline) {
			return nil, ErrNotAcquired
		}

		select {
		case <-ctx.Done():
			return nil, ErrNotAcquired
		case <-ticker.C:
		}
	}
}

func (r *redisLocker) releaser(ctx context.Context, lockKey, token string) Release {
	released := false

	return func() {
		if released {
			return
		}

		released = true
		c := context.WithoutCancel(ctx)

		if err := releaseScript.Run(c, r.client, []string{lockKey}, token).Err(); err != nil {
			log.Error().Err(err).Str("key", lockKey).Msg("failed to release lock")
		}
	}
}

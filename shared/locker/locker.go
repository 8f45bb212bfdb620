// Package locker serializes work per key across requests.
//
// Two drivers are available: "redis" holds a SET NX lease so several API replicas
// share the same critical section, "local" is an in-process keyed mutex used by
// single-instance deployments and tests.
package locker

//go:generate go run go.uber.org/mock/mockgen -source=./locker.go -destination=./mocks/locker_mock.go -package=mocks

import (
	"context"
	"errors"
	"stays/config"
	"stays/infras/otel"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DriverRedis = "redis"
	DriverLocal = "local"

	defaultTTL  = 10 * time.Second
	defaultWait = 2 * time.Second

	roomKeyPrefix = "booking:room:"
)

// RoomKey is the lock shared by everything that must not interleave with admissions on roomID.
func RoomKey(roomID string) string {
	return roomKeyPrefix + roomID
}

// ErrNotAcquired is returned when the lock could not be taken before the wait elapsed.
var ErrNotAcquired = errors.New("lock not acquired")

// Release gives the lock back. Calling it more than once is a no-op.
type Release func()

type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

type options struct {
	ttl  time.Duration
	wait time.Duration
}

func optionsFromConfig(cfg *config.Config) options {
	opts := options{ttl: defaultTTL, wait: defaultWait}

	if cfg.Booking.LockTTLSeconds > 0 {
		opts.ttl = time.Duration(cfg.Booking.LockTTLSeconds) * time.Second
	}

	if cfg.Booking.LockWaitMillis > 0 {
		opts.wait = time.Duration(cfg.Booking.LockWaitMillis) * time.Millisecond
	}

	return opts
}

// New picks the driver configured in BOOKING_LOCK_DRIVER.
func New(cfg *config.Config, client *goRedis.Client, ot otel.Otel) Locker {
	opts := optionsFromConfig(cfg)

	switch cfg.Booking.LockDriver {
	case DriverLocal:
		log.Info().Str("driver", DriverLocal).Msg("Room locker initialized")

		return newLocal(opts)
	default:
		log.Info().Str("driver", DriverRedis).Msg("Room locker initialized")

		return newRedis(client, ot, opts)
	}
}

// NewLocal returns an in-process locker that waits at most wait for a key.
func NewLocal(wait time.Duration) Locker {
	if wait <= 0 {
		wait = defaultWait
	}

	return newLocal(options{ttl: defaultTTL, wait: wait})
}

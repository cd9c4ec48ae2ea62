package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lease taken over by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Lease struct {
	rdb    *redis.Client
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

func NewLease(rdb *redis.Client, key string, ttl time.Duration, logger *zap.Logger) *Lease {
	return &Lease{rdb: rdb, key: key, ttl: ttl, logger: logger}
}

// Acquire takes the lease. ok is false when another holder owns it. The
// returned release func is safe to call once the work is done.
func (l *Lease) Acquire(ctx context.Context) (release func(), ok bool, err error) {
	token := uuid.NewString()

	ok, err = l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquiring lease %s: %w", l.key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err(); err != nil {
			// The key stays held until its TTL runs out.
			l.logger.Error("failed to release lease",
				zap.String("key", l.key),
				zap.Duration("ttl", l.ttl),
				zap.Error(err))
		}
	}

	return release, true, nil
}

package turnlock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "neomind:turn:"

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker shares the lock between instances behind a load balancer.
type RedisLocker struct {
	rdb   *redis.Client
	lease time.Duration
}

func NewRedisLocker(rdb *redis.Client, lease time.Duration) *RedisLocker {
	if lease <= 0 {
		lease = DefaultLease
	}
	return &RedisLocker{rdb: rdb, lease: lease}
}

func (l *RedisLocker) TryAcquire(ctx context.Context, userId uuid.UUID) (func(), bool, error) {
	key := keyPrefix + userId.String()
	tok := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, tok, l.lease).Result()
	if err != nil || !ok {
		return nil, false, err
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.rdb, []string{key}, tok).Err()
	}
	return release, true, nil
}

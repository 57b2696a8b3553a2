package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"wedding-planner/internal/logger"
)

const keyPrefix = "rating_lock:"

// unlockScript deletes the key only while it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every instance of the service. The TTL bounds
// how long a crashed holder can block others.
type Redis struct {
	Client     *redis.Client
	TTL        time.Duration
	RetryDelay time.Duration
	Logger     *logger.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, log *logger.Logger) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Redis{
		Client:     client,
		TTL:        ttl,
		RetryDelay: 25 * time.Millisecond,
		Logger:     log,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := r.Client.SetNX(ctx, redisKey, token, r.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", redisKey, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire %s: %w", redisKey, ctx.Err())
		case <-time.After(r.RetryDelay):
		}
	}

	return func() {
		// The request context may already be cancelled; release regardless.
		if err := unlockScript.Run(context.Background(), r.Client, []string{redisKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			r.Logger.Error("REDIS", fmt.Sprintf("Failed to release %s: %v", redisKey, err))
		}
	}, nil
}

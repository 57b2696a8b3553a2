package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/logger"
)

// setupTestRedis starts an in-memory Redis and a client pointed at it.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

// exerciseMutualExclusion runs many goroutines incrementing a shared counter
// under the lock with a deliberate read-sleep-write gap.
func exerciseMutualExclusion(t *testing.T, l Locker) {
	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "vendor-1")
			if !assert.NoError(t, err) {
				return
			}
			v := counter
			time.Sleep(time.Millisecond)
			counter = v + 1
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, counter)
}

func TestLocalMutualExclusion(t *testing.T) {
	exerciseMutualExclusion(t, NewLocal())
}

func TestLocalRespectsContext(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "vendor-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "vendor-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// other keys are independent
	unlockOther, err := l.Lock(context.Background(), "vendor-2")
	require.NoError(t, err)
	unlockOther()

	unlock()
	unlock()
	assert.Empty(t, l.locks)
}

func TestRedisMutualExclusion(t *testing.T) {
	client, _ := setupTestRedis(t)
	exerciseMutualExclusion(t, NewRedis(client, time.Second, logger.Nop()))
}

func TestRedisLockKeyLifecycle(t *testing.T) {
	client, mr := setupTestRedis(t)
	l := NewRedis(client, 5*time.Second, logger.Nop())

	unlock, err := l.Lock(context.Background(), "vendor-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("rating_lock:vendor-1"))
	assert.Equal(t, 5*time.Second, mr.TTL("rating_lock:vendor-1"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "vendor-1")
	assert.Error(t, err)

	unlock()
	assert.False(t, mr.Exists("rating_lock:vendor-1"))
}

func TestRedisUnlockKeepsForeignToken(t *testing.T) {
	client, mr := setupTestRedis(t)
	l := NewRedis(client, time.Second, logger.Nop())

	unlock, err := l.Lock(context.Background(), "vendor-1")
	require.NoError(t, err)

	// The TTL lapsed and another holder took the key.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("rating_lock:vendor-1", "someone-else"))

	unlock()
	got, err := mr.Get("rating_lock:vendor-1")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

package booking

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/internal/pkg/timerange"
)

func TestSlotKey(t *testing.T) {
	assert.Equal(t, "slot:2026-03-04:1080-1140", SlotKey("2026-03-04", timerange.Range{Start: 1080, End: 1140}))
}

func exerciseLocker(t *testing.T, l SlotLocker) {
	t.Helper()
	ctx := context.Background()

	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "slot:2026-03-04:540-600")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxSeen)
}

func TestMemoryLockerSerialises(t *testing.T) {
	l := NewMemoryLocker()
	exerciseLocker(t, l)
	assert.Empty(t, l.slots)
}

func TestMemoryLockerHonoursContext(t *testing.T) {
	l := NewMemoryLocker()
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, ErrLockTimeout)

	// Other keys are independent.
	other, err := l.Lock(context.Background(), "other")
	require.NoError(t, err)
	other()
}

func newRedisLocker(t *testing.T, ttl time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, ttl), mr
}

func TestRedisLockerSerialises(t *testing.T) {
	l, mr := newRedisLocker(t, 2*time.Second)
	exerciseLocker(t, l)
	assert.False(t, mr.Exists("courtbook:slot:2026-03-04:540-600"))
}

func TestRedisLockerTimesOutWhileHeld(t *testing.T) {
	l, mr := newRedisLocker(t, 100*time.Millisecond)
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, mr.Exists("courtbook:k"))

	_, err = l.Lock(context.Background(), "k")
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	assert.False(t, mr.Exists("courtbook:k"))
}

func TestRedisLockerKeepsForeignToken(t *testing.T) {
	l, mr := newRedisLocker(t, time.Second)
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	// The lease expired and someone else took the key.
	require.NoError(t, mr.Set("courtbook:k", "someone-else"))
	unlock()

	got, err := mr.Get("courtbook:k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

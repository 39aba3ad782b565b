package turnlock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLockerIsExclusivePerUser(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	release, ok, err := l.TryAcquire(ctx, alice)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = l.TryAcquire(ctx, alice)
	assert.False(t, ok)

	releaseBob, ok, _ := l.TryAcquire(ctx, bob)
	assert.True(t, ok)
	releaseBob()

	release()
	release2, ok, _ := l.TryAcquire(ctx, alice)
	assert.True(t, ok)
	release2()
}

func TestMemoryLockerConcurrentAcquire(t *testing.T) {
	l := NewMemoryLocker()
	userId := uuid.New()
	var wins int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok, _ := l.TryAcquire(context.Background(), userId); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	close(start)
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

package eventloop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T, buffer int) (*Loop, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	l := New(buffer, zerolog.Nop())
	go func() { _ = l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	return l, cancel
}

func TestLoopDoRunsInOrder(t *testing.T) {
	l, _ := startLoop(t, 4)

	var order []int
	for i := 1; i <= 5; i++ {
		i := i
		require.NoError(t, l.Do(context.Background(), func() error {
			order = append(order, i)
			return nil
		}))
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, order)
}

func TestLoopDoReturnsTaskError(t *testing.T) {
	l, _ := startLoop(t, 1)

	boom := errors.New("boom")
	assert.ErrorIs(t, l.Do(context.Background(), func() error { return boom }), boom)

	err := l.Do(context.Background(), func() error { panic("bad") })
	assert.ErrorContains(t, err, "task panicked")

	// loop survives a panicking task
	assert.NoError(t, l.Do(context.Background(), func() error { return nil }))
}

func TestLoopPostNeverOverlapsDo(t *testing.T) {
	l, _ := startLoop(t, 64)

	var inTask, overlaps, ticks int32
	for i := 0; i < 20; i++ {
		l.Post(func() {
			if atomic.LoadInt32(&inTask) != 0 {
				atomic.AddInt32(&overlaps, 1)
			}
			atomic.AddInt32(&ticks, 1)
		})
		require.NoError(t, l.Do(context.Background(), func() error {
			atomic.StoreInt32(&inTask, 1)
			time.Sleep(time.Millisecond)
			atomic.StoreInt32(&inTask, 0)
			return nil
		}))
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&overlaps))
	assert.Equal(t, int32(20), atomic.LoadInt32(&ticks))
}

func TestLoopStopped(t *testing.T) {
	l, cancel := startLoop(t, 1)
	cancel()
	<-l.Done()

	assert.ErrorIs(t, l.Do(context.Background(), func() error { return nil }), ErrStopped)

	l.Stop()
	l.Stop()
	assert.False(t, l.Post(func() {}))
}

func TestTickerPostsOntoLoop(t *testing.T) {
	l, _ := startLoop(t, 4)

	var ticks int32
	ticker, err := NewTicker(l, time.Second, func() { atomic.AddInt32(&ticks, 1) }, zerolog.Nop())
	require.NoError(t, err)

	ticker.Tick()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&ticks) == 1 }, time.Second, 5*time.Millisecond)

	ticker.Start()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&ticks) >= 2 }, 3*time.Second, 20*time.Millisecond)
	ticker.Stop()

	_, err = NewTicker(l, 0, func() {}, zerolog.Nop())
	assert.Error(t, err)
}

package events_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gekko3d/remotegl/webrt/rt/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostDropsWhenFull(t *testing.T) {
	metrics := events.NewMetrics(prometheus.NewRegistry(), "test")
	loop := events.NewLoop(events.Options{QueueSize: 2, Metrics: metrics})

	noop := func(context.Context) {}
	assert.True(t, loop.Post(noop))
	assert.True(t, loop.Post(noop))
	assert.False(t, loop.Post(noop))

	assert.Equal(t, uint64(1), loop.Dropped())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Dropped))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Posted))
	assert.Equal(t, 2, loop.Len())
}

func TestDrainRunsInOrderOnCaller(t *testing.T) {
	loop := events.NewLoop(events.Options{QueueSize: 8})
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		require.True(t, loop.Post(func(ctx context.Context) {
			assert.True(t, loop.Owns(ctx))
			got = append(got, i)
		}))
	}

	assert.Equal(t, 3, loop.Drain(context.Background(), 3))
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, 2, loop.Drain(context.Background(), 0))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Zero(t, loop.Drain(context.Background(), 0))
	assert.Equal(t, uint64(5), loop.Handled())
}

func TestPanickingTaskDoesNotStopDrain(t *testing.T) {
	loop := events.NewLoop(events.Options{})
	ran := false
	loop.Post(func(context.Context) { panic("boom") })
	loop.Post(func(context.Context) { ran = true })

	assert.Equal(t, 2, loop.Drain(context.Background(), 0))
	assert.True(t, ran)
}

func TestOwnership(t *testing.T) {
	a := events.NewLoop(events.Options{})
	b := events.NewLoop(events.Options{})
	ctx := a.Own(context.Background())

	assert.True(t, a.Owns(ctx))
	assert.False(t, b.Owns(ctx))
	assert.False(t, a.Owns(context.Background()))
	assert.Equal(t, ctx, a.Own(ctx))
}

func TestDispatchInlineWhenOwned(t *testing.T) {
	loop := events.NewLoop(events.Options{})
	target := events.NewTarget[string](loop)
	var got []string
	target.On("select", func(_ context.Context, ev string) { got = append(got, "select:"+ev) })
	target.OnAny(func(_ context.Context, typ, ev string) { got = append(got, "any:"+typ) })

	assert.True(t, target.Dispatch(loop.Own(context.Background()), "select", "left"))
	assert.Equal(t, []string{"select:left", "any:select"}, got)
	assert.Zero(t, loop.Len())
}

func TestDispatchFromForeignGoroutineHops(t *testing.T) {
	loop := events.NewLoop(events.Options{})
	target := events.NewTarget[int](loop)
	var got []int
	target.On("frame", func(ctx context.Context, ev int) {
		assert.True(t, loop.Owns(ctx))
		got = append(got, ev)
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.True(t, target.Dispatch(context.Background(), "frame", 7))
	}()
	wg.Wait()

	assert.Empty(t, got)
	assert.Equal(t, 1, loop.Drain(context.Background(), 0))
	assert.Equal(t, []int{7}, got)
}

func TestRemoveListener(t *testing.T) {
	target := events.NewTarget[int](nil)
	calls := 0
	off := target.On("end", func(context.Context, int) { calls++ })
	assert.True(t, target.HasListeners("end"))

	target.Dispatch(context.Background(), "end", 0)
	off()
	target.Dispatch(context.Background(), "end", 0)

	assert.Equal(t, 1, calls)
	assert.False(t, target.HasListeners("end"))
}

func TestRunStopsOnCancel(t *testing.T) {
	loop := events.NewLoop(events.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	ran := make(chan struct{})
	require.True(t, loop.Post(func(context.Context) { close(ran) }))
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

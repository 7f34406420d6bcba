package events

import (
	"context"
	"fmt"

	"github.com/gekko3d/remotegl/webrt/rt/core"

	"go.uber.org/atomic"
)

const DefaultQueueSize = 256

// Task runs on the loop's owning goroutine. ctx is owned by the loop.
type Task func(ctx context.Context)

type Options struct {
	QueueSize int
	Logger    core.Logger
	Metrics   *Metrics
}

// Loop hands work from foreign goroutines to the single goroutine that runs
// GL and XR calls. Producers never block: Post fails when the queue is full.
type Loop struct {
	tasks   chan Task
	log     core.Logger
	metrics *Metrics

	posted  atomic.Uint64
	dropped atomic.Uint64
	handled atomic.Uint64
}

type ownerKey struct{}

func NewLoop(opts Options) *Loop {
	size := opts.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	l := &Loop{
		tasks:   make(chan Task, size),
		log:     core.OrNop(opts.Logger),
		metrics: opts.Metrics,
	}
	l.metrics.observe(l)
	return l
}

// Own marks ctx as belonging to the goroutine that drains l. Listeners
// dispatched with an owned context run inline.
func (l *Loop) Own(ctx context.Context) context.Context {
	if l.Owns(ctx) {
		return ctx
	}
	return context.WithValue(ctx, ownerKey{}, l)
}

func (l *Loop) Owns(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	owner, _ := ctx.Value(ownerKey{}).(*Loop)
	return owner == l
}

// Post enqueues task without blocking. It returns false when the queue is
// full; the task is dropped and counted.
func (l *Loop) Post(task Task) bool {
	if task == nil {
		return true
	}
	select {
	case l.tasks <- task:
		l.posted.Inc()
		l.metrics.posted()
		return true
	default:
		n := l.dropped.Inc()
		l.metrics.dropped()
		if n == 1 || n%100 == 0 {
			l.log.Warnf("event loop full (%d slots), %d tasks dropped so far", cap(l.tasks), n)
		}
		return false
	}
}

// Drain runs up to limit queued tasks on the calling goroutine and returns
// how many ran. limit <= 0 drains what is queued right now.
func (l *Loop) Drain(ctx context.Context, limit int) int {
	if limit <= 0 {
		limit = len(l.tasks)
	}
	ctx = l.Own(ctx)
	count := 0
	for count < limit {
		select {
		case task := <-l.tasks:
			l.run(ctx, task)
			count++
		default:
			return count
		}
	}
	return count
}

// Run drains tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	owned := l.Own(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-l.tasks:
			l.run(owned, task)
		}
	}
}

func (l *Loop) run(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Errorf("event task panicked: %v", r)
		}
	}()
	task(ctx)
	l.handled.Inc()
}

func (l *Loop) Len() int { return len(l.tasks) }

func (l *Loop) Cap() int { return cap(l.tasks) }

func (l *Loop) Dropped() uint64 { return l.dropped.Load() }

func (l *Loop) Handled() uint64 { return l.handled.Load() }

func (l *Loop) String() string {
	return fmt.Sprintf("Loop{queued=%d/%d posted=%d handled=%d dropped=%d}",
		len(l.tasks), cap(l.tasks), l.posted.Load(), l.handled.Load(), l.dropped.Load())
}

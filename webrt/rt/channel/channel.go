package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
	"github.com/gekko3d/remotegl/webrt/rt/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrProtocolTimeout    = errors.New("channel: protocol timeout")
	ErrTransport          = errors.New("channel: transport failure")
	ErrUnexpectedResponse = errors.New("channel: unexpected response")
)

const (
	DefaultResponseTimeout = 1000 * time.Millisecond
	DefaultInitTimeout     = 3000 * time.Millisecond
)

// IDSource hands out message ids. *handle.Allocator satisfies it.
type IDSource interface {
	NextMessageID() uint32
}

type Options struct {
	IDs     IDSource
	Logger  core.Logger
	Metrics *Metrics
	Tracer  trace.Tracer
}

// Channel serialises requests onto a transport and waits for correlated
// responses on the calling goroutine. Requests are never retried.
type Channel struct {
	mu        sync.Mutex
	transport Transport
	ids       IDSource
	log       core.Logger
	metrics   *Metrics
	tracer    trace.Tracer
}

func New(t Transport, opts Options) *Channel {
	c := &Channel{
		transport: t,
		ids:       opts.IDs,
		log:       core.OrNop(opts.Logger),
		metrics:   opts.Metrics,
		tracer:    opts.Tracer,
	}
	if c.ids == nil {
		c.ids = &localIDs{}
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer("github.com/gekko3d/remotegl/webrt/rt/channel")
	}
	return c
}

type localIDs struct {
	mu   sync.Mutex
	next uint32
}

func (l *localIDs) NextMessageID() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	return l.next
}

type sendOptions struct {
	frame *cmdbuf.FrameMeta
}

type SendOption func(*sendOptions)

// WithFrame annotates the request with the active XR frame. Flush-terminating
// requests are followed by a flush carrying the same frame.
func WithFrame(meta cmdbuf.FrameMeta) SendOption {
	return func(o *sendOptions) {
		o.frame = &meta
	}
}

func (c *Channel) Transport() Transport {
	return c.transport
}

// Send encodes req and writes it. The only failure is a transport failure.
func (c *Channel) Send(ctx context.Context, req cmdbuf.Request, opts ...SendOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.send(ctx, req, opts)
	return err
}

func (c *Channel) send(ctx context.Context, req cmdbuf.Request, opts []SendOption) (uint32, error) {
	var o sendOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.frame != nil {
		req.Header().Frame = *o.frame
	}

	id, err := c.write(ctx, req)
	if err != nil {
		return 0, err
	}
	if o.frame != nil && req.Type().FlushTerminating() {
		flush := &cmdbuf.FlushRequest{RequestHeader: cmdbuf.RequestHeader{
			ContextID: req.Header().ContextID,
			Frame:     *o.frame,
		}}
		if _, err := c.write(ctx, flush); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (c *Channel) write(ctx context.Context, req cmdbuf.Request) (uint32, error) {
	id := c.ids.NextMessageID()
	data, err := cmdbuf.Marshal(req, id)
	if err != nil {
		return 0, err
	}
	if err := c.transport.Send(ctx, data); err != nil {
		c.metrics.transportError()
		c.log.Warnf("channel: failed to send %s: %v", req.Type(), err)
		return 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	c.metrics.sent(req.Type())
	if c.log.DebugEnabled() {
		c.log.Debugf("channel: sent %s id=%d ctx=%d", req.Type(), id, req.Header().ContextID)
	}
	return id, nil
}

// SendAndWait sends req and blocks until the response of type want that
// answers it arrives, or timeout elapses. Responses to other requests (late
// answers to requests that already timed out) are discarded.
func (c *Channel) SendAndWait(ctx context.Context, req cmdbuf.Request, want cmdbuf.CommandType,
	timeout time.Duration, opts ...SendOption) (cmdbuf.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "channel.SendAndWait", trace.WithAttributes(
		attribute.String("command", req.Type().String()),
		attribute.String("response", want.String()),
	))
	defer span.End()

	if timeout <= 0 {
		timeout = DefaultResponseTimeout
	}
	start := time.Now()
	id, err := c.send(ctx, req, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		data, err := c.transport.Recv(waitCtx)
		if err != nil {
			if waitCtx.Err() != nil {
				c.metrics.timeout(req.Type())
				span.SetStatus(codes.Error, "timeout")
				return nil, fmt.Errorf("%w: %s after %s", ErrProtocolTimeout, req.Type(), timeout)
			}
			c.metrics.transportError()
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}

		cmd, msg, err := cmdbuf.Unmarshal(data)
		if err != nil {
			c.metrics.discarded()
			c.log.Warnf("channel: dropping unreadable frame while waiting for %s: %v", want, err)
			continue
		}
		res, ok := cmd.(cmdbuf.Response)
		if !ok || res.Header().RequestID != id {
			c.metrics.discarded()
			c.log.Debugf("channel: discarding %s (msg %d) while waiting for %s of request %d",
				msg.Type, msg.ID, want, id)
			continue
		}
		if res.Type() != want {
			span.SetStatus(codes.Error, "unexpected response")
			return nil, fmt.Errorf("%w: got %s, want %s", ErrUnexpectedResponse, res.Type(), want)
		}
		c.metrics.roundTrip(req.Type(), time.Since(start))
		return res, nil
	}
}

func (c *Channel) Close() error {
	return c.transport.Close()
}

// Package channeltest provides an in-process host for exercising code that
// talks through a channel.Channel.
package channeltest

import (
	"context"
	"fmt"
	"sync"

	"github.com/gekko3d/remotegl/webrt/rt/channel"
	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
)

// Handler answers one request. Returning nil sends nothing, which makes the
// caller time out.
type Handler func(req cmdbuf.Request) cmdbuf.Response

// Host is a synchronous channel.Transport: every frame sent to it is decoded
// and recorded on the caller's goroutine, and registered handlers queue their
// responses for the next Recv.
type Host struct {
	mu       sync.Mutex
	handlers map[cmdbuf.CommandType]Handler
	requests []cmdbuf.Request
	pending  [][]byte
	notify   chan struct{}
	closed   bool
}

func NewHost() *Host {
	return &Host{
		handlers: make(map[cmdbuf.CommandType]Handler),
		notify:   make(chan struct{}, 1),
	}
}

// Handle registers h for requests of type t.
func (h *Host) Handle(t cmdbuf.CommandType, fn Handler) {
	h.mu.Lock()
	h.handlers[t] = fn
	h.mu.Unlock()
}

func (h *Host) Send(ctx context.Context, frame []byte) error {
	cmd, msg, err := cmdbuf.Unmarshal(frame)
	if err != nil {
		return fmt.Errorf("channeltest: %w", err)
	}
	req, ok := cmd.(cmdbuf.Request)
	if !ok {
		return fmt.Errorf("channeltest: %s is not a request", cmd.Type())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return channel.ErrClosed
	}
	h.requests = append(h.requests, req)
	if fn, ok := h.handlers[req.Type()]; ok {
		if res := fn(req); res != nil {
			res.Header().RequestID = msg.ID
			h.queue(res, msg.ID)
		}
	}
	return nil
}

// Inject queues res as if the host had sent it unprompted.
func (h *Host) Inject(res cmdbuf.Response) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queue(res, 0)
}

func (h *Host) queue(res cmdbuf.Response, id uint32) {
	data, err := cmdbuf.Marshal(res, id)
	if err != nil {
		panic(err)
	}
	h.pending = append(h.pending, data)
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

func (h *Host) Recv(ctx context.Context) ([]byte, error) {
	for {
		h.mu.Lock()
		if len(h.pending) > 0 {
			frame := h.pending[0]
			h.pending = h.pending[1:]
			h.mu.Unlock()
			return frame, nil
		}
		closed := h.closed
		h.mu.Unlock()
		if closed {
			return nil, channel.ErrClosed
		}
		select {
		case <-h.notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (h *Host) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	select {
	case h.notify <- struct{}{}:
	default:
	}
	return nil
}

// Requests returns every request received so far.
func (h *Host) Requests() []cmdbuf.Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]cmdbuf.Request, len(h.requests))
	copy(out, h.requests)
	return out
}

// OfType returns the received requests of type t, in order.
func (h *Host) OfType(t cmdbuf.CommandType) []cmdbuf.Request {
	var out []cmdbuf.Request
	for _, r := range h.Requests() {
		if r.Type() == t {
			out = append(out, r)
		}
	}
	return out
}

func (h *Host) Count(t cmdbuf.CommandType) int {
	return len(h.OfType(t))
}

// Last returns the most recent request, or nil.
func (h *Host) Last() cmdbuf.Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.requests) == 0 {
		return nil
	}
	return h.requests[len(h.requests)-1]
}

// Types lists the types of all received requests, in order.
func (h *Host) Types() []cmdbuf.CommandType {
	var out []cmdbuf.CommandType
	for _, r := range h.Requests() {
		out = append(out, r.Type())
	}
	return out
}

func (h *Host) Reset() {
	h.mu.Lock()
	h.requests = nil
	h.mu.Unlock()
}

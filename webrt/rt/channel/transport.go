package channel

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("channel: transport closed")

// Transport moves framed messages between the client and the host. Recv
// blocks until a frame arrives, ctx is done, or the transport closes.
type Transport interface {
	Send(ctx context.Context, frame []byte) error
	Recv(ctx context.Context) ([]byte, error)
	Close() error
}

// PipeBuffer is the number of frames each direction of a pipe can hold
// before Send blocks.
const PipeBuffer = 1024

type pipeEnd struct {
	in     <-chan []byte
	out    chan<- []byte
	done   chan struct{}
	closer *sync.Once
}

// Pipe returns two connected in-memory transports.
func Pipe() (Transport, Transport) {
	ab := make(chan []byte, PipeBuffer)
	ba := make(chan []byte, PipeBuffer)
	done := make(chan struct{})
	once := &sync.Once{}
	a := &pipeEnd{in: ba, out: ab, done: done, closer: once}
	b := &pipeEnd{in: ab, out: ba, done: done, closer: once}
	return a, b
}

func (p *pipeEnd) Send(ctx context.Context, frame []byte) error {
	buf := make([]byte, len(frame))
	copy(buf, frame)
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	select {
	case p.out <- buf:
		return nil
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pipeEnd) Recv(ctx context.Context) ([]byte, error) {
	select {
	case frame := <-p.in:
		return frame, nil
	case <-p.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close closes both ends.
func (p *pipeEnd) Close() error {
	p.closer.Do(func() { close(p.done) })
	return nil
}

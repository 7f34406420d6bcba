package channel

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

// WebSocketTransport carries one framed message per binary websocket message.
// A reader goroutine drains the socket so that a Recv timeout never leaves the
// connection half-read.
type WebSocketTransport struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	frames  chan []byte
	done    chan struct{}
	once    sync.Once

	errMu   sync.Mutex
	readErr error
}

func NewWebSocketTransport(conn *websocket.Conn) *WebSocketTransport {
	t := &WebSocketTransport{
		conn:   conn,
		frames: make(chan []byte, PipeBuffer),
		done:   make(chan struct{}),
	}
	go t.readLoop()
	return t
}

func (t *WebSocketTransport) readLoop() {
	defer close(t.frames)
	for {
		kind, data, err := t.conn.ReadMessage()
		if err != nil {
			t.errMu.Lock()
			t.readErr = err
			t.errMu.Unlock()
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		select {
		case t.frames <- data:
		case <-t.done:
			return
		}
	}
}

func (t *WebSocketTransport) Send(ctx context.Context, frame []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(deadline)
	} else {
		_ = t.conn.SetWriteDeadline(time.Time{})
	}
	if err := t.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return fmt.Errorf("websocket write: %w", err)
	}
	return nil
}

func (t *WebSocketTransport) Recv(ctx context.Context) ([]byte, error) {
	select {
	case frame, ok := <-t.frames:
		if !ok {
			t.errMu.Lock()
			err := t.readErr
			t.errMu.Unlock()
			if err == nil {
				return nil, ErrClosed
			}
			return nil, fmt.Errorf("%w: %v", ErrClosed, err)
		}
		return frame, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *WebSocketTransport) Close() error {
	var err error
	t.once.Do(func() {
		close(t.done)
		t.writeMu.Lock()
		_ = t.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		t.writeMu.Unlock()
		err = t.conn.Close()
	})
	return err
}

type DialOptions struct {
	Header      http.Header
	MaxElapsed  time.Duration
	InitialWait time.Duration
}

// DialWebSocket connects to the host, retrying the handshake with exponential
// backoff until MaxElapsed. Only connection setup is retried.
func DialWebSocket(ctx context.Context, url string, opts DialOptions) (*WebSocketTransport, error) {
	policy := backoff.NewExponentialBackOff()
	if opts.InitialWait > 0 {
		policy.InitialInterval = opts.InitialWait
	}
	if opts.MaxElapsed > 0 {
		policy.MaxElapsedTime = opts.MaxElapsed
	}

	var conn *websocket.Conn
	err := backoff.Retry(func() error {
		c, resp, err := websocket.DefaultDialer.DialContext(ctx, url, opts.Header)
		if err != nil {
			if resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(fmt.Errorf("dial %s: %s", url, resp.Status))
			}
			return err
		}
		conn = c
		return nil
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return NewWebSocketTransport(conn), nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 << 10,
	WriteBufferSize: 64 << 10,
}

// Accept upgrades an HTTP request on the host side of the connection.
func Accept(w http.ResponseWriter, r *http.Request) (*WebSocketTransport, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return NewWebSocketTransport(conn), nil
}

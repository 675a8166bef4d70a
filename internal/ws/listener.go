package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/Lalka12235/TuneWave/internal/shared"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 90 * time.Second
	pingPeriod = 30 * time.Second

	eventBufferSize = 64
)

// Listener holds one socket subscription to a room. Events arrive on the
// Events channel until the connection drops or Close is called.
type Listener struct {
	conn   *websocket.Conn
	logger *log.Logger

	events chan Event
	done   chan struct{}

	closeOnce sync.Once
	writeMu   sync.Mutex
}

// ListenerOpts configures a room subscription.
type ListenerOpts struct {
	// BaseURL is the socket origin, e.g. ws://127.0.0.1:8000.
	BaseURL string
	RoomID  string
	UserID  string
	Logger  *log.Logger
}

// Dial connects to the room socket and starts the read and keepalive
// loops. The caller owns the returned listener and must call Close.
func Dial(ctx context.Context, opts ListenerOpts) (*Listener, error) {
	if opts.RoomID == "" || opts.UserID == "" {
		return nil, fmt.Errorf("%w: a room id and user id are required", shared.ErrMissingArgument)
	}

	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid socket url %q", shared.ErrInvalidConfig, opts.BaseURL)
	}
	base.Path = fmt.Sprintf("/ws/room/%s/%s", opts.RoomID, opts.UserID)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, base.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: socket handshake failed with status %d", shared.ErrServiceUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrServiceUnavailable, err.Error())
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	l := &Listener{
		conn:   conn,
		logger: logger,
		events: make(chan Event, eventBufferSize),
		done:   make(chan struct{}),
	}

	go l.readLoop()
	go l.keepalive()

	return l, nil
}

// Events returns the stream of room events. The channel is closed when
// the connection ends.
func (l *Listener) Events() <-chan Event {
	return l.events
}

// Done is closed once the read loop has exited for any reason.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// Close sends a close frame and tears the connection down. The read loop
// may already have closed the connection, so teardown is best effort.
func (l *Listener) Close() error {
	l.closeOnce.Do(func() {
		l.writeMu.Lock()
		_ = l.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait),
		)
		l.writeMu.Unlock()
		_ = l.conn.Close()
	})
	return nil
}

func (l *Listener) readLoop() {
	defer close(l.done)
	defer close(l.events)
	defer l.conn.Close()

	if err := l.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		l.logger.Error("failed to set read deadline", "error", err)
		return
	}
	l.conn.SetPongHandler(func(string) error {
		return l.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := l.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.logger.Error("room socket closed unexpectedly", "error", err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			l.logger.Warn("discarding malformed socket message", "error", err)
			continue
		}

		select {
		case l.events <- event:
		default:
			// A stalled consumer should not wedge the read loop.
			l.logger.Warn("dropping room event, consumer is behind", "action", event.Action)
		}
	}
}

func (l *Listener) keepalive() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.writeMu.Lock()
			err := l.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			l.writeMu.Unlock()
			if err != nil {
				l.logger.Error("keepalive ping failed", "error", err)
				return
			}
		}
	}
}

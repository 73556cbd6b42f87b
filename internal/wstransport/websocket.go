// Package wstransport is the gorilla/websocket-backed Transport implementation.
// It is grounded on thatcooperguy-nvremote's heartbeat/websocket.go dialer
// (HandshakeTimeout, write deadlines, ping/pong bookkeeping), adapted from a
// blocking reconnect-loop model to the callback-driven Transport contract.
package wstransport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/websocket"

	"socketio-client/transport"
)

const (
	handshakeTimeout = 15 * time.Second
	writeTimeout     = 10 * time.Second
	wsPingInterval   = 30 * time.Second
	wsPongWait       = 60 * time.Second
)

// Transport dials a single WebSocket connection and pumps frames in and out
// of it. It is not reused across reconnects; the ClientShell constructs a
// fresh one per Start.
type Transport struct {
	logger logr.Logger

	writeMu sync.Mutex
	conn    *websocket.Conn

	closeOnce sync.Once
	closed    chan struct{}
}

// New returns a Transport that logs through logger.
func New(logger logr.Logger) *Transport {
	return &Transport{logger: logger, closed: make(chan struct{})}
}

// Start dials url and, on success, spawns the read pump and the WebSocket-
// level keepalive ping ticker. It returns once the dial either succeeds or
// fails; all further I/O happens on goroutines driving cb.
func (t *Transport) Start(ctx context.Context, url string, headers http.Header, cb transport.Callbacks) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, url, headers)
	if err != nil {
		return fmt.Errorf("wstransport: dial: %w", err)
	}
	t.writeMu.Lock()
	t.conn = conn
	t.writeMu.Unlock()

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	if cb.OnConnected != nil {
		cb.OnConnected()
	}

	go t.readPump(cb)
	go t.pingLoop()

	return nil
}

func (t *Transport) readPump(cb transport.Callbacks) {
	for {
		msgType, payload, err := t.conn.ReadMessage()
		if err != nil {
			t.shutdown(err, cb)
			return
		}
		if cb.OnData != nil {
			cb.OnData(transport.Frame{
				Binary:  msgType == websocket.BinaryMessage,
				Payload: payload,
			})
		}
	}
}

// pingLoop sends WebSocket-level control pings to keep the TCP connection and
// any intermediary proxies alive independent of the Engine.IO application
// ping/pong carried as text frames.
func (t *Transport) pingLoop() {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.closed:
			return
		case <-ticker.C:
			t.writeMu.Lock()
			t.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := t.conn.WriteMessage(websocket.PingMessage, nil)
			t.writeMu.Unlock()
			if err != nil {
				t.logger.V(1).Info("ws ping failed", "error", err.Error())
				return
			}
		}
	}
}

// Send writes a single frame. Safe for concurrent use; gorilla/websocket
// requires at most one writer at a time per connection.
func (t *Transport) Send(frame transport.Frame) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if t.conn == nil {
		return fmt.Errorf("wstransport: not connected")
	}
	msgType := websocket.TextMessage
	if frame.Binary {
		msgType = websocket.BinaryMessage
	}
	t.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return t.conn.WriteMessage(msgType, frame.Payload)
}

func (t *Transport) shutdown(err error, cb transport.Callbacks) {
	t.closeOnce.Do(func() {
		close(t.closed)
		if t.conn != nil {
			t.conn.Close()
		}
		if cb.OnDisconnected != nil {
			cb.OnDisconnected(err)
		}
	})
}

// Close tears down the connection without reporting an error to OnDisconnected.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		close(t.closed)
	})
	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}

// Package transport defines the boundary between a Session and whatever
// actually owns the network connection. The Session never dials, retries, or
// knows about TLS; it only sees frames in and frames out (spec §1, §4.6).
package transport

import (
	"context"
	"net/http"
)

// Frame is one WebSocket message, text or binary.
type Frame struct {
	Binary  bool
	Payload []byte
}

// Callbacks are wired by the ClientShell into a Session; the Transport
// invokes them as events happen on the connection.
type Callbacks struct {
	OnConnected    func()
	OnDisconnected func(err error)
	OnData         func(frame Frame)
}

// Transport owns a single WebSocket connection's lifecycle. Start dials and,
// on success, begins delivering Callbacks asynchronously; it does not block
// for the connection's lifetime. Send may be called concurrently with itself
// and with an in-flight Start.
type Transport interface {
	Start(ctx context.Context, url string, headers http.Header, cb Callbacks) error
	Send(frame Frame) error
	Close() error
}

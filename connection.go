package socketio

import (
	"context"
	"encoding/json"
)

// Connection is the user-facing facade for a single active Session (spec
// §4.5), narrowed from the teacher's Server.Send/SendWithAck surface to the
// single-peer shape a client needs.
type Connection struct {
	session *Session
}

func newConnection(session *Session) *Connection {
	return &Connection{session: session}
}

// EmitAndForget sends an EVENT with no ack id and does not wait for a reply.
func (c *Connection) EmitAndForget(namespace, event string, args ...any) error {
	_, err := c.session.Emit(namespace, event, args, false)
	return err
}

// Request sends an EVENT carrying a fresh ack id and blocks until the
// matching ACK arrives, the namespace disconnects, the connection is lost, or
// ctx is done. Per-request timeout is the caller's responsibility via ctx.
func (c *Connection) Request(ctx context.Context, namespace, event string, args ...any) (json.RawMessage, error) {
	ch, err := c.session.Emit(namespace, event, args, true)
	if err != nil {
		return nil, err
	}
	select {
	case res := <-ch:
		return res.Args, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AwaitNamespaceJoin blocks until namespace's CONNECT ack or CONNECT_ERROR
// arrives, the connection is lost, or ctx is done.
func (c *Connection) AwaitNamespaceJoin(ctx context.Context, namespace string) error {
	ch := c.session.AwaitNamespaceJoin(namespace)
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsConnected reports whether the handshake has completed and the Session
// has not started closing.
func (c *Connection) IsConnected() bool { return c.session.IsConnected() }

// SID returns the server-assigned session id, once known.
func (c *Connection) SID() (string, bool) { return c.session.SID() }

// Disconnect sends an Engine.IO CLOSE and tears the connection down.
func (c *Connection) Disconnect() { c.session.Disconnect() }

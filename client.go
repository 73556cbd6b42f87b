package socketio

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"socketio-client/internal/wstransport"
	"socketio-client/transport"
)

// Client is the top-level object applications construct (spec §6:
// new(name, settings, callbacks, logger)). It owns URL assembly, transport
// construction, and wiring the transport's callbacks to a Session.
type Client struct {
	name      string
	settings  Settings
	callbacks Callbacks
	logger    logr.Logger

	transportFactory func() transport.Transport

	mu          sync.Mutex
	started     bool
	subscribers *SubscriberRegistry
	session     *Session
	conn        *Connection
}

// New constructs a Client. A zero logr.Logger defaults to a stdr-backed
// logger writing through the standard log package, mirroring the teacher's
// own cmd/hub_go/main.go logging choice at the application layer.
func New(name string, settings Settings, callbacks Callbacks, logger logr.Logger) *Client {
	settings.Normalize()
	if logger.GetSink() == nil {
		logger = stdr.New(nil)
	}
	return &Client{
		name:        name,
		settings:    settings,
		callbacks:   callbacks,
		logger:      logger.WithName(name),
		subscribers: NewSubscriberRegistry(),
	}
}

// Register adds a subscriber for (namespace,event). Must be called before
// Start; the SubscriberRegistry is read-only once the Session is running.
func (c *Client) Register(namespace, event string, handler Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return fmt.Errorf("socketio: cannot register %s %s after start", namespace, event)
	}
	return c.subscribers.Register(namespace, event, handler)
}

// SetDebugPayloads toggles frame-level V(1) logging. The value is read once,
// when Start creates the Session; calling it after Start does not change the
// logging of the running Session.
func (c *Client) SetDebugPayloads(enabled bool) {
	c.mu.Lock()
	c.settings.DebugPayloads = enabled
	c.mu.Unlock()
}

// Start dials the transport and begins the Engine.IO/Socket.IO handshake.
// Calling Start a second time returns the existing Connection without
// redialing.
func (c *Client) Start(ctx context.Context) (*Connection, error) {
	c.mu.Lock()
	if c.started {
		conn := c.conn
		c.mu.Unlock()
		return conn, nil
	}
	c.started = true
	debug := c.settings.DebugPayloads
	c.mu.Unlock()

	acks := NewAckRegistry()
	t := c.newTransport()
	session := NewSession(t, c.subscribers, acks, c.callbacks, c.settings.AuthProvider, c.logger, debug)

	c.mu.Lock()
	c.session = session
	c.conn = newConnection(session)
	conn := c.conn
	c.mu.Unlock()

	url := c.settings.wsURL()
	err := t.Start(ctx, url, c.settings.Headers, transport.Callbacks{
		OnConnected:    session.HandleTransportConnected,
		OnDisconnected: session.HandleTransportDisconnected,
		OnData:         session.HandleFrame,
	})
	if err != nil {
		return nil, fmt.Errorf("socketio: start: %w", err)
	}
	return conn, nil
}

// Stop disconnects the active Session, if any. Safe to call even if Start was
// never called or already returned an error.
func (c *Client) Stop() {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session != nil {
		session.Disconnect()
	}
}

func (c *Client) newTransport() transport.Transport {
	if c.transportFactory != nil {
		return c.transportFactory()
	}
	return wstransport.New(c.logger.WithName("transport"))
}

package socketio

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedFrame is returned when a frame does not match the
	// Engine.IO/Socket.IO wire grammar at all.
	ErrMalformedFrame = errors.New("socketio: malformed frame")

	// ErrUnknownPacketType is returned for a type byte outside the known range.
	ErrUnknownPacketType = errors.New("socketio: unknown packet type")

	// ErrInvalidJSON is returned when a packet's JSON payload doesn't parse.
	ErrInvalidJSON = errors.New("socketio: invalid json payload")

	// ErrDuplicateSubscriber is returned by SubscriberRegistry.Register when the
	// same (namespace,event) pair is registered twice.
	ErrDuplicateSubscriber = errors.New("socketio: duplicate subscriber")

	// ErrConnectionLost is delivered to pending acks and join awaiters once the
	// Session has transitioned to Closing/Closed.
	ErrConnectionLost = errors.New("socketio: connection lost")

	// ErrNamespaceDisconnected is delivered to pending acks scoped to a
	// namespace that received a Socket.IO DISCONNECT.
	ErrNamespaceDisconnected = errors.New("socketio: namespace disconnected")

	// ErrHeartbeatTimeout is the Session-fatal error raised when no frame (ping
	// or otherwise) arrives within pingInterval+pingTimeout.
	ErrHeartbeatTimeout = errors.New("socketio: heartbeat timeout")
)

// NamespaceConnectError wraps a server-sent CONNECT_ERROR for a namespace join.
type NamespaceConnectError struct {
	Namespace string
	Message   string
}

func (e *NamespaceConnectError) Error() string {
	return fmt.Sprintf("socketio: namespace %s rejected: %s", e.Namespace, e.Message)
}

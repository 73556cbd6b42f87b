package socketio

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"socketio-client/transport"
)

// SessionState is the Session's lifecycle state (spec §4.4).
type SessionState int

const (
	StateIdle SessionState = iota
	StateConnecting
	StateHandshakePending
	StateOpen
	StateClosing
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateHandshakePending:
		return "handshake_pending"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Callbacks are the user-facing notifications a Client forwards from its
// Session (spec §6's "callbacks" constructor parameter).
type Callbacks struct {
	OnConnected       func()
	OnDisconnected    func(err error)
	OnNamespaceJoined func(namespace string)
}

// AuthProvider produces the auth payload sent with a namespace's CONNECT
// packet, or nil for no auth payload.
type AuthProvider func(namespace string) any

// Session drives the Engine.IO/Socket.IO state machine over a single
// Transport (spec §4.4). It is grounded on the teacher's handler.go dispatch
// switch (handlePollingPayload), reversed from server-replies-to-client-ping
// to client-replies-to-server-ping, and from HTTP polling framing to a single
// persistent WebSocket.
type Session struct {
	transport    transport.Transport
	subscribers  *SubscriberRegistry
	acks         *AckRegistry
	callbacks    Callbacks
	authProvider AuthProvider
	logger       logr.Logger
	debug        bool

	sendMu sync.Mutex // serializes every outbound write, so ack-id allocation and an EVENT's attachments stay contiguous on the wire

	mu               sync.Mutex
	state            SessionState
	sid              string
	pingInterval     time.Duration
	pingTimeout      time.Duration
	joinedNamespaces map[string]struct{}
	joinAwaiters     map[string]chan error
	heartbeatTimer   *time.Timer
	pendingMsg       *SocketIoMessage
	pendingBinaryBuf [][]byte

	closeOnce sync.Once
	closeErr  error
}

// NewSession constructs a Session bound to transport. The caller is
// responsible for calling HandleTransportConnected/HandleTransportDisconnected/
// HandleFrame from the Transport's Callbacks (normally wired by Client.Start).
func NewSession(t transport.Transport, subscribers *SubscriberRegistry, acks *AckRegistry, callbacks Callbacks, auth AuthProvider, logger logr.Logger, debug bool) *Session {
	return &Session{
		transport:        t,
		subscribers:      subscribers,
		acks:             acks,
		callbacks:        callbacks,
		authProvider:     auth,
		logger:           logger,
		debug:            debug,
		state:            StateConnecting,
		joinedNamespaces: make(map[string]struct{}),
		joinAwaiters:     make(map[string]chan error),
	}
}

// IsConnected reports whether the handshake has completed and the Session has
// not started closing.
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateOpen
}

// SID returns the server-assigned session id, once known.
func (s *Session) SID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sid, s.sid != ""
}

// HandleTransportConnected is the Transport's OnConnected callback: the
// WebSocket is up, but the Engine.IO handshake (the OPEN frame) hasn't
// happened yet.
func (s *Session) HandleTransportConnected() {
	s.mu.Lock()
	if s.state == StateConnecting {
		s.state = StateHandshakePending
	}
	s.mu.Unlock()
}

// HandleTransportDisconnected is the Transport's OnDisconnected callback.
func (s *Session) HandleTransportDisconnected(err error) {
	s.transitionClosing(err)
}

// HandleFrame is the Transport's OnData callback.
func (s *Session) HandleFrame(frame transport.Frame) {
	if frame.Binary {
		s.handleBinaryFrame(frame.Payload)
		return
	}
	text := string(frame.Payload)
	logTextFrame(s.logger, s.debug, "in", "", text)
	s.resetHeartbeat()

	if len(text) > 0 && EnginePacketType(text[0]) == EngineOpen {
		s.handleOpenPayload(text[1:])
		return
	}

	pkt, err := ParsePacket(text)
	if err != nil {
		s.logger.V(0).Info("dropping malformed frame", "error", err.Error())
		s.mu.Lock()
		pending := s.state == StateHandshakePending
		s.mu.Unlock()
		if pending {
			s.transitionClosing(err)
		}
		return
	}
	s.dispatch(pkt)
}

func (s *Session) handleBinaryFrame(payload []byte) {
	logBinaryFrame(s.logger, s.debug, "in", "", len(payload))
	s.resetHeartbeat()

	s.mu.Lock()
	if s.pendingMsg == nil {
		s.mu.Unlock()
		s.logger.V(0).Info("unexpected binary frame, dropping")
		return
	}
	s.pendingBinaryBuf = append(s.pendingBinaryBuf, payload)
	var completed *SocketIoMessage
	if len(s.pendingBinaryBuf) >= s.pendingMsg.Attachments {
		completed = s.pendingMsg
		completed.BinaryPayloads = s.pendingBinaryBuf
		s.pendingMsg = nil
		s.pendingBinaryBuf = nil
	}
	s.mu.Unlock()

	if completed != nil {
		s.dispatchMessage(completed)
	}
}

func (s *Session) dispatch(pkt *Packet) {
	switch pkt.Engine {
	case EngineOpen:
		// Unreachable: HandleFrame intercepts OPEN frames before ParsePacket
		// to reach their JSON body via handleOpenPayload.
	case EngineClose:
		s.transitionClosing(nil)
	case EnginePing:
		s.handlePing(pkt.Probe)
	case EnginePong:
		// liveness already reset above; nothing else to do.
	case EngineMessage:
		msg := pkt.Message
		if msg.Type == SocketBinaryEvent || msg.Type == SocketBinaryAck {
			if msg.Attachments == 0 {
				s.dispatchMessage(msg)
				return
			}
			s.mu.Lock()
			s.pendingMsg = msg
			s.pendingBinaryBuf = nil
			s.mu.Unlock()
			return
		}
		s.dispatchMessage(msg)
	case EngineUpgrade, EngineNoop:
		// Not produced over a websocket-only connection; tolerated for
		// protocol completeness.
	}
}

func (s *Session) handlePing(probe bool) {
	_ = s.send(EncodePong(probe))
	if probe {
		_ = s.send(EncodeUpgrade())
	}
}

func (s *Session) dispatchMessage(msg *SocketIoMessage) {
	switch msg.Type {
	case SocketConnect:
		s.handleConnectAck(msg)
	case SocketDisconnect:
		s.handleNamespaceDisconnect(msg.Namespace)
	case SocketEvent, SocketBinaryEvent:
		s.handleEvent(msg)
	case SocketAck, SocketBinaryAck:
		s.handleAck(msg)
	case SocketConnectError:
		s.handleConnectError(msg)
	}
}

func (s *Session) handleConnectAck(msg *SocketIoMessage) {
	s.mu.Lock()
	s.joinedNamespaces[msg.Namespace] = struct{}{}
	awaiter, ok := s.joinAwaiters[msg.Namespace]
	if ok {
		delete(s.joinAwaiters, msg.Namespace)
	}
	s.mu.Unlock()

	if ok {
		awaiter <- nil
		close(awaiter)
	}
	if s.callbacks.OnNamespaceJoined != nil {
		ns := msg.Namespace
		go s.callbacks.OnNamespaceJoined(ns)
	}
}

func (s *Session) handleConnectError(msg *SocketIoMessage) {
	s.mu.Lock()
	awaiter, ok := s.joinAwaiters[msg.Namespace]
	if ok {
		delete(s.joinAwaiters, msg.Namespace)
	}
	s.mu.Unlock()

	err := &NamespaceConnectError{Namespace: msg.Namespace, Message: msg.ErrorMessage}
	if ok {
		awaiter <- err
		close(awaiter)
	} else {
		s.logger.V(0).Info("namespace connect error", "namespace", msg.Namespace, "message", msg.ErrorMessage)
	}
}

func (s *Session) handleNamespaceDisconnect(namespace string) {
	s.mu.Lock()
	delete(s.joinedNamespaces, namespace)
	s.mu.Unlock()
	s.acks.FailNamespace(namespace, ErrNamespaceDisconnected)
}

func (s *Session) handleEvent(msg *SocketIoMessage) {
	s.mu.Lock()
	open := s.state == StateOpen
	s.mu.Unlock()
	if !open {
		s.logger.V(1).Info("dropping event before handshake completed", "event", msg.EventName)
		return
	}

	handler, ok := s.subscribers.Lookup(msg.Namespace, msg.EventName)
	if !ok {
		s.logger.V(1).Info("no subscriber for event", "namespace", msg.Namespace, "event", msg.EventName)
		return
	}

	namespace, ackID, args := msg.Namespace, msg.AckID, msg.Args
	go func() {
		reply, err := handler(args)
		if err != nil {
			s.logger.V(0).Info("event handler error", "namespace", namespace, "event", msg.EventName, "error", err.Error())
			return
		}
		if ackID == "" {
			return
		}
		_ = s.send(wrapMessage(EncodeAck(namespace, ackID, reply)))
	}()
}

func (s *Session) handleAck(msg *SocketIoMessage) {
	if msg.AckID == "" {
		s.logger.V(0).Info("ack packet missing id", "namespace", msg.Namespace)
		return
	}
	id, err := strconv.ParseUint(msg.AckID, 10, 64)
	if err != nil {
		s.logger.V(0).Info("ack packet has non-numeric id", "namespace", msg.Namespace, "ackId", msg.AckID)
		return
	}
	if !s.acks.Complete(msg.Namespace, id, msg.Args) {
		s.logger.V(1).Info("ack for unknown id", "namespace", msg.Namespace, "ackId", id)
	}
}

// handleOpenPayload parses the Engine.IO OPEN packet's JSON body and advances
// the handshake, sending a CONNECT for every namespace with a registered
// subscriber (or "/" if none were registered).
func (s *Session) handleOpenPayload(raw string) {
	var payload OpenPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		s.transitionClosing(ErrMalformedFrame)
		return
	}

	s.mu.Lock()
	if s.state != StateHandshakePending {
		s.mu.Unlock()
		return
	}
	s.sid = payload.SID
	s.pingInterval = time.Duration(payload.PingInterval) * time.Millisecond
	s.pingTimeout = time.Duration(payload.PingTimeout) * time.Millisecond
	s.state = StateOpen
	namespaces := s.subscribers.Namespaces()
	s.mu.Unlock()

	s.armHeartbeat()

	if len(namespaces) == 0 {
		namespaces = []string{"/"}
	}
	for _, ns := range namespaces {
		s.connectNamespace(ns)
	}

	if s.callbacks.OnConnected != nil {
		go s.callbacks.OnConnected()
	}
}

func (s *Session) connectNamespace(namespace string) {
	var auth any
	if s.authProvider != nil {
		auth = s.authProvider(namespace)
	}
	_ = s.send(wrapMessage(EncodeConnect(namespace, auth)))
}

// AwaitNamespaceJoin registers a one-shot awaiter resolved when the CONNECT ack
// or CONNECT_ERROR for namespace arrives (supplements the always-fired
// OnNamespaceJoined callback with a synchronous join point, grounded on
// original_source's socket_io_namespace_callbacks.rs).
func (s *Session) AwaitNamespaceJoin(namespace string) <-chan error {
	ch := make(chan error, 1)
	s.mu.Lock()
	if _, already := s.joinedNamespaces[namespace]; already {
		s.mu.Unlock()
		ch <- nil
		close(ch)
		return ch
	}
	if s.state == StateClosing || s.state == StateClosed {
		s.mu.Unlock()
		ch <- ErrConnectionLost
		close(ch)
		return ch
	}
	s.joinAwaiters[namespace] = ch
	s.mu.Unlock()
	return ch
}

func (s *Session) armHeartbeat() {
	deadline := s.pingInterval + s.pingTimeout
	if deadline <= 0 {
		return
	}
	s.mu.Lock()
	if s.heartbeatTimer != nil {
		s.heartbeatTimer.Stop()
	}
	s.heartbeatTimer = time.AfterFunc(deadline, func() {
		s.transitionClosing(ErrHeartbeatTimeout)
	})
	s.mu.Unlock()
}

func (s *Session) resetHeartbeat() {
	s.mu.Lock()
	timer := s.heartbeatTimer
	deadline := s.pingInterval + s.pingTimeout
	s.mu.Unlock()
	if timer != nil && deadline > 0 {
		timer.Reset(deadline)
	}
}

// Emit serializes and sends an EVENT, allocating and parking an ack id first
// when wantAck is set. The whole send — id allocation, the header frame, and
// every attachment frame — happens under sendMu, the same mutex every other
// outbound write (send) takes, so a PING reply or a CONNECT can never land on
// the wire between an EVENT's header and its attachments (spec §5), and
// concurrent Emit calls observe ack ids in the order their frames actually
// leave the transport. corrID tags every frame this call produces so
// concurrent emits can be told apart in the debug payload log.
func (s *Session) Emit(namespace, event string, args []any, wantAck bool) (<-chan AckResult, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	closed := s.state == StateClosing || s.state == StateClosed
	s.mu.Unlock()
	if closed {
		return nil, ErrConnectionLost
	}

	corrID := uuid.NewString()

	var ackIDStr string
	var ch <-chan AckResult
	if wantAck {
		id := s.acks.NextID()
		ackIDStr = strconv.FormatUint(id, 10)
		ch = s.acks.Park(namespace, id)
	}

	header, attachments := encodeEventFrame(namespace, event, args, ackIDStr)
	if err := s.sendLocked(corrID, wrapMessage(header)); err != nil {
		return nil, err
	}
	for _, a := range attachments {
		logBinaryFrame(s.logger, s.debug, "out", corrID, len(a))
		if err := s.transport.Send(transport.Frame{Binary: true, Payload: a}); err != nil {
			return nil, err
		}
	}
	return ch, nil
}

// Disconnect sends an Engine.IO CLOSE and transitions to Closing.
func (s *Session) Disconnect() {
	s.mu.Lock()
	already := s.state == StateClosing || s.state == StateClosed
	s.mu.Unlock()
	if already {
		return
	}
	_ = s.send(EncodeClose())
	s.transitionClosing(nil)
}

// send takes sendMu for the duration of a single-frame write. Every outbound
// text frame — PING replies, CONNECT, ACK replies, CLOSE — goes through this
// same mutex as Emit's header+attachment sequence, so none of them can be
// interleaved into the middle of an EVENT's wire frames.
func (s *Session) send(payload string) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return s.sendLocked("", payload)
}

// sendLocked writes a single text frame; the caller must already hold sendMu.
func (s *Session) sendLocked(corrID, payload string) error {
	logTextFrame(s.logger, s.debug, "out", corrID, payload)
	return s.transport.Send(transport.Frame{Payload: []byte(payload)})
}

func (s *Session) transitionClosing(err error) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = StateClosing
		if s.heartbeatTimer != nil {
			s.heartbeatTimer.Stop()
		}
		s.closeErr = err
		awaiters := s.joinAwaiters
		s.joinAwaiters = nil
		s.mu.Unlock()

		failErr := ErrConnectionLost
		if err != nil {
			failErr = fmt.Errorf("%w: %w", ErrConnectionLost, err)
		}
		s.acks.FailAll(failErr)
		for _, ch := range awaiters {
			ch <- failErr
			close(ch)
		}

		_ = s.transport.Close()

		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()

		if s.callbacks.OnDisconnected != nil {
			go s.callbacks.OnDisconnected(err)
		}
	})
}

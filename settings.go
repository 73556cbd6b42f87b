package socketio

import (
	"net/http"
	"net/url"
	"strings"
)

// Settings configures a Client (spec §6's configuration option table).
type Settings struct {
	// ServerURL is the origin to dial, e.g. "https://example.com" or
	// "wss://example.com". http(s) schemes are rewritten to ws(s).
	ServerURL string

	// HandshakePath is the Engine.IO endpoint path. Empty normalizes to
	// "/socket.io/" (spec §9, Open Question resolved in favor of the
	// engine.io-client default).
	HandshakePath string

	// Headers are sent with the initial WebSocket upgrade request.
	Headers http.Header

	// QueryParams are appended to the handshake URL alongside EIO/transport.
	QueryParams url.Values

	// AuthProvider, if set, supplies the auth payload for each namespace's
	// CONNECT packet.
	AuthProvider AuthProvider

	// DebugPayloads raises frame-level logging to V(1), including every text
	// frame and the humanized length of every binary attachment frame.
	DebugPayloads bool
}

// Normalize fills in defaults and collapses the handshake path the same way
// the teacher's config.Load applies defaults before validating.
func (s *Settings) Normalize() {
	if s.HandshakePath == "" {
		s.HandshakePath = "/socket.io/"
	}
	path := strings.Trim(s.HandshakePath, "/")
	if path == "" {
		s.HandshakePath = "/socket.io/"
	} else {
		s.HandshakePath = "/" + path + "/"
	}
}

// wsURL assembles the full WebSocket URL for the Engine.IO handshake:
// scheme rewritten to ws(s), handshake path, and EIO=4&transport=websocket
// plus any caller-supplied query params. Grounded on
// thatcooperguy-nvremote's buildWebSocketURL.
func (s *Settings) wsURL() string {
	base := s.ServerURL
	base = strings.Replace(base, "https://", "wss://", 1)
	base = strings.Replace(base, "http://", "ws://", 1)
	base = strings.TrimRight(base, "/")

	q := url.Values{}
	for k, v := range s.QueryParams {
		q[k] = append([]string{}, v...)
	}
	q.Set("EIO", "4")
	q.Set("transport", "websocket")

	return base + s.HandshakePath + "?" + q.Encode()
}

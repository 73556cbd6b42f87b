package socketio

import "testing"

func TestSettings_NormalizeDefaultsHandshakePath(t *testing.T) {
	s := Settings{ServerURL: "https://example.com"}
	s.Normalize()
	if s.HandshakePath != "/socket.io/" {
		t.Fatalf("HandshakePath = %q, want /socket.io/", s.HandshakePath)
	}
}

func TestSettings_NormalizeCollapsesSlashes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"socket.io", "/socket.io/"},
		{"/socket.io", "/socket.io/"},
		{"socket.io/", "/socket.io/"},
		{"/custom/path/", "/custom/path/"},
	}
	for _, tt := range tests {
		s := Settings{ServerURL: "https://example.com", HandshakePath: tt.in}
		s.Normalize()
		if s.HandshakePath != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, s.HandshakePath, tt.want)
		}
	}
}

func TestSettings_WsURLRewritesScheme(t *testing.T) {
	tests := []struct {
		serverURL string
		wantHas   string
	}{
		{"https://example.com", "wss://example.com/socket.io/?"},
		{"http://example.com", "ws://example.com/socket.io/?"},
	}
	for _, tt := range tests {
		s := Settings{ServerURL: tt.serverURL}
		s.Normalize()
		got := s.wsURL()
		if len(got) < len(tt.wantHas) || got[:len(tt.wantHas)] != tt.wantHas {
			t.Fatalf("wsURL() = %q, want prefix %q", got, tt.wantHas)
		}
		if !contains(got, "EIO=4") || !contains(got, "transport=websocket") {
			t.Fatalf("wsURL() = %q, missing EIO/transport query params", got)
		}
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

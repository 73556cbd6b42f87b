package socketio

import "testing"

func TestParsePacket(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		wantErr bool
		wantEng EnginePacketType
		probe   bool
	}{
		{"empty", "", true, 0, false},
		{"open", "0", false, EngineOpen, false},
		{"close", "1", false, EngineClose, false},
		{"ping", "2", false, EnginePing, false},
		{"ping probe", "2probe", false, EnginePing, true},
		{"pong", "3", false, EnginePong, false},
		{"upgrade", "5", false, EngineUpgrade, false},
		{"noop", "6", false, EngineNoop, false},
		{"unknown", "9", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePacket(tt.frame)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePacket(%q) expected error", tt.frame)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePacket(%q) unexpected error: %v", tt.frame, err)
			}
			if got.Engine != tt.wantEng {
				t.Fatalf("Engine = %c, want %c", got.Engine, tt.wantEng)
			}
			if got.Probe != tt.probe {
				t.Fatalf("Probe = %v, want %v", got.Probe, tt.probe)
			}
		})
	}
}

func TestParseSocketMessage(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantNil  bool
		wantNS   string
		wantType SocketPacketType
		wantAck  string
		wantName string
	}{
		{"empty", "", true, "", 0, "", ""},
		{"bad type byte", "x", true, "", 0, "", ""},
		{"connect root", "0", false, "/", SocketConnect, "", ""},
		{"connect ns", "0/chat,", false, "/chat", SocketConnect, "", ""},
		{"connect ns no comma", "0/chat", false, "/chat", SocketConnect, "", ""},
		{"event root", `2["ping"]`, false, "/", SocketEvent, "", "ping"},
		{"event with ack", `212["ping",1]`, false, "/", SocketEvent, "12", "ping"},
		{"event ns with ack", `2/chat,12["ping",1]`, false, "/chat", SocketEvent, "12", "ping"},
		{"ack with id", `312[1,2]`, false, "/", SocketAck, "12", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSocketMessage(tt.raw)
			if tt.wantNil {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Namespace != tt.wantNS {
				t.Fatalf("Namespace = %q, want %q", got.Namespace, tt.wantNS)
			}
			if got.Type != tt.wantType {
				t.Fatalf("Type = %c, want %c", got.Type, tt.wantType)
			}
			if got.AckID != tt.wantAck {
				t.Fatalf("AckID = %q, want %q", got.AckID, tt.wantAck)
			}
			if tt.wantName != "" && got.EventName != tt.wantName {
				t.Fatalf("EventName = %q, want %q", got.EventName, tt.wantName)
			}
		})
	}
}

func TestSplitAckID(t *testing.T) {
	tests := []struct {
		raw      string
		wantID   string
		wantRest string
	}{
		{"", "", ""},
		{"abc", "", "abc"},
		{"12[1]", "12", "[1]"},
		{"0", "0", ""},
	}
	for _, tt := range tests {
		id, rest := splitAckID(tt.raw)
		if id != tt.wantID || rest != tt.wantRest {
			t.Fatalf("splitAckID(%q) = (%q,%q), want (%q,%q)", tt.raw, id, rest, tt.wantID, tt.wantRest)
		}
	}
}

func TestEncodeConnect(t *testing.T) {
	tests := []struct {
		ns   string
		auth any
		want string
	}{
		{"/", nil, "0"},
		{"", nil, "0"},
		{"/chat", nil, "0/chat,"},
		{"/chat", map[string]string{"token": "x"}, `0/chat,{"token":"x"}`},
	}
	for _, tt := range tests {
		got := EncodeConnect(tt.ns, tt.auth)
		if got != tt.want {
			t.Fatalf("EncodeConnect(%q) = %q, want %q", tt.ns, got, tt.want)
		}
	}
}

func TestEncodeEvent(t *testing.T) {
	got := EncodeEvent("/", "hello", []any{"world"}, "")
	want := `2["hello","world"]`
	if got != want {
		t.Fatalf("EncodeEvent = %q, want %q", got, want)
	}

	got = EncodeEvent("/chat", "hello", nil, "5")
	want = `2/chat,5["hello"]`
	if got != want {
		t.Fatalf("EncodeEvent with ns+ack = %q, want %q", got, want)
	}
}

func TestEncodeAck(t *testing.T) {
	got := EncodeAck("/", "7", nil)
	if got != `37[]` {
		t.Fatalf("EncodeAck = %q", got)
	}
	got = EncodeAck("/chat", "7", []byte(`["ok"]`))
	if got != `3/chat,7["ok"]` {
		t.Fatalf("EncodeAck with ns = %q", got)
	}
}

func TestRoundTripEventAck(t *testing.T) {
	wire := EncodeEvent("/chat", "ping", []any{1, "two"}, "3")
	msg, err := parseSocketMessage(wire)
	if err != nil {
		t.Fatalf("parseSocketMessage: %v", err)
	}
	if msg.Namespace != "/chat" || msg.EventName != "ping" || msg.AckID != "3" {
		t.Fatalf("unexpected round trip: %+v", msg)
	}
	if string(msg.Args) != `[1,"two"]` {
		t.Fatalf("Args = %s", msg.Args)
	}
}

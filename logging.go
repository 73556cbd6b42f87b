package socketio

import (
	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
)

// logTextFrame logs a full text frame at V(1) when debug payload logging is
// enabled (spec §6's debugPayloads option). corrID, when non-empty, is the
// per-Emit correlation id (see Session.Emit) that lets concurrent emits be
// told apart in the log; inbound frames and single-frame protocol replies
// pass "".
func logTextFrame(log logr.Logger, debug bool, direction, corrID, payload string) {
	if !debug {
		return
	}
	if corrID == "" {
		log.V(1).Info("frame", "dir", direction, "payload", payload)
		return
	}
	log.V(1).Info("frame", "dir", direction, "corrId", corrID, "payload", payload)
}

// logBinaryFrame logs a binary attachment's humanized length rather than its
// contents, since attachment bytes are opaque to this library.
func logBinaryFrame(log logr.Logger, debug bool, direction, corrID string, n int) {
	if !debug {
		return
	}
	if corrID == "" {
		log.V(1).Info("binary frame", "dir", direction, "size", humanize.Bytes(uint64(n)))
		return
	}
	log.V(1).Info("binary frame", "dir", direction, "corrId", corrID, "size", humanize.Bytes(uint64(n)))
}

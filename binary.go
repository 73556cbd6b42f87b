package socketio

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Attachment marks a []byte value inside an Emit/Request args list that must
// travel as a separate binary WebSocket frame, with a placeholder left in its
// place in the JSON payload (spec §4.1). The library does not interpret
// attachment contents; it only carries them across the wire in order.
type Attachment []byte

type binaryPlaceholder struct {
	Placeholder bool `json:"_placeholder"`
	Num         int  `json:"num"`
}

// encodeArgs walks args, replacing Attachment values with binary placeholders
// and collecting the raw bytes in placeholder order.
func encodeArgs(args []any) (encoded []any, attachments [][]byte) {
	encoded = make([]any, len(args))
	for i, a := range args {
		if b, ok := a.(Attachment); ok {
			encoded[i] = binaryPlaceholder{Placeholder: true, Num: len(attachments)}
			attachments = append(attachments, []byte(b))
			continue
		}
		encoded[i] = a
	}
	return encoded, attachments
}

// encodeEventFrame builds the text header for an outbound EVENT, promoting it
// to a BinaryEvent when args carries any Attachment values, and returns the
// attachment frames that must follow it on the wire in placeholder order.
func encodeEventFrame(namespace, event string, args []any, ackID string) (string, [][]byte) {
	encodedArgs, attachments := encodeArgs(args)
	payload := append([]any{event}, encodedArgs...)
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte(`["` + event + `"]`)
	}

	var b strings.Builder
	if len(attachments) > 0 {
		b.WriteByte(byte(SocketBinaryEvent))
		b.WriteString(strconv.Itoa(len(attachments)))
		b.WriteByte('-')
	} else {
		b.WriteByte(byte(SocketEvent))
	}
	writeNamespace(&b, namespace)
	b.WriteString(ackID)
	b.Write(raw)
	return b.String(), attachments
}

// EncodeEvent serializes an outbound EVENT with no binary attachments.
func EncodeEvent(namespace, event string, args []any, ackID string) string {
	text, _ := encodeEventFrame(namespace, event, args, ackID)
	return text
}

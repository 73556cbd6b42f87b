package socketio

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Handler is invoked when a matching EVENT arrives. It receives the event's
// raw JSON args array and may return a reply args array to be sent back as an
// ACK when the inbound packet carried an ack id.
type Handler func(args json.RawMessage) (json.RawMessage, error)

type subscriberKey struct {
	namespace string
	event     string
}

// SubscriberRegistry maps (namespace,event) to a Handler. It is populated
// before Start and is read-only for the rest of the Session's life (spec
// §4.3). Grounded on the teacher's TerminalRegistry multi-index pattern,
// narrowed to the single key this spec needs.
type SubscriberRegistry struct {
	mu       sync.RWMutex
	handlers map[subscriberKey]Handler
}

// NewSubscriberRegistry returns an empty registry.
func NewSubscriberRegistry() *SubscriberRegistry {
	return &SubscriberRegistry{handlers: make(map[subscriberKey]Handler)}
}

// Register adds a handler for (namespace,event). Namespace "" is normalized
// to "/". Registering the same pair twice is rejected, mirroring
// TerminalRegistry.Register's conflict-reason return shape.
func (r *SubscriberRegistry) Register(namespace, event string, handler Handler) error {
	if namespace == "" {
		namespace = "/"
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := subscriberKey{namespace, event}
	if _, exists := r.handlers[key]; exists {
		return fmt.Errorf("%w: %s %s", ErrDuplicateSubscriber, namespace, event)
	}
	r.handlers[key] = handler
	return nil
}

// Lookup returns the handler registered for (namespace,event), if any.
func (r *SubscriberRegistry) Lookup(namespace, event string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[subscriberKey{namespace, event}]
	return h, ok
}

// Namespaces returns every distinct namespace that has at least one
// registered handler, in no particular order. The Session CONNECTs to each
// of these on handshake completion.
func (r *SubscriberRegistry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	for key := range r.handlers {
		seen[key.namespace] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for ns := range seen {
		out = append(out, ns)
	}
	return out
}

package session

import "sync"

// Registry tracks live messages by message ID so that inbound gateway
// reaction events can be routed back to the owning session. Entries are
// inserted on send and removed on close.
type Registry struct {
	mu       sync.RWMutex
	messages map[string]*LiveMessage
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		messages: make(map[string]*LiveMessage),
	}
}

// Register indexes a live message under its current message ID.
func (r *Registry) Register(m *LiveMessage) {
	id := m.MessageID()
	if id == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[id] = m
}

// Deregister removes the entry for a message ID.
func (r *Registry) Deregister(messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, messageID)
}

// Lookup returns the live message bound to a message ID, if any.
func (r *Registry) Lookup(messageID string) (*LiveMessage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.messages[messageID]
	return m, ok
}

// Len returns the number of registered live messages.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages)
}

// DefaultRegistry is the process-wide registry used when a session is not
// given an explicit one.
var DefaultRegistry = NewRegistry()

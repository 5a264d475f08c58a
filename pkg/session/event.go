package session

import (
	"sync"

	"github.com/parlorbot/parlor/internal/discord"
)

// EventType identifies a session lifecycle or reaction event.
type EventType int

const (
	// EventReady fires once the reaction interface is fully attached.
	EventReady EventType = iota
	// EventCreate fires when the bound message is created on the gateway.
	EventCreate
	// EventUpdate fires after every successful edit of the bound message.
	EventUpdate
	// EventDelete fires when the bound message is removed from the gateway.
	EventDelete
	// EventClose fires when the session detaches from the gateway.
	EventClose
	// EventEnd fires after close, once the session is inert.
	EventEnd
	// EventReactionAdd forwards a raw reaction-added gateway event.
	EventReactionAdd
	// EventReactionRemove forwards a raw reaction-removed gateway event.
	EventReactionRemove
)

// Event is delivered to subscribers of a LiveMessage. Token and UserID are
// only set for reaction events. Session carries the gateway handle the event
// was delivered with, so subscribers can act on it.
type Event struct {
	Type    EventType
	Token   string
	UserID  string
	Session discord.SessionHandler
}

// bus is a minimal pub/sub primitive scoped to one session instance.
type bus struct {
	mu   sync.Mutex
	subs []func(Event)
}

func (b *bus) subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// emit delivers the event to every subscriber. Subscribers are invoked
// outside the bus lock so they may subscribe or emit themselves.
func (b *bus) emit(ev Event) {
	b.mu.Lock()
	subs := make([]func(Event), len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// clear drops all subscribers, making the bus inert.
func (b *bus) clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil
}

package session

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/parlorbot/parlor/internal/discord"
	"github.com/parlorbot/parlor/internal/logging"
	"github.com/parlorbot/parlor/internal/types"
)

// Reserved control tokens. CloseToken is always part of a reaction
// interface; the others are attached when the session enables them.
const (
	CloseToken   = "🛑"
	RestartToken = "🔄"
	HelpToken    = "❓"
)

const (
	// How long to wait between reaction placements during interface setup.
	// Discord rate-limits reaction calls aggressively.
	reactionDelay = 300 * time.Millisecond

	// Bounded wait for message creation before attaching reactions.
	setupRetryInterval = 250 * time.Millisecond
	setupMaxRetries    = 8
)

// LiveMessage owns the binding between one chat message and a dynamic set of
// reaction tokens. It is the sole bridge to the messaging gateway: sessions
// talk to Discord only through this layer or by embedding it.
//
// Every gateway-facing operation is best-effort. Failures are logged and
// swallowed; a failed render must not crash the turn loop, the next state
// change gets another chance to render.
type LiveMessage struct {
	mu       sync.Mutex
	registry *Registry
	logger   *logging.Logger
	bus      bus

	channelID string
	messageID string
	content   string
	embed     *discordgo.MessageEmbed
	reactions map[string]int
	closed    bool
}

// NewLiveMessage creates an in-memory live message bound to a channel. The
// remote message does not exist until Send is called. A nil registry selects
// DefaultRegistry.
func NewLiveMessage(registry *Registry, channelID string) *LiveMessage {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &LiveMessage{
		registry:  registry,
		logger:    logging.Default,
		channelID: channelID,
		reactions: make(map[string]int),
	}
}

// ChannelID returns the bound channel.
func (m *LiveMessage) ChannelID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channelID
}

// MessageID returns the bound message ID. It is empty exactly while the
// message does not exist on the gateway.
func (m *LiveMessage) MessageID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messageID
}

// Closed reports whether the message has been detached.
func (m *LiveMessage) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SetContent replaces the plain-text body used on the next send or edit.
func (m *LiveMessage) SetContent(content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = content
}

// SetEmbed replaces the embed used on the next send or edit.
func (m *LiveMessage) SetEmbed(embed *discordgo.MessageEmbed) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embed = embed
}

// Embed returns the current embed.
func (m *LiveMessage) Embed() *discordgo.MessageEmbed {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embed
}

// ReactionCount returns the tracked count for a token. The count covers
// participant placements only; the framework's own placement is the map
// entry itself.
func (m *LiveMessage) ReactionCount(token string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reactions[token]
}

// HasReaction reports whether the framework has placed a token on the message.
func (m *LiveMessage) HasReaction(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.reactions[token]
	return ok
}

// Subscribe registers a callback for session events. Subscriptions are torn
// down when the message closes.
func (m *LiveMessage) Subscribe(fn func(Event)) {
	m.bus.subscribe(fn)
}

// Send creates the remote message and registers the instance in the
// registry so inbound reaction events can be routed back. A no-op when the
// message already exists or the session is closed.
func (m *LiveMessage) Send(s discord.SessionHandler) {
	m.mu.Lock()
	if m.closed || m.messageID != "" {
		m.mu.Unlock()
		return
	}
	channelID, content, embed := m.channelID, m.content, m.embed
	m.mu.Unlock()

	data := &discordgo.MessageSend{Content: content}
	if embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{embed}
	}
	msg, err := s.ChannelMessageSendComplex(channelID, data)
	if err != nil {
		m.logger.LogError(types.WrapError(types.ErrNetworkError, "failed to send live message", err))
		return
	}

	m.mu.Lock()
	m.messageID = msg.ID
	m.mu.Unlock()

	m.registry.Register(m)
	m.bus.emit(Event{Type: EventCreate, Session: s})
}

// Edit pushes the current content and embed to the remote message.
func (m *LiveMessage) Edit(s discord.SessionHandler) {
	m.mu.Lock()
	if m.closed || m.messageID == "" {
		m.mu.Unlock()
		return
	}
	channelID, messageID, content, embed := m.channelID, m.messageID, m.content, m.embed
	m.mu.Unlock()

	edit := &discordgo.MessageEdit{
		Channel: channelID,
		ID:      messageID,
		Content: &content,
	}
	if embed != nil {
		edit.Embeds = &[]*discordgo.MessageEmbed{embed}
	}
	if _, err := s.ChannelMessageEditComplex(edit); err != nil {
		m.logger.LogError(types.WrapError(types.ErrNetworkError, "failed to edit live message", err))
		return
	}
	m.bus.emit(Event{Type: EventUpdate, Session: s})
}

// Delete removes the remote message and closes the session.
func (m *LiveMessage) Delete(s discord.SessionHandler) {
	m.mu.Lock()
	channelID, messageID := m.channelID, m.messageID
	m.mu.Unlock()

	if messageID != "" {
		if err := s.ChannelMessageDelete(channelID, messageID); err != nil {
			m.logger.LogError(types.WrapError(types.ErrNetworkError, "failed to delete live message", err))
		}
	}
	m.bus.emit(Event{Type: EventDelete, Session: s})
	m.Close(s)
}

// Close detaches the session: it deregisters from the registry, clears the
// message binding, marks the instance closed and tears down all event
// subscriptions. The remote message, if any, is left in place.
func (m *LiveMessage) Close(s discord.SessionHandler) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	messageID := m.messageID
	m.messageID = ""
	m.closed = true
	m.mu.Unlock()

	m.bus.emit(Event{Type: EventClose, Session: s})
	if messageID != "" {
		m.registry.Deregister(messageID)
	}
	m.bus.emit(Event{Type: EventEnd, Session: s})

	// Subscribers saw close and end; nothing further will be delivered.
	m.bus.clear()
}

// AddReaction places a token on the message and starts tracking it.
func (m *LiveMessage) AddReaction(s discord.SessionHandler, token string) {
	m.mu.Lock()
	if m.closed || m.messageID == "" {
		m.mu.Unlock()
		return
	}
	channelID, messageID := m.channelID, m.messageID
	if _, ok := m.reactions[token]; !ok {
		m.reactions[token] = 0
	}
	m.mu.Unlock()

	if err := s.MessageReactionAdd(channelID, messageID, token); err != nil {
		m.logger.LogError(types.WrapError(types.ErrNetworkError, "failed to add reaction "+token, err))
	}
}

// RemoveReaction removes one placement of a token. With an empty userID the
// framework's own placement is removed and the token stops being tracked;
// with a userID only that participant's placement is removed. Participant
// counts are adjusted when the gateway echoes the removal back through
// DeliverReaction, not here.
func (m *LiveMessage) RemoveReaction(s discord.SessionHandler, token string, userID string) {
	m.mu.Lock()
	if m.messageID == "" {
		m.mu.Unlock()
		return
	}
	channelID, messageID := m.channelID, m.messageID
	if userID == "" {
		delete(m.reactions, token)
	}
	m.mu.Unlock()

	target := userID
	if target == "" {
		target = "@me"
	}
	if err := s.MessageReactionRemove(channelID, messageID, token, target); err != nil {
		m.logger.LogError(types.WrapError(types.ErrNetworkError, "failed to remove reaction "+token, err))
	}
}

// ClearReactions removes every token from the message and resets tracking.
func (m *LiveMessage) ClearReactions(s discord.SessionHandler) {
	m.mu.Lock()
	if m.messageID == "" {
		m.mu.Unlock()
		return
	}
	channelID, messageID := m.channelID, m.messageID
	m.reactions = make(map[string]int)
	m.mu.Unlock()

	if err := s.MessageReactionsRemoveAll(channelID, messageID); err != nil {
		m.logger.LogError(types.WrapError(types.ErrNetworkError, "failed to clear reactions", err))
	}
}

// SetupReactionInterface ensures the message exists and carries the given
// tokens, then emits EventReady. The close token is always attached even if
// omitted. Tokens already present are skipped, so the call is idempotent
// against partial completion. Placements are paced to respect gateway rate
// limits.
func (m *LiveMessage) SetupReactionInterface(s discord.SessionHandler, tokens []string) {
	if m.Closed() {
		return
	}
	if m.MessageID() == "" {
		m.Send(s)
	}
	for i := 0; m.MessageID() == "" && i < setupMaxRetries; i++ {
		time.Sleep(setupRetryInterval)
	}
	if m.MessageID() == "" {
		m.logger.LogError(types.NewGameError(types.ErrSessionNotSent, "message never materialized, giving up on reaction interface"))
		return
	}

	hasClose := false
	for _, token := range tokens {
		if token == CloseToken {
			hasClose = true
			break
		}
	}
	if !hasClose {
		tokens = append(tokens, CloseToken)
	}

	for _, token := range tokens {
		if m.HasReaction(token) {
			continue
		}
		m.AddReaction(s, token)
		time.Sleep(reactionDelay)
	}
	m.bus.emit(Event{Type: EventReady, Session: s})
}

// DeliverReaction routes a raw gateway reaction event into the session. The
// bot layer calls this after looking the instance up in the registry.
func (m *LiveMessage) DeliverReaction(s discord.SessionHandler, added bool, token string, userID string) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if _, ok := m.reactions[token]; ok {
		if added {
			m.reactions[token]++
		} else if m.reactions[token] > 0 {
			m.reactions[token]--
		}
	}
	m.mu.Unlock()

	evType := EventReactionRemove
	if added {
		evType = EventReactionAdd
	}
	m.bus.emit(Event{Type: evType, Token: token, UserID: userID, Session: s})
}

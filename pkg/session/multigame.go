package session

import (
	"github.com/bwmarrin/discordgo"
	"github.com/parlorbot/parlor/internal/discord"
	"github.com/parlorbot/parlor/internal/logging"
	"github.com/parlorbot/parlor/internal/types"
)

// MultiGame is a session variant that additionally binds one private
// LiveMessage per human player, for concealed per-player state such as a
// hidden hand. The shared message works exactly as in Game; private views
// are composed by the rules' PrivateRenderer hook and follow every update of
// the shared message.
type MultiGame struct {
	*Game

	registry *Registry
	private  map[string]*LiveMessage // player ID -> DM live message
}

// NewMultiGame constructs a multi-message session. Arguments mirror NewGame.
func NewMultiGame(name string, rules Rules, gameType GameType, cfg Config, registry *Registry, channelID string, starter *discordgo.User, others ...*discordgo.User) (*MultiGame, error) {
	g, err := NewGame(name, rules, gameType, cfg, registry, channelID, starter, others...)
	if err != nil {
		return nil, err
	}

	m := &MultiGame{
		Game:     g,
		registry: registry,
		private:  make(map[string]*LiveMessage),
	}

	// Fan out shared-message updates to the private views, and tear the
	// private views down with the session.
	m.Subscribe(func(ev Event) {
		switch ev.Type {
		case EventUpdate:
			m.updatePrivate(ev.Session)
		case EventClose:
			m.closePrivate(ev.Session)
		}
	})

	return m, nil
}

// Start establishes each human player's private interface first, then
// delegates to the shared session start. A private channel that cannot be
// created degrades that player to the shared view only.
func (m *MultiGame) Start(s discord.SessionHandler) error {
	for _, p := range m.UserPlayers() {
		ch, err := s.UserChannelCreate(p.ID())
		if err != nil {
			logging.Default.LogError(types.WrapError(types.ErrNetworkError,
				"failed to open private channel for "+p.Username(), err))
			continue
		}
		lm := NewLiveMessage(m.registry, ch.ID)
		lm.SetEmbed(m.renderPrivate(p))
		lm.Send(s)
		m.private[p.ID()] = lm
	}

	return m.Game.Start(s)
}

// PrivateMessage returns a player's private live message, if one was bound.
func (m *MultiGame) PrivateMessage(playerID string) *LiveMessage {
	return m.private[playerID]
}

func (m *MultiGame) renderPrivate(p *Player) *discordgo.MessageEmbed {
	renderer, ok := m.rules.(PrivateRenderer)
	if !ok {
		return nil
	}
	return renderer.RenderPrivate(m, p)
}

func (m *MultiGame) updatePrivate(s discord.SessionHandler) {
	for _, p := range m.UserPlayers() {
		lm := m.private[p.ID()]
		if lm == nil || lm.Closed() {
			continue
		}
		embed := m.renderPrivate(p)
		if embed == nil {
			continue
		}
		lm.SetEmbed(embed)
		lm.Edit(s)
	}
}

func (m *MultiGame) closePrivate(s discord.SessionHandler) {
	for _, lm := range m.private {
		lm.Close(s)
	}
}

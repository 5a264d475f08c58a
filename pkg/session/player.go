package session

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Player wraps a participant identity with per-round mutable state. Identity
// is fixed for the session's lifetime; Init resets everything else at setup
// and on every restart.
type Player struct {
	User *discordgo.User

	// Auto marks a player whose moves are generated by the framework.
	// Always true for bot identities; cleared for a human the moment they
	// make a real move.
	Auto bool

	// Forfeited and Reason record that the player gave up (or was forfeited
	// by the turn timer) and why.
	Forfeited bool
	Reason    string

	// Avatar is an optional display token distinguishing players on a
	// shared board.
	Avatar string

	active bool
}

// NewPlayer wraps a participant in fresh round state.
func NewPlayer(user *discordgo.User) *Player {
	p := &Player{User: user}
	p.Init()
	return p
}

// NewBotPlayer synthesizes an automated participant. IDs are stable per slot
// so restarts keep the same roster.
func NewBotPlayer(n int) *Player {
	return NewPlayer(&discordgo.User{
		ID:       fmt.Sprintf("cpu:%d", n),
		Username: fmt.Sprintf("CPU %d", n),
		Bot:      true,
	})
}

// ID returns the participant's gateway ID.
func (p *Player) ID() string {
	return p.User.ID
}

// Username returns the participant's display name.
func (p *Player) Username() string {
	return p.User.Username
}

// IsBot reports whether the participant is an automated identity.
func (p *Player) IsBot() bool {
	return p.User.Bot
}

// Init resets per-round mutable state without discarding identity.
func (p *Player) Init() {
	p.Auto = p.User.Bot
	p.active = true
	p.Forfeited = false
	p.Reason = ""
}

// Forfeit marks the player as having given up. It does not change the
// active flag; callers decide whether the player also leaves turn rotation.
func (p *Player) Forfeit(reason string) {
	p.Forfeited = true
	p.Reason = reason
}

// Active reports whether the player participates in turn rotation.
func (p *Player) Active() bool {
	return p.active
}

// Inactive is the complement of Active.
func (p *Player) Inactive() bool {
	return !p.active
}

// SetActive flips the active/inactive pair.
func (p *Player) SetActive(active bool) {
	p.active = active
}

// DisplayName returns the avatar-prefixed name used in boards and rosters.
func (p *Player) DisplayName() string {
	if p.Avatar != "" {
		return p.Avatar + " " + p.Username()
	}
	return p.Username()
}

package session

import (
	"fmt"

	"github.com/parlorbot/parlor/internal/types"
)

// GameType selects a named options preset.
type GameType string

const (
	GameTypeCasual      GameType = "casual"
	GameTypeCooperative GameType = "cooperative"
	GameTypeCompetitive GameType = "competitive"
)

// Options is the fully-resolved session configuration. It is produced by
// ResolveOptions and never mutated afterwards.
type Options struct {
	MinPlayers    int
	MaxPlayers    int
	MinBotPlayers int
	MaxBotPlayers int

	// MaxTurns forces a tie once exceeded; <= 0 disables the rule.
	MaxTurns int

	// TimeLimit is the per-turn countdown in seconds for human players;
	// <= 0 disables the countdown.
	TimeLimit int

	CanRestart     bool
	ShufflePlayers bool
	ShowSpectators bool

	// Tokens are the gameplay reaction tokens, in display order. A session
	// cannot start without at least one.
	Tokens []string

	// Avatars are optional per-player display tokens, assigned by roster
	// position at every init.
	Avatars []string

	// HowToPlay is shown when a player presses the help token.
	HowToPlay string
}

// Config is a partial options override supplied by a concrete game. Nil
// fields keep the value from the layer below.
type Config struct {
	MinPlayers    *int
	MaxPlayers    *int
	MinBotPlayers *int
	MaxBotPlayers *int
	MaxTurns      *int
	TimeLimit     *int

	CanRestart     *bool
	ShufflePlayers *bool
	ShowSpectators *bool

	Tokens    []string
	Avatars   []string
	HowToPlay string
}

// Int returns a pointer to v, for building Config literals.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for building Config literals.
func Bool(v bool) *bool { return &v }

// DefaultOptions returns the hardcoded global defaults.
func DefaultOptions() Options {
	return Options{
		MinPlayers:    1,
		MaxPlayers:    2,
		MinBotPlayers: 0,
		MaxBotPlayers: 1,
		MaxTurns:      1000,
		TimeLimit:     30,
	}
}

// presetConfig returns the override layer for a named game type.
func presetConfig(gameType GameType) Config {
	switch gameType {
	case GameTypeCasual:
		return Config{
			CanRestart: Bool(true),
			TimeLimit:  Int(60),
		}
	case GameTypeCooperative:
		return Config{
			MaxPlayers:     Int(4),
			CanRestart:     Bool(true),
			ShowSpectators: Bool(true),
		}
	case GameTypeCompetitive:
		return Config{
			MinPlayers:     Int(2),
			ShufflePlayers: Bool(true),
			ShowSpectators: Bool(true),
		}
	default:
		return Config{}
	}
}

// apply overlays the set fields of c onto o.
func (c Config) apply(o *Options) {
	if c.MinPlayers != nil {
		o.MinPlayers = *c.MinPlayers
	}
	if c.MaxPlayers != nil {
		o.MaxPlayers = *c.MaxPlayers
	}
	if c.MinBotPlayers != nil {
		o.MinBotPlayers = *c.MinBotPlayers
	}
	if c.MaxBotPlayers != nil {
		o.MaxBotPlayers = *c.MaxBotPlayers
	}
	if c.MaxTurns != nil {
		o.MaxTurns = *c.MaxTurns
	}
	if c.TimeLimit != nil {
		o.TimeLimit = *c.TimeLimit
	}
	if c.CanRestart != nil {
		o.CanRestart = *c.CanRestart
	}
	if c.ShufflePlayers != nil {
		o.ShufflePlayers = *c.ShufflePlayers
	}
	if c.ShowSpectators != nil {
		o.ShowSpectators = *c.ShowSpectators
	}
	if c.Tokens != nil {
		o.Tokens = c.Tokens
	}
	if c.Avatars != nil {
		o.Avatars = c.Avatars
	}
	if c.HowToPlay != "" {
		o.HowToPlay = c.HowToPlay
	}
}

// ResolveOptions merges the three configuration layers, later layers
// overriding earlier: global defaults, the named preset, then the game's own
// config. The result is validated before use.
func ResolveOptions(gameType GameType, cfg Config) (Options, error) {
	opts := DefaultOptions()
	presetConfig(gameType).apply(&opts)
	cfg.apply(&opts)

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate enforces the documented constraints on player counts. Any
// violation fails session construction.
func (o Options) Validate() error {
	if o.MaxPlayers < 1 {
		return types.NewGameError(types.ErrInvalidOptions,
			fmt.Sprintf("maxPlayers must be at least 1, got %d", o.MaxPlayers))
	}
	if o.MaxBotPlayers < 0 {
		return types.NewGameError(types.ErrInvalidOptions,
			fmt.Sprintf("maxBotPlayers must not be negative, got %d", o.MaxBotPlayers))
	}
	if o.MinPlayers > o.MaxPlayers {
		return types.NewGameError(types.ErrInvalidOptions,
			fmt.Sprintf("minPlayers %d exceeds maxPlayers %d", o.MinPlayers, o.MaxPlayers))
	}
	if o.MinBotPlayers > o.MaxBotPlayers {
		return types.NewGameError(types.ErrInvalidOptions,
			fmt.Sprintf("minBotPlayers %d exceeds maxBotPlayers %d", o.MinBotPlayers, o.MaxBotPlayers))
	}
	if o.MinBotPlayers > o.MaxPlayers {
		return types.NewGameError(types.ErrInvalidOptions,
			fmt.Sprintf("minBotPlayers %d exceeds maxPlayers %d", o.MinBotPlayers, o.MaxPlayers))
	}
	return nil
}

package session

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/parlorbot/parlor/internal/discord"
	"github.com/parlorbot/parlor/internal/types"
)

const (
	// Delay before an automated player's move, so bot turns read as turns
	// instead of the board flickering through several states at once.
	botMoveDelay = 1500 * time.Millisecond

	// Countdown resolution for the per-turn timer.
	timerInterval = time.Second
)

// Embed accent colors.
const (
	colorDefault = 0x5865F2
	colorOver    = 0x57F287
	colorError   = 0xED4245
)

// Game is the turn-based state machine layered on a LiveMessage. It owns the
// player roster, turn pointer, per-turn timer, close/restart voting and embed
// composition; the Rules value owns the board.
//
// All event entry points (reactions, timer firings, scheduled bot moves, and
// the exported mutating methods) serialize on one mutex, mirroring the
// single event loop the framework is modeled on. Rules hooks run inside that
// critical section and may use any accessor freely.
type Game struct {
	*LiveMessage

	mu    sync.Mutex
	rules Rules
	opts  Options
	name  string

	gameType  GameType
	players   []*Player
	playerIdx int
	turns     int
	outcome   Outcome
	timer     int
	help      bool
	moveErr   error

	closeVotes   int
	restartVotes int

	// moveSeq increments whenever the turn state changes. Scheduled
	// callbacks capture it and bail if the session moved on without them.
	moveSeq   int
	timerStop chan struct{}

	started   bool
	startedAt time.Time
}

// NewGame constructs a session in the given channel. The starter is always
// part of the roster; if the resolved options require more players, the
// roster is topped up with automated participants within the configured bot
// bounds. Construction fails before any gateway call when the configuration
// or roster is invalid.
func NewGame(name string, rules Rules, gameType GameType, cfg Config, registry *Registry, channelID string, starter *discordgo.User, others ...*discordgo.User) (*Game, error) {
	if rules == nil {
		return nil, types.NewGameError(types.ErrInternalError, "rules cannot be nil")
	}
	if starter == nil {
		return nil, types.NewGameError(types.ErrNotEnoughPlayers, "a session needs a starting participant")
	}

	opts, err := ResolveOptions(gameType, cfg)
	if err != nil {
		return nil, err
	}

	users := append([]*discordgo.User{starter}, others...)

	// Top up with automated participants: at least MinBotPlayers, more if
	// the humans alone do not satisfy MinPlayers.
	bots := opts.MinBotPlayers
	if len(users)+bots < opts.MinPlayers {
		bots = opts.MinPlayers - len(users)
	}
	if bots > opts.MaxBotPlayers {
		if len(users)+opts.MaxBotPlayers < opts.MinPlayers {
			return nil, types.NewGameError(types.ErrNotEnoughPlayers,
				fmt.Sprintf("need %d players but only %d joined and at most %d bots may fill in",
					opts.MinPlayers, len(users), opts.MaxBotPlayers))
		}
		bots = opts.MaxBotPlayers
	}
	if len(users)+bots > opts.MaxPlayers {
		return nil, types.NewGameError(types.ErrTooManyPlayers,
			fmt.Sprintf("at most %d players allowed, got %d", opts.MaxPlayers, len(users)+bots))
	}
	if bots < opts.MinBotPlayers {
		return nil, types.NewGameError(types.ErrNotEnoughBots,
			fmt.Sprintf("at least %d bot players required", opts.MinBotPlayers))
	}

	players := make([]*Player, 0, len(users)+bots)
	for _, u := range users {
		players = append(players, NewPlayer(u))
	}
	for i := 0; i < bots; i++ {
		players = append(players, NewBotPlayer(i + 1))
	}

	g := &Game{
		LiveMessage: NewLiveMessage(registry, channelID),
		rules:       rules,
		opts:        opts,
		name:        name,
		gameType:    gameType,
		players:     players,
	}
	g.initLocked()

	// Route raw reaction events from the live message into move handling.
	g.Subscribe(func(ev Event) {
		switch ev.Type {
		case EventReactionAdd:
			g.handleReaction(ev.Session, true, ev.Token, ev.UserID)
		case EventReactionRemove:
			g.handleReaction(ev.Session, false, ev.Token, ev.UserID)
		}
	})

	return g, nil
}

// Accessors. Safe to call from Rules hooks; see the Game doc comment for the
// serialization model.

// Name returns the session's display name.
func (g *Game) Name() string { return g.name }

// GameType returns the preset the session was created with.
func (g *Game) GameType() GameType { return g.gameType }

// Options returns the resolved configuration.
func (g *Game) Options() Options { return g.opts }

// Players returns the full roster in turn order.
func (g *Game) Players() []*Player { return g.players }

// Player returns the current turn-holder.
func (g *Game) Player() *Player { return g.players[g.playerIdx] }

// PlayerNumber returns the 1-based roster number of the current turn-holder,
// used for compact board encodings.
func (g *Game) PlayerNumber() int { return g.playerIdx + 1 }

// Avatar returns the configured display token of the current turn-holder.
func (g *Game) Avatar() string { return g.Player().Avatar }

// Turns returns the 1-based count of completed turns.
func (g *Game) Turns() int { return g.turns }

// StartedAt reports when the current round began.
func (g *Game) StartedAt() time.Time { return g.startedAt }

// Outcome returns the session result; undecided while play continues.
func (g *Game) Outcome() Outcome { return g.outcome }

// TimeRemaining returns the seconds left in the current turn; zero or
// negative means no countdown is enforced.
func (g *Game) TimeRemaining() int { return g.timer }

// HelpShown reports whether the how-to-play text is displayed.
func (g *Game) HelpShown() bool { return g.help }

// MoveErr returns the error recorded by the last failing move, if any.
func (g *Game) MoveErr() error { return g.moveErr }

// CloseVotes returns the running close-vote count.
func (g *Game) CloseVotes() int { return g.closeVotes }

// RestartVotes returns the running restart-vote count.
func (g *Game) RestartVotes() int { return g.restartVotes }

// UserPlayers returns the human part of the roster.
func (g *Game) UserPlayers() []*Player {
	return g.filterPlayers(func(p *Player) bool { return !p.IsBot() })
}

// BotPlayers returns the automated part of the roster.
func (g *Game) BotPlayers() []*Player {
	return g.filterPlayers(func(p *Player) bool { return p.IsBot() })
}

// ActivePlayers returns the players still in turn rotation.
func (g *Game) ActivePlayers() []*Player {
	return g.filterPlayers(func(p *Player) bool { return p.Active() })
}

// InactivePlayers returns players out of rotation or forfeited.
func (g *Game) InactivePlayers() []*Player {
	return g.filterPlayers(func(p *Player) bool { return p.Inactive() || p.Forfeited })
}

// ForfeitedPlayers returns the players who gave up.
func (g *Game) ForfeitedPlayers() []*Player {
	return g.filterPlayers(func(p *Player) bool { return p.Forfeited })
}

// OtherPlayers returns everyone but the current turn-holder.
func (g *Game) OtherPlayers() []*Player {
	current := g.Player()
	return g.filterPlayers(func(p *Player) bool { return p != current })
}

// PlayerByID finds a roster member by participant ID.
func (g *Game) PlayerByID(id string) *Player {
	for _, p := range g.players {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

func (g *Game) filterPlayers(keep func(*Player) bool) []*Player {
	out := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Init resets all round-scoped state, reshuffles the roster when configured
// and reassigns avatars. Called at setup and again on every restart; player
// identities survive.
func (g *Game) Init() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initLocked()
}

func (g *Game) initLocked() {
	g.stopTimerLocked()
	g.moveSeq++

	g.outcome = Undecided()
	g.turns = 1
	g.playerIdx = 0
	g.help = false
	g.moveErr = nil
	g.closeVotes = 0
	g.restartVotes = 0
	g.startedAt = time.Now()

	for _, p := range g.players {
		p.Init()
	}
	if g.opts.ShufflePlayers {
		rand.Shuffle(len(g.players), func(i, j int) {
			g.players[i], g.players[j] = g.players[j], g.players[i]
		})
	}
	for i, p := range g.players {
		if i < len(g.opts.Avatars) {
			p.Avatar = g.opts.Avatars[i]
		}
	}

	g.timer = g.turnBudget()

	if init, ok := g.rules.(RoundInitializer); ok {
		init.InitRound(g)
	}
}

// turnBudget returns the countdown for the current turn-holder: zero for
// automated players, the configured limit otherwise.
func (g *Game) turnBudget() int {
	if g.Player().Auto {
		return 0
	}
	return g.opts.TimeLimit
}

// Start builds the reaction interface and opens play: the board is rendered,
// the message sent, gameplay and control tokens attached, and the first turn
// scheduled. It fails synchronously when the game declares no gameplay
// tokens or the message cannot be created.
func (g *Game) Start(s discord.SessionHandler) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return types.NewGameError(types.ErrGameInProgress, "session already started")
	}
	if len(g.opts.Tokens) == 0 {
		return types.NewGameError(types.ErrNoGameplayTokens, "a game must declare at least one gameplay token")
	}

	g.updateEmbedLocked()
	g.Send(s)
	if g.MessageID() == "" {
		return types.NewGameError(types.ErrNetworkError, "could not create the session message")
	}

	tokens := make([]string, 0, len(g.opts.Tokens)+3)
	tokens = append(tokens, g.opts.Tokens...)
	if g.opts.HowToPlay != "" {
		tokens = append(tokens, HelpToken)
	}
	if g.opts.CanRestart {
		tokens = append(tokens, RestartToken)
	}
	tokens = append(tokens, CloseToken)
	g.SetupReactionInterface(s, tokens)

	g.started = true
	g.startMoveLocked(s)
	return nil
}

// StartMove schedules the current turn: an automated player gets a delayed
// framework-driven move, a human gets the countdown timer.
func (g *Game) StartMove(s discord.SessionHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.startMoveLocked(s)
}

func (g *Game) startMoveLocked(s discord.SessionHandler) {
	if g.Closed() || g.outcome.Decided() {
		return
	}

	if g.Player().Auto {
		seq := g.moveSeq
		time.AfterFunc(botMoveDelay, func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			// The session may have closed, restarted or had its
			// turn-holder act manually while we slept.
			if g.Closed() || g.moveSeq != seq || !g.Player().Auto {
				return
			}
			if err := g.safeBotMove(s); err != nil {
				g.moveErr = err
				g.updateEmbedLocked()
				g.Edit(s)
				return
			}
			g.finishMoveLocked(s)
		})
		return
	}

	g.startTimerLocked(s)
}

// FinishMove resolves the current turn: the timer stops, the turn pointer
// rotates to the next active player, and the session outcome is computed.
func (g *Game) FinishMove(s discord.SessionHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.finishMoveLocked(s)
}

func (g *Game) finishMoveLocked(s discord.SessionHandler) {
	g.stopTimerLocked()
	g.moveSeq++

	// Rotate to the next active player, skipping inactive ones. With no
	// active players at all the pointer stays put.
	n := len(g.players)
	for i := 1; i <= n; i++ {
		idx := (g.playerIdx + i) % n
		if g.players[idx].Active() {
			g.playerIdx = idx
			break
		}
	}

	g.timer = g.turnBudget()

	// Sole-survivor rule: with more than one player, the last one not to
	// have forfeited wins outright, bypassing the game's own win check.
	if survivor := g.soleSurvivor(); survivor != nil {
		g.outcome = WonBy(survivor)
	} else {
		g.outcome = g.safeCheckWin()
		if g.outcome.Kind == OutcomeWinnerNumber {
			if k := g.outcome.Number; k >= 1 && k <= n {
				g.outcome = WonBy(g.players[k-1])
			} else {
				g.outcome = Nobody()
			}
		}
		if !g.outcome.Decided() {
			if g.opts.MaxTurns > 0 && g.turns > g.opts.MaxTurns {
				g.outcome = Tie()
			} else {
				g.turns++
			}
		}
	}

	g.updateEmbedLocked()
	if g.started {
		g.Edit(s)
		g.startMoveLocked(s)
	}
}

// soleSurvivor returns the one player left standing when all others have
// forfeited, or nil when the rule does not apply.
func (g *Game) soleSurvivor() *Player {
	if len(g.players) < 2 {
		return nil
	}
	var survivor *Player
	for _, p := range g.players {
		if p.Forfeited {
			continue
		}
		if survivor != nil {
			return nil
		}
		survivor = p
	}
	return survivor
}

// Per-turn countdown. The goroutine re-checks the move sequence on every
// tick so a resolved turn cannot be forfeited by a stale timer.
func (g *Game) startTimerLocked(s discord.SessionHandler) {
	if g.timer <= 0 {
		return
	}
	g.stopTimerLocked()

	stop := make(chan struct{})
	g.timerStop = stop
	seq := g.moveSeq

	go func() {
		ticker := time.NewTicker(timerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.mu.Lock()
				if g.Closed() || g.moveSeq != seq {
					g.mu.Unlock()
					return
				}
				g.timer--
				if g.timer <= 0 {
					p := g.Player()
					p.Forfeit("waited too long")
					p.SetActive(false)
					g.finishMoveLocked(s)
					g.mu.Unlock()
					return
				}
				g.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
}

func (g *Game) stopTimerLocked() {
	if g.timerStop != nil {
		close(g.timerStop)
		g.timerStop = nil
	}
}

// handleReaction implements the token dispatch described in the session
// contract: control tokens feed votes and help, gameplay tokens are
// single-use signals retracted on receipt and forwarded to the rules.
func (g *Game) handleReaction(s discord.SessionHandler, added bool, token string, userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Closed() {
		return
	}
	presser := g.PlayerByID(userID)
	if presser == nil {
		return
	}

	if !added {
		switch token {
		case CloseToken:
			if !presser.IsBot() && g.closeVotes > 0 {
				g.closeVotes--
			}
		case RestartToken:
			if !presser.IsBot() && g.restartVotes > 0 {
				g.restartVotes--
			}
		case HelpToken:
			if g.help {
				g.help = false
				g.updateEmbedLocked()
				g.Edit(s)
			}
		}
		return
	}

	switch token {
	case CloseToken:
		if presser.IsBot() {
			return
		}
		g.closeVotes++
		if g.closeVotes >= len(g.UserPlayers()) {
			g.Delete(s)
		}
	case RestartToken:
		if !g.opts.CanRestart || presser.IsBot() {
			return
		}
		g.restartVotes++
		if g.restartVotes >= len(g.UserPlayers()) {
			g.initLocked()
			g.updateEmbedLocked()
			g.Edit(s)
			g.startMoveLocked(s)
		}
	case HelpToken:
		if g.Player().IsBot() {
			return
		}
		g.help = true
		g.updateEmbedLocked()
		g.Edit(s)
	default:
		// Gameplay tokens are single-use signals, not toggles: retract
		// immediately so the same player can press again next turn.
		g.RemoveReaction(s, token, userID)

		if g.outcome.Decided() {
			return
		}
		if presser != g.Player() {
			return
		}
		if !g.isGameplayToken(token) {
			return
		}

		// A human acting manually stops being auto-played.
		presser.Auto = false

		changed, err := g.safePlayerMove(s, token)
		if err != nil {
			g.moveErr = err
			g.updateEmbedLocked()
			g.Edit(s)
			return
		}
		g.moveErr = nil
		if changed {
			g.finishMoveLocked(s)
		}
	}
}

func (g *Game) isGameplayToken(token string) bool {
	for _, t := range g.opts.Tokens {
		if t == token {
			return true
		}
	}
	return false
}

// The rules hooks run behind recover so a panicking game renders an error
// instead of killing the session.

func (g *Game) safePlayerMove(s discord.SessionHandler, token string) (changed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			changed = false
			err = types.NewGameError(types.ErrInvalidMove, fmt.Sprintf("move handler panicked: %v", r))
		}
	}()
	return g.rules.HandlePlayerMove(s, g, token)
}

func (g *Game) safeBotMove(s discord.SessionHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.NewGameError(types.ErrInvalidMove, fmt.Sprintf("bot move handler panicked: %v", r))
		}
	}()
	return g.rules.HandleBotMove(s, g)
}

func (g *Game) safeCheckWin() (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			g.moveErr = types.NewGameError(types.ErrInvalidMove, fmt.Sprintf("win check panicked: %v", r))
			outcome = Undecided()
		}
	}()
	return g.rules.CheckWinCondition(g)
}

// UpdateEmbed recomposes the rendered message body from the rules' board,
// status, spectators, help text and any recorded error.
func (g *Game) UpdateEmbed() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updateEmbedLocked()
}

func (g *Game) updateEmbedLocked() {
	embed := &discordgo.MessageEmbed{
		Title:       g.name,
		Description: g.rules.Render(g),
		Color:       g.accentColor(),
	}

	if status := g.statusLine(); status != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Status",
			Value: status,
		})
	}

	if g.opts.ShowSpectators {
		if spectators := g.InactivePlayers(); len(spectators) > 0 {
			names := make([]string, 0, len(spectators))
			for _, p := range spectators {
				name := p.DisplayName()
				if p.Forfeited && p.Reason != "" {
					name += " (" + p.Reason + ")"
				}
				names = append(names, name)
			}
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Spectators",
				Value: strings.Join(names, "\n"),
			})
		}
	}

	if g.help && g.opts.HowToPlay != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "How to play",
			Value: g.opts.HowToPlay,
		})
	}

	if g.moveErr != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Error",
			Value: g.moveErr.Error(),
		})
	}

	if deco, ok := g.rules.(EmbedDecorator); ok {
		deco.DecorateEmbed(g, embed)
	}

	g.SetEmbed(embed)
}

func (g *Game) accentColor() int {
	if g.moveErr != nil {
		return colorError
	}
	if provider, ok := g.rules.(ColorProvider); ok {
		return provider.Color(g)
	}
	if g.outcome.Decided() {
		return colorOver
	}
	return colorDefault
}

func (g *Game) statusLine() string {
	if provider, ok := g.rules.(StatusProvider); ok {
		return provider.Status(g)
	}
	if g.outcome.Decided() {
		return g.outcome.String()
	}
	line := fmt.Sprintf("Turn %d — %s to move", g.turns, g.Player().DisplayName())
	if g.timer > 0 {
		line += fmt.Sprintf(" (%ds)", g.timer)
	}
	return line
}

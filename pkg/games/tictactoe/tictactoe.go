package tictactoe

import (
	"math/rand"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/parlorbot/parlor/internal/discord"
	"github.com/parlorbot/parlor/pkg/session"
)

// Cell tokens double as the gameplay reaction interface: pressing a keycap
// claims that cell.
var cellTokens = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣"}

var avatars = []string{"❌", "⭕"}

var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

const howToPlay = "Press a numbered reaction to claim that cell. " +
	"Three of your marks in a row, column or diagonal wins."

// Rules implements a two-player tic-tac-toe board. Cells hold the 1-based
// roster number of the player who claimed them, or 0 while free.
type Rules struct {
	board [9]int
}

var _ session.Rules = (*Rules)(nil)

// New builds a tic-tac-toe session in the given channel. With no opponent
// the starter plays against a bot.
func New(registry *session.Registry, channelID string, starter *discordgo.User, opponent *discordgo.User) (*session.Game, error) {
	cfg := session.Config{
		MinPlayers:    session.Int(2),
		MaxPlayers:    session.Int(2),
		MaxBotPlayers: session.Int(1),
		MaxTurns:      session.Int(9),
		Tokens:        cellTokens,
		Avatars:       avatars,
		HowToPlay:     howToPlay,
	}

	var others []*discordgo.User
	if opponent != nil {
		others = append(others, opponent)
	}
	return session.NewGame("Tic-Tac-Toe", &Rules{}, session.GameTypeCompetitive, cfg, registry, channelID, starter, others...)
}

// InitRound clears the board.
func (r *Rules) InitRound(g *session.Game) {
	r.board = [9]int{}
}

// HandlePlayerMove claims the pressed cell for the current player. Pressing
// an occupied cell is not a move.
func (r *Rules) HandlePlayerMove(s discord.SessionHandler, g *session.Game, token string) (bool, error) {
	idx := cellIndex(token)
	if idx < 0 || r.board[idx] != 0 {
		return false, nil
	}
	r.board[idx] = g.PlayerNumber()
	return true, nil
}

// HandleBotMove plays a simple heuristic: win if possible, block the
// opponent's win, otherwise prefer the center, then a random free cell.
func (r *Rules) HandleBotMove(s discord.SessionHandler, g *session.Game) error {
	me := g.PlayerNumber()

	if idx := r.completingCell(me); idx >= 0 {
		r.board[idx] = me
		return nil
	}
	for n := 1; n <= len(g.Players()); n++ {
		if n == me {
			continue
		}
		if idx := r.completingCell(n); idx >= 0 {
			r.board[idx] = me
			return nil
		}
	}
	if r.board[4] == 0 {
		r.board[4] = me
		return nil
	}

	free := make([]int, 0, 9)
	for i, owner := range r.board {
		if owner == 0 {
			free = append(free, i)
		}
	}
	if len(free) > 0 {
		r.board[free[rand.Intn(len(free))]] = me
	}
	return nil
}

// completingCell returns a free cell that completes a line for player n, or
// -1 when there is none.
func (r *Rules) completingCell(n int) int {
	for _, line := range winningLines {
		owned, free := 0, -1
		for _, idx := range line {
			switch r.board[idx] {
			case n:
				owned++
			case 0:
				free = idx
			}
		}
		if owned == 2 && free >= 0 {
			return free
		}
	}
	return -1
}

// CheckWinCondition scans for a completed line, then for a full board.
func (r *Rules) CheckWinCondition(g *session.Game) session.Outcome {
	for _, line := range winningLines {
		owner := r.board[line[0]]
		if owner != 0 && r.board[line[1]] == owner && r.board[line[2]] == owner {
			return session.WonByNumber(owner)
		}
	}
	for _, owner := range r.board {
		if owner == 0 {
			return session.Undecided()
		}
	}
	return session.Tie()
}

// Render draws the board, free cells showing the keycap to press.
func (r *Rules) Render(g *session.Game) string {
	var sb strings.Builder
	for i, owner := range r.board {
		if owner == 0 {
			sb.WriteString(cellTokens[i])
		} else {
			sb.WriteString(g.Players()[owner-1].Avatar)
		}
		if i%3 == 2 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func cellIndex(token string) int {
	for i, t := range cellTokens {
		if t == token {
			return i
		}
	}
	return -1
}

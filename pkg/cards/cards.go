package cards

import "math/rand"

// Suit represents a card suit
type Suit string

const (
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
	Spades   Suit = "♠"
)

// Rank represents a card rank
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

var (
	suits = []Suit{Hearts, Diamonds, Clubs, Spades}
	ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}
)

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// String returns a string representation of the card
func (c Card) String() string {
	return string(c.Suit) + string(c.Rank)
}

// Value returns the blackjack-style point value of the card, counting aces
// high. Callers decide when an ace should count as 1 instead.
func (c Card) Value() int {
	switch c.Rank {
	case Ace:
		return 11
	case Jack, Queen, King, Ten:
		return 10
	default:
		// Numeric ranks map to themselves.
		for i, r := range ranks {
			if r == c.Rank {
				return i + 1
			}
		}
		return 0
	}
}

// Deck represents an ordered stack of cards
type Deck struct {
	Cards []Card
}

// NewDeck creates a standard 52-card deck in canonical order
func NewDeck() *Deck {
	d := &Deck{Cards: make([]Card, 0, len(suits)*len(ranks))}
	for _, suit := range suits {
		for _, rank := range ranks {
			d.Cards = append(d.Cards, Card{Suit: suit, Rank: rank})
		}
	}
	return d
}

// Shuffle randomizes the deck order
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Remaining returns how many cards are left to draw
func (d *Deck) Remaining() int {
	return len(d.Cards)
}

// Draw removes and returns the top card. The second return value is false
// when the deck is empty.
func (d *Deck) Draw() (Card, bool) {
	if len(d.Cards) == 0 {
		return Card{}, false
	}
	card := d.Cards[0]
	d.Cards = d.Cards[1:]
	return card, true
}

// DrawN removes and returns up to n cards from the top of the deck
func (d *Deck) DrawN(n int) []Card {
	if n > len(d.Cards) {
		n = len(d.Cards)
	}
	drawn := make([]Card, n)
	copy(drawn, d.Cards[:n])
	d.Cards = d.Cards[n:]
	return drawn
}

package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	d := NewDeck()
	require.Equal(t, 52, d.Remaining())

	seen := make(map[Card]bool)
	for _, c := range d.Cards {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
}

func TestShufflePreservesCards(t *testing.T) {
	d := NewDeck()
	before := make(map[Card]bool)
	for _, c := range d.Cards {
		before[c] = true
	}

	d.Shuffle()

	require.Equal(t, 52, d.Remaining())
	for _, c := range d.Cards {
		assert.True(t, before[c])
	}
}

func TestDrawDepletesDeck(t *testing.T) {
	d := NewDeck()
	first := d.Cards[0]

	card, ok := d.Draw()
	require.True(t, ok)
	assert.Equal(t, first, card)
	assert.Equal(t, 51, d.Remaining())

	d.DrawN(51)
	assert.Equal(t, 0, d.Remaining())

	_, ok = d.Draw()
	assert.False(t, ok)
}

func TestDrawNClampsToRemaining(t *testing.T) {
	d := NewDeck()
	d.DrawN(50)

	drawn := d.DrawN(5)
	assert.Len(t, drawn, 2)
	assert.Equal(t, 0, d.Remaining())
}

func TestCardValues(t *testing.T) {
	assert.Equal(t, 11, Card{Spades, Ace}.Value())
	assert.Equal(t, 2, Card{Hearts, Two}.Value())
	assert.Equal(t, 9, Card{Clubs, Nine}.Value())
	assert.Equal(t, 10, Card{Diamonds, Ten}.Value())
	assert.Equal(t, 10, Card{Spades, Jack}.Value())
	assert.Equal(t, 10, Card{Hearts, Queen}.Value())
	assert.Equal(t, 10, Card{Clubs, King}.Value())
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "♠A", Card{Spades, Ace}.String())
	assert.Equal(t, "♥10", Card{Hearts, Ten}.String())
}

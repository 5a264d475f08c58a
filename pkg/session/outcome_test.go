package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeDecided(t *testing.T) {
	assert.False(t, Undecided().Decided())
	assert.False(t, Outcome{}.Decided(), "zero value is undecided")

	assert.True(t, WonBy(NewPlayer(user("a"))).Decided())
	assert.True(t, WonByNumber(1).Decided())
	assert.True(t, SharedBy().Decided())
	assert.True(t, Tie().Decided())
	assert.True(t, Nobody().Decided())
	assert.True(t, Custom("sudden death").Decided())
}

func TestOutcomeStatusText(t *testing.T) {
	a := NewPlayer(user("a"))
	b := NewPlayer(user("b"))

	assert.Equal(t, "user-a wins!", WonBy(a).String())
	assert.Equal(t, "user-a, user-b win!", SharedBy(a, b).String())
	assert.Equal(t, "It's a tie.", Tie().String())
	assert.Equal(t, "Nobody wins.", Nobody().String())
	assert.Equal(t, "sudden death", Custom("sudden death").String())
	assert.Empty(t, Undecided().String())
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayer_Mark(t *testing.T) {
	t.Run("Player one plays X and player two plays O", func(t *testing.T) {
		// Then: marks follow the move order
		assert.Equal(t, PlayerX, PlayerOne.Mark())
		assert.Equal(t, PlayerO, PlayerTwo.Mark())
		assert.Equal(t, EmptyCell, NoPlayer.Mark())
	})

	t.Run("Other toggles between the two players", func(t *testing.T) {
		assert.Equal(t, PlayerTwo, PlayerOne.Other())
		assert.Equal(t, PlayerOne, PlayerTwo.Other())
	})

	t.Run("PlayerOf is the inverse of Mark", func(t *testing.T) {
		assert.Equal(t, PlayerOne, PlayerOf(PlayerX))
		assert.Equal(t, PlayerTwo, PlayerOf(PlayerO))
		assert.Equal(t, NoPlayer, PlayerOf(EmptyCell))
	})
}

func TestOutcome(t *testing.T) {
	t.Run("Only finished outcomes are over", func(t *testing.T) {
		assert.False(t, OutcomeInProgress.IsOver())
		assert.True(t, OutcomePlayerOne.IsOver())
		assert.True(t, OutcomePlayerTwo.IsOver())
		assert.True(t, OutcomeDraw.IsOver())
	})

	t.Run("Winner is reported for wins only", func(t *testing.T) {
		assert.Equal(t, PlayerOne, OutcomePlayerOne.Winner())
		assert.Equal(t, PlayerTwo, OutcomePlayerTwo.Winner())
		assert.Equal(t, NoPlayer, OutcomeDraw.Winner())
		assert.Equal(t, NoPlayer, OutcomeInProgress.Winner())
	})

	t.Run("Banner text", func(t *testing.T) {
		assert.Equal(t, "Player 1 won!", OutcomePlayerOne.String())
		assert.Equal(t, "Player 2 won!", OutcomePlayerTwo.String())
		assert.Equal(t, "Draw!", OutcomeDraw.String())
	})

	t.Run("WinFor maps players to outcomes", func(t *testing.T) {
		assert.Equal(t, OutcomePlayerOne, WinFor(PlayerOne))
		assert.Equal(t, OutcomePlayerTwo, WinFor(PlayerTwo))
		assert.Equal(t, OutcomeInProgress, WinFor(NoPlayer))
	})

	t.Run("Unknown values are invalid", func(t *testing.T) {
		assert.False(t, Outcome("lost").IsValid())
		assert.False(t, Mark("Z").IsValid())
		assert.False(t, Player(3).IsValid())
	})
}

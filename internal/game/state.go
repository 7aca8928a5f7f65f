// Package game drives the race: turn order, dice input, movement, tile
// effects, battles and the win check.
package game

import (
	"time"

	"github.com/samdwyer/dicerace/internal/entity"
	"github.com/samdwyer/dicerace/internal/world"
)

// Phase represents the current phase of the turn state machine.
type Phase int

const (
	// PhaseIdle - the game has not been started yet
	PhaseIdle Phase = iota
	// PhaseAwaitingRoll - waiting for the current player's die
	PhaseAwaitingRoll
	// PhaseResolving - a roll is being played out
	PhaseResolving
	// PhaseGameOver - a player reached the winning square
	PhaseGameOver
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingRoll:
		return "awaiting_roll"
	case PhaseResolving:
		return "resolving"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of the game state.
type Snapshot struct {
	GameID     string
	Generation uint64
	Phase      Phase
	Current    int // Player whose turn it is
	Winner     int // -1 until the game is over
	Players    []entity.Player
	Board      *world.Board
	Specials   *world.SpecialTiles
	Status     string
	StartedAt  time.Time
}

// CurrentPlayer returns a copy of the current player, or nil if there is none.
func (s Snapshot) CurrentPlayer() *entity.Player {
	if s.Current < 0 || s.Current >= len(s.Players) {
		return nil
	}
	p := s.Players[s.Current]
	return &p
}

// WinningPlayer returns a copy of the winner, or nil while the game runs.
func (s Snapshot) WinningPlayer() *entity.Player {
	if s.Winner < 0 || s.Winner >= len(s.Players) {
		return nil
	}
	p := s.Players[s.Winner]
	return &p
}

package game

import (
	"context"

	"github.com/samdwyer/dicerace/internal/score"
)

// Presenter shows the game to people.
//
// MoveStep is called without any game lock held and may block until the step
// has been animated or ctx is done. Every other method is called with the
// game lock held and must not call back into the Game.
type Presenter interface {
	// TurnStarted is called whenever a player's turn begins.
	TurnStarted(s Snapshot)
	// MoveStep animates one square of movement. An error is treated as a
	// cosmetic failure; the move still happens.
	MoveStep(ctx context.Context, player, from, to int) error
	// Rolled shows the face accepted for the current turn.
	Rolled(player, face int)
	// Place puts a piece on a square without animation.
	Place(player, square int)
	SetWalking(player int, walking bool)
	SetAttacking(player int, attacking bool)
	// Status shows a one-line message.
	Status(msg string)
	// GameOver is called once when a player wins.
	GameOver(s Snapshot, rec score.Record)
	// Reset clears the presentation before a new game.
	Reset()
}

// NopPresenter ignores everything. MoveStep returns immediately.
type NopPresenter struct{}

func (NopPresenter) TurnStarted(Snapshot) {}

func (NopPresenter) MoveStep(ctx context.Context, player, from, to int) error {
	return ctx.Err()
}

func (NopPresenter) Rolled(int, int)                 {}
func (NopPresenter) Place(int, int)                  {}
func (NopPresenter) SetWalking(int, bool)            {}
func (NopPresenter) SetAttacking(int, bool)          {}
func (NopPresenter) Status(string)                   {}
func (NopPresenter) GameOver(Snapshot, score.Record) {}
func (NopPresenter) Reset()                          {}

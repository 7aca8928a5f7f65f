package ui

import (
	"context"
	"time"

	"github.com/samdwyer/dicerace/internal/game"
	"github.com/samdwyer/dicerace/internal/score"
)

// DefaultStepDuration is how long one square of movement takes on screen.
const DefaultStepDuration = 250 * time.Millisecond

// Presenter implements game.Presenter on top of a View. Every change calls
// refresh so the screen can be redrawn.
type Presenter struct {
	view    *View
	step    time.Duration
	refresh func()
}

// NewPresenter creates a presenter. refresh may be nil.
func NewPresenter(view *View, step time.Duration, refresh func()) *Presenter {
	if refresh == nil {
		refresh = func() {}
	}
	return &Presenter{view: view, step: step, refresh: refresh}
}

func (p *Presenter) TurnStarted(s game.Snapshot) {
	p.view.load(s)
	p.refresh()
}

// MoveStep moves the piece one square and holds it there for the step duration.
func (p *Presenter) MoveStep(ctx context.Context, player, from, to int) error {
	p.view.update(player, func(piece *Piece) { piece.Square = to })
	p.refresh()
	return sleep(ctx, p.step)
}

func (p *Presenter) Rolled(player, face int) {
	p.view.setRoll(player, face)
	p.refresh()
}

func (p *Presenter) Place(player, square int) {
	p.view.update(player, func(piece *Piece) { piece.Square = square })
	p.refresh()
}

func (p *Presenter) SetWalking(player int, walking bool) {
	p.view.update(player, func(piece *Piece) { piece.Walking = walking })
	p.refresh()
}

func (p *Presenter) SetAttacking(player int, attacking bool) {
	p.view.update(player, func(piece *Piece) { piece.Attacking = attacking })
	p.refresh()
}

func (p *Presenter) Status(msg string) {
	p.view.setStatus(msg)
	p.refresh()
}

func (p *Presenter) GameOver(s game.Snapshot, rec score.Record) {
	p.view.load(s)
	p.view.finish(rec)
	p.refresh()
}

func (p *Presenter) Reset() {
	p.view.clear()
	p.refresh()
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ game.Presenter = (*Presenter)(nil)

package ui

import (
	"context"
	"log"
	"time"

	"github.com/samdwyer/dicerace/internal/game"
	"github.com/samdwyer/dicerace/internal/score"
)

// LogPresenter prints the game as log lines. It is used when there is no terminal.
type LogPresenter struct {
	step time.Duration
}

// NewLogPresenter creates a presenter that waits step per square moved.
func NewLogPresenter(step time.Duration) *LogPresenter {
	return &LogPresenter{step: step}
}

func (l *LogPresenter) TurnStarted(s game.Snapshot) {
	p := s.CurrentPlayer()
	if p == nil {
		return
	}
	log.Printf("turn: %s on square %d (%d throws)", p.Name, p.Position, p.Throws)
}

func (l *LogPresenter) MoveStep(ctx context.Context, player, from, to int) error {
	return sleep(ctx, l.step)
}

func (l *LogPresenter) Rolled(player, face int) {}

func (l *LogPresenter) Place(player, square int) {}

func (l *LogPresenter) SetWalking(player int, walking bool) {}

func (l *LogPresenter) SetAttacking(player int, attacking bool) {}

func (l *LogPresenter) Status(msg string) {
	log.Printf("status: %s", msg)
}

func (l *LogPresenter) GameOver(s game.Snapshot, rec score.Record) {
	if w := s.WinningPlayer(); w != nil {
		log.Printf("game over: %s on square %d: %s", w.Name, w.Position, rec.Line())
		return
	}
	log.Printf("game over: %s", rec.Line())
}

func (l *LogPresenter) Reset() {}

var _ game.Presenter = (*LogPresenter)(nil)

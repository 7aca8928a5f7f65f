package game

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/dicerace/internal/combat"
	"github.com/samdwyer/dicerace/internal/entity"
	"github.com/samdwyer/dicerace/internal/score"
	"github.com/samdwyer/dicerace/internal/world"
)

// resolveTurn plays out one accepted roll: movement, tile effect, battles,
// win check, then the next turn. It stops as soon as its generation is stale.
func (g *Game) resolveTurn(ctx context.Context, gen uint64, player, face, from, to int) {
	defer g.wg.Done()

	ctx, span := g.tracer.Start(ctx, "turn.resolve", trace.WithAttributes(
		attribute.Int("player", player),
		attribute.Int("face", face),
		attribute.Int("from", from),
		attribute.Int("to", to),
	))
	defer span.End()

	if !g.walk(ctx, gen, player, from, to) {
		span.SetAttributes(attribute.Bool("turn.abandoned", true))
		return
	}
	if !g.applyTile(ctx, gen, player) {
		span.SetAttributes(attribute.Bool("turn.abandoned", true))
		return
	}
	touched, ok := g.resolveBattles(ctx, gen, player)
	if !ok {
		span.SetAttributes(attribute.Bool("turn.abandoned", true))
		return
	}
	span.SetAttributes(attribute.Int("turn.touched", len(touched)))

	rec, won := g.checkWin(gen, touched)
	if won {
		span.SetAttributes(
			attribute.String("game.winner", rec.Name),
			attribute.Int("game.score", rec.Score),
		)
		g.record(rec)
		return
	}
	g.endTurn(gen)
}

// walk moves player one square at a time from from to to. It returns false
// if the generation went stale on the way.
func (g *Game) walk(ctx context.Context, gen uint64, player, from, to int) bool {
	if from == to {
		return g.mutate(gen, func() {})
	}
	step := 1
	if to < from {
		step = -1
	}

	g.setWalking(gen, player, true)
	defer g.setWalking(gen, player, false)

	for pos := from; pos != to; pos += step {
		next := pos + step
		if err := g.presenter.MoveStep(ctx, player, pos, next); err != nil {
			if ctx.Err() != nil {
				return false
			}
			log.Printf("game: move step %d -> %d failed: %v", pos, next, err)
		}
		ok := g.mutate(gen, func() {
			if p := g.playerLocked(player); p != nil {
				p.Position = g.boardIndexLocked(next)
			}
		})
		if !ok {
			return false
		}
	}
	return true
}

// place puts player on square without walking.
func (g *Game) place(gen uint64, player, square int) bool {
	return g.mutate(gen, func() {
		if p := g.playerLocked(player); p != nil {
			p.Position = g.boardIndexLocked(square)
			g.presenter.Place(player, p.Position)
		}
	})
}

// applyTile runs the effect of the square the mover landed on, once.
func (g *Game) applyTile(ctx context.Context, gen uint64, player int) bool {
	var (
		name string
		pos  int
		tile world.Tile
	)
	ok := g.mutate(gen, func() {
		if p := g.playerLocked(player); p != nil {
			name, pos = p.Name, p.Position
			tile = g.board.TileAt(pos, g.specials)
		}
	})
	if !ok {
		return false
	}

	switch tile {
	case world.TileScare:
		if !g.announce(gen, fmt.Sprintf("%s landed on a scare tile!", name)) {
			return false
		}
		if err := combat.Wait(ctx, g.cfg.ScarePause); err != nil {
			return false
		}
		return g.walk(ctx, gen, player, pos, g.board.Clamp(pos-1))
	case world.TileBonus:
		if !g.announce(gen, fmt.Sprintf("%s found a bonus tile!", name)) {
			return false
		}
		return g.walk(ctx, gen, player, pos, g.board.Clamp(pos+1))
	}
	return true
}

// checkWin looks at every player touched this turn, in order, and ends the
// game for the first one at or past the winning square.
func (g *Game) checkWin(gen uint64, touched []int) (score.Record, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.gen || g.phase != PhaseResolving {
		return score.Record{}, false
	}

	for _, id := range touched {
		p := g.playerLocked(id)
		if p == nil || !g.board.IsWinning(p.Position) {
			continue
		}
		return g.finishLocked(p), true
	}
	return score.Record{}, false
}

// finishLocked moves the game to GameOver with p as the winner.
func (g *Game) finishLocked(p *entity.Player) score.Record {
	g.phase = PhaseGameOver
	g.winner = p.ID
	g.rolling = false
	g.dice.SetRollPermission(false)

	now := g.clock()
	rec := score.NewRecord(g.gameID, p.Name, p.IsBot(), p.Throws, now.Sub(g.startedAt), now)
	g.status = fmt.Sprintf("%s wins! Score: %d", p.Name, rec.Score)
	log.Printf("game: %s wins after %d throws, score %d", p.Name, p.Throws, rec.Score)

	g.presenter.Status(g.status)
	g.presenter.GameOver(g.snapshotLocked(), rec)
	if !g.doneClosed {
		close(g.done)
		g.doneClosed = true
	}
	return rec
}

// record hands the win to the recorder. Failures never affect the game.
func (g *Game) record(rec score.Record) {
	if g.recorder == nil {
		return
	}
	g.mu.Lock()
	ctx := g.baseCtx
	g.mu.Unlock()

	if err := g.recorder.RecordWin(ctx, rec); err != nil {
		log.Printf("score: record win for %s: %v", rec.Name, err)
	}
}

// endTurn passes the turn to the next player.
func (g *Game) endTurn(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.gen || g.phase != PhaseResolving {
		return
	}
	g.current = (g.current + 1) % g.roster.Len()
	g.beginTurnLocked()
}

// mutate runs fn under the lock if gen is still the resolving generation.
func (g *Game) mutate(gen uint64, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.gen || g.phase != PhaseResolving {
		return false
	}
	fn()
	return true
}

// announce sets the status line for generation gen.
func (g *Game) announce(gen uint64, msg string) bool {
	return g.mutate(gen, func() {
		g.status = msg
		g.presenter.Status(msg)
	})
}

func (g *Game) setWalking(gen uint64, player int, walking bool) {
	g.mutate(gen, func() {
		if p := g.playerLocked(player); p != nil {
			p.Walking = walking
			g.presenter.SetWalking(player, walking)
		}
	})
}

// boardIndexLocked keeps idx on the board. Anything off the board is a
// programming error.
func (g *Game) boardIndexLocked(idx int) int {
	if !g.board.Contains(idx) {
		g.lookupFailed("square", idx)
		return g.board.Clamp(idx)
	}
	return idx
}

package game

import (
	"context"
	"errors"
	"log"

	"github.com/samdwyer/dicerace/internal/entity"
)

// errStale reports that a battle step belongs to an abandoned generation.
var errStale = errors.New("game: stale generation")

// resolveBattles fights every collision caused by the mover's landing. A
// knocked-back loser may land on another occupied square, so the loop keeps
// checking every player touched so far until no collision is left. The start
// square never triggers a battle.
//
// It returns the touched players, mover first, in the order they joined.
func (g *Game) resolveBattles(ctx context.Context, gen uint64, mover int) ([]int, bool) {
	touched := []int{mover}
	arena := &turnArena{g: g, gen: gen}

	for {
		var a, b entity.Player
		found := false
		ok := g.mutate(gen, func() {
			for _, id := range touched {
				p := g.playerLocked(id)
				if p == nil || g.board.TileAt(p.Position, g.specials).IsSafe() {
					continue
				}
				if opp := g.roster.OpponentOn(p.Position, p.ID); opp != nil {
					a, b = *p, *opp
					found = true
					return
				}
			}
		})
		if !ok {
			return nil, false
		}
		if !found {
			return touched, true
		}

		// The resolver only sees copies; positions change through the arena.
		out, err := g.duel.Resolve(ctx, &a, &b, arena)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, errStale) {
				log.Printf("battle: %s vs %s: %v", a.Name, b.Name, err)
			}
			return nil, false
		}
		if !contains(touched, b.ID) {
			touched = append(touched, b.ID)
		}
		log.Printf("battle: %s knocked back to %d", out.Loser.GetName(), out.LoserTo)
	}
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// turnArena is the game side of a duel for one generation.
type turnArena struct {
	g   *Game
	gen uint64
}

func (a *turnArena) Announce(msg string) {
	a.g.announce(a.gen, msg)
}

func (a *turnArena) SetAttacking(id int, attacking bool) {
	a.g.mutate(a.gen, func() {
		if p := a.g.playerLocked(id); p != nil {
			p.Attacking = attacking
			a.g.presenter.SetAttacking(id, attacking)
		}
	})
}

func (a *turnArena) Knockback(ctx context.Context, id, from, to int) error {
	var ok bool
	if from == to {
		ok = a.g.place(a.gen, id, to)
	} else {
		ok = a.g.walk(ctx, a.gen, id, from, to)
	}
	if !ok {
		if err := ctx.Err(); err != nil {
			return err
		}
		return errStale
	}
	return nil
}

// Package combat resolves collisions between pieces as dice duels.
package combat

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dicerace/internal/dice"
	"github.com/samdwyer/dicerace/internal/telemetry"
)

const (
	// DefaultRollPause is the reveal pause between duel messages.
	DefaultRollPause = 800 * time.Millisecond
	// DefaultMaxTieRounds caps re-rolls before a coin decides the duel.
	DefaultMaxTieRounds = 64
	// KnockbackSquares is how far the loser is pushed back.
	KnockbackSquares = 1
)

// Combatant is a piece that can take part in a duel.
type Combatant interface {
	GetID() int
	GetName() string
	GetPosition() int
}

// Arena is where a duel plays out. The orchestrator implements it so the
// resolver can report progress and move the loser without owning game state.
type Arena interface {
	// Announce shows a status line.
	Announce(msg string)
	// SetAttacking flips a combatant's attack pose.
	SetAttacking(id int, attacking bool)
	// Knockback moves the loser from one square to another. When from and to
	// are equal the piece is placed directly.
	Knockback(ctx context.Context, id, from, to int) error
}

// Round is one simultaneous roll.
type Round struct {
	A, B int
}

// IsTie returns true if both combatants rolled the same face.
func (r Round) IsTie() bool {
	return r.A == r.B
}

// Outcome describes a resolved duel. It is discarded once the knockback is applied.
type Outcome struct {
	Winner    Combatant
	Loser     Combatant
	Rounds    []Round
	LoserFrom int
	LoserTo   int
	// ByCoin is true when the tie cap was hit and a coin picked the winner.
	ByCoin bool
}

// Resolver runs dice duels.
type Resolver struct {
	rng          dice.Roller
	pause        time.Duration
	maxTieRounds int
}

// NewResolver creates a resolver. A non-positive maxTieRounds selects the default.
func NewResolver(rng dice.Roller, pause time.Duration, maxTieRounds int) *Resolver {
	if maxTieRounds <= 0 {
		maxTieRounds = DefaultMaxTieRounds
	}
	return &Resolver{
		rng:          rng,
		pause:        pause,
		maxTieRounds: maxTieRounds,
	}
}

// Resolve duels a against b. Both roll a die; the strictly higher face wins
// and ties re-roll. The loser is knocked back one square, never below the start.
// It returns early with the context error when ctx is cancelled.
func (r *Resolver) Resolve(ctx context.Context, a, b Combatant, arena Arena) (Outcome, error) {
	tracer := telemetry.Tracer("combat")
	ctx, span := tracer.Start(ctx, "battle.resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("battle.a", a.GetName()),
		attribute.String("battle.b", b.GetName()),
		attribute.Int("battle.square", a.GetPosition()),
	)

	arena.SetAttacking(a.GetID(), true)
	arena.SetAttacking(b.GetID(), true)
	defer func() {
		arena.SetAttacking(a.GetID(), false)
		arena.SetAttacking(b.GetID(), false)
	}()

	if err := r.say(ctx, arena, fmt.Sprintf("Battle! %s vs %s", a.GetName(), b.GetName())); err != nil {
		return Outcome{}, err
	}

	var out Outcome
	for {
		round := Round{A: dice.Face(r.rng)}
		if err := r.say(ctx, arena, fmt.Sprintf("%s rolls %d", a.GetName(), round.A)); err != nil {
			return Outcome{}, err
		}
		round.B = dice.Face(r.rng)
		if err := r.say(ctx, arena, fmt.Sprintf("%s rolls %d", b.GetName(), round.B)); err != nil {
			return Outcome{}, err
		}
		out.Rounds = append(out.Rounds, round)

		if !round.IsTie() {
			out.Winner, out.Loser = a, b
			if round.B > round.A {
				out.Winner, out.Loser = b, a
			}
			break
		}
		if len(out.Rounds) >= r.maxTieRounds {
			out.ByCoin = true
			out.Winner, out.Loser = a, b
			if r.rng.Intn(2) == 1 {
				out.Winner, out.Loser = b, a
			}
			log.Printf("battle: %d ties between %s and %s, coin picks %s", len(out.Rounds), a.GetName(), b.GetName(), out.Winner.GetName())
			break
		}
		if err := r.say(ctx, arena, "Tie! Re-rolling..."); err != nil {
			return Outcome{}, err
		}
	}

	out.LoserFrom = out.Loser.GetPosition()
	out.LoserTo = max(0, out.LoserFrom-KnockbackSquares)

	last := out.Rounds[len(out.Rounds)-1]
	log.Printf("battle: %s rolled %d vs %s rolled %d. Winner: %s.", a.GetName(), last.A, b.GetName(), last.B, out.Winner.GetName())
	if err := r.say(ctx, arena, fmt.Sprintf("Winner: %s. Loser moves back %d.", out.Winner.GetName(), KnockbackSquares)); err != nil {
		return Outcome{}, err
	}

	span.SetAttributes(
		attribute.String("battle.winner", out.Winner.GetName()),
		attribute.Int("battle.rounds", len(out.Rounds)),
		attribute.Bool("battle.by_coin", out.ByCoin),
		attribute.Int("battle.loser_to", out.LoserTo),
	)

	// Attack poses end before the loser walks back.
	arena.SetAttacking(a.GetID(), false)
	arena.SetAttacking(b.GetID(), false)

	if err := arena.Knockback(ctx, out.Loser.GetID(), out.LoserFrom, out.LoserTo); err != nil {
		return out, err
	}
	return out, nil
}

// say announces msg and holds it for the reveal pause.
func (r *Resolver) say(ctx context.Context, arena Arena, msg string) error {
	arena.Announce(msg)
	return Wait(ctx, r.pause)
}

// Wait blocks for d or until ctx is done. A non-positive d only checks ctx.
func Wait(ctx context.Context, d time.Duration) error {
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

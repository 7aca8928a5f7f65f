// Package dice provides the six-sided die used to move pieces and settle battles.
//
// The orchestrator talks to a die through Source: it grants or revokes roll
// permission, resets the die between turns and triggers programmatic rolls for
// bots. The die reports each settled face exactly once to a single Handler.
package dice

import "math/rand"

const (
	// Sides is the number of faces on the die.
	Sides = 6
	// MinFace is the lowest face value.
	MinFace = 1
	// MaxFace is the highest face value.
	MaxFace = Sides
)

// Roller is the randomness provider for dice rolls. *rand.Rand satisfies it.
type Roller interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Handler receives the face of a settled roll.
type Handler func(face int)

// Source is the control surface of a physical or virtual die.
//
// Implementations must not invoke their Handler synchronously from
// SetRollPermission or Reset.
type Source interface {
	// SetRollPermission allows or forbids the next roll.
	SetRollPermission(allowed bool)
	// Reset returns the die to its resting state, abandoning any roll in flight.
	Reset()
	// TriggerRoll starts a roll if permission is granted.
	TriggerRoll()
}

// Face rolls a single six-sided die.
func Face(r Roller) int {
	return r.Intn(Sides) + 1
}

// Clamp pins face into [MinFace, MaxFace].
func Clamp(face int) int {
	if face < MinFace {
		return MinFace
	}
	if face > MaxFace {
		return MaxFace
	}
	return face
}

// NewRand returns a seeded Roller. A seed of 0 is used as-is so tests stay
// reproducible; callers wanting entropy pick their own seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

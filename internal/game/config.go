package game

import (
	"time"

	"github.com/samdwyer/dicerace/internal/combat"
	"github.com/samdwyer/dicerace/internal/world"
)

// Config holds orchestrator timing and board options.
type Config struct {
	// BotRollDelay is how long a bot waits before rolling.
	BotRollDelay time.Duration
	// BattleRollPause is the reveal pause between duel messages.
	BattleRollPause time.Duration
	// ScarePause is shown before a scare tile pushes a player back.
	ScarePause time.Duration

	ScareCount int
	BonusCount int

	// MaxTieRounds caps duel re-rolls. Zero selects the default.
	MaxTieRounds int

	// Debug turns out-of-range player or square lookups into panics.
	Debug bool
}

// DefaultConfig returns the stock timings and tile counts.
func DefaultConfig() Config {
	return Config{
		BotRollDelay:    600 * time.Millisecond,
		BattleRollPause: combat.DefaultRollPause,
		ScarePause:      2 * time.Second,
		ScareCount:      world.DefaultScareCount,
		BonusCount:      world.DefaultBonusCount,
		MaxTieRounds:    combat.DefaultMaxTieRounds,
	}
}

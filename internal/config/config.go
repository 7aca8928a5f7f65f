// Package config loads DiceRace settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/samdwyer/dicerace/internal/entity"
	"github.com/samdwyer/dicerace/internal/game"
	"github.com/samdwyer/dicerace/internal/world"
)

// Config holds every recognised DICERACE_* option.
type Config struct {
	BoardLength  int `env:"DICERACE_BOARD_LENGTH"  envDefault:"30"`
	WinningIndex int `env:"DICERACE_WINNING_INDEX" envDefault:"-1"`
	ScareTiles   int `env:"DICERACE_SCARE_TILES"   envDefault:"2"`
	BonusTiles   int `env:"DICERACE_BONUS_TILES"   envDefault:"2"`

	BotRollDelay    time.Duration `env:"DICERACE_BOT_ROLL_DELAY"    envDefault:"600ms"`
	BattleRollPause time.Duration `env:"DICERACE_BATTLE_ROLL_PAUSE" envDefault:"800ms"`
	ScarePause      time.Duration `env:"DICERACE_SCARE_PAUSE"       envDefault:"2s"`
	StepDuration    time.Duration `env:"DICERACE_STEP_DURATION"     envDefault:"250ms"`
	DiceSettle      time.Duration `env:"DICERACE_DICE_SETTLE"       envDefault:"700ms"`
	DiceTimeout     time.Duration `env:"DICERACE_DICE_TIMEOUT"      envDefault:"3s"`

	Players    int    `env:"DICERACE_PLAYERS"     envDefault:"4"`
	Humans     int    `env:"DICERACE_HUMANS"      envDefault:"1"`
	PlayerName string `env:"DICERACE_PLAYER_NAME" envDefault:"Player"`
	Character  string `env:"DICERACE_CHARACTER"   envDefault:"knight"`

	Seed         int64 `env:"DICERACE_SEED"           envDefault:"0"`
	MaxTieRounds int   `env:"DICERACE_MAX_TIE_ROUNDS" envDefault:"64"`

	LeaderboardDB   string `env:"DICERACE_LEADERBOARD_DB"   envDefault:"dicerace.db"`
	LeaderboardText string `env:"DICERACE_LEADERBOARD_TEXT" envDefault:"LeaderboardName.txt"`
	LeaderboardMax  int    `env:"DICERACE_LEADERBOARD_MAX"  envDefault:"20"`

	// LogFile receives log output while the terminal UI owns the screen.
	LogFile  string `env:"DICERACE_LOG_FILE" envDefault:"dicerace.log"`
	Headless bool   `env:"DICERACE_HEADLESS" envDefault:"false"`
	Debug    bool   `env:"DICERACE_DEBUG"    envDefault:"false"`
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot produce a playable game.
func (c Config) Validate() error {
	switch {
	case c.BoardLength < world.MinLength:
		return fmt.Errorf("%w: board length %d, need at least %d", ErrInvalid, c.BoardLength, world.MinLength)
	case c.Players < 1:
		return fmt.Errorf("%w: need at least one player", ErrInvalid)
	case c.Humans < 0 || c.Humans > c.Players:
		return fmt.Errorf("%w: %d humans for %d players", ErrInvalid, c.Humans, c.Players)
	case c.ScareTiles < 0 || c.BonusTiles < 0:
		return fmt.Errorf("%w: negative special tile count", ErrInvalid)
	case c.LeaderboardMax < 0:
		return fmt.Errorf("%w: negative leaderboard size", ErrInvalid)
	case c.MaxTieRounds < 0:
		return fmt.Errorf("%w: negative tie cap", ErrInvalid)
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"bot roll delay", c.BotRollDelay},
		{"battle roll pause", c.BattleRollPause},
		{"scare pause", c.ScarePause},
		{"step duration", c.StepDuration},
		{"dice settle", c.DiceSettle},
		{"dice timeout", c.DiceTimeout},
	}
	for _, dur := range durations {
		if dur.d < 0 {
			return fmt.Errorf("%w: negative %s", ErrInvalid, dur.name)
		}
	}
	if c.WinningSquare() == world.StartIndex {
		return fmt.Errorf("%w: %w", ErrInvalid, world.ErrWinningIndex)
	}
	return nil
}

// WinningSquare returns the winning index clamped onto the board. Negative
// values select the last square.
func (c Config) WinningSquare() int {
	last := c.BoardLength - 1
	if c.WinningIndex < 0 || c.WinningIndex > last {
		return last
	}
	return c.WinningIndex
}

// Board builds the configured board.
func (c Config) Board() (*world.Board, error) {
	return world.NewBoard(c.BoardLength, c.WinningSquare())
}

// Game returns the orchestrator settings.
func (c Config) Game() game.Config {
	return game.Config{
		BotRollDelay:    c.BotRollDelay,
		BattleRollPause: c.BattleRollPause,
		ScarePause:      c.ScarePause,
		ScareCount:      c.ScareTiles,
		BonusCount:      c.BonusTiles,
		MaxTieRounds:    c.MaxTieRounds,
		Debug:           c.Debug,
	}
}

// Roster returns the lineup options. Headless games are bots only.
func (c Config) Roster() entity.Options {
	humans := c.Humans
	if c.Headless {
		humans = 0
	}
	return entity.Options{
		Players:    c.Players,
		Humans:     humans,
		PlayerName: c.PlayerName,
		Character:  c.Character,
	}
}

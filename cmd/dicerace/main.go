// Package main is the entry point for DiceRace.
package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/samdwyer/dicerace/internal/config"
	"github.com/samdwyer/dicerace/internal/dice"
	"github.com/samdwyer/dicerace/internal/entity"
	"github.com/samdwyer/dicerace/internal/game"
	"github.com/samdwyer/dicerace/internal/gamedata"
	"github.com/samdwyer/dicerace/internal/score"
	"github.com/samdwyer/dicerace/internal/score/sqlite"
	"github.com/samdwyer/dicerace/internal/telemetry"
	"github.com/samdwyer/dicerace/internal/ui"
)

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_DICERACE_API_KEY and DICERACE_* available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Game will run without observability")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := dice.NewRand(seed)
	log.Printf("Seed: %d", seed)

	characters, err := gamedata.LoadCharacterRegistry()
	if err != nil {
		return err
	}
	botNames, err := gamedata.LoadBotNames()
	if err != nil {
		return err
	}
	roster, err := entity.BuildRoster(rng, characters, botNames, cfg.Roster())
	if err != nil {
		return err
	}
	log.Printf("Roster: %d players, %d human", roster.Len(), roster.HumanCount())
	board, err := cfg.Board()
	if err != nil {
		return err
	}

	leaders := score.NewLeaderboard(cfg.LeaderboardMax)
	recorders, closeRecorders, err := openRecorders(ctx, cfg, leaders)
	if err != nil {
		return err
	}
	defer closeRecorders()

	die := dice.NewVirtual(dice.NewRand(rng.Int63()), cfg.DiceSettle, cfg.DiceTimeout)
	deps := game.Deps{
		Board:    board,
		Roster:   roster,
		Dice:     die,
		Recorder: recorders,
		Rand:     rng,
	}

	if cfg.Headless {
		deps.Presenter = ui.NewLogPresenter(cfg.StepDuration)
		g := game.New(cfg.Game(), deps)
		defer g.Close()
		if err := die.Bind(g.OnDiceRolled); err != nil {
			return err
		}
		if err := g.StartGame(ctx); err != nil {
			return err
		}
		select {
		case <-g.Done():
		case <-ctx.Done():
		}
		return nil
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return err
	}
	defer screen.Close()
	redirectLog(cfg.LogFile)

	view := ui.NewView(leaders)
	deps.Presenter = ui.NewPresenter(view, cfg.StepDuration, screen.Interrupt)
	// Redraw once the win has been stored and the leaderboard updated.
	deps.Recorder = append(recorders, score.RecorderFunc(func(context.Context, score.Record) error {
		screen.Interrupt()
		return nil
	}))

	g := game.New(cfg.Game(), deps)
	defer g.Close()
	if err := die.Bind(g.OnDiceRolled); err != nil {
		return err
	}
	if err := g.StartGame(ctx); err != nil {
		return err
	}
	return ui.NewApp(screen, view, g, die).Run(ctx)
}

// openRecorders wires every configured leaderboard. The in-memory board is
// seeded from the database so the UI shows past wins.
func openRecorders(ctx context.Context, cfg config.Config, leaders *score.Leaderboard) (score.Multi, func(), error) {
	var (
		recorders score.Multi
		closers   []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Printf("score: close: %v", err)
			}
		}
	}

	if cfg.LeaderboardDB != "" {
		store, err := sqlite.Open(cfg.LeaderboardDB, cfg.LeaderboardMax)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, store.Close)
		recorders = append(recorders, store)

		past, err := store.Top(ctx, cfg.LeaderboardMax)
		if err != nil {
			log.Printf("score: load leaderboard: %v", err)
		}
		for _, rec := range past {
			_ = leaders.RecordWin(ctx, rec)
		}
	}
	if cfg.LeaderboardText != "" {
		text, err := score.NewTextLog(cfg.LeaderboardText)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		recorders = append(recorders, text)
		log.Printf("score: appending wins to %s", text.Path())
	}
	recorders = append(recorders, leaders)
	return recorders, closeAll, nil
}

// redirectLog keeps log lines off the terminal UI.
func redirectLog(path string) {
	if path == "" {
		log.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(f)
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", telemetry.DefaultEndpoint)
	}

	// Always build headers from our API key - the .env file may have an
	// unexpanded variable reference that doesn't work
	apiKey := os.Getenv("HONEYCOMB_DICERACE_API_KEY")
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			telemetry.HoneycombHeaders(apiKey, os.Getenv("HONEYCOMB_DICERACE_DATASET")))
	}
}

package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/dicerace/internal/combat"
	"github.com/samdwyer/dicerace/internal/dice"
	"github.com/samdwyer/dicerace/internal/entity"
	"github.com/samdwyer/dicerace/internal/score"
	"github.com/samdwyer/dicerace/internal/telemetry"
	"github.com/samdwyer/dicerace/internal/world"
)

var (
	// ErrNoPlayers is returned when the game is started with an empty roster.
	ErrNoPlayers = errors.New("game: no players")
	// ErrNoBoard is returned when the game is started without a board.
	ErrNoBoard = errors.New("game: no board")
	// ErrNoDice is returned when the game is started without a die.
	ErrNoDice = errors.New("game: no dice source")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("game: closed")
)

// Deps are the collaborators a Game works with.
type Deps struct {
	Board  *world.Board
	Roster *entity.Roster

	// Dice is called with the game lock held. SetRollPermission and Reset
	// must not report a roll to the handler synchronously; TriggerRoll is
	// always called without the lock.
	Dice dice.Source

	// Presenter defaults to NopPresenter.
	Presenter Presenter
	// Recorder receives the winner. Nil records nothing.
	Recorder score.Recorder

	// Rand picks the starting player and the special tiles. Seeded from the
	// clock when nil.
	Rand *rand.Rand
	// DuelRoller rolls battle dice. Derived from Rand when nil.
	DuelRoller dice.Roller
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Game is the turn orchestrator. All exported methods are safe for
// concurrent use.
type Game struct {
	cfg       Config
	board     *world.Board
	roster    *entity.Roster
	dice      dice.Source
	presenter Presenter
	recorder  score.Recorder
	rng       *rand.Rand
	duel      *combat.Resolver
	clock     func() time.Time
	tracer    trace.Tracer

	wg sync.WaitGroup

	mu         sync.Mutex
	baseCtx    context.Context
	gen        uint64
	turnCtx    context.Context
	cancel     context.CancelFunc
	closed     bool
	phase      Phase
	current    int
	winner     int
	rolling    bool
	specials   *world.SpecialTiles
	gameID     string
	startedAt  time.Time
	status     string
	done       chan struct{}
	doneClosed bool
}

// New creates a game. Nothing happens until StartGame.
func New(cfg Config, deps Deps) *Game {
	if cfg.MaxTieRounds <= 0 {
		cfg.MaxTieRounds = combat.DefaultMaxTieRounds
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	roller := deps.DuelRoller
	if roller == nil {
		roller = rand.New(rand.NewSource(rng.Int63()))
	}
	presenter := deps.Presenter
	if presenter == nil {
		presenter = NopPresenter{}
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Game{
		cfg:       cfg,
		board:     deps.Board,
		roster:    deps.Roster,
		dice:      deps.Dice,
		presenter: presenter,
		recorder:  deps.Recorder,
		rng:       rng,
		duel:      combat.NewResolver(&lockedRoller{r: roller}, cfg.BattleRollPause, cfg.MaxTieRounds),
		clock:     clock,
		tracer:    telemetry.Tracer("game"),
		baseCtx:   context.Background(),
		phase:     PhaseIdle,
		winner:    -1,
		done:      make(chan struct{}),
	}
}

// StartGame picks a random starting player, draws the special tiles and
// waits for the first roll. Starting again abandons the game in progress.
// Configuration errors are returned and leave the game idle.
func (g *Game) StartGame(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	g.baseCtx = ctx
	return g.startLocked()
}

// ResetGame clears every position and throw count and starts a fresh game.
// Steps still in flight from the previous game are cancelled and can no
// longer change state.
func (g *Game) ResetGame() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}

	g.abandonLocked()
	if g.roster != nil {
		g.roster.Reset()
	}
	if g.dice != nil {
		g.dice.Reset()
	}
	g.presenter.Reset()
	log.Printf("game: reset")
	return g.startLocked()
}

// Close cancels the running game and waits for its background work to stop.
func (g *Game) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.abandonLocked()
	g.phase = PhaseIdle
	if g.dice != nil {
		g.dice.SetRollPermission(false)
	}
	g.mu.Unlock()

	g.wg.Wait()
}

// Done returns a channel closed when the current game is won.
func (g *Game) Done() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.done
}

// Snapshot returns a copy of the current state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// OnDiceRolled receives a settled face from the die. It accepts one roll per
// turn: duplicates and rolls outside of AwaitingRoll are logged and dropped.
func (g *Game) OnDiceRolled(face int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.rolling {
		log.Printf("game: duplicate roll %d ignored", face)
		return
	}
	if g.phase != PhaseAwaitingRoll {
		log.Printf("game: roll %d ignored in phase %s", face, g.phase)
		return
	}
	p := g.playerLocked(g.current)
	if p == nil {
		return
	}

	clamped := dice.Clamp(face)
	if clamped != face {
		log.Printf("game: face %d out of range, using %d", face, clamped)
	}

	g.rolling = true
	g.phase = PhaseResolving
	g.dice.SetRollPermission(false)
	p.Throws++

	from := p.Position
	to := g.board.Target(from, clamped)
	log.Printf("game: %s rolled %d (%d -> %d)", p.Name, clamped, from, to)
	g.presenter.Rolled(p.ID, clamped)

	g.wg.Add(1)
	go g.resolveTurn(g.turnCtx, g.gen, p.ID, clamped, from, to)
}

// RequestRoll rolls the die for a human player whose turn it is. It returns
// false if player may not roll right now.
func (g *Game) RequestRoll(player int) bool {
	g.mu.Lock()
	if !g.awaitingLocked(g.gen, player) {
		g.mu.Unlock()
		return false
	}
	p := g.playerLocked(player)
	if p == nil || !p.Human {
		g.mu.Unlock()
		return false
	}
	g.dice.SetRollPermission(true)
	g.mu.Unlock()

	g.dice.TriggerRoll()
	return true
}

// RearmRoll resets a stuck die for the current player. Bots roll again
// after the usual delay.
func (g *Game) RearmRoll() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseAwaitingRoll || g.rolling {
		return false
	}
	p := g.playerLocked(g.current)
	if p == nil {
		return false
	}
	g.dice.Reset()
	log.Printf("game: die re-armed for %s", p.Name)
	if p.Human {
		g.dice.SetRollPermission(true)
		return true
	}
	g.dice.SetRollPermission(false)
	g.wg.Add(1)
	go g.botRoll(g.turnCtx, g.gen, p.ID)
	return true
}

// startLocked validates the setup and begins a new generation.
func (g *Game) startLocked() error {
	if err := g.validateLocked(); err != nil {
		log.Printf("game: cannot start: %v", err)
		g.phase = PhaseIdle
		return err
	}

	g.abandonLocked()
	g.turnCtx, g.cancel = context.WithCancel(g.baseCtx)

	ctx, span := g.tracer.Start(g.turnCtx, "game.start")
	defer span.End()

	if g.doneClosed {
		g.done = make(chan struct{})
		g.doneClosed = false
	}
	g.gameID = uuid.NewString()
	g.startedAt = g.clock()
	g.winner = -1
	g.rolling = false
	g.status = ""
	g.specials = world.GenerateSpecialTiles(ctx, g.rng, g.board, g.cfg.ScareCount, g.cfg.BonusCount)
	g.current = g.rng.Intn(g.roster.Len())

	g.dice.Reset()
	g.dice.SetRollPermission(false)

	span.SetAttributes(
		attribute.String("game.id", g.gameID),
		attribute.Int("game.players", g.roster.Len()),
		attribute.Int("board.length", g.board.Len()),
		attribute.Int("board.winning_index", g.board.WinningIndex()),
		attribute.Int("game.first_player", g.current),
		attribute.IntSlice("tiles.scare", g.specials.Scare()),
		attribute.IntSlice("tiles.bonus", g.specials.Bonus()),
	)
	log.Printf("game: started %s with %d players, scare %v bonus %v",
		g.gameID, g.roster.Len(), g.specials.Scare(), g.specials.Bonus())

	g.beginTurnLocked()
	return nil
}

func (g *Game) validateLocked() error {
	switch {
	case g.roster == nil || g.roster.Len() == 0:
		return ErrNoPlayers
	case g.board == nil:
		return ErrNoBoard
	case g.dice == nil:
		return ErrNoDice
	}
	if w := g.board.WinningIndex(); w <= world.StartIndex || w > g.board.LastIndex() {
		return fmt.Errorf("%w: %d", world.ErrWinningIndex, w)
	}
	return nil
}

// abandonLocked invalidates every step of the current generation.
func (g *Game) abandonLocked() {
	g.gen++
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

// beginTurnLocked puts the current player in AwaitingRoll.
func (g *Game) beginTurnLocked() {
	g.phase = PhaseAwaitingRoll
	g.rolling = false

	p := g.playerLocked(g.current)
	if p == nil {
		return
	}
	g.status = fmt.Sprintf("%s's turn", p.Name)
	g.presenter.TurnStarted(g.snapshotLocked())
	g.presenter.Status(g.status)

	if p.Human {
		g.dice.SetRollPermission(true)
		return
	}
	g.dice.SetRollPermission(false)
	g.wg.Add(1)
	go g.botRoll(g.turnCtx, g.gen, p.ID)
}

// botRoll rolls for a bot after the configured delay, if its turn is still waiting.
func (g *Game) botRoll(ctx context.Context, gen uint64, player int) {
	defer g.wg.Done()
	if err := combat.Wait(ctx, g.cfg.BotRollDelay); err != nil {
		return
	}

	g.mu.Lock()
	if !g.awaitingLocked(gen, player) {
		g.mu.Unlock()
		return
	}
	g.dice.SetRollPermission(true)
	g.mu.Unlock()

	g.dice.TriggerRoll()
}

// awaitingLocked returns true if player may roll in generation gen.
func (g *Game) awaitingLocked(gen uint64, player int) bool {
	return gen == g.gen &&
		g.phase == PhaseAwaitingRoll &&
		g.current == player &&
		!g.rolling
}

// playerLocked looks up a player. An unknown id is a programming error.
func (g *Game) playerLocked(id int) *entity.Player {
	p := g.roster.Get(id)
	if p == nil {
		g.lookupFailed("player", id)
	}
	return p
}

func (g *Game) lookupFailed(kind string, idx int) {
	msg := fmt.Sprintf("game: %s %d out of range", kind, idx)
	if g.cfg.Debug {
		panic(msg)
	}
	log.Print(msg)
}

func (g *Game) snapshotLocked() Snapshot {
	s := Snapshot{
		GameID:     g.gameID,
		Generation: g.gen,
		Phase:      g.phase,
		Current:    g.current,
		Winner:     g.winner,
		Board:      g.board,
		Specials:   g.specials,
		Status:     g.status,
		StartedAt:  g.startedAt,
	}
	if g.roster != nil {
		s.Players = g.roster.Snapshot()
	}
	return s
}

// lockedRoller serialises a Roller shared by turns of different generations.
type lockedRoller struct {
	mu sync.Mutex
	r  dice.Roller
}

func (l *lockedRoller) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

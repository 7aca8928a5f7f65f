package ui

import (
	"context"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dicerace/internal/game"
)

// Controller is the part of the game the keyboard drives.
type Controller interface {
	RequestRoll(player int) bool
	RearmRoll() bool
	ResetGame() error
	Snapshot() game.Snapshot
}

// DieState reports whether a roll is tumbling.
type DieState interface {
	Rolling() bool
}

// Action is what a key press asks for.
type Action int

const (
	ActionNone Action = iota
	ActionRoll
	ActionRearm
	ActionReset
	ActionQuit
)

// App is the terminal front end: it draws the view and turns keys into game commands.
type App struct {
	screen   *Screen
	renderer *Renderer
	view     *View
	ctrl     Controller
	die      DieState
}

// NewApp creates the terminal front end. die may be nil.
func NewApp(screen *Screen, view *View, ctrl Controller, die DieState) *App {
	return &App{
		screen:   screen,
		renderer: NewRenderer(screen),
		view:     view,
		ctrl:     ctrl,
		die:      die,
	}
}

// Run draws and handles input until the player quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		a.screen.Interrupt()
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		a.renderer.Render(a.frame())

		switch ev := a.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			if !a.handle(actionFor(ev)) {
				return nil
			}
		}
	}
}

// frame returns the view's frame with the live die state applied.
func (a *App) frame() Frame {
	f := a.view.Frame()
	if a.die != nil {
		f.Rolling = a.die.Rolling()
	}
	return f
}

// handle runs one action and returns false when the app should stop.
func (a *App) handle(action Action) bool {
	switch action {
	case ActionQuit:
		return false
	case ActionRoll:
		s := a.ctrl.Snapshot()
		if p := s.CurrentPlayer(); p != nil && p.Human {
			a.ctrl.RequestRoll(p.ID)
		}
	case ActionRearm:
		a.ctrl.RearmRoll()
	case ActionReset:
		if err := a.ctrl.ResetGame(); err != nil {
			log.Printf("game: reset failed: %v", err)
		}
	}
	return true
}

// actionFor maps a key press to an action.
func actionFor(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyEnter:
		return ActionRoll
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			return ActionRoll
		case 'd', 'D':
			return ActionRearm
		case 'r', 'R':
			return ActionReset
		case 'q', 'Q':
			return ActionQuit
		}
	}
	return ActionNone
}

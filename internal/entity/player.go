// Package entity provides the players racing on the board.
package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dicerace/internal/gamedata"
)

// Player is one participant in the race.
type Player struct {
	ID     int                    // Stable index into the roster
	Name   string                 // Display name
	Human  bool                   // False for bots
	Def    *gamedata.CharacterDef // Character look (nil renders a default glyph)
	Symbol rune                   // Display symbol

	Position int // Current square, always within the board
	Throws   int // Accepted rolls this game

	// Presentation state. The orchestrator flips these; renderers map them to poses.
	Walking   bool
	Attacking bool
}

// NewPlayer creates a player at the start square.
func NewPlayer(name string, human bool, def *gamedata.CharacterDef) *Player {
	p := &Player{
		Name:   name,
		Human:  human,
		Def:    def,
		Symbol: '@',
	}
	if def != nil {
		p.Symbol = def.GlyphRune()
	}
	return p
}

// GetID returns the player's roster index.
func (p *Player) GetID() int { return p.ID }

// GetName returns the player's display name.
func (p *Player) GetName() string { return p.Name }

// GetPosition returns the player's current square.
func (p *Player) GetPosition() int { return p.Position }

// IsBot returns true if the orchestrator rolls for this player.
func (p *Player) IsBot() bool { return !p.Human }

// Color returns the tcell color for this player.
func (p *Player) Color() tcell.Color {
	if p.Def != nil {
		return p.Def.TCellColor()
	}
	return tcell.ColorYellow
}

// Reset returns the player to the start square with no throws.
func (p *Player) Reset() {
	p.Position = 0
	p.Throws = 0
	p.Walking = false
	p.Attacking = false
}

package world

import (
	"errors"
	"fmt"
)

const (
	// DefaultLength is the number of squares on the standard board.
	DefaultLength = 30

	// StartIndex is the square every piece begins on.
	StartIndex = 0

	// MinLength is the smallest playable board: a start and a goal.
	MinLength = 2
)

var (
	// ErrBoardTooSmall is returned when a board has fewer than MinLength squares.
	ErrBoardTooSmall = errors.New("board needs at least two squares")
	// ErrWinningIndex is returned when the winning square collapses onto the start.
	ErrWinningIndex = errors.New("winning square must not be the start square")
)

// Board is the ordered track of squares. It is immutable once created.
type Board struct {
	squares      []Tile
	winningIndex int
}

// NewBoard creates a board with length squares.
// A negative winningIndex selects the last square; anything past the end is
// clamped onto the last square.
func NewBoard(length, winningIndex int) (*Board, error) {
	if length < MinLength {
		return nil, fmt.Errorf("%w: got %d", ErrBoardTooSmall, length)
	}

	last := length - 1
	if winningIndex < 0 || winningIndex > last {
		winningIndex = last
	}
	if winningIndex == StartIndex {
		return nil, ErrWinningIndex
	}

	squares := make([]Tile, length)
	for i := range squares {
		squares[i] = TileFloor
	}
	squares[StartIndex] = TileStart
	squares[winningIndex] = TileGoal

	return &Board{
		squares:      squares,
		winningIndex: winningIndex,
	}, nil
}

// Len returns the number of squares.
func (b *Board) Len() int {
	return len(b.squares)
}

// LastIndex returns the index of the final square.
func (b *Board) LastIndex() int {
	return len(b.squares) - 1
}

// WinningIndex returns the square a piece must reach to win.
func (b *Board) WinningIndex() int {
	return b.winningIndex
}

// Contains returns true if index names a square on the board.
func (b *Board) Contains(index int) bool {
	return index >= 0 && index < len(b.squares)
}

// Clamp pins index into [0, LastIndex].
func (b *Board) Clamp(index int) int {
	if index < 0 {
		return 0
	}
	if index > b.LastIndex() {
		return b.LastIndex()
	}
	return index
}

// Target returns the square reached by moving steps squares from the given one.
// Movement never overshoots the end of the board or goes below the start.
func (b *Board) Target(from, steps int) int {
	return b.Clamp(from + steps)
}

// IsWinning returns true if a piece at index has won.
func (b *Board) IsWinning(index int) bool {
	return index >= b.winningIndex
}

// TileAt returns the tile at index, taking special tiles into account.
// Out of range indexes report TileFloor.
func (b *Board) TileAt(index int, specials *SpecialTiles) Tile {
	if !b.Contains(index) {
		return TileFloor
	}
	if specials != nil {
		if specials.IsScare(index) {
			return TileScare
		}
		if specials.IsBonus(index) {
			return TileBonus
		}
	}
	return b.squares[index]
}

// Layout returns every tile in board order with special tiles applied.
func (b *Board) Layout(specials *SpecialTiles) []Tile {
	layout := make([]Tile, len(b.squares))
	for i := range layout {
		layout[i] = b.TileAt(i, specials)
	}
	return layout
}

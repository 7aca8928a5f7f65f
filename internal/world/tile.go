// Package world provides the board track and its special squares.
package world

// Tile represents what a single square does when a piece lands on it.
type Tile rune

const (
	// TileFloor is an ordinary square with no effect.
	TileFloor Tile = '.'
	// TileStart is square 0. Pieces on it never battle.
	TileStart Tile = 'S'
	// TileGoal is the winning square.
	TileGoal Tile = 'G'
	// TileScare sends the piece back one square after a short reveal.
	TileScare Tile = '!'
	// TileBonus moves the piece forward one square.
	TileBonus Tile = '+'
)

// IsSafe returns true if pieces sharing this tile do not battle.
func (t Tile) IsSafe() bool {
	return t == TileStart
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}

// String returns a human-readable tile name.
func (t Tile) String() string {
	switch t {
	case TileFloor:
		return "floor"
	case TileStart:
		return "start"
	case TileGoal:
		return "goal"
	case TileScare:
		return "scare"
	case TileBonus:
		return "bonus"
	default:
		return "unknown"
	}
}

package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dicerace/internal/world"
)

const (
	marginX   = 2
	cellWidth = 2
	trackTop  = 2

	leaderRows = 5
	helpLine   = "space/enter: roll   d: re-arm die   r: new game   q: quit"
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws one frame: the track with every piece in its own lane, the
// roster, the status line and the leaderboard.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()
	width, _ := r.screen.Size()

	title := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	x := r.screen.DrawText(marginX, 0, "DiceRace", title)
	if f.GameID != "" {
		r.screen.DrawText(x+2, 0, "game "+shortID(f.GameID), tcell.StyleDefault.Foreground(tcell.ColorGray))
	}

	perRow := squaresPerRow(width)
	lanes := len(f.Pieces)
	for i, tile := range f.Tiles {
		tx, ty := cellPosition(i, perRow, lanes)
		r.screen.SetContent(tx, ty, tile.Rune(), tileStyle(tile))
	}
	for lane, piece := range f.Pieces {
		px, py := cellPosition(piece.Square, perRow, lanes)
		r.screen.SetContent(px, py+1+lane, piece.Glyph, pieceStyle(piece))
	}

	y := trackTop + trackRows(len(f.Tiles), perRow)*blockHeight(lanes) + 1
	for _, piece := range f.Pieces {
		marker := "  "
		switch {
		case piece.Won:
			marker = "* "
		case piece.ID == f.Current && !f.GameOver:
			marker = "> "
		}
		line := fmt.Sprintf("%s%c %-18s square %2d  throws %2d%s", marker, piece.Glyph, piece.Name, piece.Square, piece.Throws, poseLabel(piece))
		r.screen.DrawText(marginX, y, line, tcell.StyleDefault.Foreground(piece.Color))
		y++
	}

	y++
	r.screen.DrawText(marginX, y, f.Status, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
	y++
	if line := rollLine(f); line != "" {
		r.screen.DrawText(marginX, y, line, tcell.StyleDefault.Foreground(tcell.ColorAqua))
		y++
	}
	if f.GameOver && f.Winner != nil {
		r.screen.DrawText(marginX, y, "Winner: "+f.Winner.Line(), tcell.StyleDefault.Foreground(tcell.ColorYellow))
		y++
	}
	y++
	r.screen.DrawText(marginX, y, helpLine, tcell.StyleDefault.Foreground(tcell.ColorGray))

	if len(f.Leaders) > 0 {
		y += 2
		r.screen.DrawText(marginX, y, "Leaderboard", title)
		for i, rec := range f.Leaders {
			if i >= leaderRows {
				break
			}
			y++
			r.screen.DrawText(marginX, y, fmt.Sprintf("%d. %s", i+1, rec.Line()), tcell.StyleDefault)
		}
	}

	r.screen.Show()
}

// squaresPerRow returns how many squares fit across the screen.
func squaresPerRow(width int) int {
	return max(1, (width-2*marginX)/cellWidth)
}

// trackRows returns how many screen rows of squares the track wraps onto.
func trackRows(squares, perRow int) int {
	if squares == 0 {
		return 0
	}
	return (squares + perRow - 1) / perRow
}

// blockHeight is one wrapped track row: the tiles, one lane per piece, a gap.
func blockHeight(lanes int) int {
	return lanes + 2
}

// cellPosition returns the screen cell of a square's tile.
func cellPosition(square, perRow, lanes int) (int, int) {
	row, col := square/perRow, square%perRow
	return marginX + col*cellWidth, trackTop + row*blockHeight(lanes)
}

// rollLine describes the die: tumbling, or the last face the game accepted.
func rollLine(f Frame) string {
	switch {
	case f.Rolling:
		return "Rolling..."
	case f.LastRoll != nil && f.LastRoll.Name != "":
		return fmt.Sprintf("%s rolled %d", f.LastRoll.Name, f.LastRoll.Face)
	case f.LastRoll != nil:
		return fmt.Sprintf("Rolled %d", f.LastRoll.Face)
	default:
		return ""
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func poseLabel(p Piece) string {
	switch {
	case p.Attacking:
		return "  attacking"
	case p.Walking:
		return "  walking"
	default:
		return ""
	}
}

// tileStyle returns the appropriate style for a tile type.
func tileStyle(tile world.Tile) tcell.Style {
	switch tile {
	case world.TileStart:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case world.TileGoal:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	case world.TileScare:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case world.TileBonus:
		return tcell.StyleDefault.Foreground(tcell.ColorAqua)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
}

func pieceStyle(p Piece) tcell.Style {
	style := tcell.StyleDefault.Foreground(p.Color).Bold(true)
	if p.Attacking {
		style = style.Reverse(true)
	}
	return style
}

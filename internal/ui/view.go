package ui

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dicerace/internal/game"
	"github.com/samdwyer/dicerace/internal/score"
	"github.com/samdwyer/dicerace/internal/world"
)

// Piece is how one player looks on screen.
type Piece struct {
	ID        int
	Name      string
	Glyph     rune
	Color     tcell.Color
	Human     bool
	Square    int
	Throws    int
	Walking   bool
	Attacking bool
	Won       bool
}

// Roll is the last face the game accepted.
type Roll struct {
	Player int
	Name   string
	Face   int
}

// Frame is everything the renderer needs for one draw.
type Frame struct {
	GameID   string
	Tiles    []world.Tile
	Pieces   []Piece
	Current  int
	Status   string
	LastRoll *Roll
	Rolling  bool
	GameOver bool
	Winner   *score.Record
	Leaders  []score.Record
}

// View is the presentation state, fed by a Presenter and read by the renderer.
type View struct {
	mu      sync.Mutex
	frame   Frame
	leaders *score.Leaderboard
}

// NewView creates an empty view. leaders may be nil.
func NewView(leaders *score.Leaderboard) *View {
	return &View{leaders: leaders, frame: Frame{Current: -1}}
}

// Frame returns a copy of the current frame.
func (v *View) Frame() Frame {
	v.mu.Lock()
	defer v.mu.Unlock()

	f := v.frame
	f.Tiles = append([]world.Tile(nil), v.frame.Tiles...)
	f.Pieces = append([]Piece(nil), v.frame.Pieces...)
	if v.frame.LastRoll != nil {
		r := *v.frame.LastRoll
		f.LastRoll = &r
	}
	if v.leaders != nil {
		f.Leaders = v.leaders.Entries()
	}
	return f
}

// load replaces the board and pieces from a game snapshot.
func (v *View) load(s game.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.frame.GameID = s.GameID
	v.frame.Current = s.Current
	v.frame.Status = s.Status
	v.frame.GameOver = s.Phase == game.PhaseGameOver
	if s.Board != nil {
		v.frame.Tiles = s.Board.Layout(s.Specials)
	}
	winner := -1
	if w := s.WinningPlayer(); w != nil {
		winner = w.ID
	}
	v.frame.Pieces = v.frame.Pieces[:0]
	for _, p := range s.Players {
		v.frame.Pieces = append(v.frame.Pieces, Piece{
			ID:        p.ID,
			Name:      p.Name,
			Glyph:     p.Symbol,
			Color:     p.Color(),
			Human:     p.Human,
			Square:    p.Position,
			Throws:    p.Throws,
			Walking:   p.Walking,
			Attacking: p.Attacking,
			Won:       p.ID == winner,
		})
	}
}

// update applies fn to the piece with the given id.
func (v *View) update(id int, fn func(*Piece)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.frame.Pieces {
		if v.frame.Pieces[i].ID == id {
			fn(&v.frame.Pieces[i])
			return
		}
	}
}

func (v *View) setRoll(id, face int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	r := &Roll{Player: id, Face: face}
	for _, p := range v.frame.Pieces {
		if p.ID == id {
			r.Name = p.Name
			break
		}
	}
	v.frame.LastRoll = r
}

func (v *View) setStatus(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frame.Status = msg
}

func (v *View) finish(rec score.Record) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frame.GameOver = true
	v.frame.Winner = &rec
}

func (v *View) clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frame = Frame{Current: -1}
}

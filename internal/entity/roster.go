package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/samdwyer/dicerace/internal/gamedata"
)

// ErrEmptyRoster is returned when a roster would have no players.
var ErrEmptyRoster = errors.New("roster needs at least one player")

// Roster is the ordered list of players. Turn order follows roster order.
type Roster struct {
	Players []*Player
}

// NewRoster creates a roster and assigns each player its index as ID.
func NewRoster(players ...*Player) *Roster {
	for i, p := range players {
		p.ID = i
	}
	return &Roster{Players: players}
}

// Options controls how BuildRoster names and dresses players.
type Options struct {
	Players    int    // Total number of players
	Humans     int    // The first Humans players are human
	PlayerName string // Name for the first human
	Character  string // Character ID for the first human
}

// BuildRoster creates the standard lineup: humans first, then bots.
// The first human is shown as "<name> (You)"; bots draw from the shuffled
// name pool and fall back to "Bot N" once it runs dry.
func BuildRoster(rng *rand.Rand, characters *gamedata.CharacterRegistry, botNames []string, opts Options) (*Roster, error) {
	if opts.Players < 1 {
		return nil, ErrEmptyRoster
	}
	if opts.Humans > opts.Players {
		return nil, fmt.Errorf("humans (%d) exceed players (%d)", opts.Humans, opts.Players)
	}

	name := opts.PlayerName
	if name == "" {
		name = "Player"
	}
	names := gamedata.ShuffledNames(rng, botNames)

	players := make([]*Player, 0, opts.Players)
	bot := 0
	for i := 0; i < opts.Players; i++ {
		var def *gamedata.CharacterDef
		if characters != nil {
			def = characters.Random(rng)
		}

		switch {
		case i == 0 && opts.Humans > 0:
			if characters != nil {
				if chosen := characters.GetByID(opts.Character); chosen != nil {
					def = chosen
				}
			}
			players = append(players, NewPlayer(name+" (You)", true, def))
		case i < opts.Humans:
			players = append(players, NewPlayer(fmt.Sprintf("%s %d", name, i+1), true, def))
		default:
			bot++
			botName := fmt.Sprintf("Bot %d", bot)
			if len(names) > 0 {
				botName, names = names[0], names[1:]
			}
			players = append(players, NewPlayer(botName, false, def))
		}
	}

	return NewRoster(players...), nil
}

// Len returns the number of players.
func (r *Roster) Len() int {
	return len(r.Players)
}

// Get returns the player with the given ID, or nil if out of range.
func (r *Roster) Get(id int) *Player {
	if id < 0 || id >= len(r.Players) {
		return nil
	}
	return r.Players[id]
}

// OpponentOn returns the first player other than except standing on square, or nil.
func (r *Roster) OpponentOn(square, except int) *Player {
	for _, p := range r.Players {
		if p.ID != except && p.Position == square {
			return p
		}
	}
	return nil
}

// Reset returns every player to the start square.
func (r *Roster) Reset() {
	for _, p := range r.Players {
		p.Reset()
	}
}

// Snapshot returns value copies of every player.
func (r *Roster) Snapshot() []Player {
	out := make([]Player, len(r.Players))
	for i, p := range r.Players {
		out[i] = *p
	}
	return out
}

// HumanCount returns the number of human players.
func (r *Roster) HumanCount() int {
	count := 0
	for _, p := range r.Players {
		if p.Human {
			count++
		}
	}
	return count
}

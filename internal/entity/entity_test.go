package entity

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dicerace/internal/gamedata"
)

func TestNewRosterAssignsIDs(t *testing.T) {
	r := NewRoster(
		NewPlayer("Ann", true, nil),
		NewPlayer("Bob", false, nil),
		NewPlayer("Cid", false, nil),
	)

	for i, p := range r.Players {
		if p.GetID() != i {
			t.Errorf("Players[%d].ID = %d, want %d", i, p.GetID(), i)
		}
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if r.HumanCount() != 1 {
		t.Errorf("HumanCount() = %d, want 1", r.HumanCount())
	}
	if r.Get(3) != nil || r.Get(-1) != nil {
		t.Error("Get() should return nil out of range")
	}
}

func TestRosterOpponentOn(t *testing.T) {
	r := NewRoster(
		NewPlayer("Ann", true, nil),
		NewPlayer("Bob", false, nil),
		NewPlayer("Cid", false, nil),
	)
	r.Players[0].Position = 10
	r.Players[1].Position = 4
	r.Players[2].Position = 10

	if got := r.OpponentOn(10, 0); got != r.Players[2] {
		t.Errorf("OpponentOn(10, 0) = %v, want Cid", got)
	}
	if got := r.OpponentOn(4, 1); got != nil {
		t.Errorf("OpponentOn(4, 1) = %v, want nil", got)
	}
}

func TestRosterReset(t *testing.T) {
	r := NewRoster(NewPlayer("Ann", true, nil))
	p := r.Players[0]
	p.Position = 12
	p.Throws = 4
	p.Walking = true
	p.Attacking = true

	r.Reset()

	if p.Position != 0 || p.Throws != 0 || p.Walking || p.Attacking {
		t.Errorf("Reset() left player at %+v", *p)
	}
}

func TestRosterSnapshotIsCopy(t *testing.T) {
	r := NewRoster(NewPlayer("Ann", true, nil))
	snap := r.Snapshot()
	snap[0].Position = 9

	if r.Players[0].Position != 0 {
		t.Error("mutating a snapshot must not move the player")
	}
}

func TestBuildRoster(t *testing.T) {
	registry := gamedata.MustLoadCharacterRegistry()
	rng := rand.New(rand.NewSource(42))

	r, err := BuildRoster(rng, registry, []string{"Greta", "Hollis"}, Options{
		Players:    4,
		Humans:     1,
		PlayerName: "Sam",
		Character:  "witch",
	})
	if err != nil {
		t.Fatalf("BuildRoster() error: %v", err)
	}

	if r.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", r.Len())
	}
	first := r.Players[0]
	if !first.Human || first.Name != "Sam (You)" {
		t.Errorf("first player = %q human=%v, want \"Sam (You)\" human", first.Name, first.Human)
	}
	if first.Def == nil || first.Def.ID != "witch" {
		t.Errorf("first player character = %v, want witch", first.Def)
	}

	botNames := map[string]bool{}
	for _, p := range r.Players[1:] {
		if p.Human {
			t.Errorf("%q should be a bot", p.Name)
		}
		botNames[p.Name] = true
	}
	if !botNames["Greta"] || !botNames["Hollis"] {
		t.Errorf("bots %v should use both pool names", botNames)
	}
	// Two names for three bots: the third falls back to a numbered name.
	fallback := false
	for name := range botNames {
		if strings.HasPrefix(name, "Bot ") {
			fallback = true
		}
	}
	if !fallback {
		t.Errorf("bots %v should include a numbered fallback name", botNames)
	}
}

func TestBuildRosterErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := BuildRoster(rng, nil, nil, Options{Players: 0}); !errors.Is(err, ErrEmptyRoster) {
		t.Errorf("BuildRoster(0 players) error = %v, want ErrEmptyRoster", err)
	}
	if _, err := BuildRoster(rng, nil, nil, Options{Players: 2, Humans: 3}); err == nil {
		t.Error("BuildRoster() should reject more humans than players")
	}
}

func TestBuildRosterAllBots(t *testing.T) {
	r, err := BuildRoster(rand.New(rand.NewSource(1)), nil, nil, Options{Players: 3})
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range r.Players {
		if p.Human {
			t.Errorf("Players[%d] should be a bot", i)
		}
		if p.Symbol != '@' {
			t.Errorf("Players[%d].Symbol = %q, want default '@'", i, p.Symbol)
		}
		if p.Color() != tcell.ColorYellow {
			t.Errorf("Players[%d].Color() should fall back to yellow", i)
		}
	}
	if r.Players[0].Name != "Bot 1" || r.Players[2].Name != "Bot 3" {
		t.Errorf("bot names = %q..%q, want Bot 1..Bot 3", r.Players[0].Name, r.Players[2].Name)
	}
}

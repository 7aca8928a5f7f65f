package game

import (
	"strings"
	"testing"
	"time"
)

func TestBattleKnocksLoserBack(t *testing.T) {
	// Mover rolls 6, resident rolls 1.
	tg := newTestGame(t, 2, []int{6, 1})
	s := tg.start(t)
	mover, resident := s.Current, (s.Current+1)%2
	tg.roster.Players[mover].Position = 7
	tg.roster.Players[resident].Position = 10

	tg.OnDiceRolled(3)
	next := tg.nextTurn(t)

	if got := next.Players[mover].Position; got != 10 {
		t.Errorf("winner position = %d, want 10", got)
	}
	if got := next.Players[resident].Position; got != 9 {
		t.Errorf("loser position = %d, want 9", got)
	}
	if got := next.Players[resident].Throws; got != 0 {
		t.Errorf("battle rolls counted as throws: %d", got)
	}

	wantPrefix := []string{
		"Battle! ",
		next.Players[mover].Name + " rolls 6",
		next.Players[resident].Name + " rolls 1",
		"Winner: " + next.Players[mover].Name + ". Loser moves back 1.",
	}
	statuses := tg.presenter.Statuses()
	idx := indexOfPrefix(statuses, "Battle! ")
	if idx < 0 || len(statuses) < idx+len(wantPrefix) {
		t.Fatalf("statuses = %q, want a battle sequence", statuses)
	}
	for i, want := range wantPrefix {
		if !strings.HasPrefix(statuses[idx+i], want) {
			t.Errorf("status[%d] = %q, want prefix %q", idx+i, statuses[idx+i], want)
		}
	}
}

func TestBattleTieRerolls(t *testing.T) {
	// Two ties, then the resident wins.
	tg := newTestGame(t, 2, []int{4, 4, 2, 2, 1, 5})
	s := tg.start(t)
	mover, resident := s.Current, (s.Current+1)%2
	tg.roster.Players[mover].Position = 8
	tg.roster.Players[resident].Position = 10

	tg.OnDiceRolled(2)
	next := tg.nextTurn(t)

	if got := next.Players[mover].Position; got != 9 {
		t.Errorf("loser position = %d, want 9", got)
	}
	if got := next.Players[resident].Position; got != 10 {
		t.Errorf("winner position = %d, want 10", got)
	}
	ties := 0
	for _, msg := range tg.presenter.Statuses() {
		if msg == "Tie! Re-rolling..." {
			ties++
		}
	}
	if ties != 2 {
		t.Errorf("tie announcements = %d, want 2", ties)
	}
}

func TestBattleLoopRechecksKnockbackSquare(t *testing.T) {
	// Mover loses the first duel, lands on the third player and wins that one.
	tg := newTestGame(t, 3, []int{1, 6, 6, 1})
	s := tg.start(t)
	mover := s.Current
	first, second := (mover+1)%3, (mover+2)%3
	tg.roster.Players[mover].Position = 7
	tg.roster.Players[first].Position = 10
	tg.roster.Players[second].Position = 9

	tg.OnDiceRolled(3)
	next := tg.nextTurn(t)

	got := map[int]int{
		mover:  next.Players[mover].Position,
		first:  next.Players[first].Position,
		second: next.Players[second].Position,
	}
	want := map[int]int{mover: 9, first: 10, second: 8}
	for id, pos := range want {
		if got[id] != pos {
			t.Errorf("player %d position = %d, want %d", id, got[id], pos)
		}
	}

	battles := 0
	for _, msg := range tg.presenter.Statuses() {
		if strings.HasPrefix(msg, "Battle! ") {
			battles++
		}
	}
	if battles != 2 {
		t.Errorf("battles = %d, want 2", battles)
	}
}

func TestStartSquareIsSafe(t *testing.T) {
	// An empty duel script panics if a battle is attempted.
	tg := newTestGame(t, 2, nil)
	s := tg.start(t)
	mover := s.Current
	tg.setSpecials([]int{1}, nil)

	// The scare square sends the mover back onto the shared start square.
	tg.OnDiceRolled(1)
	next := tg.nextTurn(t)

	if got := next.Players[mover].Position; got != 0 {
		t.Errorf("mover position = %d, want 0", got)
	}
	if idx := indexOfPrefix(tg.presenter.Statuses(), "Battle! "); idx >= 0 {
		t.Errorf("battle fought on the start square: %q", tg.presenter.Statuses())
	}
}

func TestPositionsStayOnBoard(t *testing.T) {
	tg := newTestGame(t, 2, []int{6, 1})
	s := tg.start(t)
	last := s.Board.LastIndex()

	for i := 0; i < 12; i++ {
		tg.OnDiceRolled(6)
		select {
		case <-tg.Done():
			return
		case next := <-tg.presenter.turns:
			for _, p := range next.Players {
				if p.Position < 0 || p.Position > last {
					t.Fatalf("player %d off the board at %d", p.ID, p.Position)
				}
			}
		case <-time.After(waitTimeout):
			t.Fatal("timed out waiting for the next turn")
		}
	}
	t.Fatal("nobody won after 12 rolls of 6")
}

func indexOfPrefix(statuses []string, prefix string) int {
	for i, s := range statuses {
		if strings.HasPrefix(s, prefix) {
			return i
		}
	}
	return -1
}

package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/samdwyer/dicerace/internal/score"
)

func openTempStore(t *testing.T, maxEntries int) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "leaderboard.db"), maxEntries)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("", 10); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestRecordWinRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t, 20)
	at := time.Date(2026, time.February, 22, 16, 40, 0, 0, time.UTC)
	input := score.Record{
		GameID:     "game-1",
		Name:       "Greta",
		Score:      5000,
		IsBot:      true,
		Throws:     10,
		Elapsed:    73.5,
		RecordedAt: at,
	}
	if err := store.RecordWin(context.Background(), input); err != nil {
		t.Fatalf("record win: %v", err)
	}

	got, err := store.Top(context.Background(), 5)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(top) = %d, want 1", len(got))
	}
	entry := got[0]
	if !entry.RecordedAt.Equal(at) {
		t.Fatalf("recorded_at = %v, want %v", entry.RecordedAt, at)
	}
	entry.RecordedAt = input.RecordedAt
	if entry != input {
		t.Fatalf("top[0] = %+v, want %+v", entry, input)
	}
}

func TestRecordWinNormalizes(t *testing.T) {
	t.Parallel()

	store := openTempStore(t, 20)
	if err := store.RecordWin(context.Background(), score.Record{GameID: "g", Score: -4}); err != nil {
		t.Fatalf("record win: %v", err)
	}
	got, err := store.Top(context.Background(), 1)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if got[0].Name != "Player" || got[0].Score != 0 {
		t.Fatalf("normalized entry = %+v, want name Player score 0", got[0])
	}
}

func TestRecordWinRequiresGameID(t *testing.T) {
	t.Parallel()

	store := openTempStore(t, 20)
	err := store.RecordWin(context.Background(), score.Record{Name: "x"})
	if !errors.Is(err, score.ErrInvalidRecord) {
		t.Fatalf("record win error = %v, want ErrInvalidRecord", err)
	}
}

func TestRecordWinKeepsTopEntries(t *testing.T) {
	t.Parallel()

	store := openTempStore(t, 3)
	ctx := context.Background()
	for i, s := range []int{500, 9000, 1200, 9000, 100, 2500} {
		rec := score.Record{
			GameID: fmt.Sprintf("game-%d", i),
			Name:   fmt.Sprintf("p%d", i),
			Score:  s,
		}
		if err := store.RecordWin(ctx, rec); err != nil {
			t.Fatalf("record win %d: %v", i, err)
		}
	}

	got, err := store.Top(ctx, 0)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []string{"p1", "p3", "p5"}
	if len(got) != len(want) {
		t.Fatalf("len(top) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i] {
			t.Errorf("top[%d].Name = %q, want %q", i, got[i].Name, want[i])
		}
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "leaderboard.db")
	store, err := Open(path, 20)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.RecordWin(context.Background(), score.Record{GameID: "g", Name: "Ann", Score: 10}); err != nil {
		t.Fatalf("record win: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(path, 20)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Ann" {
		t.Fatalf("top after reopen = %+v, want Ann", got)
	}
}

func TestExtractUp(t *testing.T) {
	t.Parallel()

	content := "-- +migrate Up\nCREATE TABLE a (x INT);\n-- +migrate Down\nDROP TABLE a;\n"
	if got := extractUp(content); got != "\nCREATE TABLE a (x INT);\n" {
		t.Fatalf("extractUp() = %q", got)
	}
	if got := extractUp("SELECT 1;"); got != "SELECT 1;" {
		t.Fatalf("extractUp() without markers = %q", got)
	}
}

var _ score.Recorder = (*Store)(nil)

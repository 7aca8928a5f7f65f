package score

import (
	"context"
	"sort"
	"sync"
)

// DefaultMaxEntries is how many records a leaderboard keeps.
const DefaultMaxEntries = 20

// Leaderboard is an in-memory top list ordered by score, highest first.
type Leaderboard struct {
	mu      sync.Mutex
	max     int
	entries []Record
}

// NewLeaderboard creates a leaderboard keeping at most maxEntries records.
func NewLeaderboard(maxEntries int) *Leaderboard {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Leaderboard{max: maxEntries}
}

// RecordWin inserts rec and drops whatever falls off the bottom.
func (l *Leaderboard) RecordWin(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, rec.Normalize())
	// Stable so equal scores keep arrival order.
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Score > l.entries[j].Score
	})
	if len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
	}
	return nil
}

// Entries returns a copy of the current standings.
func (l *Leaderboard) Entries() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.entries))
	copy(out, l.entries)
	return out
}

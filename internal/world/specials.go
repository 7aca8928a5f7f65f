package world

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dicerace/internal/telemetry"
)

const (
	// DefaultScareCount is the number of scare tiles drawn per game.
	DefaultScareCount = 2
	// DefaultBonusCount is the number of bonus tiles drawn per game.
	DefaultBonusCount = 2

	// maxDrawAttempts bounds the random draws spent on a single tile.
	maxDrawAttempts = 200
)

// SpecialTiles holds the scare and bonus squares for one game.
// The two sets are disjoint and never contain the start or winning square.
type SpecialTiles struct {
	scare map[int]struct{}
	bonus map[int]struct{}
}

// NewSpecialTiles builds a tile set from explicit indexes.
// Indexes that would break the disjointness rules are dropped.
func NewSpecialTiles(board *Board, scare, bonus []int) *SpecialTiles {
	s := emptySpecialTiles()
	for _, idx := range scare {
		if s.available(board, idx) {
			s.scare[idx] = struct{}{}
		}
	}
	for _, idx := range bonus {
		if s.available(board, idx) {
			s.bonus[idx] = struct{}{}
		}
	}
	return s
}

func emptySpecialTiles() *SpecialTiles {
	return &SpecialTiles{
		scare: make(map[int]struct{}),
		bonus: make(map[int]struct{}),
	}
}

// GenerateSpecialTiles draws scareCount scare tiles, then bonusCount bonus tiles.
// Each tile gets a bounded number of draws; a tile that cannot be placed is
// skipped, so the result may be smaller than requested.
func GenerateSpecialTiles(ctx context.Context, rng *rand.Rand, board *Board, scareCount, bonusCount int) *SpecialTiles {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "tiles.generate")
	defer span.End()

	startTime := time.Now()
	s := emptySpecialTiles()

	for i := 0; i < scareCount; i++ {
		if idx, ok := s.draw(rng, board); ok {
			s.scare[idx] = struct{}{}
		}
	}
	for i := 0; i < bonusCount; i++ {
		if idx, ok := s.draw(rng, board); ok {
			s.bonus[idx] = struct{}{}
		}
	}

	span.SetAttributes(
		attribute.Int("board.length", board.Len()),
		attribute.Int("tiles.scare_requested", scareCount),
		attribute.Int("tiles.bonus_requested", bonusCount),
		attribute.Int("tiles.scare_placed", len(s.scare)),
		attribute.Int("tiles.bonus_placed", len(s.bonus)),
		attribute.Int64("tiles.generation_us", time.Since(startTime).Microseconds()),
	)
	return s
}

// draw picks a random free square, giving up after maxDrawAttempts.
func (s *SpecialTiles) draw(rng *rand.Rand, board *Board) (int, bool) {
	for i := 0; i < maxDrawAttempts; i++ {
		idx := rng.Intn(board.Len())
		if s.available(board, idx) {
			return idx, true
		}
	}
	return -1, false
}

// available reports whether idx can still become a special tile.
func (s *SpecialTiles) available(board *Board, idx int) bool {
	if !board.Contains(idx) {
		return false
	}
	if idx == StartIndex || idx == board.WinningIndex() {
		return false
	}
	if _, taken := s.scare[idx]; taken {
		return false
	}
	if _, taken := s.bonus[idx]; taken {
		return false
	}
	return true
}

// IsScare returns true if idx is a scare tile.
func (s *SpecialTiles) IsScare(idx int) bool {
	if s == nil {
		return false
	}
	_, ok := s.scare[idx]
	return ok
}

// IsBonus returns true if idx is a bonus tile.
func (s *SpecialTiles) IsBonus(idx int) bool {
	if s == nil {
		return false
	}
	_, ok := s.bonus[idx]
	return ok
}

// Scare returns the scare tile indexes in ascending order.
func (s *SpecialTiles) Scare() []int {
	if s == nil {
		return nil
	}
	return sortedKeys(s.scare)
}

// Bonus returns the bonus tile indexes in ascending order.
func (s *SpecialTiles) Bonus() []int {
	if s == nil {
		return nil
	}
	return sortedKeys(s.bonus)
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

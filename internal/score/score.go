// Package score turns a win into a leaderboard record and delivers it to recorders.
package score

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"
)

const (
	// BestThrows is the throw count that earns BestScore.
	BestThrows = 5
	// BestScore is the highest possible score.
	BestScore = 10000
	// MinScore is the lowest score a winner can receive.
	MinScore = 1

	defaultName = "Player"
)

// ErrInvalidRecord is returned for records a recorder cannot store.
var ErrInvalidRecord = errors.New("invalid score record")

// FromThrows computes a winner's score. Scores fall off in inverse proportion
// to the number of throws away from BestThrows; zero throws scores zero.
func FromThrows(throws int) int {
	if throws <= 0 {
		return 0
	}
	factor := float64(BestThrows) / float64(max(throws, 1))
	score := int(math.RoundToEven(BestScore * factor))
	return min(max(score, MinScore), BestScore)
}

// Record is one win as delivered to recorders.
type Record struct {
	GameID     string
	Name       string
	Score      int
	IsBot      bool
	Throws     int
	Elapsed    float64 // Seconds since the game started
	RecordedAt time.Time
}

// NewRecord builds the record for a winner from their throw count.
func NewRecord(gameID, name string, isBot bool, throws int, elapsed time.Duration, at time.Time) Record {
	return Record{
		GameID:     gameID,
		Name:       name,
		Score:      FromThrows(throws),
		IsBot:      isBot,
		Throws:     throws,
		Elapsed:    elapsed.Seconds(),
		RecordedAt: at,
	}
}

// Normalize fills defaults and clamps negative values to zero.
func (r Record) Normalize() Record {
	if strings.TrimSpace(r.Name) == "" {
		r.Name = defaultName
	}
	r.Score = max(r.Score, 0)
	r.Throws = max(r.Throws, 0)
	r.Elapsed = math.Max(r.Elapsed, 0)
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now()
	}
	r.RecordedAt = r.RecordedAt.UTC()
	return r
}

// DisplayName returns the name with a bot marker.
func (r Record) DisplayName() string {
	if r.IsBot {
		return r.Name + " (bot)"
	}
	return r.Name
}

// Line formats the record the way the text leaderboard stores it.
func (r Record) Line() string {
	return fmt.Sprintf("%s, %d Moves, %s sec, Score: %d", r.DisplayName(), r.Throws, FormatElapsed(r.Elapsed), r.Score)
}

// FormatElapsed renders seconds as mm:ss.
func FormatElapsed(seconds float64) string {
	seconds = math.Max(seconds, 0)
	mins := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// Recorder receives wins.
type Recorder interface {
	RecordWin(ctx context.Context, rec Record) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, rec Record) error

// RecordWin calls f.
func (f RecorderFunc) RecordWin(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}

// Multi delivers each win to every recorder. One failing recorder does not
// stop the others; all failures are returned joined.
type Multi []Recorder

// RecordWin records rec with every recorder.
func (m Multi) RecordWin(ctx context.Context, rec Record) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.RecordWin(ctx, rec); err != nil {
			log.Printf("score: recorder failed: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

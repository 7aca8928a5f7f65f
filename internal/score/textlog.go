package score

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TextLog appends one human-readable line per win to a file.
type TextLog struct {
	mu   sync.Mutex
	path string
}

// NewTextLog creates a recorder appending to path.
func NewTextLog(path string) (*TextLog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("text leaderboard path is required")
	}
	return &TextLog{path: filepath.Clean(path)}, nil
}

// Path returns the file being appended to.
func (t *TextLog) Path() string {
	return t.path
}

// RecordWin appends rec as a single line.
func (t *TextLog) RecordWin(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open text leaderboard: %w", err)
	}
	if _, err := fmt.Fprintln(f, rec.Normalize().Line()); err != nil {
		_ = f.Close()
		return fmt.Errorf("append text leaderboard: %w", err)
	}
	return f.Close()
}

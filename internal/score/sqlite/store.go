// Package sqlite provides a SQLite-backed leaderboard.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"

	"github.com/samdwyer/dicerace/internal/score"
	"github.com/samdwyer/dicerace/internal/score/sqlite/migrations"
	"github.com/samdwyer/dicerace/internal/telemetry"
)

const migrationTable = "schema_migrations"

// Store persists leaderboard entries in SQLite.
type Store struct {
	sqlDB      *sql.DB
	maxEntries int
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite leaderboard keeping at most maxEntries rows and applies
// embedded migrations.
func Open(path string, maxEntries int) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if maxEntries <= 0 {
		maxEntries = score.DefaultMaxEntries
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, maxEntries: maxEntries}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordWin inserts one entry and prunes everything below the top maxEntries.
func (s *Store) RecordWin(ctx context.Context, rec score.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(rec.GameID) == "" {
		return fmt.Errorf("%w: game id is required", score.ErrInvalidRecord)
	}

	tracer := telemetry.Tracer("score")
	ctx, span := tracer.Start(ctx, "score.record")
	defer span.End()

	rec = rec.Normalize()
	span.SetAttributes(
		attribute.String("game.id", rec.GameID),
		attribute.String("winner", rec.Name),
		attribute.Int("score", rec.Score),
		attribute.Int("throws", rec.Throws),
		attribute.Bool("bot", rec.IsBot),
	)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record win: %w", err)
	}
	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO leaderboard_entries (
		   game_id,
		   name,
		   score,
		   is_bot,
		   moves,
		   elapsed_seconds,
		   recorded_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.GameID,
		rec.Name,
		rec.Score,
		boolToInt(rec.IsBot),
		rec.Throws,
		rec.Elapsed,
		toMillis(rec.RecordedAt),
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert leaderboard entry: %w", err)
	}
	_, err = tx.ExecContext(
		ctx,
		`DELETE FROM leaderboard_entries
		 WHERE id NOT IN (
		   SELECT id FROM leaderboard_entries
		   ORDER BY score DESC, id ASC
		   LIMIT ?
		 )`,
		s.maxEntries,
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prune leaderboard: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record win: %w", err)
	}
	return nil
}

// Top returns up to limit entries, highest score first. Ties keep insertion order.
func (s *Store) Top(ctx context.Context, limit int) ([]score.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = s.maxEntries
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT game_id, name, score, is_bot, moves, elapsed_seconds, recorded_at
		 FROM leaderboard_entries
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	defer rows.Close()

	var out []score.Record
	for rows.Next() {
		var (
			rec        score.Record
			isBot      int
			recordedAt int64
		)
		if err := rows.Scan(&rec.GameID, &rec.Name, &rec.Score, &isBot, &rec.Throws, &rec.Elapsed, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		rec.IsBot = isBot != 0
		rec.RecordedAt = fromMillis(recordedAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return out, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// applyMigrations executes each embedded .sql file at most once.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var found int
		err := sqlDB.QueryRow(`SELECT 1 FROM `+migrationTable+` WHERE name = ?`, file).Scan(&found)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration %s: %w", file, err)
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := extractUp(string(content))

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if strings.TrimSpace(upSQL) != "" {
			if _, err := tx.Exec(upSQL); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("exec migration %s: %w", file, err)
			}
		}
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`,
			file,
			toMillis(time.Now()),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

// extractUp returns the SQL in the -- +migrate Up section.
func extractUp(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	upIdx := strings.Index(content, up)
	if upIdx == -1 {
		return content
	}
	rest := content[upIdx+len(up):]
	if downIdx := strings.Index(rest, down); downIdx != -1 {
		return rest[:downIdx]
	}
	return rest
}

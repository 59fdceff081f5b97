// Package history persists completed build runs in a local SQLite
// database so past results can be listed and inspected from the CLI.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"skinforge"
)

// ErrNotFound is returned when no run matches the requested ID.
var ErrNotFound = errors.New("run not found")

// Run is one recorded build.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Config     skinforge.TaskConfig
	Result     skinforge.CompletionResult
}

// NewRun stamps a completed build with a fresh run ID.
func NewRun(cfg skinforge.TaskConfig, result skinforge.CompletionResult, startedAt, finishedAt time.Time) Run {
	return Run{
		ID:         uuid.NewString(),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Config:     cfg,
		Result:     result,
	}
}

// DefaultPath returns the run log location inside the cache directory.
// The history file sits outside the clearable cache subfolders, so
// clearing the cache keeps past runs.
func DefaultPath(cacheDir string) string {
	return filepath.Join(cacheDir, "history.db")
}

// Store is the SQLite-backed run log.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	started_at   TEXT NOT NULL,
	finished_at  TEXT NOT NULL,
	skin_path    TEXT NOT NULL,
	bundles_path TEXT NOT NULL DEFAULT '',
	debug_export INTEGER NOT NULL DEFAULT 0,
	dry_run      INTEGER NOT NULL DEFAULT 0,
	success      INTEGER NOT NULL,
	exit_code    INTEGER NOT NULL,
	message      TEXT NOT NULL,
	stdout       TEXT NOT NULL DEFAULT '',
	stderr       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs(started_at);
`

// Open creates or opens the run log at path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts one completed run.
func (s *Store) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, skin_path, bundles_path,
			debug_export, dry_run, success, exit_code, message, stdout, stderr)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Config.SkinPath,
		run.Config.BundlesPath,
		boolInt(run.Config.DebugExport),
		boolInt(run.Config.DryRun),
		boolInt(run.Result.Success),
		run.Result.ExitCode,
		run.Result.Message,
		run.Result.Stdout,
		run.Result.Stderr,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, skin_path, bundles_path,
			debug_export, dry_run, success, exit_code, message, stdout, stderr
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Find resolves an ID prefix to a single run. It returns ErrNotFound
// when nothing matches and an error when the prefix is ambiguous.
func (s *Store) Find(ctx context.Context, idPrefix string) (Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, skin_path, bundles_path,
			debug_export, dry_run, success, exit_code, message, stdout, stderr
		FROM runs WHERE id LIKE ? || '%' LIMIT 2`, idPrefix)
	if err != nil {
		return Run{}, fmt.Errorf("find run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}

	switch len(matches) {
	case 0:
		return Run{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("run ID prefix %q is ambiguous", idPrefix)
	}
}

// Get returns the run with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, skin_path, bundles_path,
			debug_export, dry_run, success, exit_code, message, stdout, stderr
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run                   Run
		startedAt, finishedAt string
		debugExport, dryRun   int
		success               int
	)
	err := row.Scan(&run.ID, &startedAt, &finishedAt,
		&run.Config.SkinPath, &run.Config.BundlesPath,
		&debugExport, &dryRun, &success,
		&run.Result.ExitCode, &run.Result.Message,
		&run.Result.Stdout, &run.Result.Stderr)
	if err != nil {
		return Run{}, err
	}

	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
		return Run{}, fmt.Errorf("parse finished_at: %w", err)
	}
	run.Config.DebugExport = debugExport != 0
	run.Config.DryRun = dryRun != 0
	run.Result.Success = success != 0
	return run, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

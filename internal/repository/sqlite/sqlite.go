package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gridbridge/internal/repository"

	_ "modernc.org/sqlite"
)

// Store implements repository.RunStore using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an ephemeral store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc's driver serializes access per connection; a single
	// connection avoids table-locked errors under concurrent runs.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		cluster TEXT NOT NULL,
		status TEXT NOT NULL,
		request JSON,
		result JSON,
		error TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_cluster ON runs(cluster);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateRun stores a new run record and stamps its timestamps.
func (s *Store) CreateRun(ctx context.Context, run *Run) error {
	if !run.Status.Valid() {
		return fmt.Errorf("invalid run status %q", run.Status)
	}

	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, cluster, status, request, result, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Cluster, string(run.Status), nullableJSON(run.Request), nullableJSON(run.Result), run.Error,
		run.CreatedAt.Format(time.RFC3339Nano), run.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// UpdateRun replaces the mutable fields of an existing run.
func (s *Store) UpdateRun(ctx context.Context, run *Run) error {
	if !run.Status.Valid() {
		return fmt.Errorf("invalid run status %q", run.Status)
	}

	run.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, result = ?, error = ?, updated_at = ?
		WHERE id = ?
	`, string(run.Status), nullableJSON(run.Result), run.Error,
		run.UpdatedAt.Format(time.RFC3339Nano), run.ID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, cluster, status, request, result, error, created_at, updated_at
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs for a cluster, newest first. Empty cluster
// matches every run.
func (s *Store) ListRuns(ctx context.Context, cluster string) ([]*Run, error) {
	query := `
		SELECT id, cluster, status, request, result, error, created_at, updated_at
		FROM runs
	`
	args := []any{}
	if cluster != "" {
		query += ` WHERE cluster = ?`
		args = append(args, cluster)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Run is re-exported for callers that only import the sqlite package.
type Run = repository.Run

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run              Run
		status           string
		request, result  sql.NullString
		created, updated string
	)
	if err := sc.Scan(&run.ID, &run.Cluster, &status, &request, &result, &run.Error, &created, &updated); err != nil {
		return nil, err
	}

	run.Status = repository.RunStatus(status)
	if request.Valid {
		run.Request = []byte(request.String)
	}
	if result.Valid {
		run.Result = []byte(result.String)
	}

	var err error
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	if run.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("bad updated_at %q: %w", updated, err)
	}
	return &run, nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

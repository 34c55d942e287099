package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS match_results (
	job_id       TEXT NOT NULL,
	candidate_id TEXT NOT NULL,
	run_id       TEXT NOT NULL DEFAULT '',
	total_score  REAL NOT NULL,
	result_json  TEXT NOT NULL,
	stored_at    INTEGER NOT NULL,
	PRIMARY KEY (job_id, candidate_id)
)`

// SQLite persists results in a local database file.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:" is accepted.
func OpenSQLite(ctx context.Context, path string, ttl time.Duration, now func() time.Time) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sqlite schema: %w", err)
	}

	if now == nil {
		now = time.Now
	}
	return &SQLite{db: db, ttl: ttl, now: now}, nil
}

func (s *SQLite) Put(ctx context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	if e.StoredAt.IsZero() {
		e.StoredAt = s.now()
	}

	payload, err := json.Marshal(e.Result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO match_results (job_id, candidate_id, run_id, total_score, result_json, stored_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (job_id, candidate_id) DO UPDATE SET
			run_id = excluded.run_id,
			total_score = excluded.total_score,
			result_json = excluded.result_json,
			stored_at = excluded.stored_at
	`, e.JobID, e.CandidateID, e.RunID, e.Result.TotalScore, string(payload), e.StoredAt.UnixNano())
	if err != nil {
		return fmt.Errorf("storing result: %w", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, jobID, candidateID string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT job_id, candidate_id, run_id, result_json, stored_at
		FROM match_results
		WHERE job_id = ? AND candidate_id = ? AND stored_at > ?
	`, jobID, candidateID, s.cutoff())

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

func (s *SQLite) List(ctx context.Context, jobID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT job_id, candidate_id, run_id, result_json, stored_at
		FROM match_results
		WHERE job_id = ? AND stored_at > ?
		ORDER BY total_score DESC, candidate_id ASC
	`, jobID, s.cutoff())
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	return entries, nil
}

// DeleteJob drops every row of the job and reports how many were still live.
func (s *SQLite) DeleteJob(ctx context.Context, jobID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("deleting results: %w", err)
	}
	defer tx.Rollback()

	var live int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM match_results WHERE job_id = ? AND stored_at > ?`,
		jobID, s.cutoff(),
	).Scan(&live); err != nil {
		return 0, fmt.Errorf("counting results: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM match_results WHERE job_id = ?`, jobID); err != nil {
		return 0, fmt.Errorf("deleting results: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("deleting results: %w", err)
	}
	return live, nil
}

// Purge removes expired rows and reports how many were dropped.
func (s *SQLite) Purge(ctx context.Context) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM match_results WHERE stored_at <= ?`, s.cutoff())
	if err != nil {
		return 0, fmt.Errorf("purging results: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// cutoff is the oldest stored_at still visible; without a TTL everything is.
func (s *SQLite) cutoff() int64 {
	if s.ttl <= 0 {
		return -1 << 62
	}
	return s.now().Add(-s.ttl).UnixNano()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e       Entry
		payload string
		stored  int64
	)
	if err := row.Scan(&e.JobID, &e.CandidateID, &e.RunID, &payload, &stored); err != nil {
		return Entry{}, err
	}
	if err := json.Unmarshal([]byte(payload), &e.Result); err != nil {
		return Entry{}, fmt.Errorf("decoding result: %w", err)
	}
	e.StoredAt = time.Unix(0, stored).UTC()
	return e, nil
}

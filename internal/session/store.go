package session

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store provides SQLite-backed persistence for sessions and their results.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database at dbPath and creates tables if they
// don't exist.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		agent TEXT NOT NULL,
		prompt TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS task_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		success INTEGER NOT NULL,
		blocked INTEGER NOT NULL,
		output TEXT,
		blocker_question TEXT,
		commit_hash TEXT,
		duration_ms INTEGER DEFAULT 0,
		cost_usd REAL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);
	`
	_, err := db.Exec(schema)
	return err
}

// UpsertSession creates the session row on first sight and updates its
// status and timestamp on every subsequent call for the same id.
func (s *Store) UpsertSession(id, agent, prompt, status string) error {
	now := time.Now()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, agent, prompt, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		id, agent, prompt, status, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID. Returns nil, nil when not found.
func (s *Store) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT id, agent, prompt, status, created_at, updated_at
		 FROM sessions WHERE id = ?`,
		id,
	)

	var sess Session
	err := row.Scan(&sess.ID, &sess.Agent, &sess.Prompt, &sess.Status, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	return &sess, nil
}

// ListSessions returns the most recently updated sessions.
func (s *Store) ListSessions(limit int) ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT id, agent, prompt, status, created_at, updated_at
		 FROM sessions
		 ORDER BY updated_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Agent, &sess.Prompt, &sess.Status, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return sessions, nil
}

// CountResults reports how many outcomes have been recorded across all
// sessions and how many of them succeeded.
func (s *Store) CountResults() (total, succeeded int, err error) {
	row := s.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(success), 0) FROM task_results`)
	if err := row.Scan(&total, &succeeded); err != nil {
		return 0, 0, fmt.Errorf("count results: %w", err)
	}
	return total, succeeded, nil
}

// AddResult appends one dispatch/resume outcome for a session.
func (s *Store) AddResult(rec ResultRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO task_results
		 (session_id, success, blocked, output, blocker_question, commit_hash, duration_ms, cost_usd, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Success, rec.Blocked, rec.Output, rec.BlockerQuestion,
		rec.CommitHash, rec.DurationMs, rec.CostUSD, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// ResultsForSession retrieves all recorded outcomes for a session in
// completion order.
func (s *Store) ResultsForSession(sessionID string) ([]ResultRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, success, blocked, COALESCE(output, ''),
		        COALESCE(blocker_question, ''), COALESCE(commit_hash, ''),
		        duration_ms, cost_usd, created_at
		 FROM task_results
		 WHERE session_id = ?
		 ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Success, &rec.Blocked, &rec.Output,
			&rec.BlockerQuestion, &rec.CommitHash, &rec.DurationMs, &rec.CostUSD, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}

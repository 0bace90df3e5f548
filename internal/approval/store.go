package approval

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store provides SQLite-backed persistence for approvals, keyed by task id.
// Unlike the JSON snapshot (which is a full-file overwrite), rows here are
// appended and updated individually, so concurrent agents sharing one
// database do not clobber each other's records.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database at dbPath and creates the approvals
// table if it doesn't exist.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS approvals (
		task_id TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		details TEXT,
		options TEXT NOT NULL,
		decision TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		decided_at DATETIME
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert persists a new approval request.
func (s *Store) Insert(req Request) error {
	options, err := json.Marshal(req.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO approvals (task_id, description, details, options, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		req.TaskID, req.Description, req.Details, string(options), req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

// Decide records the human decision for a pending approval.
func (s *Store) Decide(taskID, decision string) error {
	res, err := s.db.Exec(
		`UPDATE approvals SET decision = ?, decided_at = ? WHERE task_id = ? AND decision = ''`,
		decision, time.Now(), taskID,
	)
	if err != nil {
		return fmt.Errorf("decide approval: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no pending approval with task id %q", taskID)
	}
	return nil
}

// Pending returns all undecided approvals, oldest first.
func (s *Store) Pending() ([]Request, error) {
	rows, err := s.db.Query(
		`SELECT task_id, description, COALESCE(details, ''), options, created_at
		 FROM approvals
		 WHERE decision = ''
		 ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query approvals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pending []Request
	for rows.Next() {
		var req Request
		var options string
		if err := rows.Scan(&req.TaskID, &req.Description, &req.Details, &options, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		if err := json.Unmarshal([]byte(options), &req.Options); err != nil {
			return nil, fmt.Errorf("parse options for %s: %w", req.TaskID, err)
		}
		pending = append(pending, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return pending, nil
}

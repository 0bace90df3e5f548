// Package session tracks resumable engine conversations per agent instance.
package session

import "time"

// Session statuses. A session stays resumable while blocked; it leaves the
// resumable set once completed, failed, or abandoned.
const (
	StatusActive    = "active"
	StatusBlocked   = "blocked"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Session pairs an opaque session identifier with what the agent knows
// about the conversation. The engine owns the transcript; this record only
// tracks identity and lifecycle.
type Session struct {
	ID        string
	Agent     string
	Prompt    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResultRecord is one persisted dispatch or resume outcome.
type ResultRecord struct {
	ID              int
	SessionID       string
	Success         bool
	Blocked         bool
	Output          string
	BlockerQuestion string
	CommitHash      string
	DurationMs      int64
	CostUSD         float64
	CreatedAt       time.Time
}

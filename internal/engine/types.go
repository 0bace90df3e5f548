package engine

import "time"

// TaskResult is the outcome of one Dispatch or Resume call. It is
// constructed exactly once per call and never mutated afterwards.
// SessionID is present on every result, including failures, so a caller
// can still attempt to resume.
type TaskResult struct {
	Success         bool
	Output          string
	SessionID       string
	Blocked         bool
	BlockerQuestion string

	// Populated by collaborators after a successful code-modifying task,
	// never by the dispatcher itself.
	FilesChanged []string
	CommitHash   string

	// Carried through from the engine envelope when available.
	DurationMs int64
	CostUSD    float64

	CreatedAt time.Time
}

// Request describes one fresh dispatch to the reasoning engine.
type Request struct {
	Prompt          string
	SystemPrompt    string
	PermissionFlags []string
	Timeout         time.Duration
}

// Notifier receives state-transition messages from the dispatcher.
// Implementations must be safe to call from the dispatching goroutine.
type Notifier interface {
	Info(message string)
	Success(message string)
	Error(message string)
	Approval(message string)
}

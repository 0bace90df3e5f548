// registry.go associates session identifiers with task outcomes for one
// agent instance.
package session

import (
	"github.com/entity-dev/entity/internal/engine"
)

// Registry owns the append-only task history of one agent instance. The
// in-memory history is unbounded for the process lifetime and appended in
// call-completion order. It is NOT safe for concurrent use; the design
// assumes at most one in-flight dispatch per agent instance.
type Registry struct {
	agent   string
	store   *Store
	history []engine.TaskResult
}

// NewRegistry creates a Registry for the named agent. store may be nil, in
// which case results are kept in memory only.
func NewRegistry(agent string, store *Store) *Registry {
	return &Registry{agent: agent, store: store}
}

// Record appends the result to the history and, when a store is attached,
// persists the session row and the outcome. Persistence is best-effort:
// a storage error never disturbs the in-memory history the caller relies on.
func (r *Registry) Record(prompt string, res engine.TaskResult) {
	r.history = append(r.history, res)

	if r.store == nil {
		return
	}

	status := statusFor(res)
	if err := r.store.UpsertSession(res.SessionID, r.agent, prompt, status); err != nil {
		return
	}
	_ = r.store.AddResult(ResultRecord{
		SessionID:       res.SessionID,
		Success:         res.Success,
		Blocked:         res.Blocked,
		Output:          res.Output,
		BlockerQuestion: res.BlockerQuestion,
		CommitHash:      res.CommitHash,
		DurationMs:      res.DurationMs,
		CostUSD:         res.CostUSD,
		CreatedAt:       res.CreatedAt,
	})
}

// History returns the task results recorded so far, oldest first.
func (r *Registry) History() []engine.TaskResult {
	return r.history
}

// Len returns the number of recorded results.
func (r *Registry) Len() int {
	return len(r.history)
}

// Succeeded returns how many recorded results completed successfully.
func (r *Registry) Succeeded() int {
	n := 0
	for _, res := range r.history {
		if res.Success {
			n++
		}
	}
	return n
}

func statusFor(res engine.TaskResult) string {
	switch {
	case res.Blocked:
		return StatusBlocked
	case res.Success:
		return StatusCompleted
	default:
		return StatusFailed
	}
}

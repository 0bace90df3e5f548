// Package approval registers human-approval checkpoints and makes them
// discoverable outside the process.
package approval

import "time"

// Decision values recorded when a pending approval is resolved.
const (
	DecisionApprove = "Approve"
	DecisionReject  = "Reject"
	DecisionModify  = "Modify"
)

// DefaultOptions is the option set used when a caller supplies none.
var DefaultOptions = []string{DecisionApprove, DecisionReject, DecisionModify}

// Request is a pending human decision. The JSON field names form the
// on-disk contract of pending_approvals.json; external tooling reads them.
type Request struct {
	TaskID      string    `json:"task_id"`
	Description string    `json:"description"`
	Details     string    `json:"details"`
	Options     []string  `json:"options"`
	CreatedAt   time.Time `json:"created_at"`
}

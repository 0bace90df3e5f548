// gate.go creates pending approvals and keeps the on-disk views in sync.
package approval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/entity-dev/entity/internal/log"
)

// SnapshotFile is the JSON document holding the full pending list inside an
// agent's output directory, rewritten on every change.
const SnapshotFile = "pending_approvals.json"

// Notifier receives approval-level notifications.
type Notifier interface {
	Approval(message string)
}

// Gate registers human-approval checkpoints for one agent instance. The
// pending list is owned in memory and mirrored to two places: the SQLite
// store (source of truth, keyed by task id) and an atomically written JSON
// snapshot for external readers. Resolving an approval is external to the
// dispatch path; Gate never blocks waiting for a decision.
//
// Not safe for concurrent use from multiple goroutines of one process;
// concurrent agent processes must point at distinct output directories or
// accept last-writer-wins on the snapshot.
type Gate struct {
	outputDir string
	store     *Store
	notifier  Notifier
	logger    *log.Logger
	pending   []Request

	now func() time.Time // stubbed in tests
}

// NewGate creates a Gate writing to outputDir. store, notifier, and logger
// may each be nil. When a store is present, previously persisted pending
// approvals are loaded so the gate resumes where a prior process left off.
func NewGate(outputDir string, store *Store, notifier Notifier, logger *log.Logger) (*Gate, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	g := &Gate{
		outputDir: outputDir,
		store:     store,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}

	if store != nil {
		pending, err := store.Pending()
		if err != nil {
			return nil, fmt.Errorf("load pending approvals: %w", err)
		}
		g.pending = pending
	}

	return g, nil
}

// Request registers a new approval checkpoint and returns the created
// record. The task id is derived from the creation timestamp at second
// granularity; two requests within the same second collide, so callers
// must not create approvals faster than one per second.
func (g *Gate) Request(description, details string, options []string) (Request, error) {
	if len(options) == 0 {
		options = DefaultOptions
	}

	created := g.now()
	req := Request{
		TaskID:      fmt.Sprintf("approval_%s", created.Format("20060102_150405")),
		Description: description,
		Details:     details,
		Options:     options,
		CreatedAt:   created,
	}

	// The store insert goes first: it is the source of truth and the only
	// step that can reject a duplicate task id. A rejected request must
	// not leak into the pending list or the snapshot.
	if g.store != nil {
		if err := g.store.Insert(req); err != nil {
			return Request{}, err
		}
	}

	g.pending = append(g.pending, req)
	if err := g.writeSnapshot(); err != nil {
		return req, err
	}

	if g.notifier != nil {
		g.notifier.Approval(fmt.Sprintf("Approval needed: %s", description))
	}
	if g.logger != nil {
		_ = g.logger.Append(log.LogEvent{Event: log.EventApprovalRequested, TaskID: req.TaskID, Prompt: description})
	}

	return req, nil
}

// Resolve records the human decision for a pending approval and removes it
// from the pending list and snapshot.
func (g *Gate) Resolve(taskID, decision string) error {
	idx := -1
	for i, req := range g.pending {
		if req.TaskID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no pending approval with task id %q", taskID)
	}

	if g.store != nil {
		if err := g.store.Decide(taskID, decision); err != nil {
			return err
		}
	}

	g.pending = append(g.pending[:idx], g.pending[idx+1:]...)
	if err := g.writeSnapshot(); err != nil {
		return err
	}

	if g.logger != nil {
		_ = g.logger.Append(log.LogEvent{Event: log.EventApprovalResolved, TaskID: taskID, Decision: decision})
	}
	return nil
}

// Pending returns the current pending approvals, oldest first. The slice
// is a copy: Resolve compacts the gate's internal list in place, and a
// caller holding the live backing array would see entries shift under it.
func (g *Gate) Pending() []Request {
	out := make([]Request, len(g.pending))
	copy(out, g.pending)
	return out
}

// SnapshotPath returns the location of the JSON snapshot.
func (g *Gate) SnapshotPath() string {
	return filepath.Join(g.outputDir, SnapshotFile)
}

// writeSnapshot rewrites the full pending list. The write goes to a temp
// file in the same directory followed by a rename, so a concurrent reader
// never observes a partial document.
func (g *Gate) writeSnapshot() error {
	list := g.pending
	if list == nil {
		list = []Request{}
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal approvals: %w", err)
	}

	tmp, err := os.CreateTemp(g.outputDir, SnapshotFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, g.SnapshotPath()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads the pending approvals from a snapshot file. Used by
// external readers (and tests); returns an empty list if the file does not
// exist.
func ReadSnapshot(path string) ([]Request, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []Request{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var list []Request
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return list, nil
}

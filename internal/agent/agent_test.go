package agent

import (
	"context"
	"testing"

	"github.com/entity-dev/entity/internal/config"
	"github.com/entity-dev/entity/internal/git"
	"github.com/entity-dev/entity/internal/session"
	"github.com/entity-dev/entity/internal/testutil"
)

func gitCommitFixture() git.CommitResult {
	return git.CommitResult{
		Success: true,
		Hash:    "abc12345",
		Files:   []string{"parser.go", "parser_test.go"},
		Message: "fix the bug",
	}
}

func newTestAgent(t *testing.T, engineBinary string) *Agent {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Agent.Name = "harper"
	cfg.Agent.Role = "backend developer"
	cfg.Engine.Binary = engineBinary
	cfg.Engine.Timeout = 30
	cfg.Notifications.ConsoleEnabled = false
	cfg.Notifications.FileEnabled = false
	cfg.Notifications.DesktopEnabled = false

	a, err := New(cfg, t.TempDir())
	if err != nil {
		t.Fatalf("creating agent: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAgent_RunRecordsHistory(t *testing.T) {
	a := newTestAgent(t, testutil.EngineReplying(t, "done"))

	result := a.Run(context.Background(), "refactor the parser")
	if !result.Success {
		t.Fatalf("Success = false, want true (output: %q)", result.Output)
	}

	if got := a.Status().TasksCompleted; got != 1 {
		t.Errorf("TasksCompleted = %d, want 1", got)
	}
	if got := a.Status().TasksSucceeded; got != 1 {
		t.Errorf("TasksSucceeded = %d, want 1", got)
	}
	if len(a.History()) != 1 {
		t.Errorf("history length = %d, want 1", len(a.History()))
	}
}

func TestAgent_BlockedRunStaysResumable(t *testing.T) {
	a := newTestAgent(t, testutil.EngineReplying(t, "NEED_HUMAN_INPUT: Which API version?"))

	result := a.Run(context.Background(), "upgrade the SDK")
	if !result.Blocked {
		t.Fatal("Blocked = false, want true")
	}
	if result.SessionID == "" {
		t.Fatal("SessionID empty; blocked results must be resumable")
	}

	// Resuming reuses the same session id.
	resumed := a.Resume(context.Background(), result.SessionID, "use v2")
	if resumed.SessionID != result.SessionID {
		t.Errorf("resumed SessionID = %q, want %q", resumed.SessionID, result.SessionID)
	}
	if len(a.History()) != 2 {
		t.Errorf("history length = %d, want 2", len(a.History()))
	}
}

func TestAgent_FailedRunCountsAsCompleted(t *testing.T) {
	a := newTestAgent(t, testutil.EngineFailing(t, "rate limited", 1))

	result := a.Run(context.Background(), "anything")
	if result.Success {
		t.Error("Success = true, want false")
	}

	status := a.Status()
	if status.TasksCompleted != 1 {
		t.Errorf("TasksCompleted = %d, want 1", status.TasksCompleted)
	}
	if status.TasksSucceeded != 0 {
		t.Errorf("TasksSucceeded = %d, want 0", status.TasksSucceeded)
	}
}

func TestAgent_StatusSurvivesRestart(t *testing.T) {
	engine := testutil.EngineReplying(t, "done")
	root := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Agent.Name = "harper"
	cfg.Engine.Binary = engine
	cfg.Engine.Timeout = 30
	cfg.Notifications.ConsoleEnabled = false
	cfg.Notifications.FileEnabled = false
	cfg.Notifications.DesktopEnabled = false

	first, err := New(cfg, root)
	if err != nil {
		t.Fatalf("creating agent: %v", err)
	}
	first.Run(context.Background(), "refactor the parser")
	first.Run(context.Background(), "add coverage")
	if err := first.Close(); err != nil {
		t.Fatalf("closing agent: %v", err)
	}

	// A fresh instance over the same project root has an empty in-memory
	// history but must still report the work done by the first one.
	second, err := New(cfg, root)
	if err != nil {
		t.Fatalf("reopening agent: %v", err)
	}
	defer func() { _ = second.Close() }()

	if len(second.History()) != 0 {
		t.Fatalf("history length = %d, want 0 for a fresh instance", len(second.History()))
	}
	status := second.Status()
	if status.TasksCompleted != 2 {
		t.Errorf("TasksCompleted = %d, want 2", status.TasksCompleted)
	}
	if status.TasksSucceeded != 2 {
		t.Errorf("TasksSucceeded = %d, want 2", status.TasksSucceeded)
	}

	sessions, err := second.Sessions(10)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("sessions = %d, want 2", len(sessions))
	}
}

func TestAgent_SessionLookupAcrossInstances(t *testing.T) {
	a := newTestAgent(t, testutil.EngineReplying(t, "NEED_HUMAN_INPUT: Which API version?"))

	result := a.Run(context.Background(), "upgrade the SDK")
	if !result.Blocked {
		t.Fatal("Blocked = false, want true")
	}

	sess, err := a.Session(result.SessionID)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if sess == nil {
		t.Fatal("Session returned nil for a recorded session")
	}
	if sess.Status != session.StatusBlocked {
		t.Errorf("Status = %q, want %q", sess.Status, session.StatusBlocked)
	}

	records, err := a.SessionResults(result.SessionID)
	if err != nil {
		t.Fatalf("SessionResults: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].BlockerQuestion != "Which API version?" {
		t.Errorf("BlockerQuestion = %q, want the question the engine raised", records[0].BlockerQuestion)
	}

	unknown, err := a.Session("no-such-session")
	if err != nil {
		t.Fatalf("Session (unknown): %v", err)
	}
	if unknown != nil {
		t.Error("Session returned a row for an unknown id, want nil")
	}
}

func TestAgent_ApprovalFlow(t *testing.T) {
	a := newTestAgent(t, testutil.EngineReplying(t, "ok"))

	req, err := a.RequestApproval("force-push main", "history rewrite after secret leak", nil)
	if err != nil {
		t.Fatalf("RequestApproval: %v", err)
	}
	if len(a.PendingApprovals()) != 1 {
		t.Fatalf("pending = %d, want 1", len(a.PendingApprovals()))
	}
	if a.Status().PendingApprovals != 1 {
		t.Errorf("Status().PendingApprovals = %d, want 1", a.Status().PendingApprovals)
	}

	if err := a.ResolveApproval(req.TaskID, "Approve"); err != nil {
		t.Fatalf("ResolveApproval: %v", err)
	}
	if len(a.PendingApprovals()) != 0 {
		t.Errorf("pending = %d after resolve, want 0", len(a.PendingApprovals()))
	}
}

func TestWithCommit(t *testing.T) {
	a := newTestAgent(t, testutil.EngineReplying(t, "patched"))

	result := a.Run(context.Background(), "fix the bug")
	attached := WithCommit(result, gitCommitFixture())

	if attached.CommitHash != "abc12345" {
		t.Errorf("CommitHash = %q, want abc12345", attached.CommitHash)
	}
	if len(attached.FilesChanged) != 2 {
		t.Errorf("FilesChanged = %v, want 2 entries", attached.FilesChanged)
	}
	// The original stays untouched.
	if result.CommitHash != "" {
		t.Error("original result mutated; want immutability")
	}
}

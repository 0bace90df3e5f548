package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/entity-dev/entity/internal/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "entity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRegistry_RecordAppendsInOrder(t *testing.T) {
	reg := NewRegistry("harper", nil)

	reg.Record("first", engine.TaskResult{SessionID: "s1", Success: true, Output: "one"})
	reg.Record("second", engine.TaskResult{SessionID: "s2", Success: false, Output: "two"})
	reg.Record("third", engine.TaskResult{SessionID: "s3", Blocked: true, BlockerQuestion: "which env?"})

	history := reg.History()
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if history[0].Output != "one" || history[2].SessionID != "s3" {
		t.Error("history not in completion order")
	}
	if reg.Succeeded() != 1 {
		t.Errorf("Succeeded = %d, want 1", reg.Succeeded())
	}
}

func TestRegistry_PersistsSessionsAndResults(t *testing.T) {
	store := newTestStore(t)
	reg := NewRegistry("harper", store)

	reg.Record("add retries", engine.TaskResult{
		SessionID:       "sess-1",
		Blocked:         true,
		BlockerQuestion: "Which backoff strategy?",
		Output:          "partial work. NEED_HUMAN_INPUT: Which backoff strategy?",
	})

	sess, err := store.GetSession("sess-1")
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, StatusBlocked, sess.Status)
	require.Equal(t, "harper", sess.Agent)

	// Resuming the same session to completion flips its status.
	reg.Record("add retries", engine.TaskResult{
		SessionID: "sess-1",
		Success:   true,
		Output:    "done, used exponential backoff",
	})

	sess, err = store.GetSession("sess-1")
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, sess.Status)

	records, err := store.ResultsForSession("sess-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.True(t, records[0].Blocked)
	require.True(t, records[1].Success)
}

func TestStore_GetSessionMissing(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.GetSession("nope")
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestStore_ListSessions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.UpsertSession("a", "harper", "p1", StatusCompleted))
	require.NoError(t, store.UpsertSession("b", "harper", "p2", StatusBlocked))

	sessions, err := store.ListSessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
}

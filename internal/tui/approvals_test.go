package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entity-dev/entity/internal/approval"
)

type fakeResolver struct {
	decisions map[string]string
	err       error
}

func (f *fakeResolver) Resolve(taskID, decision string) error {
	if f.err != nil {
		return f.err
	}
	if f.decisions == nil {
		f.decisions = map[string]string{}
	}
	f.decisions[taskID] = decision
	return nil
}

func pendingFixture() []approval.Request {
	return []approval.Request{
		{
			TaskID:      "approval_20260826_100000",
			Description: "force-push main",
			Details:     "history rewrite after secret leak",
			Options:     approval.DefaultOptions,
			CreatedAt:   time.Now(),
		},
		{
			TaskID:      "approval_20260826_100001",
			Description: "delete staging database",
			Options:     approval.DefaultOptions,
			CreatedAt:   time.Now(),
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case KeyEnter:
		return tea.KeyMsg{Type: tea.KeyEnter}
	case KeyEsc:
		return tea.KeyMsg{Type: tea.KeyEsc}
	case KeyLeft:
		return tea.KeyMsg{Type: tea.KeyLeft}
	case KeyRight:
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func step(t *testing.T, m tea.Model, msg tea.Msg) ReviewModel {
	t.Helper()
	next, _ := m.Update(msg)
	rm, ok := next.(ReviewModel)
	if !ok {
		t.Fatalf("Update returned %T, want ReviewModel", next)
	}
	return rm
}

func TestReview_ApproveFirstRequest(t *testing.T) {
	resolver := &fakeResolver{}
	m := NewReviewModel(resolver, pendingFixture())
	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = step(t, m, key(KeyEnter)) // open detail
	if m.state != stateDecide {
		t.Fatalf("state = %v, want stateDecide", m.state)
	}

	m = step(t, m, key(KeyEnter)) // first option is Approve
	if got := resolver.decisions["approval_20260826_100000"]; got != approval.DecisionApprove {
		t.Errorf("decision = %q, want %q", got, approval.DecisionApprove)
	}
	if m.Resolved() != 1 {
		t.Errorf("Resolved() = %d, want 1", m.Resolved())
	}
	if m.state != stateBrowse {
		t.Errorf("state = %v, want stateBrowse with one request left", m.state)
	}
}

func TestReview_RejectSecondOption(t *testing.T) {
	resolver := &fakeResolver{}
	m := NewReviewModel(resolver, pendingFixture()[:1])
	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = step(t, m, key(KeyEnter))
	m = step(t, m, key(KeyRight))
	m = step(t, m, key(KeyEnter))

	if got := resolver.decisions["approval_20260826_100000"]; got != approval.DecisionReject {
		t.Errorf("decision = %q, want %q", got, approval.DecisionReject)
	}
	if m.state != stateDone {
		t.Errorf("state = %v, want stateDone after last request", m.state)
	}
}

func TestReview_ResolveErrorStaysOnDetail(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("store closed")}
	m := NewReviewModel(resolver, pendingFixture()[:1])
	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = step(t, m, key(KeyEnter))
	m = step(t, m, key(KeyEnter))

	if m.state != stateDecide {
		t.Errorf("state = %v, want stateDecide after failed resolve", m.state)
	}
	if !strings.Contains(m.View(), "store closed") {
		t.Error("View() should surface the resolve error")
	}
	if m.Resolved() != 0 {
		t.Errorf("Resolved() = %d, want 0", m.Resolved())
	}
}

func TestReview_EmptyQueueStartsDone(t *testing.T) {
	m := NewReviewModel(&fakeResolver{}, nil)
	if m.state != stateDone {
		t.Fatalf("state = %v, want stateDone for empty queue", m.state)
	}
	if !strings.Contains(m.View(), "Review complete") {
		t.Error("View() should report completion")
	}
}

func TestReview_EscReturnsToBrowse(t *testing.T) {
	m := NewReviewModel(&fakeResolver{}, pendingFixture())
	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = step(t, m, key(KeyEnter))
	m = step(t, m, key(KeyEsc))
	if m.state != stateBrowse {
		t.Errorf("state = %v, want stateBrowse", m.state)
	}
}

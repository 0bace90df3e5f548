package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entity-dev/entity/internal/approval"
)

// Resolver decides pending approval requests. *approval.Gate satisfies it.
type Resolver interface {
	Resolve(taskID, decision string) error
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(taskID, decision string) error

func (f ResolverFunc) Resolve(taskID, decision string) error { return f(taskID, decision) }

// reviewState tracks which pane of the review flow is active.
type reviewState int

const (
	stateBrowse reviewState = iota
	stateDecide
	stateDone
)

// approvalItem wraps a Request for the list display.
type approvalItem struct {
	req approval.Request
}

func (i approvalItem) Title() string       { return i.req.Description }
func (i approvalItem) Description() string { return i.req.TaskID }
func (i approvalItem) FilterValue() string { return i.req.Description }

// ReviewModel walks a human through the pending approval queue, one request
// at a time.
type ReviewModel struct {
	resolver Resolver
	pending  []approval.Request
	queue    list.Model
	state    reviewState
	choice   int
	resolved int
	errMsg   string
	width    int
	height   int
}

// NewReviewModel builds the approval review model over the given pending
// requests.
func NewReviewModel(resolver Resolver, pending []approval.Request) ReviewModel {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(0)

	items := make([]list.Item, len(pending))
	for i, req := range pending {
		items[i] = approvalItem{req: req}
	}

	queue := list.New(items, delegate, 0, 0)
	queue.Title = "Pending Approvals"
	queue.SetShowStatusBar(false)
	queue.SetFilteringEnabled(false)

	state := stateBrowse
	if len(pending) == 0 {
		state = stateDone
	}

	return ReviewModel{
		resolver: resolver,
		pending:  pending,
		queue:    queue,
		state:    state,
	}
}

// Resolved reports how many requests were decided during the review.
func (m ReviewModel) Resolved() int { return m.resolved }

func (m ReviewModel) Init() tea.Cmd { return nil }

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.queue.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case KeyCtrlC, KeyQuit:
			return m, tea.Quit
		}

		switch m.state {
		case stateBrowse:
			return m.updateBrowse(msg)
		case stateDecide:
			return m.updateDecide(msg)
		case stateDone:
			if msg.String() == KeyEnter || msg.String() == KeyEsc {
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.queue, cmd = m.queue.Update(msg)
	return m, cmd
}

func (m ReviewModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyEnter {
		if m.current() != nil {
			m.state = stateDecide
			m.choice = 0
			m.errMsg = ""
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.queue, cmd = m.queue.Update(msg)
	return m, cmd
}

func (m ReviewModel) updateDecide(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	req := m.current()
	if req == nil {
		m.state = stateBrowse
		return m, nil
	}

	switch msg.String() {
	case KeyEsc:
		m.state = stateBrowse
		return m, nil

	case KeyLeft:
		if m.choice > 0 {
			m.choice--
		}
		return m, nil

	case KeyRight:
		if m.choice < len(req.Options)-1 {
			m.choice++
		}
		return m, nil

	case KeyEnter:
		if err := m.resolver.Resolve(req.TaskID, req.Options[m.choice]); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.resolved++
		m.removeCurrent()
		if len(m.pending) == 0 {
			m.state = stateDone
			return m, nil
		}
		m.state = stateBrowse
		return m, nil
	}

	return m, nil
}

// current returns the request under the list cursor, or nil.
func (m *ReviewModel) current() *approval.Request {
	item, ok := m.queue.SelectedItem().(approvalItem)
	if !ok {
		return nil
	}
	for i := range m.pending {
		if m.pending[i].TaskID == item.req.TaskID {
			return &m.pending[i]
		}
	}
	return nil
}

func (m *ReviewModel) removeCurrent() {
	item, ok := m.queue.SelectedItem().(approvalItem)
	if !ok {
		return
	}
	kept := m.pending[:0]
	for _, req := range m.pending {
		if req.TaskID != item.req.TaskID {
			kept = append(kept, req)
		}
	}
	m.pending = kept

	items := make([]list.Item, len(m.pending))
	for i, req := range m.pending {
		items[i] = approvalItem{req: req}
	}
	m.queue.SetItems(items)
}

func (m ReviewModel) View() string {
	switch m.state {
	case stateDone:
		msg := SuccessStyle.Render(fmt.Sprintf("Review complete. %d request(s) decided.", m.resolved))
		return msg + "\n" + DimStyle.Render("enter/esc/q to exit")

	case stateDecide:
		return m.viewDecide()

	default:
		help := DimStyle.Render("enter: review  q: quit")
		return m.queue.View() + "\n" + help
	}
}

func (m ReviewModel) viewDecide() string {
	req := m.current()
	if req == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(req.Description))
	b.WriteString("\n\n")
	if req.Details != "" {
		b.WriteString(req.Details)
		b.WriteString("\n\n")
	}
	b.WriteString(DimStyle.Render(req.TaskID))
	b.WriteString("\n\n")

	choices := make([]string, len(req.Options))
	for i, opt := range req.Options {
		if i == m.choice {
			choices[i] = SelectedStyle.Render("[" + opt + "]")
		} else {
			choices[i] = DimStyle.Render(" " + opt + " ")
		}
	}
	b.WriteString(strings.Join(choices, "  "))
	b.WriteString("\n\n")

	if m.errMsg != "" {
		b.WriteString(ErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(DimStyle.Render("←/→: choose  enter: resolve  esc: back"))

	return BoxStyle.Render(b.String())
}

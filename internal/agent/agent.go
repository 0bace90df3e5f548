// Package agent assembles the dispatcher, permission resolver, session
// registry, and approval gate into one task-running agent instance.
package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/entity-dev/entity/internal/approval"
	"github.com/entity-dev/entity/internal/config"
	"github.com/entity-dev/entity/internal/engine"
	"github.com/entity-dev/entity/internal/git"
	"github.com/entity-dev/entity/internal/github"
	"github.com/entity-dev/entity/internal/log"
	"github.com/entity-dev/entity/internal/notify"
	"github.com/entity-dev/entity/internal/permissions"
	"github.com/entity-dev/entity/internal/session"
)

// Agent owns the state of one dispatch-and-resume loop: task history,
// pending approvals, and the collaborator clients. State is scoped to the
// instance, never to the process; two Agents never share memory. A single
// instance assumes at most one in-flight dispatch at a time.
type Agent struct {
	cfg         *config.Config
	projectRoot string
	outputDir   string

	notifier   *notify.Notifier
	logger     *log.Logger
	dispatcher *engine.Dispatcher
	resolver   permissions.Resolver
	registry   *session.Registry
	gate       *approval.Gate

	sessions  *session.Store
	approvals *approval.Store

	Git    *git.Client
	GitHub *github.Client // nil when no repository is configured
}

// Status is a point-in-time summary of one agent instance.
type Status struct {
	Name             string `json:"name"`
	Role             string `json:"role"`
	PendingApprovals int    `json:"pending_approvals"`
	TasksCompleted   int    `json:"tasks_completed"`
	TasksSucceeded   int    `json:"tasks_succeeded"`
	ProjectRoot      string `json:"project_root"`
	GitHubRepo       string `json:"github_repo,omitempty"`
}

// New creates an Agent rooted at projectRoot. The output directory, stores,
// and log files are created as needed.
func New(cfg *config.Config, projectRoot string) (*Agent, error) {
	outputDir := cfg.Agent.OutputDir
	if outputDir == "" {
		outputDir = config.Dir(projectRoot)
	} else if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(projectRoot, outputDir)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	logger, err := log.NewLogger(outputDir)
	if err != nil {
		return nil, err
	}

	notifications := cfg.Notifications
	if notifications.FilePath != "" && !filepath.IsAbs(notifications.FilePath) {
		notifications.FilePath = filepath.Join(projectRoot, notifications.FilePath)
	}
	notifier := notify.New(cfg.Agent.Name, notifications)

	sessions, err := session.NewStore(filepath.Join(outputDir, "sessions.db"))
	if err != nil {
		return nil, err
	}

	approvals, err := approval.NewStore(filepath.Join(outputDir, "approvals.db"))
	if err != nil {
		_ = sessions.Close()
		return nil, err
	}

	gate, err := approval.NewGate(outputDir, approvals, notifier, logger)
	if err != nil {
		_ = sessions.Close()
		_ = approvals.Close()
		return nil, err
	}

	a := &Agent{
		cfg:         cfg,
		projectRoot: projectRoot,
		outputDir:   outputDir,
		notifier:    notifier,
		logger:      logger,
		dispatcher:  engine.NewDispatcher(cfg.Engine.Binary, cfg.Engine.Model, projectRoot, notifier, logger),
		resolver:    permissions.NewResolver(filepath.Join(outputDir, "policy.yaml"), cfg.Agent.Supervisor),
		registry:    session.NewRegistry(cfg.Agent.Name, sessions),
		gate:        gate,
		sessions:    sessions,
		approvals:   approvals,
		Git:         git.NewClient(projectRoot),
	}

	if cfg.GitHubRepo != "" {
		a.GitHub = github.NewClient(cfg.GitHubRepo)
	}

	return a, nil
}

// Close releases the agent's durable stores.
func (a *Agent) Close() error {
	err := a.sessions.Close()
	if cerr := a.approvals.Close(); err == nil {
		err = cerr
	}
	return err
}

// Run dispatches one prompt in a fresh session, records the outcome in the
// agent's history, and returns it. Failures and blocks arrive as fields on
// the result, never as errors.
func (a *Agent) Run(ctx context.Context, prompt string) engine.TaskResult {
	flags := a.resolver.Resolve(a.cfg.Agent.Role, a.projectRoot)

	result := a.dispatcher.Dispatch(ctx, engine.Request{
		Prompt:          prompt,
		SystemPrompt:    a.cfg.Agent.SystemPrompt,
		PermissionFlags: flags,
		Timeout:         a.cfg.TaskTimeout(),
	})

	a.registry.Record(prompt, result)
	return result
}

// Resume continues a previously blocked session with a human-supplied
// answer. The session id must come from a prior Run or Resume result on
// this engine; resuming a completed or unknown session surfaces as a
// failed result from the engine, not an error.
func (a *Agent) Resume(ctx context.Context, sessionID, answer string) engine.TaskResult {
	flags := a.resolver.Resolve(a.cfg.Agent.Role, a.projectRoot)

	result := a.dispatcher.Resume(ctx, sessionID, answer, flags, a.cfg.TaskTimeout())

	a.registry.Record(answer, result)
	return result
}

// RequestApproval registers a human-approval checkpoint for a risky action.
// It returns immediately; resolution happens externally.
func (a *Agent) RequestApproval(description, details string, options []string) (approval.Request, error) {
	return a.gate.Request(description, details, options)
}

// ResolveApproval records the human decision for a pending approval.
func (a *Agent) ResolveApproval(taskID, decision string) error {
	return a.gate.Resolve(taskID, decision)
}

// PendingApprovals returns the approvals awaiting a decision.
func (a *Agent) PendingApprovals() []approval.Request {
	return a.gate.Pending()
}

// History returns the task results recorded by this instance, oldest first.
func (a *Agent) History() []engine.TaskResult {
	return a.registry.History()
}

// CommitChanges stages everything and commits with the given message,
// optionally closing a linked issue.
func (a *Agent) CommitChanges(message string, issueNumber int) (git.CommitResult, error) {
	if err := a.Git.Add(); err != nil {
		return git.CommitResult{}, err
	}

	result, err := a.Git.Commit(message, issueNumber)
	if err != nil {
		return git.CommitResult{}, err
	}

	if result.Success {
		_ = a.logger.Append(log.LogEvent{
			Event:  log.EventChangesCommitted,
			Agent:  a.cfg.Agent.Name,
			Commit: result.Hash,
		})
	}
	return result, nil
}

// WithCommit returns a copy of result carrying the files and hash of a
// commit made on its behalf. Task results are immutable once recorded, so
// the commit outcome is attached to a copy rather than patched in place.
func WithCommit(result engine.TaskResult, commit git.CommitResult) engine.TaskResult {
	result.FilesChanged = commit.Files
	result.CommitHash = commit.Hash
	return result
}

// Config returns the configuration the agent was built from.
func (a *Agent) Config() *config.Config {
	return a.cfg
}

// ProjectRoot returns the directory the agent operates in.
func (a *Agent) ProjectRoot() string {
	return a.projectRoot
}

// Sessions returns the most recently updated sessions from the durable
// store, across all past invocations.
func (a *Agent) Sessions(limit int) ([]session.Session, error) {
	return a.sessions.ListSessions(limit)
}

// Session looks up one session by id. Returns nil, nil when unknown.
func (a *Agent) Session(id string) (*session.Session, error) {
	return a.sessions.GetSession(id)
}

// SessionResults returns the recorded outcomes for a session, oldest first.
func (a *Agent) SessionResults(id string) ([]session.ResultRecord, error) {
	return a.sessions.ResultsForSession(id)
}

// Status reports the agent's current counters. Task counts come from the
// durable store so a fresh process still sees past invocations; the
// in-memory history only covers tasks run by this instance.
func (a *Agent) Status() Status {
	completed, succeeded, err := a.sessions.CountResults()
	if err != nil {
		completed, succeeded = a.registry.Len(), a.registry.Succeeded()
	}
	return Status{
		Name:             a.cfg.Agent.Name,
		Role:             a.cfg.Agent.Role,
		PendingApprovals: len(a.gate.Pending()),
		TasksCompleted:   completed,
		TasksSucceeded:   succeeded,
		ProjectRoot:      a.projectRoot,
		GitHubRepo:       a.cfg.GitHubRepo,
	}
}

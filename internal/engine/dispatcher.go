// dispatcher.go manages spawning and lifecycle of reasoning-engine processes.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/entity-dev/entity/internal/log"
	"github.com/entity-dev/entity/prompts"
)

// defaultTimeout bounds an invocation when the caller supplies none.
const defaultTimeout = 10 * time.Minute

// Dispatcher executes prompts against the reasoning engine as blocking
// subprocess invocations. One Dispatcher is owned by one agent instance;
// it holds no cross-process state.
type Dispatcher struct {
	binary   string
	model    string
	workDir  string
	notifier Notifier
	logger   *log.Logger
}

// NewDispatcher creates a Dispatcher that invokes binary in workDir.
// notifier and logger may be nil; side effects are then skipped.
func NewDispatcher(binary, model, workDir string, notifier Notifier, logger *log.Logger) *Dispatcher {
	if binary == "" {
		binary = "claude"
	}
	return &Dispatcher{
		binary:   binary,
		model:    model,
		workDir:  workDir,
		notifier: notifier,
		logger:   logger,
	}
}

// Dispatch executes one prompt in a fresh session and classifies the result.
// It never returns an error: every failure mode is folded into the TaskResult
// so callers branch on Success and Blocked without error handling.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) TaskResult {
	sessionID := uuid.New().String()

	if strings.TrimSpace(req.Prompt) == "" {
		return d.fail(sessionID, "empty prompt")
	}

	d.notifyInfo(fmt.Sprintf("Starting task: %s", truncate(req.Prompt, 50)))
	d.logEvent(log.LogEvent{Event: log.EventTaskDispatched, SessionID: sessionID, Prompt: truncate(req.Prompt, 200)})

	args := buildDispatchArgs(d.model, sessionID, req)
	return d.invoke(ctx, sessionID, args, req.Timeout)
}

// Resume continues the named session with answer as the new input. No new
// session id is generated; the same id is reused for the rest of the
// conversation's life. A resumed call may itself come back blocked, in which
// case the caller resumes again with the same id.
func (d *Dispatcher) Resume(ctx context.Context, sessionID, answer string, permissionFlags []string, timeout time.Duration) TaskResult {
	if strings.TrimSpace(answer) == "" {
		return d.fail(sessionID, "empty answer")
	}

	d.notifyInfo(fmt.Sprintf("Resuming session %s", sessionID))
	d.logEvent(log.LogEvent{Event: log.EventTaskResumed, SessionID: sessionID})

	args := buildResumeArgs(d.model, sessionID, answer, permissionFlags)
	return d.invoke(ctx, sessionID, args, timeout)
}

// invoke runs the subprocess and classifies its outcome. The only blocking
// operation is the subprocess wait, bounded by timeout.
func (d *Dispatcher) invoke(ctx context.Context, sessionID string, args []string, timeout time.Duration) TaskResult {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.binary, args...)
	if d.workDir != "" {
		cmd.Dir = d.workDir
	}
	configureProcessGroup(cmd)

	// Even after the group is killed, Wait blocks until the output pipes
	// close; WaitDelay bounds that in case something survived the signal.
	cmd.WaitDelay = time.Second

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	if err != nil {
		// The context deadline kills the process; partial stdout is discarded.
		if ctx.Err() == context.DeadlineExceeded {
			return d.fail(sessionID, fmt.Sprintf("task timed out after %s", timeout))
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			diag := strings.TrimSpace(stderr.String())
			if diag == "" {
				diag = strings.TrimSpace(stdout.String())
			}
			return d.fail(sessionID, diag)
		}

		// Launch failure: missing executable, permission denied.
		return d.fail(sessionID, err.Error())
	}

	result := TaskResult{
		SessionID:  sessionID,
		DurationMs: time.Since(start).Milliseconds(),
		CreatedAt:  time.Now(),
	}

	env, parseErr := ParseEnvelope(stdout.Bytes())
	if parseErr != nil {
		// Degrade to raw stdout; a clean exit still counts as success.
		result.Success = true
		result.Output = strings.TrimSpace(stdout.String())
		d.notifySuccess("Task completed successfully")
		d.logEvent(log.LogEvent{Event: log.EventTaskCompleted, SessionID: sessionID, DurationMs: result.DurationMs})
		return result
	}

	result.Output = env.Result
	result.CostUSD = env.CostUSD
	if env.DurationMS > 0 {
		result.DurationMs = env.DurationMS
	}

	result.Blocked, result.BlockerQuestion = Classify(env.Result)
	result.Success = !result.Blocked && !env.IsError

	switch {
	case result.Blocked:
		d.notifyApproval(fmt.Sprintf("Task blocked, needs input: %s", result.BlockerQuestion))
		d.logEvent(log.LogEvent{Event: log.EventTaskBlocked, SessionID: sessionID, Question: result.BlockerQuestion})
	case result.Success:
		d.notifySuccess("Task completed successfully")
		d.logEvent(log.LogEvent{Event: log.EventTaskCompleted, SessionID: sessionID, DurationMs: result.DurationMs, CostUSD: result.CostUSD})
	default:
		d.notifyError(fmt.Sprintf("Task failed: %s", truncate(result.Output, 100)))
		d.logEvent(log.LogEvent{Event: log.EventTaskFailed, SessionID: sessionID, Error: truncate(result.Output, 200)})
	}

	return result
}

// fail builds a failed TaskResult carrying the session id so a caller can
// still attempt to resume, and emits the failure side effects.
func (d *Dispatcher) fail(sessionID, output string) TaskResult {
	d.notifyError(fmt.Sprintf("Task failed: %s", truncate(output, 100)))
	d.logEvent(log.LogEvent{Event: log.EventTaskFailed, SessionID: sessionID, Error: truncate(output, 200)})
	return TaskResult{
		Success:   false,
		Output:    output,
		SessionID: sessionID,
		CreatedAt: time.Now(),
	}
}

// buildDispatchArgs constructs the argument slice for a fresh session.
// The blocking-protocol clause is appended to every system prompt so the
// engine knows how to signal that it needs human input.
func buildDispatchArgs(model, sessionID string, req Request) []string {
	systemPrompt := strings.TrimSpace(req.SystemPrompt)
	if systemPrompt == "" {
		systemPrompt = prompts.DefaultSystemPrompt
	}
	systemPrompt = systemPrompt + "\n\n" + prompts.BlockingClause

	args := []string{
		"-p", req.Prompt,
		"--append-system-prompt", systemPrompt,
		"--output-format", "json",
		"--session-id", sessionID,
	}
	if model != "" {
		args = append(args, "--model", model)
	}
	return append(args, req.PermissionFlags...)
}

// buildResumeArgs constructs the argument slice for continuing a session.
// The engine retains the system prompt from session creation.
func buildResumeArgs(model, sessionID, answer string, permissionFlags []string) []string {
	args := []string{
		"-p", answer,
		"--resume", sessionID,
		"--output-format", "json",
	}
	if model != "" {
		args = append(args, "--model", model)
	}
	return append(args, permissionFlags...)
}

func (d *Dispatcher) notifyInfo(msg string) {
	if d.notifier != nil {
		d.notifier.Info(msg)
	}
}

func (d *Dispatcher) notifySuccess(msg string) {
	if d.notifier != nil {
		d.notifier.Success(msg)
	}
}

func (d *Dispatcher) notifyError(msg string) {
	if d.notifier != nil {
		d.notifier.Error(msg)
	}
}

func (d *Dispatcher) notifyApproval(msg string) {
	if d.notifier != nil {
		d.notifier.Approval(msg)
	}
}

func (d *Dispatcher) logEvent(event log.LogEvent) {
	if d.logger != nil {
		_ = d.logger.Append(event)
	}
}

// truncate shortens s to at most n runes for notification previews.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

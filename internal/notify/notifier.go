// Package notify broadcasts agent state-transition messages through the
// channels enabled in configuration.
package notify

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/entity-dev/entity/internal/config"
)

// Level identifies the severity of a notification.
type Level string

const (
	LevelInfo     Level = "info"
	LevelSuccess  Level = "success"
	LevelError    Level = "error"
	LevelApproval Level = "approval"
)

var consoleColors = map[Level]*color.Color{
	LevelInfo:     color.New(color.FgCyan),
	LevelSuccess:  color.New(color.FgGreen),
	LevelError:    color.New(color.FgRed),
	LevelApproval: color.New(color.FgYellow, color.Bold),
}

// Notifier sends notifications through all enabled channels. Channel
// failures are swallowed: a broken notification path must never fail the
// task that triggered it.
type Notifier struct {
	agentName string
	cfg       config.NotificationConfig
}

// New creates a Notifier for the named agent, creating the log file's
// directory if file notifications are enabled.
func New(agentName string, cfg config.NotificationConfig) *Notifier {
	if cfg.FileEnabled && cfg.FilePath != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.FilePath), 0755)
	}
	return &Notifier{agentName: agentName, cfg: cfg}
}

// Notify sends message through every enabled channel.
func (n *Notifier) Notify(message string, level Level) {
	formatted := fmt.Sprintf("[%s] [%s] %s: %s",
		time.Now().Format(time.RFC3339), strings.ToUpper(string(level)), n.agentName, message)

	if n.cfg.FileEnabled && n.cfg.FilePath != "" {
		n.appendToFile(formatted)
	}
	if n.cfg.ConsoleEnabled {
		n.printToConsole(formatted, level)
	}
	if n.cfg.DesktopEnabled {
		n.desktopNotify(message, level)
	}
}

// Info sends an info-level notification.
func (n *Notifier) Info(message string) { n.Notify(message, LevelInfo) }

// Success sends a success-level notification.
func (n *Notifier) Success(message string) { n.Notify(message, LevelSuccess) }

// Error sends an error-level notification.
func (n *Notifier) Error(message string) { n.Notify(message, LevelError) }

// Approval sends an approval-level notification.
func (n *Notifier) Approval(message string) { n.Notify(message, LevelApproval) }

func (n *Notifier) appendToFile(line string) {
	f, err := os.OpenFile(n.cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line + "\n")
}

func (n *Notifier) printToConsole(line string, level Level) {
	if c, ok := consoleColors[level]; ok {
		_, _ = c.Fprintln(os.Stderr, line)
		return
	}
	fmt.Fprintln(os.Stderr, line)
}

// desktopNotify raises a desktop popup where a mechanism exists. Best
// effort only.
func (n *Notifier) desktopNotify(message string, level Level) {
	title := n.agentName
	switch level {
	case LevelError:
		title += " - Error"
	case LevelApproval:
		title += " - Approval Needed"
	}

	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", message, title)
		_ = exec.Command("osascript", "-e", script).Run()
	case "linux":
		_ = exec.Command("notify-send", title, message).Run()
	}
}

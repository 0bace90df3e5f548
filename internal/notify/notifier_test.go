package notify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/entity-dev/entity/internal/config"
)

func TestNotify_AppendsFormattedLine(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "notifications.log")
	n := New("harper", config.NotificationConfig{
		FileEnabled: true,
		FilePath:    logPath,
	})

	n.Info("Starting task: add retries")
	n.Error("Task failed: boom")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading notification log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "[INFO] harper: Starting task: add retries") {
		t.Errorf("first line = %q, want info entry", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] harper: Task failed: boom") {
		t.Errorf("second line = %q, want error entry", lines[1])
	}
}

func TestNotify_DisabledChannelsWriteNothing(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "notifications.log")
	n := New("harper", config.NotificationConfig{
		FileEnabled: false,
		FilePath:    logPath,
	})

	n.Approval("Approval needed: deploy")

	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("notification log created despite file channel disabled")
	}
}

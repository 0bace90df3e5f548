// Package testutil provides test helper utilities for entity tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// TempProject creates a temporary directory with the given files and returns its path.
// Files is a map of relative path -> content. Directories are created as needed.
// The directory is automatically cleaned up when the test finishes.
func TempProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// FakeEngine writes an executable shell script standing in for the reasoning
// engine binary and returns its path. body is the script body; "$@" carries
// the dispatcher's arguments.
func FakeEngine(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-engine")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("writing fake engine: %v", err)
	}
	return path
}

// EngineReplying returns a fake engine that prints the given result text
// inside a well-formed JSON envelope and exits 0.
func EngineReplying(t *testing.T, result string) string {
	t.Helper()
	envelope := fmt.Sprintf(`{"type":"result","result":%q,"session_id":"sess-test","is_error":false,"cost_usd":0.01,"duration_ms":5,"num_turns":1}`, result)
	return FakeEngine(t, fmt.Sprintf("printf '%%s' '%s'", envelope))
}

// ArgSeparator delimits recorded arguments in the file written by
// EngineRecordingArgs. Arguments may span lines (system prompts do), so a
// plain newline is not enough.
const ArgSeparator = "\n@@ARG@@\n"

// EngineRecordingArgs returns a fake engine that appends its argument list,
// ArgSeparator-delimited, to argsFile before replying with a minimal envelope.
func EngineRecordingArgs(t *testing.T, argsFile string) string {
	t.Helper()
	body := fmt.Sprintf(`for a in "$@"; do printf '%%s\n@@ARG@@\n' "$a" >> %q; done
printf '%%s' '{"type":"result","result":"ok","session_id":"sess-test","is_error":false}'`, argsFile)
	return FakeEngine(t, body)
}

// EngineFailing returns a fake engine that writes diag to stderr and exits
// with the given code.
func EngineFailing(t *testing.T, diag string, code int) string {
	t.Helper()
	return FakeEngine(t, fmt.Sprintf("printf '%%s' %q >&2\nexit %d", diag, code))
}

// EngineSleeping returns a fake engine that sleeps for the given number of
// seconds, for exercising the timeout path.
func EngineSleeping(t *testing.T, seconds int) string {
	t.Helper()
	return FakeEngine(t, fmt.Sprintf("sleep %d", seconds))
}

// EngineForking returns a fake engine that forks a sleeping child, records
// the child's pid to pidFile, and waits for it. The child inherits the
// output pipes, so it stands in for engine workers that must not outlive
// the dispatch deadline.
func EngineForking(t *testing.T, seconds int, pidFile string) string {
	t.Helper()
	body := fmt.Sprintf("sleep %d &\necho $! > %q\nwait", seconds, pidFile)
	return FakeEngine(t, body)
}

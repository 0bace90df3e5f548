package workspace

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/entity-dev/entity/internal/testutil"
)

func TestScan_MissingDirectory(t *testing.T) {
	s := NewScanner(nil)
	status := s.Scan(filepath.Join(t.TempDir(), "no-such-project"))

	if status.Exists {
		t.Error("Exists = true for missing directory")
	}
	if status.Name != "no-such-project" {
		t.Errorf("Name = %q, want no-such-project", status.Name)
	}
}

func TestScan_ReadsStatusNote(t *testing.T) {
	// A plain directory is not a git repo; the scan records the git error
	// but should still not panic or drop the project name.
	dir := testutil.TempProject(t, map[string]string{
		".status.md": "migrating the queue to NATS\n",
	})

	s := NewScanner(nil)
	status := s.Scan(dir)

	if !status.Exists {
		t.Fatal("Exists = false for existing directory")
	}
	if status.StatusNote != "migrating the queue to NATS" {
		t.Errorf("StatusNote = %q, want note contents", status.StatusNote)
	}
	if status.Err == nil {
		t.Error("Err = nil for non-repo directory, want git error")
	}
}

func TestScanAll_PreservesOrder(t *testing.T) {
	dirs := []string{
		filepath.Join(t.TempDir(), "alpha"),
		filepath.Join(t.TempDir(), "beta"),
		filepath.Join(t.TempDir(), "gamma"),
	}

	statuses := NewScanner(dirs).ScanAll(context.Background())

	if len(statuses) != 3 {
		t.Fatalf("len = %d, want 3", len(statuses))
	}
	for i, want := range []string{"alpha", "beta", "gamma"} {
		if statuses[i].Name != want {
			t.Errorf("statuses[%d].Name = %q, want %q", i, statuses[i].Name, want)
		}
	}
}

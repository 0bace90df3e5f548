// Package workspace scans the projects an agent watches and renders
// status reports over them.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/entity-dev/entity/internal/git"
)

// statusNoteLimit caps how much of a project's .status.md is carried into
// reports.
const statusNoteLimit = 500

// scanConcurrency bounds how many projects are inspected at once. Each scan
// shells out to git several times, so unbounded fan-out just thrashes.
const scanConcurrency = 4

// ProjectStatus is a point-in-time snapshot of one watched project.
type ProjectStatus struct {
	Name          string
	Path          string
	Exists        bool
	Branch        string
	Dirty         bool
	Uncommitted   int
	RecentCommits []string
	StatusNote    string
	Err           error
}

// Active reports whether the project had commits inside the scan window.
func (p ProjectStatus) Active() bool {
	return len(p.RecentCommits) > 0
}

// Scanner inspects a fixed set of project directories.
type Scanner struct {
	projects []string
	window   string
	limit    int
}

// NewScanner returns a Scanner over the given project paths, looking back
// 24 hours for recent activity.
func NewScanner(projects []string) *Scanner {
	return &Scanner{projects: projects, window: "24 hours ago", limit: 10}
}

// Scan inspects a single project directory. Git failures are recorded on the
// status rather than returned, so one broken checkout never hides the rest.
func (s *Scanner) Scan(path string) ProjectStatus {
	status := ProjectStatus{
		Name: filepath.Base(path),
		Path: path,
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return status
	}
	status.Exists = true

	if note, err := os.ReadFile(filepath.Join(path, ".status.md")); err == nil {
		status.StatusNote = truncateNote(string(note))
	}

	repo := git.NewClient(path)

	porcelain, err := repo.Status()
	if err != nil {
		status.Err = err
		return status
	}
	if trimmed := strings.TrimSpace(porcelain); trimmed != "" {
		status.Dirty = true
		status.Uncommitted = len(strings.Split(trimmed, "\n"))
	}

	if branch, err := repo.CurrentBranch(); err == nil {
		status.Branch = branch
	}

	commits, err := repo.RecentCommits(s.window, s.limit)
	if err != nil {
		status.Err = err
		return status
	}
	status.RecentCommits = commits

	return status
}

// ScanAll scans every watched project concurrently and returns the snapshots
// in the same order the projects were configured.
func (s *Scanner) ScanAll(ctx context.Context) []ProjectStatus {
	statuses := make([]ProjectStatus, len(s.projects))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)

	for i, path := range s.projects {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				statuses[i] = ProjectStatus{Name: filepath.Base(path), Path: path, Err: err}
				return nil
			}
			statuses[i] = s.Scan(path)
			return nil
		})
	}

	// Workers never return errors; Wait is just the join point.
	_ = g.Wait()
	return statuses
}

func truncateNote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= statusNoteLimit {
		return s
	}
	return s[:statusNoteLimit]
}

// Package git wraps the Git operations agents perform on their projects.
package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	ErrGitNotFound = errors.New("git not found in PATH")
	ErrNotARepo    = errors.New("not a git repository")
)

// Client runs git commands against one repository. One Client is owned per
// agent instance, bound to that agent's project root.
type Client struct {
	repoPath string
}

// NewClient creates a Client for the repository at repoPath.
func NewClient(repoPath string) *Client {
	return &Client{repoPath: repoPath}
}

// ensureGit checks that git is available in PATH.
func ensureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	return nil
}

// run executes a git subcommand in the repository and returns its stdout.
func (c *Client) run(args ...string) (string, error) {
	if err := ensureGit(); err != nil {
		return "", err
	}
	cmd := exec.Command("git", args...)
	cmd.Dir = c.repoPath
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}

// Status returns the short-format working tree status.
func (c *Client) Status() (string, error) {
	return c.run("status", "--short")
}

// HasChanges returns true if the working tree has uncommitted changes.
func (c *Client) HasChanges() (bool, error) {
	out, err := c.run("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Diff returns the working tree diff; staged controls --staged.
func (c *Client) Diff(staged bool) (string, error) {
	args := []string{"diff"}
	if staged {
		args = append(args, "--staged")
	}
	return c.run(args...)
}

// Add stages the given paths, or everything when none are given.
func (c *Client) Add(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	_, err := c.run(append([]string{"add"}, paths...)...)
	return err
}

// Push pushes the given branch to the remote. branch may be empty to push
// the current branch.
func (c *Client) Push(remote, branch string) error {
	args := []string{"push", remote}
	if branch != "" {
		args = append(args, branch)
	}
	_, err := c.run(args...)
	return err
}

// Pull pulls the given branch from the remote.
func (c *Client) Pull(remote, branch string) error {
	args := []string{"pull", remote}
	if branch != "" {
		args = append(args, branch)
	}
	_, err := c.run(args...)
	return err
}

// Checkout switches to branch, creating it first when create is true.
func (c *Client) Checkout(branch string, create bool) error {
	args := []string{"checkout"}
	if create {
		args = append(args, "-b")
	}
	args = append(args, branch)
	_, err := c.run(args...)
	return err
}

// CurrentBranch returns the name of the current branch.
func (c *Client) CurrentBranch() (string, error) {
	out, err := c.run("branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Log returns the last count commits, one line each.
func (c *Client) Log(count int) (string, error) {
	return c.run("log", fmt.Sprintf("-%d", count), "--oneline")
}

// RecentCommits returns one-line summaries of commits within the given git
// time spec (for example "24 hours ago"), capped at limit.
func (c *Client) RecentCommits(since string, limit int) ([]string, error) {
	out, err := c.run("log", "--oneline", fmt.Sprintf("-%d", limit), "--since="+since)
	if err != nil {
		return nil, err
	}
	var commits []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			commits = append(commits, line)
		}
	}
	return commits, nil
}

// commit.go stages and commits agent changes.
package git

import (
	"fmt"
	"strings"
)

// CommitResult is the outcome of one commit attempt.
type CommitResult struct {
	Success bool
	Hash    string
	Files   []string
	Message string
}

// Commit creates a commit from whatever is currently staged. When
// issueNumber is non-zero, a "Closes #N" trailer is appended so the hosting
// side closes the linked issue on merge. Returns a failed CommitResult
// (not an error) when git rejects the commit, with git's diagnostic as the
// message, mirroring how task failures are surfaced to callers.
func (c *Client) Commit(message string, issueNumber int) (CommitResult, error) {
	staged, err := c.run("diff", "--staged", "--name-only")
	if err != nil {
		return CommitResult{}, err
	}

	var files []string
	for _, f := range strings.Split(strings.TrimSpace(staged), "\n") {
		if f != "" {
			files = append(files, f)
		}
	}

	fullMessage := message
	if issueNumber > 0 {
		fullMessage += fmt.Sprintf("\n\nCloses #%d", issueNumber)
	}

	if _, err := c.run("commit", "-m", fullMessage); err != nil {
		return CommitResult{
			Success: false,
			Files:   files,
			Message: err.Error(),
		}, nil
	}

	hash, err := c.run("rev-parse", "--short=8", "HEAD")
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Success: true,
		Hash:    strings.TrimSpace(hash),
		Files:   files,
		Message: message,
	}, nil
}

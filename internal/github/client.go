// Package github reads and writes issues and pull requests through the gh CLI.
package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrGHNotFound is returned when the GitHub CLI is not installed.
var ErrGHNotFound = errors.New("gh CLI not found in PATH; install GitHub CLI first")

// Issue represents a GitHub issue.
type Issue struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	State     string   `json:"state"`
	Labels    []string `json:"-"`
	Assignees []string `json:"-"`
	URL       string   `json:"url"`
}

// PullRequest represents a GitHub pull request.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
	Head   string `json:"headRefName"`
	Base   string `json:"baseRefName"`
	URL    string `json:"url"`
}

// issueJSON matches gh's --json issue output, which nests labels and
// assignees as objects.
type issueJSON struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	State     string `json:"state"`
	Labels    []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Assignees []struct {
		Login string `json:"login"`
	} `json:"assignees"`
	URL string `json:"url"`
}

func (j issueJSON) toIssue() Issue {
	issue := Issue{
		Number: j.Number,
		Title:  j.Title,
		Body:   j.Body,
		State:  j.State,
		URL:    j.URL,
	}
	for _, l := range j.Labels {
		issue.Labels = append(issue.Labels, l.Name)
	}
	for _, a := range j.Assignees {
		issue.Assignees = append(issue.Assignees, a.Login)
	}
	return issue
}

const issueFields = "number,title,body,state,labels,assignees,url"

// Client talks to one GitHub repository through the gh CLI.
type Client struct {
	repo string
}

// NewClient creates a Client for the "owner/name" repository.
func NewClient(repo string) *Client {
	return &Client{repo: repo}
}

func ensureGH() error {
	if _, err := exec.LookPath("gh"); err != nil {
		return ErrGHNotFound
	}
	return nil
}

// run executes a gh subcommand scoped to the client's repository.
func (c *Client) run(args ...string) (string, error) {
	if err := ensureGH(); err != nil {
		return "", err
	}
	cmd := exec.Command("gh", append(args, "--repo", c.repo)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("gh %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}

// Issues lists issues, optionally filtered by labels.
func (c *Client) Issues(labels []string, state string, limit int) ([]Issue, error) {
	args := []string{"issue", "list", "--state", state, "--limit", strconv.Itoa(limit), "--json", issueFields}
	if len(labels) > 0 {
		args = append(args, "--label", strings.Join(labels, ","))
	}

	out, err := c.run(args...)
	if err != nil {
		return nil, err
	}

	var raw []issueJSON
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		return nil, fmt.Errorf("parsing issue list: %w", err)
	}

	issues := make([]Issue, 0, len(raw))
	for _, j := range raw {
		issues = append(issues, j.toIssue())
	}
	return issues, nil
}

// Issue retrieves a single issue by number.
func (c *Client) Issue(number int) (*Issue, error) {
	out, err := c.run("issue", "view", strconv.Itoa(number), "--json", issueFields)
	if err != nil {
		return nil, err
	}

	var raw issueJSON
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		return nil, fmt.Errorf("parsing issue %d: %w", number, err)
	}
	issue := raw.toIssue()
	return &issue, nil
}

// CreateIssue opens a new issue and returns its URL.
func (c *Client) CreateIssue(title, body string, labels []string) (string, error) {
	args := []string{"issue", "create", "--title", title, "--body", body}
	for _, label := range labels {
		args = append(args, "--label", label)
	}

	out, err := c.run(args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// AddComment comments on an issue.
func (c *Client) AddComment(number int, body string) error {
	_, err := c.run("issue", "comment", strconv.Itoa(number), "--body", body)
	return err
}

// AddLabel adds a label to an issue.
func (c *Client) AddLabel(number int, label string) error {
	_, err := c.run("issue", "edit", strconv.Itoa(number), "--add-label", label)
	return err
}

// RemoveLabel removes a label from an issue.
func (c *Client) RemoveLabel(number int, label string) error {
	_, err := c.run("issue", "edit", strconv.Itoa(number), "--remove-label", label)
	return err
}

// CloseIssue closes an issue.
func (c *Client) CloseIssue(number int) error {
	_, err := c.run("issue", "close", strconv.Itoa(number))
	return err
}

// PullRequests lists pull requests.
func (c *Client) PullRequests(state string, limit int) ([]PullRequest, error) {
	out, err := c.run("pr", "list", "--state", state, "--limit", strconv.Itoa(limit),
		"--json", "number,title,body,state,headRefName,baseRefName,url")
	if err != nil {
		return nil, err
	}

	var prs []PullRequest
	if err := json.Unmarshal([]byte(out), &prs); err != nil {
		return nil, fmt.Errorf("parsing pr list: %w", err)
	}
	return prs, nil
}

// CreatePR opens a pull request and returns its URL.
func (c *Client) CreatePR(title, body, head, base string) (string, error) {
	out, err := c.run("pr", "create", "--title", title, "--body", body, "--head", head, "--base", base)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

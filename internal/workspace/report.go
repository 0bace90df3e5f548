package workspace

import (
	"fmt"
	"strings"
	"time"
)

// QuickStatus renders a one-line-per-project overview.
func QuickStatus(statuses []ProjectStatus) string {
	var b strings.Builder
	b.WriteString("**Workspace Status Overview**\n\n")

	for _, proj := range statuses {
		indicator, text := "○", "No recent activity"
		switch {
		case !proj.Exists:
			text = "Not found"
		case proj.Err != nil:
			indicator, text = "✗", "Error: "+proj.Err.Error()
		case proj.Active():
			indicator = "●"
			text = fmt.Sprintf("%d commits (24h)", len(proj.RecentCommits))
		case proj.Dirty:
			indicator = "◐"
			text = fmt.Sprintf("%d uncommitted changes", proj.Uncommitted)
		}
		fmt.Fprintf(&b, "%s **%s**: %s\n", indicator, proj.Name, text)
	}

	return strings.TrimRight(b.String(), "\n")
}

// DailyBriefing renders the full markdown briefing: executive summary,
// project table, recent activity, and recommended focus.
func DailyBriefing(statuses []ProjectStatus, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Daily Briefing - %s\n\n", now.Format("2006-01-02"))

	active, commits, dirty := 0, 0, 0
	for _, proj := range statuses {
		if proj.Active() {
			active++
			commits += len(proj.RecentCommits)
		}
		if proj.Dirty {
			dirty++
		}
	}

	b.WriteString("### Executive Summary\n\n")
	fmt.Fprintf(&b, "%d projects with activity, %d commits in last 24h, %d with uncommitted changes.\n\n", active, commits, dirty)

	b.WriteString("### Project Status\n\n")
	b.WriteString("| Project | Status | Recent Commits | Branch |\n")
	b.WriteString("|---------|--------|----------------|--------|\n")
	for _, proj := range statuses {
		if !proj.Exists {
			fmt.Fprintf(&b, "| %s | Not found | - | - |\n", proj.Name)
			continue
		}

		status, count := "Quiet", 0
		switch {
		case proj.Active():
			status, count = "Active", len(proj.RecentCommits)
		case proj.Dirty:
			status = "Uncommitted"
		}

		branch := proj.Branch
		if branch == "" {
			branch = "unknown"
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", proj.Name, status, count, branch)
	}
	b.WriteString("\n")

	b.WriteString("### Recent Activity (Last 24h)\n\n")
	for _, proj := range statuses {
		if !proj.Active() {
			continue
		}
		fmt.Fprintf(&b, "**%s:**\n", proj.Name)
		for _, commit := range head(proj.RecentCommits, 3) {
			fmt.Fprintf(&b, "  - %s\n", commit)
		}
		b.WriteString("\n")
	}

	b.WriteString("### Recommended Focus\n\n")
	var priorities []string
	for _, proj := range statuses {
		if proj.Dirty {
			priorities = append(priorities, fmt.Sprintf("Commit/push changes in **%s**", proj.Name))
		}
	}
	if len(priorities) == 0 {
		b.WriteString("All projects in good state. Continue current work.\n")
	} else {
		for i, p := range head(priorities, 3) {
			fmt.Fprintf(&b, "%d. %s\n", i+1, p)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// WrapUp renders an end-of-day summary: what landed, what is still pending.
func WrapUp(statuses []ProjectStatus) string {
	var b strings.Builder
	b.WriteString("## End of Day Summary\n\n")

	b.WriteString("### Completed Today\n\n")
	for _, proj := range statuses {
		if !proj.Active() {
			continue
		}
		fmt.Fprintf(&b, "**%s:** %d commits\n", proj.Name, len(proj.RecentCommits))
		for _, commit := range head(proj.RecentCommits, 2) {
			fmt.Fprintf(&b, "  - %s\n", commit)
		}
		b.WriteString("\n")
	}

	b.WriteString("### Pending\n\n")
	for _, proj := range statuses {
		if proj.Dirty {
			fmt.Fprintf(&b, "- **%s:** %d uncommitted changes\n", proj.Name, proj.Uncommitted)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

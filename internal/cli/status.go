// status.go implements the "entity status" command.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entity-dev/entity/internal/agent"
	"github.com/entity-dev/entity/internal/session"
	"github.com/entity-dev/entity/internal/workspace"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show agent status",
	Long: `Show the agent's task history counters and pending approvals. With
--projects, also scan every configured project for git activity.`,
	RunE: runStatus,
}

var (
	projectsFlag bool
	jsonFlag     bool
)

func init() {
	statusCmd.Flags().BoolVar(&projectsFlag, "projects", false, "Scan configured projects for git activity")
	statusCmd.Flags().BoolVar(&jsonFlag, "json", false, "Output status as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := loadAgent()
	if err != nil {
		return err
	}
	defer a.Close()

	status := a.Status()

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	fmt.Printf("Agent:             %s (%s)\n", status.Name, status.Role)
	fmt.Printf("Tasks completed:   %d\n", status.TasksCompleted)
	fmt.Printf("Tasks succeeded:   %d\n", status.TasksSucceeded)
	fmt.Printf("Pending approvals: %d\n", status.PendingApprovals)

	for _, req := range a.PendingApprovals() {
		fmt.Printf("  %s  %s\n", req.TaskID, req.Description)
	}

	printBlockedSessions(a)

	if !projectsFlag {
		return nil
	}

	paths := projectPaths(a.Config(), a.ProjectRoot())
	if len(paths) == 0 {
		fmt.Println("\nNo projects configured.")
		return nil
	}

	statuses := workspace.NewScanner(paths).ScanAll(cmd.Context())
	fmt.Println()
	fmt.Println(workspace.QuickStatus(statuses))
	return nil
}

// printBlockedSessions lists sessions still waiting on a human answer, with
// the question that blocked them and the command that resumes them.
func printBlockedSessions(a *agent.Agent) {
	sessions, err := a.Sessions(50)
	if err != nil {
		return
	}

	var blocked []session.Session
	for _, sess := range sessions {
		if sess.Status == session.StatusBlocked {
			blocked = append(blocked, sess)
		}
	}
	if len(blocked) == 0 {
		return
	}

	fmt.Printf("\nBlocked sessions:  %d\n", len(blocked))
	for _, sess := range blocked {
		question := ""
		if results, err := a.SessionResults(sess.ID); err == nil && len(results) > 0 {
			question = results[len(results)-1].BlockerQuestion
		}
		fmt.Printf("  %s  %s\n", sess.ID, question)
		fmt.Printf("    resume with: entity resume %s --answer \"...\"\n", sess.ID)
	}
}

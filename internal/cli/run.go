// run.go implements the "entity run" command which dispatches one task to
// the reasoning engine.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entity-dev/entity/internal/agent"
)

var runCmd = &cobra.Command{
	Use:   "run <prompt>",
	Short: "Dispatch a task to the reasoning engine",
	Long: `Dispatch a task in a fresh engine session. If the engine needs a human
decision it reports the session id so the task can be resumed with
'entity resume' once the question is answered.

Exit status is 0 when the task completes or blocks on a question (a
blocked task is resumable, not failed) and 1 when the task fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var (
	commitFlag string
	issueFlag  int
)

func init() {
	runCmd.Flags().StringVar(&commitFlag, "commit", "", "Commit working tree changes with this message after a successful run")
	runCmd.Flags().IntVar(&issueFlag, "issue", 0, "Issue number to close in the commit message (requires --commit)")
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := loadAgent()
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.Run(cmd.Context(), args[0])

	if result.Success && commitFlag != "" {
		commit, commitErr := a.CommitChanges(commitFlag, issueFlag)
		if commitErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: commit failed: %v\n", commitErr)
		} else if commit.Success {
			result = agent.WithCommit(result, commit)
			fmt.Fprintf(os.Stderr, "Committed %s (%d files)\n", commit.Hash, len(commit.Files))
		}
	}

	return printResult(result)
}

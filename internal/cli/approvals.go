// approvals.go implements the "entity approvals" command for listing and
// resolving pending approval requests.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entity-dev/entity/internal/tui"
)

var approvalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "List and resolve pending approval requests",
	Long: `List the approval requests waiting on a human decision. Use --review
for an interactive queue, or --resolve with --decision to decide a
single request directly.`,
	RunE: runApprovals,
}

var (
	reviewFlag   bool
	resolveFlag  string
	decisionFlag string
)

func init() {
	approvalsCmd.Flags().BoolVar(&reviewFlag, "review", false, "Review pending approvals interactively")
	approvalsCmd.Flags().StringVar(&resolveFlag, "resolve", "", "Task id of the approval to resolve")
	approvalsCmd.Flags().StringVar(&decisionFlag, "decision", "", "Decision to record (requires --resolve)")
}

func runApprovals(cmd *cobra.Command, args []string) error {
	a, err := loadAgent()
	if err != nil {
		return err
	}
	defer a.Close()

	if resolveFlag != "" {
		if decisionFlag == "" {
			return fmt.Errorf("--resolve requires --decision")
		}
		if err := a.ResolveApproval(resolveFlag, decisionFlag); err != nil {
			return err
		}
		fmt.Printf("Recorded %q for %s\n", decisionFlag, resolveFlag)
		return nil
	}

	pending := a.PendingApprovals()

	if reviewFlag {
		return tui.Run(tui.NewReviewModel(tui.ResolverFunc(a.ResolveApproval), pending))
	}

	if len(pending) == 0 {
		fmt.Println("No pending approvals.")
		return nil
	}

	fmt.Printf("%d pending approval(s):\n\n", len(pending))
	for _, req := range pending {
		fmt.Printf("%s  %s\n", req.TaskID, req.Description)
		if req.Details != "" {
			fmt.Printf("    %s\n", req.Details)
		}
		fmt.Printf("    options: %v\n", req.Options)
	}
	fmt.Println()
	fmt.Println("Resolve with: entity approvals --resolve <task-id> --decision <decision>")
	return nil
}

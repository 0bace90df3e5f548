// briefing.go implements the "entity briefing" command.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/entity-dev/entity/internal/workspace"
)

var briefingCmd = &cobra.Command{
	Use:   "briefing",
	Short: "Generate a daily briefing across configured projects",
	Long: `Scan every configured project and render a markdown briefing: activity
summary, per-project status, recent commits, and recommended focus.
Use --wrap-up for an end-of-day summary instead.`,
	RunE: runBriefing,
}

var wrapUpFlag bool

func init() {
	briefingCmd.Flags().BoolVar(&wrapUpFlag, "wrap-up", false, "Render an end-of-day summary instead of the morning briefing")
}

func runBriefing(cmd *cobra.Command, args []string) error {
	a, err := loadAgent()
	if err != nil {
		return err
	}
	defer a.Close()

	paths := projectPaths(a.Config(), a.ProjectRoot())
	if len(paths) == 0 {
		return fmt.Errorf("no projects configured; add them under 'projects:' in .entity/config.yaml")
	}

	statuses := workspace.NewScanner(paths).ScanAll(cmd.Context())

	if wrapUpFlag {
		fmt.Println(workspace.WrapUp(statuses))
		return nil
	}
	fmt.Println(workspace.DailyBriefing(statuses, time.Now()))
	return nil
}

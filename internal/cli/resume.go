// resume.go implements the "entity resume" command for answering blocked
// sessions.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <session-id>",
	Short: "Resume a blocked or interrupted session",
	Long: `Resume an engine session by id, optionally carrying the answer to the
question the engine blocked on. The session keeps its full prior
context.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

var answerFlag string

func init() {
	resumeCmd.Flags().StringVar(&answerFlag, "answer", "", "Answer to the question the session blocked on")
}

func runResume(cmd *cobra.Command, args []string) error {
	a, err := loadAgent()
	if err != nil {
		return err
	}
	defer a.Close()

	answer := answerFlag
	if answer == "" {
		answer = "Please continue with the task."
	}

	// The store knows sessions this process never ran; show what the
	// session was doing, or flag an id the agent has never seen.
	if sess, err := a.Session(args[0]); err == nil {
		if sess == nil {
			fmt.Printf("Warning: session %s not found in history; the engine may still know it.\n", args[0])
		} else {
			fmt.Printf("Session %s (%s): %s\n", sess.ID, sess.Status, sess.Prompt)
		}
	}

	fmt.Printf("Resuming session %s\n\n", args[0])
	return printResult(a.Resume(cmd.Context(), args[0], answer))
}

// Package cli defines Cobra command definitions for the entity CLI.
// This file contains the root command and shared helpers.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/entity-dev/entity/internal/agent"
	"github.com/entity-dev/entity/internal/config"
	"github.com/entity-dev/entity/internal/engine"
)

var version = "dev" // set via ldflags at build time

var rootCmd = &cobra.Command{
	Use:   "entity",
	Short: "Autonomous engineering agent backed by a reasoning engine",
	Long: `Entity dispatches development tasks to a reasoning-engine CLI in
fresh or resumed sessions, detects when the engine needs a human
decision, and tracks approvals so blocked work is never lost.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(approvalsCmd)
	rootCmd.AddCommand(briefingCmd)
}

// loadAgent builds an Agent for the current working directory. It requires
// that 'entity init' has been run there.
func loadAgent() (*agent.Agent, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	if _, err := os.Stat(config.Dir(root)); os.IsNotExist(err) {
		return nil, fmt.Errorf(".entity/ not found. Run 'entity init' first")
	}

	cfg, err := config.ReadConfig(root)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return agent.New(cfg, root)
}

// printResult writes a task result to stdout and maps it to a process-level
// error when the task did not succeed. Exit codes for scripting: 0 for a
// completed task AND for a blocked one (blocked is waiting, not failed),
// 1 only when the task failed.
func printResult(result engine.TaskResult) error {
	fmt.Println(result.Output)

	if result.Blocked {
		fmt.Println()
		fmt.Printf("Blocked on: %s\n", result.BlockerQuestion)
		fmt.Printf("Answer with: entity resume %s --answer \"...\"\n", result.SessionID)
		return nil
	}

	if !result.Success {
		return fmt.Errorf("task failed")
	}

	if result.SessionID != "" {
		fmt.Fprintf(os.Stderr, "\nSession: %s\n", result.SessionID)
	}
	return nil
}

// projectPaths resolves the configured project list against the given root.
func projectPaths(cfg *config.Config, root string) []string {
	paths := make([]string, 0, len(cfg.Projects))
	for _, p := range cfg.Projects {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		paths = append(paths, p)
	}
	return paths
}

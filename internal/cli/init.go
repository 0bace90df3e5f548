// init.go implements the "entity init" command.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/entity-dev/entity/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize entity in the current project",
	Long: `Initialize the .entity/ directory with configuration and an example
permission policy. Existing configuration is only replaced after
confirmation.`,
	RunE: runInit,
}

var (
	nameFlag       string
	roleFlag       string
	supervisorFlag string
)

func init() {
	initCmd.Flags().StringVar(&nameFlag, "name", "", "Agent name (default: directory name)")
	initCmd.Flags().StringVar(&roleFlag, "role", "", "Agent role, matched against the permission policy")
	initCmd.Flags().StringVar(&supervisorFlag, "supervisor", "", "Supervisor role granted full permissions")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	entityDir := config.Dir(dir)
	if info, statErr := os.Stat(entityDir); statErr == nil && info.IsDir() {
		fmt.Println("Warning: .entity/ directory already exists.")
		fmt.Print("Reinitialize? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if mkErr := os.MkdirAll(entityDir, 0755); mkErr != nil {
		return fmt.Errorf("creating %s: %w", entityDir, mkErr)
	}

	cfg := config.DefaultConfig()
	cfg.Agent.Name = filepath.Base(dir)
	if nameFlag != "" {
		cfg.Agent.Name = nameFlag
	}
	if roleFlag != "" {
		cfg.Agent.Role = roleFlag
	}
	if supervisorFlag != "" {
		cfg.Agent.Supervisor = supervisorFlag
	}

	if writeErr := config.WriteConfig(dir, cfg); writeErr != nil {
		return fmt.Errorf("writing config: %w", writeErr)
	}

	if policyErr := writeExamplePolicy(entityDir); policyErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write example policy: %v\n", policyErr)
	}

	if gitignoreErr := ensureGitignore(dir); gitignoreErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to set up .gitignore: %v\n", gitignoreErr)
	}

	fmt.Println()
	fmt.Printf("Entity initialized for agent %q\n", cfg.Agent.Name)
	fmt.Println("Configuration written to .entity/config.yaml")
	fmt.Println("Permission policy written to .entity/policy.yaml")
	fmt.Println()
	fmt.Println("Ready to run: entity run \"your task description\"")
	return nil
}

// writeExamplePolicy writes a starter permission policy unless one already
// exists.
func writeExamplePolicy(entityDir string) error {
	path := filepath.Join(entityDir, "policy.yaml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	policy := `# Permission profiles per agent role. The supervisor profile is matched
# case-insensitively against the configured supervisor name.
profiles:
  supervisor:
    permission_mode: bypassPermissions
  worker:
    permission_mode: acceptEdits
    allowed_tools:
      - Read
      - Write
      - Edit
      - Glob
      - Grep
      - Bash
`
	return os.WriteFile(path, []byte(policy), 0644)
}

// ensureGitignore appends the entity runtime files to .gitignore, creating
// the file when missing. Entries already present are left alone.
func ensureGitignore(dir string) error {
	gitignorePath := filepath.Join(dir, ".gitignore")

	// config.yaml and policy.yaml ARE committed.
	requiredEntries := []string{
		".entity/log.jsonl",
		".entity/sessions.db",
		".entity/approvals.db",
		".entity/pending_approvals.json",
		".entity/notifications.log",
	}

	existing := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existing = string(data)
	}

	var missing []string
	for _, entry := range requiredEntries {
		if !strings.Contains(existing, entry) {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var toAppend strings.Builder
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		toAppend.WriteString("\n")
	}
	if existing != "" {
		toAppend.WriteString("\n# Added by entity init\n")
	}
	for _, entry := range missing {
		toAppend.WriteString(entry + "\n")
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening .gitignore: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(toAppend.String()); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	return nil
}

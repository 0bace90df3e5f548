// Package config handles reading and writing .entity/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .entity/config.yaml.
type Config struct {
	Version       int                `yaml:"version"`
	Agent         AgentConfig        `yaml:"agent"`
	Engine        EngineConfig       `yaml:"engine"`
	Notifications NotificationConfig `yaml:"notifications"`
	GitHubRepo    string             `yaml:"github_repo"`
	Projects      []string           `yaml:"projects"` // monitored project roots for briefings
}

// AgentConfig holds the identity of one agent instance.
type AgentConfig struct {
	Name         string `yaml:"name"`
	Role         string `yaml:"role"`
	Supervisor   string `yaml:"supervisor"`    // role name granted the supervisor profile
	OutputDir    string `yaml:"output_dir"`    // approvals, logs, stores
	SystemPrompt string `yaml:"system_prompt"` // per-agent persona; empty uses the default
}

// EngineConfig controls reasoning-engine invocations.
type EngineConfig struct {
	Binary  string `yaml:"binary"`
	Model   string `yaml:"model"`
	Timeout int    `yaml:"timeout"` // seconds per dispatch/resume
}

// NotificationConfig toggles notification channels.
type NotificationConfig struct {
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	DesktopEnabled bool   `yaml:"desktop_enabled"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
}

const configDir = ".entity"
const configFile = "config.yaml"

// Dir returns the .entity directory path under the given project root.
func Dir(root string) string {
	return filepath.Join(root, configDir)
}

// ReadConfig reads .entity/config.yaml from the given project directory.
// dir is the project root (not .entity/ itself).
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// WriteConfig writes cfg to .entity/config.yaml in the given project directory.
// Creates the .entity/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Agent: AgentConfig{
			Name:       "agent",
			Role:       "worker",
			Supervisor: "chief",
			OutputDir:  configDir,
		},
		Engine: EngineConfig{
			Binary:  "claude",
			Model:   "sonnet",
			Timeout: 600,
		},
		Notifications: NotificationConfig{
			FileEnabled:    true,
			FilePath:       filepath.Join(configDir, "notifications.log"),
			DesktopEnabled: false,
			ConsoleEnabled: true,
		},
	}
}

// TaskTimeout returns the configured per-task timeout as a duration,
// falling back to ten minutes when unset or invalid.
func (c *Config) TaskTimeout() time.Duration {
	if c.Engine.Timeout <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.Engine.Timeout) * time.Second
}

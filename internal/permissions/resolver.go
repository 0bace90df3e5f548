// Package permissions computes the capability flags passed to the
// reasoning engine for a given caller role and project scope.
package permissions

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Resolver derives engine capability flags for a role within a project.
// Implementations must never fail: an unavailable policy source is an
// expected condition, handled by selecting a different Resolver up front.
type Resolver interface {
	Resolve(role string, projectRoot string) []string
}

// Policy is the structure of .entity/policy.yaml: a two-tier trust model
// with one profile for the supervisor role and one for everyone else.
type Policy struct {
	Version    int     `yaml:"version"`
	Supervisor string  `yaml:"supervisor"`
	Profiles   struct {
		Supervisor Profile `yaml:"supervisor"`
		Worker     Profile `yaml:"worker"`
	} `yaml:"profiles"`
}

// Profile is one named capability bundle.
type Profile struct {
	PermissionMode string   `yaml:"permission_mode"`
	AllowedTools   []string `yaml:"allowed_tools"`
}

// NewResolver selects a Resolver by feature detection: if the policy file at
// path loads and parses, the richer PolicyResolver is used; otherwise the
// conservative DefaultResolver. supervisorName is the fallback supervisor
// role when the policy file does not name one. Never returns an error.
func NewResolver(path, supervisorName string) Resolver {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultResolver{}
	}

	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return DefaultResolver{}
	}

	if policy.Supervisor == "" {
		policy.Supervisor = supervisorName
	}

	return &PolicyResolver{policy: policy}
}

// PolicyResolver resolves flags from a parsed policy file.
type PolicyResolver struct {
	policy Policy
}

// Resolve picks the supervisor profile when role matches the designated
// supervisor name case-insensitively, the worker profile otherwise, binds
// it to projectRoot if provided, and translates it into engine flags.
func (r *PolicyResolver) Resolve(role string, projectRoot string) []string {
	profile := r.policy.Profiles.Worker
	if r.policy.Supervisor != "" && strings.EqualFold(role, r.policy.Supervisor) {
		profile = r.policy.Profiles.Supervisor
	}

	flags := profile.flags()
	if len(flags) == 0 {
		flags = DefaultResolver{}.Resolve(role, "")
	}
	if projectRoot != "" {
		flags = append(flags, "--add-dir", projectRoot)
	}
	return flags
}

func (p Profile) flags() []string {
	var flags []string
	if p.PermissionMode != "" {
		flags = append(flags, "--permission-mode", p.PermissionMode)
	}
	if len(p.AllowedTools) > 0 {
		flags = append(flags, "--allowedTools", strings.Join(p.AllowedTools, ","))
	}
	return flags
}

// DefaultResolver is the conservative fallback used when no policy file is
// available: file edits are permitted, nothing more invasive.
type DefaultResolver struct{}

// Resolve returns the fixed default flag set. projectRoot is still bound
// when provided.
func (DefaultResolver) Resolve(role string, projectRoot string) []string {
	flags := []string{
		"--permission-mode", "acceptEdits",
		"--allowedTools", "Read,Write,Edit,Glob,Grep",
	}
	if projectRoot != "" {
		flags = append(flags, "--add-dir", projectRoot)
	}
	return flags
}

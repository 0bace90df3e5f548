package permissions

import (
	"path/filepath"
	"testing"

	"github.com/entity-dev/entity/internal/testutil"
)

const testPolicy = `version: 1
supervisor: chief
profiles:
  supervisor:
    permission_mode: acceptAll
    allowed_tools: [Read, Write, Edit, Glob, Grep, Bash]
  worker:
    permission_mode: acceptEdits
    allowed_tools: [Read, Write, Edit, Glob, Grep]
`

func TestNewResolver_MissingPolicyFallsBack(t *testing.T) {
	r := NewResolver(filepath.Join(t.TempDir(), "policy.yaml"), "chief")

	if _, ok := r.(DefaultResolver); !ok {
		t.Fatalf("resolver = %T, want DefaultResolver when policy file is absent", r)
	}

	flags := r.Resolve("worker", "")
	if got := flagValue(flags, "--permission-mode"); got != "acceptEdits" {
		t.Errorf("default permission mode = %q, want acceptEdits", got)
	}
}

func TestNewResolver_MalformedPolicyFallsBack(t *testing.T) {
	dir := testutil.TempProject(t, map[string]string{
		"policy.yaml": "profiles: [not, a, mapping",
	})

	r := NewResolver(filepath.Join(dir, "policy.yaml"), "chief")
	if _, ok := r.(DefaultResolver); !ok {
		t.Fatalf("resolver = %T, want DefaultResolver for malformed policy", r)
	}
}

func TestPolicyResolver_SupervisorCaseInsensitive(t *testing.T) {
	dir := testutil.TempProject(t, map[string]string{"policy.yaml": testPolicy})
	r := NewResolver(filepath.Join(dir, "policy.yaml"), "")

	for _, role := range []string{"chief", "Chief", "CHIEF"} {
		flags := r.Resolve(role, "")
		if got := flagValue(flags, "--permission-mode"); got != "acceptAll" {
			t.Errorf("role %q: permission mode = %q, want acceptAll", role, got)
		}
	}
}

func TestPolicyResolver_WorkerProfile(t *testing.T) {
	dir := testutil.TempProject(t, map[string]string{"policy.yaml": testPolicy})
	r := NewResolver(filepath.Join(dir, "policy.yaml"), "")

	flags := r.Resolve("valentina", "")
	if got := flagValue(flags, "--permission-mode"); got != "acceptEdits" {
		t.Errorf("permission mode = %q, want acceptEdits", got)
	}
	if got := flagValue(flags, "--allowedTools"); got != "Read,Write,Edit,Glob,Grep" {
		t.Errorf("allowed tools = %q, want worker tool list", got)
	}
}

func TestResolve_BindsProjectRoot(t *testing.T) {
	dir := testutil.TempProject(t, map[string]string{"policy.yaml": testPolicy})
	r := NewResolver(filepath.Join(dir, "policy.yaml"), "")

	flags := r.Resolve("worker", "/srv/projects/api")
	if got := flagValue(flags, "--add-dir"); got != "/srv/projects/api" {
		t.Errorf("--add-dir = %q, want project root bound", got)
	}

	flags = DefaultResolver{}.Resolve("worker", "/srv/projects/api")
	if got := flagValue(flags, "--add-dir"); got != "/srv/projects/api" {
		t.Errorf("default resolver --add-dir = %q, want project root bound", got)
	}
}

func TestPolicyResolver_EmptyProfileFallsBackToDefaults(t *testing.T) {
	dir := testutil.TempProject(t, map[string]string{
		"policy.yaml": "version: 1\nsupervisor: chief\n",
	})
	r := NewResolver(filepath.Join(dir, "policy.yaml"), "")

	flags := r.Resolve("worker", "")
	if got := flagValue(flags, "--permission-mode"); got != "acceptEdits" {
		t.Errorf("permission mode = %q, want the conservative default", got)
	}
}

func flagValue(flags []string, name string) string {
	for i, f := range flags {
		if f == name && i+1 < len(flags) {
			return flags[i+1]
		}
	}
	return ""
}

//go:build !unix

package engine

import "os/exec"

// configureProcessGroup is a no-op where process groups are unavailable;
// cancellation falls back to killing the direct child only.
func configureProcessGroup(cmd *exec.Cmd) {}

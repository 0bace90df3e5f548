//go:build unix

package engine

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup places the engine in its own process group and
// kills the whole group on cancellation. The engine forks workers that
// inherit the stdout/stderr pipes; killing only the direct child would
// leave them running and holding the pipes open past the deadline.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}

// Package engine invokes the external document conversion engine.
package engine

import (
	"context"
	"os/exec"
	"syscall"
)

// Runner abstracts subprocess execution so the invoker can be tested
// against a fake without an installed engine. Run blocks until the
// process exits or ctx is done, returning the combined stdout/stderr.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs real child processes.
type ExecRunner struct{}

// Run executes the command in its own process group. Cancellation kills
// the whole group, so helper processes the engine forks (soffice spawns
// several) cannot outlive the request.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// Negative PID signals every process in the group.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	return cmd.CombinedOutput()
}

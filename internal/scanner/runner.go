package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// Runner errors.
var (
	// ErrTimeout indicates the subprocess exceeded its wall-clock budget
	// and was terminated.
	ErrTimeout = errors.New("scan timed out")
	// ErrStartFailed indicates the subprocess could not be spawned at all.
	ErrStartFailed = errors.New("failed to start scan process")
)

// Result holds the observable outcome of a completed subprocess.
type Result struct {
	Stdout   string
	ExitCode int
}

// Runner executes a tool's argument vector against a target.
// Implementations must pass argv through verbatim; no element is ever
// interpreted by a shell.
type Runner interface {
	Run(ctx context.Context, argv []string, timeout time.Duration) (*Result, error)
}

// ExecRunner invokes external processes with os/exec.
// Each process runs in its own process group so that a timeout kills the
// whole subprocess tree, not just the direct child.
type ExecRunner struct{}

// NewExecRunner creates an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes argv with a hard wall-clock budget. Standard output is
// captured; standard error is discarded per the scan contract. A non-zero
// exit code is not an error here: the process ran and produced output,
// which is the unit of record.
func (e *ExecRunner) Run(ctx context.Context, argv []string, timeout time.Duration) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty argument vector", ErrStartFailed)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// Negative pid targets the process group.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	// Reap stragglers that survive the group kill briefly.
	cmd.WaitDelay = 5 * time.Second

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStartFailed, err)
	}

	err := cmd.Wait()
	if runCtx.Err() == context.DeadlineExceeded {
		return nil, ErrTimeout
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Ran to completion with a non-zero exit; still a result.
			return &Result{
				Stdout:   stdout.String(),
				ExitCode: exitErr.ExitCode(),
			}, nil
		}
		return nil, fmt.Errorf("scan process failed: %w", err)
	}

	return &Result{
		Stdout:   stdout.String(),
		ExitCode: 0,
	}, nil
}

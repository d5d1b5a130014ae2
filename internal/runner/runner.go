package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Sentinel exit codes for failures that never reached the child's own exit.
const (
	CodeTimeout = 124 // wall-clock deadline exceeded, process killed
	CodeSpawn   = 127 // process could not be started
)

type Request struct {
	Path    string
	Args    []string
	Dir     string
	Timeout time.Duration
}

// Result is the complete observable outcome of one invocation.
type Result struct {
	Code     int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// TimedOut reports whether the invocation was killed by the deadline.
func (r Result) TimedOut() bool { return r.Code == CodeTimeout }

// Run executes the request to completion or to its deadline, whichever
// comes first. Every failure mode (spawn error, I/O error, timeout) is
// folded into the Result so callers can treat all invocations uniformly.
func Run(ctx context.Context, req Request) Result {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, req.Path, req.Args...)
	cmd.Dir = req.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// If the child ignores SIGKILL's pipe teardown (e.g. a grandchild keeps
	// the pipes open), give Wait a bounded grace period instead of hanging.
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		res.Code = 0
	case cctx.Err() != nil:
		res.Code = CodeTimeout
		res.Stderr = appendLine(res.Stderr, "process timeout")
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.Code = exitErr.ExitCode()
		} else {
			res.Code = CodeSpawn
			res.Stderr = appendLine(res.Stderr, err.Error())
		}
	}
	return res
}

func appendLine(s, line string) string {
	if s == "" {
		return line
	}
	return s + "\n" + line
}

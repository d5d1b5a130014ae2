package runner

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRun_CapturesStreamsAndExitCode(t *testing.T) {
	res := Run(context.Background(), Request{
		Path:    "/bin/sh",
		Args:    []string{"-c", "echo out_line; echo err_line >&2; exit 3"},
		Timeout: 5 * time.Second,
	})

	if res.Code != 3 {
		t.Fatalf("expected exit 3, got %d (stderr: %q)", res.Code, res.Stderr)
	}
	if !strings.Contains(res.Stdout, "out_line") {
		t.Fatalf("stdout not captured: %q", res.Stdout)
	}
	if !strings.Contains(res.Stderr, "err_line") {
		t.Fatalf("stderr not captured: %q", res.Stderr)
	}
	if res.Duration <= 0 {
		t.Fatalf("expected positive duration, got %v", res.Duration)
	}
}

func TestRun_TimeoutKillsAndAnnotates(t *testing.T) {
	start := time.Now()
	res := Run(context.Background(), Request{
		Path:    "/bin/sh",
		Args:    []string{"-c", "echo early; sleep 30"},
		Timeout: 300 * time.Millisecond,
	})

	if !res.TimedOut() {
		t.Fatalf("expected timeout sentinel %d, got %d", CodeTimeout, res.Code)
	}
	if !strings.Contains(res.Stderr, "process timeout") {
		t.Fatalf("stderr missing timeout annotation: %q", res.Stderr)
	}
	// Output produced before the kill must still be there.
	if !strings.Contains(res.Stdout, "early") {
		t.Fatalf("partial stdout lost: %q", res.Stdout)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("timeout not enforced, took %v", elapsed)
	}
}

func TestRun_SpawnFailureBecomesResult(t *testing.T) {
	res := Run(context.Background(), Request{
		Path:    "/nonexistent/definitely-not-a-binary",
		Timeout: time.Second,
	})

	if res.Code != CodeSpawn {
		t.Fatalf("expected spawn sentinel %d, got %d", CodeSpawn, res.Code)
	}
	if res.Stderr == "" {
		t.Fatalf("expected spawn error text on stderr")
	}
}

func TestRun_ZeroTimeoutGetsDefault(t *testing.T) {
	res := Run(context.Background(), Request{
		Path: "/bin/sh",
		Args: []string{"-c", "true"},
	})
	if res.Code != 0 {
		t.Fatalf("expected success, got %d (stderr: %q)", res.Code, res.Stderr)
	}
}

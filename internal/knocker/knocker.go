// Package knocker knows how to invoke the async_port_knocker binary:
// building its argument vector, resolving (or building) the executable,
// and running it through the bounded process runner.
package knocker

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/hamed0406/knockcheck/internal/runner"
)

type Protocol string

const (
	TCP Protocol = "tcp"
	UDP Protocol = "udp"
)

// Spec describes one knocker invocation. Zero values for the tuning
// fields fall back to the knocker's own CLI defaults.
type Spec struct {
	Host        string
	Protocol    Protocol
	Sequence    []int
	TimeoutMS   int
	DelayMS     int
	Concurrency int
	Retries     int
	BackoffMS   int
	PayloadHex  string
	ExtraArgs   []string
}

func (s Spec) withDefaults() Spec {
	if s.Protocol == "" {
		s.Protocol = TCP
	}
	if s.TimeoutMS <= 0 {
		s.TimeoutMS = 500
	}
	if s.Concurrency <= 0 {
		s.Concurrency = 1
	}
	if s.Retries <= 0 {
		s.Retries = 1
	}
	if s.BackoffMS <= 0 {
		s.BackoffMS = 100
	}
	return s
}

// Args renders the knocker CLI vector for this spec.
func (s Spec) Args() []string {
	s = s.withDefaults()
	ports := make([]string, len(s.Sequence))
	for i, p := range s.Sequence {
		ports[i] = strconv.Itoa(p)
	}
	args := []string{
		"-H", s.Host,
		"--protocol", string(s.Protocol),
		"--sequence", strings.Join(ports, ","),
		"--timeout", strconv.Itoa(s.TimeoutMS),
		"--delay", strconv.Itoa(s.DelayMS),
		"--concurrency", strconv.Itoa(s.Concurrency),
		"-r", strconv.Itoa(s.Retries),
		"-b", strconv.Itoa(s.BackoffMS),
	}
	if s.PayloadHex != "" {
		args = append(args, "--payload", s.PayloadHex)
	}
	return append(args, s.ExtraArgs...)
}

// Invoker runs knocker specs against one resolved binary.
type Invoker struct {
	Bin        string
	Dir        string        // working directory for the knocker process
	RunTimeout time.Duration // hard wall-clock limit per invocation
}

func NewInvoker(bin string) *Invoker {
	return &Invoker{Bin: bin, RunTimeout: 30 * time.Second}
}

// Knock invokes the knocker and never fails at the Go level; every
// outcome, including a hang killed at the deadline, lands in the Result.
func (i *Invoker) Knock(ctx context.Context, spec Spec) runner.Result {
	return runner.Run(ctx, runner.Request{
		Path:    i.Bin,
		Args:    spec.Args(),
		Dir:     i.Dir,
		Timeout: i.RunTimeout,
	})
}

package scenario

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hamed0406/knockcheck/internal/dnshex"
	"github.com/hamed0406/knockcheck/internal/knocker"
	"github.com/hamed0406/knockcheck/internal/mocknet"
)

// Default returns the standard scenario list in report order.
func Default() []Scenario {
	return []Scenario{
		{Name: "TCP local success", Run: tcpLocalSuccess},
		{Name: "TCP local refused", Run: tcpLocalRefused},
		{Name: "UDP local echo success", Run: udpLocalEcho},
		{Name: "Public TCP google:443", Run: publicTCP},
		{Name: "Public UDP DNS query 8.8.8.8:53", Run: publicUDPDNS},
		{Name: "Invalid payload hex", Run: invalidPayloadHex},
		{Name: "DNS resolution error", Run: dnsResolutionError},
		{Name: "Concurrency UDP timing", Run: concurrencyTiming},
		{Name: "UDP retries/backoff timing", Run: retryBackoffTiming},
	}
}

func tcpLocalSuccess(ctx context.Context, env *Env) Outcome {
	srv, err := mocknet.NewTCPListener("127.0.0.1")
	if err != nil {
		return infra("mock tcp listener: %v", err)
	}
	srv.Start()
	defer srv.Stop()

	res := env.Invoker.Knock(ctx, knocker.Spec{
		Host:      "127.0.0.1",
		Protocol:  knocker.TCP,
		Sequence:  []int{srv.Port()},
		TimeoutMS: 800,
		Retries:   1,
	})
	marker := fmt.Sprintf("TCP 127.0.0.1:%d OK", srv.Port())
	ok := res.Code == 0 && strings.Contains(res.Stdout, marker)
	return verdict(ok, "stdout: %s stderr: %s",
		strings.TrimSpace(res.Stdout), strings.TrimSpace(res.Stderr))
}

func tcpLocalRefused(ctx context.Context, env *Env) Outcome {
	// Port 1 should be closed on localhost, causing immediate refusal.
	res := env.Invoker.Knock(ctx, knocker.Spec{
		Host:      "127.0.0.1",
		Protocol:  knocker.TCP,
		Sequence:  []int{1},
		TimeoutMS: 500,
		Retries:   1,
	})
	ok := res.Code == 0 && !strings.Contains(res.Stdout, "OK")
	return verdict(ok, "stdout: %s stderr: %s",
		strings.TrimSpace(res.Stdout), strings.TrimSpace(res.Stderr))
}

func udpLocalEcho(ctx context.Context, env *Env) Outcome {
	srv, err := mocknet.NewUDPResponder("127.0.0.1", mocknet.ReplyFixed, []byte("hello"))
	if err != nil {
		return infra("mock udp responder: %v", err)
	}
	srv.Start()
	defer srv.Stop()

	res := env.Invoker.Knock(ctx, knocker.Spec{
		Host:      "127.0.0.1",
		Protocol:  knocker.UDP,
		Sequence:  []int{srv.Port()},
		TimeoutMS: 700,
		Retries:   1,
	})
	marker := fmt.Sprintf("UDP 127.0.0.1:%d received ", srv.Port())
	ok := res.Code == 0 && strings.Contains(res.Stdout, marker)
	return verdict(ok, "stdout: %s stderr: %s",
		strings.TrimSpace(res.Stdout), strings.TrimSpace(res.Stderr))
}

func publicTCP(ctx context.Context, env *Env) Outcome {
	if env.SkipPublic {
		return skipped("SKIP_PUBLIC=1")
	}
	res := env.Invoker.Knock(ctx, knocker.Spec{
		Host:      "www.google.com",
		Protocol:  knocker.TCP,
		Sequence:  []int{443},
		TimeoutMS: 1500,
		Retries:   1,
	})
	ok := res.Code == 0 && strings.Contains(res.Stdout, "OK")
	return verdict(ok, "stdout: %s stderr: %s",
		strings.TrimSpace(res.Stdout), strings.TrimSpace(res.Stderr))
}

func publicUDPDNS(ctx context.Context, env *Env) Outcome {
	if env.SkipPublic {
		return skipped("SKIP_PUBLIC=1")
	}
	payload, err := dnshex.Query("example.com", dnshex.TypeA)
	if err != nil {
		return infra("build dns payload: %v", err)
	}
	res := env.Invoker.Knock(ctx, knocker.Spec{
		Host:       "8.8.8.8",
		Protocol:   knocker.UDP,
		Sequence:   []int{53},
		TimeoutMS:  1500,
		Retries:    1,
		PayloadHex: payload,
	})
	ok := res.Code == 0 && strings.Contains(res.Stdout, "UDP 8.8.8.8:53 received ")
	return verdict(ok, "stdout: %s stderr: %s",
		strings.TrimSpace(res.Stdout), strings.TrimSpace(res.Stderr))
}

func invalidPayloadHex(ctx context.Context, env *Env) Outcome {
	res := env.Invoker.Knock(ctx, knocker.Spec{
		Host:       "127.0.0.1",
		Protocol:   knocker.UDP,
		Sequence:   []int{9},
		TimeoutMS:  300,
		Retries:    1,
		PayloadHex: "xyz", // invalid hex must be rejected before any knock
	})
	ok := res.Code != 0
	return verdict(ok, "code=%d stdout: %s stderr: %s",
		res.Code, strings.TrimSpace(res.Stdout), strings.TrimSpace(res.Stderr))
}

func dnsResolutionError(ctx context.Context, env *Env) Outcome {
	// The .invalid TLD is reserved and guaranteed to fail resolution.
	res := env.Invoker.Knock(ctx, knocker.Spec{
		Host:      "nonexistent.invalid",
		Protocol:  knocker.TCP,
		Sequence:  []int{80},
		TimeoutMS: 500,
		Retries:   1,
	})
	ok := res.Code != 0 && strings.Contains(res.Stderr, "Error:")
	return verdict(ok, "code=%d stdout: %s stderr: %s",
		res.Code, strings.TrimSpace(res.Stdout), strings.TrimSpace(res.Stderr))
}

// concurrencyTiming infers parallel dispatch from wall-clock duration
// alone: two silent UDP targets each burn their full per-knock timeout,
// so a genuinely concurrent run must finish well under the sequential
// one.
func concurrencyTiming(ctx context.Context, env *Env) Outcome {
	a, err := mocknet.NewUDPResponder("127.0.0.1", mocknet.ReplySilent, nil)
	if err != nil {
		return infra("mock udp responder: %v", err)
	}
	a.Start()
	defer a.Stop()

	b, err := mocknet.NewUDPResponder("127.0.0.1", mocknet.ReplySilent, nil)
	if err != nil {
		return infra("mock udp responder: %v", err)
	}
	b.Start()
	defer b.Stop()

	spec := knocker.Spec{
		Host:      "127.0.0.1",
		Protocol:  knocker.UDP,
		Sequence:  []int{a.Port(), b.Port()},
		TimeoutMS: 700,
		Retries:   1,
	}

	spec.Concurrency = 1
	seq := env.Invoker.Knock(ctx, spec)

	spec.Concurrency = 2
	par := env.Invoker.Knock(ctx, spec)

	ok := par.Duration.Seconds() < seq.Duration.Seconds()*env.ConcurrencyRatio
	return verdict(ok, "sequential=%.3fs parallel=%.3fs stdout(seq)=%s stdout(par)=%s",
		seq.Duration.Seconds(), par.Duration.Seconds(),
		strings.TrimSpace(seq.Stdout), strings.TrimSpace(par.Stdout))
}

// retryBackoffTiming verifies retries and backoff waits genuinely occur
// in series: against a target that never replies, the run cannot finish
// before roughly retries*timeout + (retries-1)*backoff.
func retryBackoffTiming(ctx context.Context, env *Env) Outcome {
	srv, err := mocknet.NewUDPResponder("127.0.0.1", mocknet.ReplySilent, nil)
	if err != nil {
		return infra("mock udp responder: %v", err)
	}
	srv.Start()
	defer srv.Stop()

	const (
		retries   = 3
		timeoutMS = 300
		backoffMS = 150
	)
	res := env.Invoker.Knock(ctx, knocker.Spec{
		Host:      "127.0.0.1",
		Protocol:  knocker.UDP,
		Sequence:  []int{srv.Port()},
		TimeoutMS: timeoutMS,
		Retries:   retries,
		BackoffMS: backoffMS,
	})

	minExpected := time.Duration(retries*timeoutMS+(retries-1)*backoffMS) * time.Millisecond
	ok := res.Duration.Seconds() >= minExpected.Seconds()*env.RetrySlack
	return verdict(ok, "duration=%.3fs min_expected=%.3fs stdout=%s stderr=%s",
		res.Duration.Seconds(), minExpected.Seconds(),
		strings.TrimSpace(res.Stdout), strings.TrimSpace(res.Stderr))
}

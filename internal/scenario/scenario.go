// Package scenario defines the black-box test scenarios for the knocker
// and the sequential registry that runs them.
package scenario

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/knockcheck/internal/knocker"
	"github.com/hamed0406/knockcheck/internal/report"
)

// Outcome is the verdict of one scenario. Infra marks a harness-side
// setup failure (mock bind, payload build): no scenario result can be
// trusted past one of those, so the registry aborts the run.
type Outcome struct {
	Pass    bool
	Infra   bool
	Message string
}

func verdict(ok bool, format string, args ...any) Outcome {
	return Outcome{Pass: ok, Message: fmt.Sprintf(format, args...)}
}

func skipped(reason string) Outcome {
	return Outcome{Pass: true, Message: "Skipped (" + reason + ")"}
}

func infra(format string, args ...any) Outcome {
	return Outcome{Infra: true, Message: fmt.Sprintf(format, args...)}
}

// Env carries everything a scenario needs; scenarios receive the
// resolved knocker explicitly instead of capturing shared state.
type Env struct {
	Invoker          *knocker.Invoker
	Log              *zap.Logger
	SkipPublic       bool
	ConcurrencyRatio float64 // parallel run must finish within this fraction of the sequential run
	RetrySlack       float64 // observed retry duration must reach this fraction of the theoretical minimum
}

type Scenario struct {
	Name string
	Run  func(ctx context.Context, env *Env) Outcome
}

// Registry runs scenarios strictly one at a time; ordering only affects
// report readability, never correctness.
type Registry struct {
	scenarios []Scenario
	log       *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{log: log}
}

func (r *Registry) Add(s ...Scenario) {
	r.scenarios = append(r.scenarios, s...)
}

// RunAll executes every scenario, streaming progress to w, and returns
// the aggregate report. It only returns an error for an infrastructure
// failure, which aborts the remaining scenarios.
func (r *Registry) RunAll(ctx context.Context, env *Env, w io.Writer) (*report.Report, error) {
	rep := report.New()
	fmt.Fprintf(w, "\n=== async_port_knocker functional tests ===\n\n")
	for _, s := range r.scenarios {
		fmt.Fprintf(w, "- %s ... ", s.Name)
		start := time.Now()
		out := r.runOne(ctx, env, s)
		took := time.Since(start)

		if out.Infra {
			fmt.Fprintf(w, "ABORT\n  %s\n", out.Message)
			rep.Finish()
			return rep, fmt.Errorf("%s: %s", s.Name, out.Message)
		}

		status := "PASS"
		if !out.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s\n  %s\n\n", status, out.Message)
		r.log.Info("scenario_done",
			zap.String("name", s.Name),
			zap.Bool("pass", out.Pass),
			zap.Duration("took", took),
		)
		rep.Add(report.ScenarioResult{
			Name:     s.Name,
			Pass:     out.Pass,
			Message:  out.Message,
			Duration: took,
		})
	}
	rep.Finish()
	fmt.Fprintln(w, rep.Summary())
	return rep, nil
}

func (r *Registry) runOne(ctx context.Context, env *Env, s Scenario) (out Outcome) {
	// A panic while asserting is a failed scenario, not a dead harness;
	// mocks are torn down by the scenario's own defers during unwind.
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("scenario_panic", zap.String("name", s.Name), zap.Any("panic", p))
			out = Outcome{Pass: false, Message: fmt.Sprintf("panic: %v", p)}
		}
	}()
	return s.Run(ctx, env)
}

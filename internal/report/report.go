// Package report aggregates scenario outcomes for printing and for the
// optional HTTP surface.
package report

import (
	"fmt"
	"time"
)

type ScenarioResult struct {
	Name     string        `json:"name"`
	Pass     bool          `json:"pass"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

type Report struct {
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Results    []ScenarioResult `json:"results"`
	Passed     int              `json:"passed"`
	Failed     int              `json:"failed"`
}

func New() *Report {
	return &Report{StartedAt: time.Now().UTC()}
}

func (r *Report) Add(res ScenarioResult) {
	r.Results = append(r.Results, res)
	if res.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

func (r *Report) Finish() {
	r.FinishedAt = time.Now().UTC()
}

func (r *Report) Total() int { return r.Passed + r.Failed }

// Summary matches the historic harness output line.
func (r *Report) Summary() string {
	return fmt.Sprintf("Summary: %d/%d passed, %d failed.", r.Passed, r.Total(), r.Failed)
}

package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	KnockerBin       string        // pre-built knocker binary; overrides locate/build
	KnockerSrc       string        // knocker source checkout, used to find or build the binary
	SkipPublic       bool          // skip scenarios that need live internet endpoints
	LogDir           string        // logs directory
	ReportAddr       string        // serve the run report over HTTP when non-empty, e.g. "127.0.0.1:8090"
	SlackWebhook     string        // notify on failed runs when non-empty
	RunTimeout       time.Duration // hard wall-clock limit per knocker invocation
	ConcurrencyRatio float64       // parallel/sequential duration bound for the concurrency scenario
	RetrySlack       float64       // fraction of the theoretical minimum the retry scenario must reach
}

func FromEnv() Config {
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	src := os.Getenv("KNOCKER_SRC")
	if src == "" {
		src = "."
	}

	runTimeout := 30 * time.Second
	if v := os.Getenv("RUN_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			runTimeout = time.Duration(ms) * time.Millisecond
		}
	}

	// Timing tolerances are tuned for a lightly loaded machine; shared CI
	// runners may need looser values.
	ratio := 0.75
	if v := os.Getenv("CONCURRENCY_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f < 1 {
			ratio = f
		}
	}

	slack := 0.9
	if v := os.Getenv("RETRY_SLACK"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			slack = f
		}
	}

	return Config{
		KnockerBin:       os.Getenv("KNOCKER_BIN"),
		KnockerSrc:       src,
		SkipPublic:       os.Getenv("SKIP_PUBLIC") == "1",
		LogDir:           logDir,
		ReportAddr:       os.Getenv("REPORT_ADDR"),
		SlackWebhook:     os.Getenv("SLACK_WEBHOOK"),
		RunTimeout:       runTimeout,
		ConcurrencyRatio: ratio,
		RetrySlack:       slack,
	}
}

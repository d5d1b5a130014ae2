package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/knockcheck/internal/config"
	"github.com/hamed0406/knockcheck/internal/httpapi"
	"github.com/hamed0406/knockcheck/internal/knocker"
	"github.com/hamed0406/knockcheck/internal/logging"
	"github.com/hamed0406/knockcheck/internal/notify"
	"github.com/hamed0406/knockcheck/internal/scenario"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	bin, err := knocker.Resolve(ctx, cfg.KnockerBin, cfg.KnockerSrc, logger)
	if err != nil {
		logger.Error("knocker_resolve_failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	inv := knocker.NewInvoker(bin)
	inv.RunTimeout = cfg.RunTimeout

	env := &scenario.Env{
		Invoker:          inv,
		Log:              logger,
		SkipPublic:       cfg.SkipPublic,
		ConcurrencyRatio: cfg.ConcurrencyRatio,
		RetrySlack:       cfg.RetrySlack,
	}

	reg := scenario.NewRegistry(logger)
	reg.Add(scenario.Default()...)

	rep, err := reg.RunAll(ctx, env, os.Stdout)
	if err != nil {
		logger.Error("harness_aborted", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	if rep.Failed > 0 {
		if sl := notify.NewSlack(cfg.SlackWebhook); sl != nil {
			nctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			text := fmt.Sprintf("%d of %d scenarios failed", rep.Failed, rep.Total())
			if err := sl.Send(nctx, "knockcheck failures", text); err != nil {
				logger.Warn("slack_notify_error", zap.Error(err))
			}
			cancel()
		}
	}

	if cfg.ReportAddr != "" {
		api := httpapi.NewServer(logger, rep)
		logger.Info("report_listen", zap.String("addr", cfg.ReportAddr))
		if err := http.ListenAndServe(cfg.ReportAddr, api.Router()); err != nil {
			log.Fatal(err)
		}
	}

	if rep.Failed > 0 {
		os.Exit(1)
	}
}

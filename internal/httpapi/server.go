// Package httpapi serves the latest run report over HTTP, so a CI job
// or dashboard can fetch the structured result after the run.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/knockcheck/internal/report"
)

type Server struct {
	Logger *zap.Logger
	Report *report.Report
}

func NewServer(l *zap.Logger, rep *report.Report) *Server {
	return &Server{Logger: l, Report: rep}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/report", s.handleReport)

	return r
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Report); err != nil {
		s.Logger.Warn("report_encode_error", zap.Error(err))
	}
}

// Package api serves the JSON feed consumed by the presentation layer.
package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/freight-kpi/internal/config"
	"github.com/sells-group/freight-kpi/internal/engine"
	"github.com/sells-group/freight-kpi/internal/export"
	"github.com/sells-group/freight-kpi/internal/model"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 32 << 20

// Server holds the engine and the record snapshot the feed evaluates.
type Server struct {
	engine     *engine.Engine
	cfg        config.ServerConfig
	thresholds export.Thresholds
	records    atomic.Pointer[[]model.RawRecord]
	now        func() time.Time
}

// NewServer returns a Server evaluating records with eng.
func NewServer(eng *engine.Engine, cfg config.ServerConfig, records []model.RawRecord) *Server {
	s := &Server{
		engine:     eng,
		cfg:        cfg,
		thresholds: export.DefaultThresholds,
		now:        time.Now,
	}
	s.SetRecords(records)
	return s
}

// SetRecords replaces the record snapshot.
func (s *Server) SetRecords(records []model.RawRecord) {
	s.records.Store(&records)
}

// Records returns the current record snapshot.
func (s *Server) Records() []model.RawRecord {
	if p := s.records.Load(); p != nil {
		return *p
	}
	return nil
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst))

		r.Get("/regions", s.listRegions)
		r.Get("/regions/{region}/kpis", s.regionKpis)
		r.Get("/kpis", s.globalKpis)
		r.Get("/forecast", s.forecast)
		r.Get("/report", s.report)
		r.Get("/report.xlsx", s.reportXLSX)
		r.Get("/report.csv", s.reportCSV)

		r.Put("/records", s.replaceRecords)

		r.Get("/timestamps", s.listTimestamps)
		r.Post("/timestamps", s.importTimestamps)
		r.Get("/timestamps/{dispatchID}", s.getTimestamps)
		r.Get("/imports", s.listImports)
	})

	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

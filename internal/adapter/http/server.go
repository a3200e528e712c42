package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/render"
)

var errNotLoaded = errors.New("chart not loaded")

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ChartProvider supplies the built chart. ok is false until the dataset has loaded.
type ChartProvider interface {
	ReadinessChecker
	Chart() (c domain.Chart, ok bool)
}

// Server serves the heat map document, its exports, and the
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	charts     ChartProvider
	renderer   *render.Renderer
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with the chart and operational routes.
func NewServer(addr string, charts ChartProvider, renderer *render.Renderer, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      requestLogger(logger, mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		charts:   charts,
		renderer: renderer,
		logger:   logger,
		metrics:  metrics,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /heatmap.svg", s.handleSVG)
	mux.HandleFunc("GET /heatmap.png", s.handlePNG)
	mux.HandleFunc("GET /api/chart", s.handleChartJSON)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(charts))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handlePage serves the document. Before the chart is loaded the page is
// still served, with an empty graph container.
func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	c, ok := s.charts.Chart()
	data := render.NewPageData(nil)
	status := http.StatusServiceUnavailable
	if ok {
		data = render.NewPageData(&c)
		status = http.StatusOK
	}
	s.render(w, "html", "text/html; charset=utf-8", status, func(buf io.Writer) error {
		return s.renderer.HTML(buf, data)
	})
}

func (s *Server) handleSVG(w http.ResponseWriter, _ *http.Request) {
	c, ok := s.charts.Chart()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, errNotLoaded)
		return
	}
	s.render(w, "svg", "image/svg+xml", http.StatusOK, func(buf io.Writer) error {
		return s.renderer.SVG(buf, c)
	})
}

func (s *Server) handlePNG(w http.ResponseWriter, _ *http.Request) {
	c, ok := s.charts.Chart()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, errNotLoaded)
		return
	}
	s.render(w, "png", "image/png", http.StatusOK, func(buf io.Writer) error {
		return s.renderer.PNG(buf, c)
	})
}

func (s *Server) handleChartJSON(w http.ResponseWriter, _ *http.Request) {
	c, ok := s.charts.Chart()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, errNotLoaded)
		return
	}
	s.render(w, "json", "application/json", http.StatusOK, func(buf io.Writer) error {
		return json.NewEncoder(buf).Encode(c)
	})
}

// render buffers the output so a failed render can still answer 500.
func (s *Server) render(w http.ResponseWriter, format, contentType string, status int, fn func(io.Writer) error) {
	start := time.Now()
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		s.logger.Error("render failed", "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.metrics.Renders.WithLabelValues(format).Inc()
	s.metrics.RenderDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("write response", "format", format, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

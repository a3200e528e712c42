package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/temperature-heatmap/internal/adapter/http"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/render"
)

type mockCharts struct {
	chart  domain.Chart
	loaded bool
}

func (m *mockCharts) Chart() (domain.Chart, bool) { return m.chart, m.loaded }

func (m *mockCharts) CheckReadiness(_ context.Context) error {
	if !m.loaded {
		return errors.New("chart not built yet")
	}
	return nil
}

func sampleChart(t *testing.T) domain.Chart {
	t.Helper()
	payload, err := os.ReadFile("../../domain/testdata/sample.json")
	require.NoError(t, err)
	ds, err := domain.ParseDataset(payload)
	require.NoError(t, err)
	c, err := domain.BuildChart(ds, domain.DefaultLayout())
	require.NoError(t, err)
	c.ID = "render-1"
	return c
}

func newTestServer(t *testing.T, charts *mockCharts) (*httpadapter.Server, *observability.Metrics) {
	t.Helper()
	renderer, err := render.New()
	require.NoError(t, err)
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", charts, renderer, logger, metrics), metrics
}

func loadedServer(t *testing.T) (*httpadapter.Server, *observability.Metrics) {
	t.Helper()
	return newTestServer(t, &mockCharts{chart: sampleChart(t), loaded: true})
}

func get(srv http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(t, &mockCharts{})
	rec := get(srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenLoaded(t *testing.T) {
	srv, _ := loadedServer(t)
	rec := get(srv, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotLoaded(t *testing.T) {
	srv, _ := newTestServer(t, &mockCharts{})
	rec := get(srv, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "chart not built yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &mockCharts{})
	rec := get(srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestPage(t *testing.T) {
	srv, metrics := loadedServer(t)
	rec := get(srv, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Equal(t, 36, strings.Count(body, `class="cell"`))
	assert.Contains(t, body, "1949 - 1951, base temperature 8.66°C")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("html")))
}

func TestPage_NotLoaded(t *testing.T) {
	srv, _ := newTestServer(t, &mockCharts{})
	rec := get(srv, "/")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `<div id="graph">`)
	assert.NotContains(t, rec.Body.String(), `class="cell"`)
}

func TestUnknownPathIs404(t *testing.T) {
	srv, _ := loadedServer(t)
	rec := get(srv, "/favicon.ico")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSVGExport(t *testing.T) {
	srv, metrics := loadedServer(t)
	rec := get(srv, "/heatmap.svg")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("svg")))
}

func TestPNGExport(t *testing.T) {
	srv, _ := loadedServer(t)
	rec := get(srv, "/heatmap.png")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	cfg, err := png.DecodeConfig(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1144, cfg.Width)
	assert.Equal(t, 620, cfg.Height)
}

func TestChartJSON(t *testing.T) {
	srv, _ := loadedServer(t)
	rec := get(srv, "/api/chart")

	assert.Equal(t, http.StatusOK, rec.Code)
	var c domain.Chart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, "render-1", c.ID)
	assert.Len(t, c.Cells, 36)
	assert.Len(t, c.Breakpoints, 6)
	assert.Equal(t, 1949, c.Summary.MinYear)
}

func TestExportsReturn503WhenNotLoaded(t *testing.T) {
	srv, metrics := newTestServer(t, &mockCharts{})

	for _, path := range []string{"/heatmap.svg", "/heatmap.png", "/api/chart"} {
		t.Run(path, func(t *testing.T) {
			rec := get(srv, path)

			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "chart not loaded", body["error"])
		})
	}
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("svg")))
}

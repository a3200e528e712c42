// Package dataset fetches the raw temperature dataset over HTTP.
package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// maxPayloadBytes bounds the response body; the published dataset is ~250 KB.
const maxPayloadBytes = 16 << 20

// StatusError is returned when the dataset endpoint answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dataset endpoint error: status %d: %s", e.StatusCode, e.Body)
}

// Client implements domain.DatasetSource with a single HTTP GET.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a dataset client for url.
func NewClient(url string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch downloads the dataset document. The payload is logged at debug level.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()
	payload, err := c.doRequest(ctx)
	c.metrics.DatasetFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.DatasetFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.DatasetFetches.WithLabelValues("success").Inc()

	c.logger.Info("dataset fetched", "url", c.url, "bytes", len(payload), "duration", time.Since(start))
	c.logger.Debug("dataset payload", "payload", string(payload))
	return payload, nil
}

func (c *Client) doRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataset request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return payload, nil
}

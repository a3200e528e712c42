package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// CellPublisher hands the rendered cells to downstream consumers.
type CellPublisher interface {
	PublishCells(ctx context.Context, records []domain.CellRecord) error
}

// Pipeline runs fetch, parse, and build once and holds the finished chart.
type Pipeline struct {
	source    domain.DatasetSource
	builder   *ChartBuilder
	publisher CellPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	chart     atomic.Pointer[domain.Chart]
}

// New creates a Pipeline. publisher may be nil to skip publishing.
func New(source domain.DatasetSource, builder *ChartBuilder, publisher CellPublisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:    source,
		builder:   builder,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Load fetches the dataset and builds the chart. It does not retry; on
// failure no chart is stored and the error is returned. Publishing errors
// are logged and counted but do not fail the load.
func (p *Pipeline) Load(ctx context.Context) error {
	payload, err := p.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch dataset: %w", err)
	}

	c, err := p.builder.Build(payload)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	p.chart.Store(&c)
	p.metrics.DatasetRecords.Set(float64(c.Summary.Records))
	p.metrics.ChartReady.Set(1)
	p.logger.Info("chart built",
		"render_id", c.ID,
		"records", c.Summary.Records,
		"years", fmt.Sprintf("%d-%d", c.Summary.MinYear, c.Summary.MaxYear),
		"base_temperature", c.Summary.BaseTemperature,
	)

	p.publish(ctx, c)
	return nil
}

func (p *Pipeline) publish(ctx context.Context, c domain.Chart) {
	if p.publisher == nil {
		return
	}
	records := c.CellRecords()
	if err := p.publisher.PublishCells(ctx, records); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish cells failed", "render_id", c.ID, "error", err)
		return
	}
	p.metrics.CellsPublished.Add(float64(len(records)))
	p.logger.Info("cells published", "render_id", c.ID, "count", len(records))
}

// Chart returns the built chart. ok is false until Load has succeeded.
func (p *Pipeline) Chart() (domain.Chart, bool) {
	c := p.chart.Load()
	if c == nil {
		return domain.Chart{}, false
	}
	return *c, true
}

// CheckReadiness returns nil once the chart has been built.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.chart.Load() == nil {
		return errors.New("chart has not been built yet")
	}
	return nil
}

package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// ChartBuilder turns a raw payload into a chart tagged with a fresh render ID.
type ChartBuilder struct {
	layout domain.Layout
	newID  func() string
}

// NewChartBuilder creates a ChartBuilder for the given layout.
func NewChartBuilder(layout domain.Layout) *ChartBuilder {
	return &ChartBuilder{layout: layout, newID: uuid.NewString}
}

// Build parses the payload and projects it into a chart.
func (b *ChartBuilder) Build(payload []byte) (domain.Chart, error) {
	ds, err := domain.ParseDataset(payload)
	if err != nil {
		return domain.Chart{}, err
	}
	c, err := domain.BuildChart(ds, b.layout)
	if err != nil {
		return domain.Chart{}, fmt.Errorf("build chart: %w", err)
	}
	c.ID = b.newID()
	return c, nil
}

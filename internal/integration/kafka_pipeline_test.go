//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/dataset"
	"github.com/couchcryptid/temperature-heatmap/internal/adapter/kafka"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
)

const testCellTopic = "test-heatmap-cells"

// publishedCell holds a deserialized message read from the cell topic.
type publishedCell struct {
	Record  domain.CellRecord
	Key     string
	Headers map[string]string
}

func readCell(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedCell {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from cell topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var record domain.CellRecord
	require.NoError(t, json.Unmarshal(msg.Value, &record), "unmarshal cell message")

	return publishedCell{Record: record, Key: string(msg.Key), Headers: headers}
}

// TestPipelinePublishesCells runs fetch, build, and publish against a real
// broker and reads every cell back.
func TestPipelinePublishesCells(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testCellTopic)
	url, _ := serveDataset(t)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testCellTopic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	source := dataset.NewClient(url, 5*time.Second, discardLogger(), metrics)
	p := pipeline.New(source, pipeline.NewChartBuilder(domain.DefaultLayout()), writer, discardLogger(), metrics)

	require.NoError(t, p.Load(ctx))
	c, ok := p.Chart()
	require.True(t, ok)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testCellTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	byKey := make(map[string]publishedCell, len(c.Cells))
	for range c.Cells {
		cell := readCell(ctx, t, consumer)
		byKey[cell.Key] = cell
	}
	require.Len(t, byKey, len(c.Cells))

	jan1950, ok := byKey["1950-0"]
	require.True(t, ok, "january 1950 published")
	assert.Equal(t, 8.16, jan1950.Record.Temperature)
	assert.Equal(t, "green", jan1950.Record.Color)
	assert.Equal(t, c.ID, jan1950.Record.RenderID)
	assert.Equal(t, c.ID, jan1950.Headers["render_id"])
	assert.Equal(t, c.RenderedAt.Format(time.RFC3339), jan1950.Headers["rendered_at"])
}

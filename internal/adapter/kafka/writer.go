package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// Writer produces cell records to a Kafka topic.
// It implements pipeline.CellPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured cell topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishCells serializes every record and publishes them in a single
// WriteMessages call. Records of the same month and year share a key and
// therefore a partition.
func (w *Writer) PublishCells(ctx context.Context, records []domain.CellRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d cell records: %w", len(msgs), err)
	}
	w.logger.Debug("cell records published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// MessageKey is the partition key of a record: "<year>-<month>".
func MessageKey(r domain.CellRecord) string {
	return fmt.Sprintf("%d-%d", r.Year, r.Month)
}

// serializeToMessage marshals a CellRecord into a Kafka message.
func serializeToMessage(record domain.CellRecord) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize cell record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(MessageKey(record)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "render_id", Value: []byte(record.RenderID)},
			{Key: "rendered_at", Value: []byte(record.RenderedAt.Format(time.RFC3339))},
		},
	}, nil
}

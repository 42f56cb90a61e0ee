package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-mcp/internal/config"
	"github.com/couchcryptid/weather-mcp/internal/domain"
	"github.com/couchcryptid/weather-mcp/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes tool-call events to a Kafka topic.
// Writes are asynchronous: Publish returns once the event is queued and
// delivery results are reported through metrics and logs.
type Writer struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates an async Kafka producer for the configured event topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &Writer{metrics: metrics, logger: logger}
	w.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
		Async:        true,
		Completion:   w.completed,
	}
	return w
}

// Publish queues a tool-call event for delivery.
func (w *Writer) Publish(ctx context.Context, event domain.ToolCallEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		w.metrics.EventsPublished.WithLabelValues("error").Inc()
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		w.metrics.EventsPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("queue tool-call event: %w", err)
	}
	return nil
}

// Close flushes pending events and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

func (w *Writer) completed(messages []kafkago.Message, err error) {
	if err != nil {
		w.metrics.EventsPublished.WithLabelValues("error").Add(float64(len(messages)))
		w.logger.Warn("tool-call events not delivered", "count", len(messages), "error", err)
		return
	}
	w.metrics.EventsPublished.WithLabelValues("success").Add(float64(len(messages)))
}

// serializeToMessage marshals a ToolCallEvent into a Kafka message keyed by event ID.
func serializeToMessage(event domain.ToolCallEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize tool-call event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "tool", Value: []byte(event.Tool)},
			{Key: "called_at", Value: []byte(event.CalledAt.Format(time.RFC3339))},
		},
	}, nil
}

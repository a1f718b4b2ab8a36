package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/inventory-ledger/internal/config"
	"github.com/inventory-ledger/internal/snapshot"
	"github.com/segmentio/kafka-go"
)

const noticeEventHeader = "event"

// SnapshotNoticeProducer publishes a message for every finished backup so
// downstream jobs can pick the snapshot up
type SnapshotNoticeProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

var _ snapshot.Notifier = (*SnapshotNoticeProducer)(nil)

// NewSnapshotNoticeProducer ensures the notice topic exists and opens a
// synchronous writer. Returns nil without error when notices are disabled.
func NewSnapshotNoticeProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*SnapshotNoticeProducer, error) {
	if !cfg.Enabled {
		logger.Info("Kafka notices disabled, snapshot notices will not be published")
		return nil, nil
	}
	if cfg.SnapshotTopic == "" {
		return nil, fmt.Errorf("kafka snapshot topic is not configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for snapshot notice producer: %w", err)
	}
	defer conn.Close()

	spec := topicSpec{
		Name:              cfg.SnapshotTopic,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if err := ensureTopic(ctx, conn, spec, partitionReadDelay, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure snapshot topic %s exists: %w", cfg.SnapshotTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.SnapshotTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &SnapshotNoticeProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.SnapshotTopic,
	}, nil
}

// SnapshotCreated publishes n keyed by the snapshot id
func (p *SnapshotNoticeProducer) SnapshotCreated(ctx context.Context, n snapshot.Notice) error {
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot notice: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(n.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: noticeEventHeader, Value: []byte("snapshot.created")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish snapshot notice",
			"topic", p.topic,
			"id", n.ID,
			"error", err,
		)
		return fmt.Errorf("failed to publish snapshot notice to %s: %w", p.topic, err)
	}

	p.logger.Info("Published snapshot notice", "topic", p.topic, "id", n.ID)
	return nil
}

func (p *SnapshotNoticeProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	p.logger.Info("Closing snapshot notice producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}

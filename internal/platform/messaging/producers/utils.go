package producers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// topicSpec describes a topic the producer needs
type topicSpec struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
}

const (
	partitionReadAttempts = 5
	partitionReadDelay    = 2 * time.Second
)

// ensureTopic creates the topic when its partitions cannot be read. Partition
// reads are retried with a fixed delay until ctx is done.
func ensureTopic(ctx context.Context, admin topicAdmin, spec topicSpec, delay time.Duration, log *slog.Logger) error {
	var partitions []kafka.Partition
	var err error

	log.Info("Checking if Kafka topic exists", "topic", spec.Name)
	for i := 0; i < partitionReadAttempts; i++ {
		partitions, err = admin.ReadPartitions(spec.Name)
		if err == nil && len(partitions) > 0 {
			log.Info("Kafka topic already exists", "topic", spec.Name, "partitions", len(partitions))
			return nil
		}
		log.Warn("Failed to read partitions, retrying", "topic", spec.Name, "attempt", i+1, "error", err)
		if i == partitionReadAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	topicConfig := kafka.TopicConfig{
		Topic:             spec.Name,
		NumPartitions:     spec.NumPartitions,
		ReplicationFactor: spec.ReplicationFactor,
	}
	if topicConfig.NumPartitions <= 0 {
		topicConfig.NumPartitions = 1
	}
	if topicConfig.ReplicationFactor <= 0 {
		topicConfig.ReplicationFactor = 1
	}

	log.Info("Creating Kafka topic", "topic", spec.Name,
		"partitions", topicConfig.NumPartitions,
		"replication_factor", topicConfig.ReplicationFactor,
	)
	if err := admin.CreateTopics(topicConfig); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", spec.Name, err)
	}
	return nil
}

package producers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/inventory-ledger/internal/config"
	"github.com/inventory-ledger/internal/snapshot"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockKafkaWriter mocks KafkaWriter interface
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSnapshotNoticeProducer_SnapshotCreated(t *testing.T) {
	ctx := context.Background()
	notice := snapshot.Notice{
		ID:        "2f1c",
		Location:  "backups/database_backup_20251112_081500.json",
		Archived:  true,
		Counts:    snapshot.Counts{Users: 1, Transactions: 11},
		CreatedAt: time.Date(2025, 11, 12, 0, 15, 0, 0, time.UTC),
	}

	t.Run("SuccessfulPublish", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &SnapshotNoticeProducer{logger: quietLogger(), writer: mockWriter, topic: "snapshot.created"}

		mockWriter.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 {
				return false
			}
			msg := msgs[0]
			var payload map[string]interface{}
			if err := json.Unmarshal(msg.Value, &payload); err != nil {
				return false
			}
			counts, _ := payload["counts"].(map[string]interface{})
			return string(msg.Key) == "2f1c" &&
				payload["location"] == notice.Location &&
				payload["archived"] == true &&
				counts["transactions"] == float64(11) &&
				len(msg.Headers) == 1 && string(msg.Headers[0].Value) == "snapshot.created"
		})).Return(nil).Once()

		require.NoError(t, producer.SnapshotCreated(ctx, notice))
		mockWriter.AssertExpectations(t)
	})

	t.Run("WriterError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &SnapshotNoticeProducer{logger: quietLogger(), writer: mockWriter, topic: "snapshot.created"}
		writerErr := errors.New("leader not available")

		mockWriter.On("WriteMessages", ctx, mock.AnythingOfType("[]kafka.Message")).Return(writerErr).Once()

		err := producer.SnapshotCreated(ctx, notice)
		assert.ErrorIs(t, err, writerErr)
		mockWriter.AssertExpectations(t)
	})
}

func TestSnapshotNoticeProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	producer := &SnapshotNoticeProducer{logger: quietLogger(), writer: mockWriter, topic: "snapshot.created"}
	mockWriter.On("Close").Return(errors.New("already closed")).Once()

	assert.ErrorContains(t, producer.Close(), "already closed")

	var disabled *SnapshotNoticeProducer
	assert.NoError(t, disabled.Close())
}

func TestNewSnapshotNoticeProducer_Disabled(t *testing.T) {
	producer, err := NewSnapshotNoticeProducer(context.Background(), quietLogger(), &config.KafkaConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, producer)
}

type fakeAdmin struct {
	readErrs  []error
	reads     int
	created   []kafka.TopicConfig
	createErr error
}

func (f *fakeAdmin) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	i := f.reads
	f.reads++
	if i < len(f.readErrs) && f.readErrs[i] != nil {
		return nil, f.readErrs[i]
	}
	if i < len(f.readErrs) {
		return []kafka.Partition{{Topic: topics[0], ID: 0}}, nil
	}
	return nil, errors.New("unknown topic")
}

func (f *fakeAdmin) CreateTopics(topics ...kafka.TopicConfig) error {
	f.created = append(f.created, topics...)
	return f.createErr
}

func TestEnsureTopic(t *testing.T) {
	ctx := context.Background()
	spec := topicSpec{Name: "snapshot.created"}

	t.Run("ExistingTopicAfterRetry", func(t *testing.T) {
		admin := &fakeAdmin{readErrs: []error{errors.New("broker starting"), nil}}
		require.NoError(t, ensureTopic(ctx, admin, spec, time.Millisecond, quietLogger()))
		assert.Equal(t, 2, admin.reads)
		assert.Empty(t, admin.created)
	})

	t.Run("CreatesMissingTopicWithDefaults", func(t *testing.T) {
		admin := &fakeAdmin{}
		require.NoError(t, ensureTopic(ctx, admin, spec, time.Millisecond, quietLogger()))
		assert.Equal(t, partitionReadAttempts, admin.reads)
		require.Len(t, admin.created, 1)
		assert.Equal(t, kafka.TopicConfig{Topic: "snapshot.created", NumPartitions: 1, ReplicationFactor: 1}, admin.created[0])
	})

	t.Run("CreateFailure", func(t *testing.T) {
		admin := &fakeAdmin{createErr: errors.New("not controller")}
		err := ensureTopic(ctx, admin, spec, time.Millisecond, quietLogger())
		assert.ErrorContains(t, err, "not controller")
	})

	t.Run("CancelledWhileRetrying", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		admin := &fakeAdmin{}
		err := ensureTopic(cctx, admin, spec, time.Hour, quietLogger())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, admin.created)
	})
}

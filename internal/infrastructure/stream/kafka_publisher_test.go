package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goalEvent() matchevent.Event {
	return matchevent.Event{
		ID:        "evt-goal-1",
		MatchID:   "maestros-internal-01",
		Type:      matchevent.TypeGoal,
		Payload:   matchevent.Payload{Team: "red", PlayerID: "p-rafa", AssistID: "p-bruno", MatchTimeMs: 61000},
		CreatedBy: "staff-01",
		IsValid:   true,
		Revision:  1,
		CreatedAt: time.Date(2026, 3, 7, 19, 1, 1, 0, time.UTC),
	}
}

func TestKafkaPublisher_PublishEncodesEnvelope(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig("matchday-test"))
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var got eventEnvelope
		if err := jsoniter.Unmarshal(value, &got); err != nil {
			return err
		}
		if got.EventID != "evt-goal-1" || got.Payload.AssistID != "p-bruno" || got.Type != "GOAL" {
			return errors.New("unexpected envelope")
		}
		return nil
	})

	publisher := NewKafkaPublisher(producer, KafkaConfig{Topic: "matchday.match-events"}, logging.NewNop())
	publisher.now = func() time.Time { return time.Date(2026, 3, 7, 19, 1, 2, 0, time.UTC) }

	require.NoError(t, publisher.Publish(context.Background(), goalEvent()))
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisher_PublishFailureOpensCircuit(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig("matchday-test"))
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewKafkaPublisher(producer, KafkaConfig{
		Topic: "matchday.match-events",
		Circuit: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	err := publisher.Publish(context.Background(), goalEvent())
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	// Breaker is open: the producer must not be called again.
	err = publisher.Publish(context.Background(), goalEvent())
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisher_RequiresTopic(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig("matchday-test"))
	publisher := NewKafkaPublisher(producer, KafkaConfig{}, logging.NewNop())

	assert.Error(t, publisher.Publish(context.Background(), goalEvent()))
	require.NoError(t, publisher.Close())
}

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "abc", truncateForLog("abc", 10))
	assert.Equal(t, "ab...(truncated)", truncateForLog("abcdef", 2))
}

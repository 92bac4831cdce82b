package stream

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/IBM/sarama"
	crerr "github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxLoggedValue = 2048

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
	Circuit  resilience.CircuitBreakerConfig
}

// eventEnvelope is the record value written for every accepted event. The
// record key is the match id so a match's events stay in one partition.
type eventEnvelope struct {
	EventID     string             `json:"event_id"`
	MatchID     string             `json:"match_id"`
	Type        string             `json:"type"`
	Payload     matchevent.Payload `json:"payload"`
	CreatedBy   string             `json:"created_by"`
	IsValid     bool               `json:"is_valid"`
	Revision    int                `json:"revision"`
	CreatedAt   time.Time          `json:"created_at"`
	PublishedAt time.Time          `json:"published_at"`
}

// KafkaPublisher forwards appended, edited and invalidated events to a topic
// for downstream consumers (stats, notifications).
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	breaker  *resilience.CircuitBreaker
	logger   *logging.Logger
	now      func() time.Time
}

func NewSaramaConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.Timeout = 5 * time.Second
	return cfg
}

func NewKafkaProducer(cfg KafkaConfig) (sarama.SyncProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewSaramaConfig(cfg.ClientID))
	if err != nil {
		return nil, crerr.Wrapf(err, "connect kafka brokers %s", strings.Join(cfg.Brokers, ","))
	}
	return producer, nil
}

func NewKafkaPublisher(producer sarama.SyncProducer, cfg KafkaConfig, logger *logging.Logger) *KafkaPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	p := &KafkaPublisher{
		producer: producer,
		topic:    strings.TrimSpace(cfg.Topic),
		logger:   logger.Named("stream.kafka"),
		now:      time.Now,
	}
	if cfg.Circuit.Enabled {
		p.breaker = resilience.NewCircuitBreaker(cfg.Circuit)
	}
	return p
}

func (p *KafkaPublisher) Publish(ctx context.Context, e matchevent.Event) error {
	if p.topic == "" {
		return crerr.New("kafka topic is required")
	}

	value, err := jsoniter.Marshal(eventEnvelope{
		EventID:     e.ID,
		MatchID:     e.MatchID,
		Type:        string(e.Type),
		Payload:     e.Payload,
		CreatedBy:   e.CreatedBy,
		IsValid:     e.IsValid,
		Revision:    e.Revision,
		CreatedAt:   e.CreatedAt,
		PublishedAt: p.now().UTC(),
	})
	if err != nil {
		return crerr.Wrapf(err, "encode event %s", e.ID)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.MatchID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(e.Type)},
			{Key: []byte("revision"), Value: []byte(strconv.Itoa(e.Revision))},
		},
	}

	var partition int32
	var offset int64
	send := func(context.Context) error {
		var sendErr error
		partition, offset, sendErr = p.producer.SendMessage(msg)
		return sendErr
	}
	if p.breaker != nil {
		err = p.breaker.Execute(ctx, send)
	} else {
		err = send(ctx)
	}
	if err != nil {
		p.logger.WarnContext(ctx, "kafka publish failed",
			"event_id", e.ID,
			"match_id", e.MatchID,
			"value", truncateForLog(string(value), maxLoggedValue),
			"error", err,
		)
		return crerr.Wrapf(err, "publish event %s to %s", e.ID, p.topic)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", p.topic),
			attribute.Int64("messaging.kafka.partition", int64(partition)),
			attribute.Int64("messaging.kafka.offset", offset),
		)
	}
	p.logger.DebugContext(ctx, "match event published",
		"event_id", e.ID,
		"type", e.Type,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

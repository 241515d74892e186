package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"log/slog"

	"github.com/IBM/sarama"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/ports/kafka"
)

const (
	headerEventType = "event_type"
	headerSessionID = "session_id"
	headerEventID   = "event_id"
)

// Producer публикует события заказов в Kafka
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

// NewProducer создаёт новый Kafka producer
func NewProducer(cfg *Config, log *slog.Logger) (*Producer, error) {
	config, err := cfg.saramaConfig()
	if err != nil {
		return nil, err
	}

	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	)

	return NewProducerWithClient(producer, cfg.Topic, log), nil
}

// NewProducerWithClient оборачивает готовый sarama.SyncProducer (в тестах mocks.SyncProducer)
func NewProducerWithClient(producer sarama.SyncProducer, topic string, log *slog.Logger) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

var _ kafka.IOrderEventProducer = (*Producer)(nil)

// SendOrderEvent событие целиком в value (JSON), ключ - id заказа, чтобы события одного заказа шли в одну партицию
func (p *Producer) SendOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	key := strconv.FormatInt(event.Order.ID, 10)
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerEventType), Value: []byte(event.Type)},
			{Key: []byte(headerSessionID), Value: []byte(strconv.FormatInt(event.SessionID, 10))},
			{Key: []byte(headerEventID), Value: []byte(event.ID.String())},
		},
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Debug("kafka send failed",
			"error", err,
			"topic", p.topic,
			"key", key,
		)
		return fmt.Errorf("kafka send failed [topic=%s, key=%s]: %w", p.topic, key, err)
	}

	p.log.Debug("order event sent to kafka",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"key", key,
		"event_type", event.Type,
	)
	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed")
	return nil
}

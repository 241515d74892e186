package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/pkg/logger"
)

func testEvent() domain.OrderEvent {
	at := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	order := domain.PendingOrder{
		ID:        17,
		Order:     domain.OrderRequest{Product: domain.ProductStars, Quantity: 100, PaymentMethod: domain.PaymentMethodPayme},
		CreatedAt: at,
		ExpiresAt: at.Add(30 * time.Minute),
	}
	return domain.NewOrderEvent(domain.OrderEventCreated, 555, order, at)
}

func headers(msg *sarama.ProducerMessage) map[string]string {
	out := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		out[string(h.Key)] = string(h.Value)
	}
	return out
}

func TestProducer_SendOrderEvent(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	event := testEvent()

	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "orders", msg.Topic)

		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "17", string(key))

		h := headers(msg)
		assert.Equal(t, "order.created", h[headerEventType])
		assert.Equal(t, "555", h[headerSessionID])
		assert.Equal(t, event.ID.String(), h[headerEventID])

		value, err := msg.Value.Encode()
		require.NoError(t, err)
		var decoded domain.OrderEvent
		require.NoError(t, json.Unmarshal(value, &decoded))
		assert.Equal(t, event.Type, decoded.Type)
		assert.Equal(t, event.Order.ID, decoded.Order.ID)
		return nil
	})

	p := NewProducerWithClient(sp, "orders", logger.Nop())
	require.NoError(t, p.SendOrderEvent(context.Background(), event))
	require.NoError(t, p.Close())
}

func TestProducer_SendFails(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewProducerWithClient(sp, "orders", logger.Nop())
	err := p.SendOrderEvent(context.Background(), testEvent())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))
	require.NoError(t, p.Close())
}

func TestProducer_CancelledContext(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	p := NewProducerWithClient(sp, "orders", logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.SendOrderEvent(ctx, testEvent()), context.Canceled)
	require.NoError(t, p.Close())
}

func TestConfig_SaramaConfig(t *testing.T) {
	cfg := &Config{Brokers: "a:9092, b:9092", ClientID: "yma_star", SecurityProtocol: "SASL_SSL", SASLUsername: "u", SASLPassword: "p"}
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.GetBrokers())

	sc, err := cfg.saramaConfig()
	require.NoError(t, err)
	assert.True(t, sc.Net.SASL.Enable)
	assert.True(t, sc.Net.TLS.Enable)

	_, err = (&Config{Brokers: "a:9092", ClientID: "x", SecurityProtocol: "SASL_SSL", SASLMechanism: "SCRAM-SHA-256"}).saramaConfig()
	assert.Error(t, err)

	assert.False(t, (&Config{}).Enabled())
}

package orderevents

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/pkg/logger"
)

type producerStub struct {
	events      []domain.OrderEvent
	err         error
	hadDeadline bool
}

func (p *producerStub) SendOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	_, p.hadDeadline = ctx.Deadline()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *producerStub) Close() error { return nil }

func testEvent() domain.OrderEvent {
	order := domain.PendingOrder{ID: 3, CreatedAt: time.Unix(0, 0).UTC(), ExpiresAt: time.Unix(1800, 0).UTC()}
	return domain.NewOrderEvent(domain.OrderEventCreated, 1001, order, order.CreatedAt)
}

func TestRecorder_PublishesToProducer(t *testing.T) {
	producer := &producerStub{}
	r := New(producer, time.Second, logger.Nop())

	event := testEvent()
	r.Record(context.Background(), event)

	require.Len(t, producer.events, 1)
	assert.Equal(t, event, producer.events[0])
	assert.True(t, producer.hadDeadline)
}

func TestRecorder_ProducerErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.NewWithWriter("yma_star", &logger.Config{Encoding: "json", Level: "info"}, &buf)
	require.NoError(t, err)

	r := New(&producerStub{err: errors.New("kafka: broker not available")}, 0, log)
	r.Record(context.Background(), testEvent())

	assert.Contains(t, buf.String(), "failed to publish order event")
	assert.Contains(t, buf.String(), "broker not available")
}

func TestRecorder_WithoutProducer(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.NewWithWriter("yma_star", &logger.Config{Encoding: "json", Level: "info"}, &buf)
	require.NoError(t, err)

	New(nil, 0, log).Record(context.Background(), testEvent())
	assert.Contains(t, buf.String(), `"type":"order.created"`)
}

package orderevents

import (
	"context"
	"log/slog"
	"time"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/ports/kafka"
	"github.com/YusufBro01/ymastar/internal/ports/service"
)

const DefaultSendTimeout = 5 * time.Second

// Recorder пишет события заказа в лог и, если Kafka настроена, в топик событий
type Recorder struct {
	producer    kafka.IOrderEventProducer
	sendTimeout time.Duration
	log         *slog.Logger
}

// New producer может быть nil
func New(producer kafka.IOrderEventProducer, sendTimeout time.Duration, log *slog.Logger) *Recorder {
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &Recorder{
		producer:    producer,
		sendTimeout: sendTimeout,
		log:         log,
	}
}

var _ service.IOrderEventRecorder = (*Recorder)(nil)

func (r *Recorder) Record(ctx context.Context, event domain.OrderEvent) {
	attrs := []any{
		"event_id", event.ID,
		"type", event.Type,
		"session_id", event.SessionID,
		"order_id", event.Order.ID,
	}
	if event.FailureReason != nil {
		attrs = append(attrs, "failure_reason", *event.FailureReason)
	}
	r.log.Info("order event", attrs...)

	if r.producer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.sendTimeout)
	defer cancel()

	if err := r.producer.SendOrderEvent(ctx, event); err != nil {
		r.log.Error("failed to publish order event",
			"event_id", event.ID,
			"type", event.Type,
			"error", err,
		)
	}
}

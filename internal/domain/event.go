package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderEventType тип события жизненного цикла заказа
type OrderEventType string

const (
	OrderEventCreated        OrderEventType = "order.created"
	OrderEventSuperseded     OrderEventType = "order.superseded"
	OrderEventExpired        OrderEventType = "order.expired"
	OrderEventCancelled      OrderEventType = "order.cancelled"
	OrderEventDispatched     OrderEventType = "order.dispatched"
	OrderEventDispatchFailed OrderEventType = "order.dispatch_failed"
)

// OrderEvent событие для внешнего стрима (Kafka), заказы не хранятся, только публикуются
type OrderEvent struct {
	ID            uuid.UUID      `json:"id"`
	Type          OrderEventType `json:"type"`
	SessionID     int64          `json:"session_id"`
	Order         PendingOrder   `json:"order"`
	FailureReason *string        `json:"failure_reason,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

func NewOrderEvent(eventType OrderEventType, sessionID int64, order PendingOrder, at time.Time) OrderEvent {
	return OrderEvent{
		ID:         uuid.New(),
		Type:       eventType,
		SessionID:  sessionID,
		Order:      order,
		OccurredAt: at,
	}
}

// OrderTransitionEvent какое событие соответствует переходу слота в состояние to
func OrderTransitionEvent(to OrderState) (OrderEventType, bool) {
	switch to {
	case OrderStatePending:
		return OrderEventCreated, true
	case OrderStateSuperseded:
		return OrderEventSuperseded, true
	case OrderStateExpired:
		return OrderEventExpired, true
	case OrderStateCancelled:
		return OrderEventCancelled, true
	default:
		return "", false
	}
}

package kafka

import (
	"context"

	"github.com/YusufBro01/ymastar/internal/domain"
)

// IOrderEventProducer отправка событий жизненного цикла заказа в Kafka
type IOrderEventProducer interface {
	SendOrderEvent(ctx context.Context, event domain.OrderEvent) error
	Close() error
}

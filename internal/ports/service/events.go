package service

import (
	"context"

	"github.com/YusufBro01/ymastar/internal/domain"
)

// IOrderEventRecorder журнал событий заказа: лог + внешний стрим. Ошибки доставки глотает сам.
type IOrderEventRecorder interface {
	Record(ctx context.Context, event domain.OrderEvent)
}

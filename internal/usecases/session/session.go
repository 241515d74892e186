package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/ports/service"
	"github.com/YusufBro01/ymastar/internal/usecases/dispatch"
	"github.com/YusufBro01/ymastar/internal/usecases/order"
	"github.com/YusufBro01/ymastar/internal/usecases/recipient"
)

// SubmitResult созданный заказ, итог его отправки и экран, который надо показать
type SubmitResult struct {
	Order    domain.PendingOrder   `json:"order"`
	Delivery domain.DeliveryResult `json:"delivery"`
	Screen   domain.Screen         `json:"screen"`
}

// Snapshot всё, что нужно UI для отрисовки сессии
type Snapshot struct {
	Screen       domain.Screen          `json:"screen"`
	Search       recipient.State        `json:"search"`
	OrderState   domain.OrderState      `json:"order_state"`
	LastDelivery *domain.DeliveryResult `json:"last_delivery,omitempty"`
}

// Session фасад одной сессии покупателя: поиск получателя, заказ, отправка, навигация
type Session struct {
	id         int64
	clock      clockwork.Clock
	resolver   *recipient.Resolver
	builder    *order.Builder
	lifecycle  *order.Lifecycle
	dispatcher *dispatch.Dispatcher
	events     service.IOrderEventRecorder
	log        *slog.Logger

	mu           sync.Mutex
	view         domain.View
	lastSeen     time.Time
	lastDelivery *domain.DeliveryResult
}

// ID Telegram id покупателя
func (s *Session) ID() int64 {
	return s.id
}

// SearchRecipient очередной ввод в поле получателя
func (s *Session) SearchRecipient(handle string) recipient.State {
	s.touch()
	return s.resolver.Resolve(handle)
}

// Recipient текущее состояние поиска
func (s *Session) Recipient() recipient.State {
	s.touch()
	return s.resolver.State()
}

// CancelSearch останавливает поиск и сбрасывает получателя
func (s *Session) CancelSearch() {
	s.touch()
	s.resolver.Cancel()
}

// SubmitOrder Builder -> Lifecycle -> Dispatcher. Ошибка валидации возвращается до создания заказа,
// неудачная отправка заказ не отменяет.
func (s *Session) SubmitOrder(
	ctx context.Context,
	product domain.Product,
	quantityInput string,
	method domain.PaymentMethod,
) (SubmitResult, error) {
	s.touch()

	search := s.resolver.State()
	var resolved *domain.RecipientIdentity
	if search.Resolved() {
		resolved = search.Recipient
	}

	req, err := s.builder.Build(product, resolved, quantityInput, method)
	if err != nil {
		return SubmitResult{}, err
	}

	pending, err := s.lifecycle.CreateOrder(req)
	if err != nil {
		return SubmitResult{}, err
	}

	s.resolver.Cancel()
	s.setView(domain.ViewOrderSuccess)

	delivery := s.deliver(ctx, pending)

	return SubmitResult{
		Order:    pending,
		Delivery: delivery,
		Screen:   s.Screen(),
	}, nil
}

// RetryDispatch повторная отправка текущего заказа по просьбе покупателя
func (s *Session) RetryDispatch(ctx context.Context) (domain.DeliveryResult, error) {
	s.touch()

	pending, ok := s.lifecycle.Current()
	if !ok {
		return domain.DeliveryResult{}, domain.NewExpired(domain.ErrNoPendingOrder)
	}
	return s.deliver(ctx, pending), nil
}

// PendingOrderSummary сводка живого заказа
func (s *Session) PendingOrderSummary() (domain.PendingOrderSummary, bool) {
	s.touch()

	pending, ok := s.lifecycle.Current()
	if !ok {
		return domain.PendingOrderSummary{}, false
	}
	return domain.Summarize(pending, s.clock.Now()), true
}

// ViewPendingOrder возврат на экран заказа; без живого заказа откроется главная
func (s *Session) ViewPendingOrder() domain.Screen {
	return s.Navigate(domain.ViewOrderSuccess)
}

// AbandonToHome уход на главную с отменой поиска, заказ остаётся
func (s *Session) AbandonToHome() domain.Screen {
	s.resolver.Cancel()
	return s.Navigate(domain.ViewMain)
}

// CancelPendingOrder явная отмена заказа
func (s *Session) CancelPendingOrder() bool {
	s.touch()

	cancelled := s.lifecycle.Cancel()
	if cancelled {
		s.mu.Lock()
		s.lastDelivery = nil
		s.mu.Unlock()
	}
	return cancelled
}

// Navigate переход на экран. Уход из формы покупки отменяет поиск получателя.
func (s *Session) Navigate(view domain.View) domain.Screen {
	s.touch()

	s.mu.Lock()
	from := s.view
	s.mu.Unlock()

	if isPurchaseView(from) && from != view {
		s.resolver.Cancel()
	}

	s.setView(view)
	return s.Screen()
}

// Back кнопка "назад" в шапке
func (s *Session) Back() domain.Screen {
	s.mu.Lock()
	back := s.view.Back()
	s.mu.Unlock()

	return s.Navigate(back)
}

// Screen текущий экран; если заказ истёк, экран заказа превращается в главную
func (s *Session) Screen() domain.Screen {
	var current *domain.PendingOrder
	if pending, ok := s.lifecycle.Current(); ok {
		current = &pending
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	screen := domain.RenderScreen(s.view, current, s.clock.Now())
	s.view = screen.View
	return screen
}

// Snapshot состояние сессии целиком
func (s *Session) Snapshot() Snapshot {
	screen := s.Screen()

	s.mu.Lock()
	last := s.lastDelivery
	s.mu.Unlock()

	return Snapshot{
		Screen:       screen,
		Search:       s.resolver.State(),
		OrderState:   s.lifecycle.State(),
		LastDelivery: last,
	}
}

// Close останавливает фоновый поиск
func (s *Session) Close() {
	s.resolver.Cancel()
}

func (s *Session) deliver(ctx context.Context, pending domain.PendingOrder) domain.DeliveryResult {
	delivery := s.dispatcher.Dispatch(ctx, s.id, pending)

	s.mu.Lock()
	s.lastDelivery = &delivery
	s.mu.Unlock()

	eventType := domain.OrderEventDispatched
	if !delivery.Success {
		eventType = domain.OrderEventDispatchFailed
	}
	event := domain.NewOrderEvent(eventType, s.id, pending, s.clock.Now())
	event.FailureReason = delivery.FailureReason
	s.record(ctx, event)

	return delivery
}

// observe наблюдатель слота заказа, переходы превращаются в события
func (s *Session) observe(t order.Transition) {
	eventType, ok := domain.OrderTransitionEvent(t.To)
	if !ok {
		return
	}
	if t.To == domain.OrderStateExpired {
		s.log.Info("pending order expired", "session_id", s.id, "order_id", t.Order.ID)
	}
	s.record(context.Background(), domain.NewOrderEvent(eventType, s.id, t.Order, t.At))
}

func (s *Session) record(ctx context.Context, event domain.OrderEvent) {
	if s.events == nil {
		return
	}
	s.events.Record(context.WithoutCancel(ctx), event)
}

func (s *Session) setView(view domain.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
}

func (s *Session) touch() {
	now := s.clock.Now()
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// idle нет живого заказа и давно не было активности
func (s *Session) idle(now time.Time, ttl time.Duration) bool {
	if _, ok := s.lifecycle.Current(); ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen) > ttl
}

func isPurchaseView(v domain.View) bool {
	return v == domain.ViewBuyStars || v == domain.ViewBuyPremium
}

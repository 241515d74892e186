package order

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/YusufBro01/ymastar/internal/domain"
)

// DefaultTTL время жизни неоплаченного заказа
const DefaultTTL = 30 * time.Minute

// Transition переход слота заказа
type Transition struct {
	From  domain.OrderState
	To    domain.OrderState
	Order domain.PendingOrder
	At    time.Time
}

// Observer получает переходы после того, как слот отпущен
type Observer func(Transition)

// Lifecycle единственный владелец слота заказа сессии. Создание и очистка идут под одним мьютексом,
// поэтому двух живых заказов одновременно не бывает.
type Lifecycle struct {
	clock    clockwork.Clock
	ttl      time.Duration
	seq      *Sequence
	observer Observer

	mu   sync.Mutex
	slot *domain.PendingOrder
}

func NewLifecycle(clock clockwork.Clock, ttl time.Duration, seq *Sequence, observer Observer) *Lifecycle {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Lifecycle{
		clock:    clock,
		ttl:      ttl,
		seq:      seq,
		observer: observer,
	}
}

// CreateOrder кладёт заказ в слот, вытесняя прежний. Невалидная заявка слот не трогает.
func (l *Lifecycle) CreateOrder(req domain.OrderRequest) (domain.PendingOrder, error) {
	if err := validateRequest(req); err != nil {
		return domain.PendingOrder{}, err
	}

	l.mu.Lock()
	now := l.clock.Now()
	order := domain.PendingOrder{
		ID:        l.seq.Next(),
		Order:     req,
		CreatedAt: now,
		ExpiresAt: now.Add(l.ttl),
	}

	var transitions []Transition
	if prev := l.slot; prev != nil {
		to := domain.OrderStateSuperseded
		if prev.IsExpired(now) {
			to = domain.OrderStateExpired
		}
		transitions = append(transitions, Transition{From: domain.OrderStatePending, To: to, Order: *prev, At: now})
	}
	l.slot = &order
	transitions = append(transitions, Transition{From: domain.OrderStateEmpty, To: domain.OrderStatePending, Order: order, At: now})
	l.mu.Unlock()

	l.notify(transitions...)
	return order, nil
}

// Current живой заказ; после ExpiresAt возвращает false, даже если свипер ещё не успел
func (l *Lifecycle) Current() (domain.PendingOrder, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.slot == nil || l.slot.IsExpired(l.clock.Now()) {
		return domain.PendingOrder{}, false
	}
	return *l.slot, true
}

// Expired в слоте лежит истёкший заказ, который ещё не убран
func (l *Lifecycle) Expired() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.slot != nil && l.slot.IsExpired(l.clock.Now())
}

// State состояние слота
func (l *Lifecycle) State() domain.OrderState {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.slot == nil:
		return domain.OrderStateEmpty
	case l.slot.IsExpired(l.clock.Now()):
		return domain.OrderStateExpired
	default:
		return domain.OrderStatePending
	}
}

// ClearIfExpired убирает истёкший заказ. Идемпотентна: на пустом или живом слоте ничего не делает.
func (l *Lifecycle) ClearIfExpired() bool {
	l.mu.Lock()
	now := l.clock.Now()
	if l.slot == nil || !l.slot.IsExpired(now) {
		l.mu.Unlock()
		return false
	}
	prev := *l.slot
	l.slot = nil
	l.mu.Unlock()

	l.notify(Transition{From: domain.OrderStatePending, To: domain.OrderStateExpired, Order: prev, At: now})
	return true
}

// Cancel явная отмена живого заказа покупателем
func (l *Lifecycle) Cancel() bool {
	l.mu.Lock()
	now := l.clock.Now()
	if l.slot == nil {
		l.mu.Unlock()
		return false
	}
	prev := *l.slot
	l.slot = nil
	l.mu.Unlock()

	if prev.IsExpired(now) {
		l.notify(Transition{From: domain.OrderStatePending, To: domain.OrderStateExpired, Order: prev, At: now})
		return false
	}

	l.notify(Transition{From: domain.OrderStatePending, To: domain.OrderStateCancelled, Order: prev, At: now})
	return true
}

func (l *Lifecycle) notify(transitions ...Transition) {
	if l.observer == nil {
		return
	}
	for _, t := range transitions {
		l.observer(t)
	}
}

func validateRequest(req domain.OrderRequest) error {
	if req.Quantity <= 0 {
		return domain.NewInputInvalid(domain.FieldQuantity, domain.CodeQuantityInvalid)
	}
	if req.Recipient.Handle == "" {
		return domain.NewValidationFailed(domain.FieldRecipient, domain.CodeRecipientRequired)
	}
	if !req.PaymentMethod.IsValid() {
		return domain.NewValidationFailed(domain.FieldPaymentMethod, domain.CodePaymentMethodUnsupported)
	}
	return nil
}

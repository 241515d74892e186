package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type notifierFunc func(ctx context.Context, n domain.OrderNotification) error

func (f notifierFunc) NotifyOrder(ctx context.Context, n domain.OrderNotification) error {
	return f(ctx, n)
}

type alertRecorder struct {
	mu       sync.Mutex
	messages []string
}

func (a *alertRecorder) SendAlert(_ context.Context, message string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
	return nil
}

func (a *alertRecorder) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.messages)
}

func testOrder() domain.PendingOrder {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	return domain.PendingOrder{
		ID: 7,
		Order: domain.OrderRequest{
			Product:       domain.ProductStars,
			Recipient:     domain.RecipientIdentity{ID: 1, Handle: "@validuser", DisplayName: "Valid"},
			Quantity:      100,
			PaymentMethod: domain.PaymentMethodPayme,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Minute),
	}
}

func TestDispatcher_Success(t *testing.T) {
	var got domain.OrderNotification
	notifier := notifierFunc(func(_ context.Context, n domain.OrderNotification) error {
		got = n
		return nil
	})
	alerts := &alertRecorder{}
	d := New(notifier, alerts, time.Second, logger.Nop())

	order := testOrder()
	result := d.Dispatch(context.Background(), 555, order)

	assert.Equal(t, domain.DeliveryResult{Success: true, OrderID: 7}, result)
	assert.Equal(t, int64(555), got.SenderID)
	assert.Equal(t, order.ID, got.OrderID)
	assert.Equal(t, order.Order, got.Order)
	assert.Equal(t, order.ExpiresAt, got.ExpiresAt)
	assert.Zero(t, alerts.count())
}

func TestDispatcher_Failures(t *testing.T) {
	tests := []struct {
		name      string
		notifier  notifierFunc
		reason    string
		wantAlert bool
	}{
		{
			name: "recipient unreachable",
			notifier: func(context.Context, domain.OrderNotification) error {
				return fmt.Errorf("send message: %w", domain.ErrRecipientUnreachable)
			},
			reason: domain.FailureRecipientUnreachable,
		},
		{
			name: "timeout",
			notifier: func(ctx context.Context, _ domain.OrderNotification) error {
				<-ctx.Done()
				return fmt.Errorf("send message: %w", ctx.Err())
			},
			reason:    domain.FailureChannelTimeout,
			wantAlert: true,
		},
		{
			name: "other error",
			notifier: func(context.Context, domain.OrderNotification) error {
				return errors.New("telegram is down")
			},
			reason:    domain.FailureChannelError,
			wantAlert: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := &alertRecorder{}
			d := New(tt.notifier, alerts, 20*time.Millisecond, logger.Nop())

			result := d.Dispatch(context.Background(), 555, testOrder())

			assert.False(t, result.Success)
			assert.Equal(t, int64(7), result.OrderID)
			require.NotNil(t, result.FailureReason)
			assert.Equal(t, tt.reason, *result.FailureReason)
			assert.Equal(t, tt.wantAlert, alerts.count() == 1)
		})
	}
}

func TestDispatcher_NilAlerter(t *testing.T) {
	d := New(notifierFunc(func(context.Context, domain.OrderNotification) error {
		return errors.New("boom")
	}), nil, time.Second, logger.Nop())

	result := d.Dispatch(context.Background(), 1, testOrder())
	require.NotNil(t, result.FailureReason)
	assert.Equal(t, domain.FailureChannelError, *result.FailureReason)
}

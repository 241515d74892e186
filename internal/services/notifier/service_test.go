package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/pkg/logger"
)

type sent struct {
	chatID   int64
	text     string
	keyboard *domain.InlineKeyboardMarkup
}

type clientStub struct {
	mu       sync.Mutex
	messages []sent
	errs     map[int64]error
}

func (c *clientStub) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.SendMessageWithKeyboard(ctx, chatID, text, nil)
}

func (c *clientStub) SendMessageWithKeyboard(_ context.Context, chatID int64, text string, keyboard *domain.InlineKeyboardMarkup) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.errs[chatID]; err != nil {
		return err
	}
	c.messages = append(c.messages, sent{chatID: chatID, text: text, keyboard: keyboard})
	return nil
}

func notification(product domain.Product, quantity int64, method domain.PaymentMethod) domain.OrderNotification {
	return domain.OrderNotification{
		OrderID:  7,
		SenderID: 1001,
		Order: domain.OrderRequest{
			Product:        product,
			Recipient:      domain.RecipientIdentity{ID: 42, DisplayName: "Valid User", Handle: "@validuser"},
			Quantity:       quantity,
			TotalFormatted: "12 999,00 UZS",
			Currency:       "UZS",
			PaymentMethod:  method,
		},
		ExpiresAt: time.Date(2026, 1, 2, 10, 30, 0, 0, time.UTC),
	}
}

func TestService_NotifyOrder(t *testing.T) {
	client := &clientStub{}
	s := New(client, Config{}, logger.Nop())

	require.NoError(t, s.NotifyOrder(context.Background(), notification(domain.ProductStars, 100, domain.PaymentMethodPayme)))

	require.Len(t, client.messages, 1)
	msg := client.messages[0]
	assert.Equal(t, int64(1001), msg.chatID)
	assert.Contains(t, msg.text, "Buyurtma #7")
	assert.Contains(t, msg.text, "@validuser (Valid User)")
	assert.Contains(t, msg.text, "100 ⭐")
	assert.Contains(t, msg.text, "12 999,00 UZS")
	assert.Contains(t, msg.text, "Payme")
	assert.Contains(t, msg.text, "10:30")

	require.NotNil(t, msg.keyboard)
	assert.Equal(t, "https://payme.uz/", msg.keyboard.InlineKeyboard[0][0].URL)
}

func TestService_NotifyOrderPremiumWithOperatorsCopy(t *testing.T) {
	client := &clientStub{}
	tashkent := time.FixedZone("UZT", 5*60*60)
	s := New(client, Config{OrdersChatID: -500, Location: tashkent}, logger.Nop())

	require.NoError(t, s.NotifyOrder(context.Background(), notification(domain.ProductPremium, 3, domain.PaymentMethodClick)))

	require.Len(t, client.messages, 2)
	assert.Contains(t, client.messages[0].text, "Telegram Premium, 3 oy")
	assert.Contains(t, client.messages[0].text, "15:30")
	assert.Equal(t, "https://click.uz/", client.messages[0].keyboard.InlineKeyboard[0][0].URL)

	assert.Equal(t, int64(-500), client.messages[1].chatID)
	assert.Contains(t, client.messages[1].text, "1001")
	assert.Nil(t, client.messages[1].keyboard)
}

func TestService_NotifyOrderErrors(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantUnreachable bool
	}{
		{
			name:            "bot blocked",
			err:             &domain.TelegramAPIError{Method: "sendMessage", Code: 403, Description: "Forbidden: bot was blocked by the user"},
			wantUnreachable: true,
		},
		{
			name:            "chat not found",
			err:             &domain.TelegramAPIError{Method: "sendMessage", Code: 400, Description: "Bad Request: chat not found"},
			wantUnreachable: true,
		},
		{
			name: "other bad request",
			err:  &domain.TelegramAPIError{Method: "sendMessage", Code: 400, Description: "Bad Request: message is too long"},
		},
		{
			name: "network",
			err:  errors.New("connection reset by peer"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &clientStub{errs: map[int64]error{1001: tt.err}}
			s := New(client, Config{OrdersChatID: -500}, logger.Nop())

			err := s.NotifyOrder(context.Background(), notification(domain.ProductStars, 50, domain.PaymentMethodPayme))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.wantUnreachable, errors.Is(err, domain.ErrRecipientUnreachable))
			assert.Empty(t, client.messages, "no operators copy for an undelivered order")
		})
	}
}

func TestService_OperatorsCopyFailureIsIgnored(t *testing.T) {
	client := &clientStub{errs: map[int64]error{-500: errors.New("boom")}}
	s := New(client, Config{OrdersChatID: -500}, logger.Nop())

	require.NoError(t, s.NotifyOrder(context.Background(), notification(domain.ProductStars, 50, domain.PaymentMethodPayme)))
	assert.Len(t, client.messages, 1)
}

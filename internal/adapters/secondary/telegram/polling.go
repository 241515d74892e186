package telegram

import (
	"context"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/YusufBro01/ymastar/internal/domain"
)

const (
	defaultPollingTimeout = 30
	pollRetryDelay        = 5 * time.Second
)

// UpdateHandler функция для обработки обновлений от Telegram
type UpdateHandler func(ctx context.Context, update *domain.Update) error

// Poller реализует long polling для получения обновлений от Telegram
type Poller struct {
	client       *Client
	timeout      int
	handler      UpdateHandler
	lastUpdateID int64
	log          *slog.Logger
}

func NewPoller(client *Client, pollingTimeout int, handler UpdateHandler, log *slog.Logger) *Poller {
	if pollingTimeout <= 0 {
		pollingTimeout = defaultPollingTimeout
	}

	// отдельный HTTP клиент: таймаут = polling timeout + запас
	pollClient := NewClient(client.token, log,
		WithAPIURL(client.apiURL),
		WithHTTPClient(&http.Client{Timeout: time.Duration(pollingTimeout+10) * time.Second}),
	)

	return &Poller{
		client:  pollClient,
		timeout: pollingTimeout,
		handler: handler,
		log:     log,
	}
}

// Start крутит getUpdates до отмены контекста
func (p *Poller) Start(ctx context.Context) error {
	p.log.Info("starting telegram polling", "timeout", p.timeout)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("polling stopped")
			return nil
		default:
		}

		updates, err := p.getUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.log.Error("failed to get updates", "error", err)

			select {
			case <-ctx.Done():
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for i := range updates {
			update := &updates[i]
			if update.UpdateID >= p.lastUpdateID {
				p.lastUpdateID = update.UpdateID + 1
			}

			if err := p.handler(ctx, update); err != nil {
				p.log.Error("failed to handle update",
					"error", err,
					"update_id", update.UpdateID,
				)
			}
		}
	}
}

func (p *Poller) getUpdates(ctx context.Context) ([]domain.Update, error) {
	reqBody := struct {
		Offset         int64    `json:"offset"`
		Timeout        int      `json:"timeout"`
		AllowedUpdates []string `json:"allowed_updates"`
	}{
		Offset:         p.lastUpdateID,
		Timeout:        p.timeout,
		AllowedUpdates: []string{"message"},
	}

	var updates []domain.Update
	err := p.client.call(ctx, "getUpdates", reqBody, &updates)

	// 409 - активен webhook или запущен второй экземпляр, пробуем в следующей итерации
	var apiErr *domain.TelegramAPIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
		p.log.Warn("telegram API conflict - another bot instance or webhook is active",
			"description", apiErr.Description,
		)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return updates, nil
}

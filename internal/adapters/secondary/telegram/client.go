package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/YusufBro01/ymastar/internal/domain"
)

const (
	telegramAPIBaseURL = "https://api.telegram.org"
	apiTimeout         = 30 * time.Second
)

// Client клиент для работы с Telegram Bot API
type Client struct {
	httpClient *http.Client
	apiURL     string // https://api.telegram.org
	baseURL    string // apiURL + /bot<token>
	token      string
	log        *slog.Logger
}

type Option func(*Client)

// WithAPIURL другой адрес Bot API (локальный bot-api сервер, тесты)
func WithAPIURL(apiURL string) Option {
	return func(c *Client) {
		c.apiURL = strings.TrimRight(apiURL, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient создаёт новый клиент для Telegram Bot API
func NewClient(token string, log *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: apiTimeout,
		},
		apiURL: telegramAPIBaseURL,
		token:  token,
		log:    log,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = c.apiURL + "/bot" + token

	return c
}

// SendMessageRequest запрос на отправку сообщения
type SendMessageRequest struct {
	ChatID          int64                        `json:"chat_id"`
	MessageThreadID *int64                       `json:"message_thread_id,omitempty"`
	Text            string                       `json:"text"`
	ParseMode       string                       `json:"parse_mode,omitempty"` // "HTML", "Markdown", "MarkdownV2"
	ReplyMarkup     *domain.InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// SendMessageResult результат отправки сообщения
type SendMessageResult struct {
	MessageID int64 `json:"message_id"`
	Chat      struct {
		ID int64 `json:"id"`
	} `json:"chat"`
	Date int64 `json:"date"`
}

// SendMessage отправляет текстовое сообщение
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.sendMessage(ctx, SendMessageRequest{
		ChatID: chatID,
		Text:   text,
	})
}

// SendMessageWithKeyboard отправляет сообщение с инлайн-клавиатурой
func (c *Client) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *domain.InlineKeyboardMarkup) error {
	return c.sendMessage(ctx, SendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
}

func (c *Client) sendMessage(ctx context.Context, req SendMessageRequest) error {
	_, err := c.SendMessageWithRequest(ctx, req)
	return err
}

// SendMessageWithRequest отправка с полным набором параметров (топик форума, parse mode)
func (c *Client) SendMessageWithRequest(ctx context.Context, req SendMessageRequest) (*SendMessageResult, error) {
	var result SendMessageResult
	if err := c.call(ctx, "sendMessage", req, &result); err != nil {
		c.log.Error("failed to send message",
			"error", err,
			"chat_id", req.ChatID,
		)
		return nil, err
	}

	c.log.Debug("message sent successfully",
		"chat_id", req.ChatID,
		"message_id", result.MessageID,
	)
	return &result, nil
}

// GetMe проверяет токен бота
func (c *Client) GetMe(ctx context.Context) (*domain.TelegramUser, error) {
	var me domain.TelegramUser
	if err := c.call(ctx, "getMe", nil, &me); err != nil {
		return nil, err
	}

	c.log.Info("bot info retrieved successfully", "bot_id", me.ID)
	return &me, nil
}

// SetMyCommands регистрирует команды бота в меню
func (c *Client) SetMyCommands(ctx context.Context, commands []domain.BotCommand) error {
	reqBody := struct {
		Commands []domain.BotCommand `json:"commands"`
	}{
		Commands: commands,
	}

	if err := c.call(ctx, "setMyCommands", reqBody, nil); err != nil {
		return err
	}

	c.log.Info("bot commands registered successfully", "commands_count", len(commands))
	return nil
}

// call POST {baseURL}/{method} с JSON телом. Ответ ok=false превращается в *domain.TelegramAPIError.
func (c *Client) call(ctx context.Context, method string, payload any, result any) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", method, err)
		}
		body = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send %s request to telegram: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response body: %w", method, err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		c.log.Error("failed to unmarshal response",
			"error", err,
			"method", method,
			"status_code", resp.StatusCode,
			"body", string(respBody),
		)
		return fmt.Errorf("failed to unmarshal %s response: %w", method, err)
	}

	if !apiResp.OK {
		code := apiResp.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &domain.TelegramAPIError{
			Method:      method,
			Code:        code,
			Description: apiResp.Description,
		}
	}

	if result == nil || len(apiResp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(apiResp.Result, result); err != nil {
		return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
	}
	return nil
}

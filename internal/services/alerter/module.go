package alerter

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"

	"github.com/YusufBro01/ymastar/internal/adapters/secondary/alerter"
	"github.com/YusufBro01/ymastar/internal/ports/service"
)

// лимит Telegram на длину текста сообщения
const maxAlertRunes = 4096

// DefaultRepeatWindow одинаковый алерт внутри окна повторно не отправляется
const DefaultRepeatWindow = 5 * time.Minute

type sender interface {
	SendAlert(ctx context.Context, message string) error
}

// Service шлёт алерты операторам с префиксом приложения и гасит повторы
type Service struct {
	sender sender
	app    string
	clock  clockwork.Clock
	window time.Duration

	mu   sync.Mutex
	sent map[string]time.Time
}

// New без клиента возвращает nil, и алерты просто не шлются
func New(client *alerter.Client, app string, clock clockwork.Clock) service.IAlerterService {
	if client == nil {
		return nil
	}
	return newService(client, app, clock, DefaultRepeatWindow)
}

func newService(s sender, app string, clock clockwork.Clock, window time.Duration) *Service {
	return &Service{
		sender: s,
		app:    app,
		clock:  clock,
		window: window,
		sent:   make(map[string]time.Time),
	}
}

func (s *Service) SendAlert(ctx context.Context, message string) error {
	if s.suppressed(message) {
		return nil
	}

	text := message
	if s.app != "" {
		text = fmt.Sprintf("[%s] %s", s.app, message)
	}

	if err := s.sender.SendAlert(ctx, truncate(text, maxAlertRunes)); err != nil {
		s.forget(message)
		return err
	}
	return nil
}

// suppressed отмечает отправку и говорит, был ли такой же алерт внутри окна
func (s *Service) suppressed(message string) bool {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for msg, at := range s.sent {
		if now.Sub(at) >= s.window {
			delete(s.sent, msg)
		}
	}

	if _, ok := s.sent[message]; ok {
		return true
	}
	s.sent[message] = now
	return false
}

func (s *Service) forget(message string) {
	s.mu.Lock()
	delete(s.sent, message)
	s.mu.Unlock()
}

func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-1]) + "…"
}

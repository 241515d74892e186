package session

import (
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

const DefaultIdleTTL = 2 * time.Hour

type Config struct {
	OrderTTL       time.Duration
	DebounceWindow time.Duration
	LookupTimeout  time.Duration
	IdleTTL        time.Duration
}

// Deps общие для всех сессий зависимости
type Deps struct {
	Clock      clockwork.Clock
	Directory  service.IDirectoryService
	Builder    *order.Builder
	Dispatcher *dispatch.Dispatcher
	Events     service.IOrderEventRecorder // может быть nil
	Sequence   *order.Sequence
	Log        *slog.Logger
}

// Registry сессии по Telegram id покупателя, создаются лениво
type Registry struct {
	deps Deps
	cfg  Config

	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewRegistry(deps Deps, cfg Config) *Registry {
	if cfg.OrderTTL <= 0 {
		cfg.OrderTTL = order.DefaultTTL
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if deps.Sequence == nil {
		deps.Sequence = order.NewSequence(0)
	}

	return &Registry{
		deps:     deps,
		cfg:      cfg,
		sessions: make(map[int64]*Session),
	}
}

// Get сессия покупателя, при первом обращении создаётся; обращение считается активностью
func (r *Registry) Get(id int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.touch()
		return s
	}

	s := r.newSession(id)
	r.sessions[id] = s
	r.deps.Log.Debug("session created", "session_id", id, "sessions", len(r.sessions))
	return s
}

// Lookup сессия без создания
func (r *Registry) Lookup(id int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Len количество сессий
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// SweepExpired убирает истёкшие заказы во всех сессиях, возвращает сколько убрано
func (r *Registry) SweepExpired() int {
	cleared := 0
	for _, s := range r.snapshot() {
		if s.lifecycle.ClearIfExpired() {
			cleared++
		}
	}
	return cleared
}

// EvictIdle удаляет сессии без живого заказа, в которых давно ничего не происходило
func (r *Registry) EvictIdle() int {
	now := r.deps.Clock.Now()

	r.mu.Lock()
	var evicted []*Session
	for id, s := range r.sessions {
		if s.idle(now, r.cfg.IdleTTL) {
			delete(r.sessions, id)
			evicted = append(evicted, s)
		}
	}
	r.mu.Unlock()

	for _, s := range evicted {
		s.Close()
	}
	return len(evicted)
}

// Close останавливает поиск во всех сессиях
func (r *Registry) Close() {
	for _, s := range r.snapshot() {
		s.Close()
	}
}

func (r *Registry) snapshot() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

func (r *Registry) newSession(id int64) *Session {
	log := r.deps.Log.With("session_id", id)

	s := &Session{
		id:         id,
		clock:      r.deps.Clock,
		builder:    r.deps.Builder,
		dispatcher: r.deps.Dispatcher,
		events:     r.deps.Events,
		log:        log,
		view:       domain.ViewMain,
		lastSeen:   r.deps.Clock.Now(),
	}
	s.resolver = recipient.NewResolver(r.deps.Directory, r.deps.Clock, recipient.Config{
		QuietWindow:   r.cfg.DebounceWindow,
		LookupTimeout: r.cfg.LookupTimeout,
	}, log)
	s.lifecycle = order.NewLifecycle(r.deps.Clock, r.cfg.OrderTTL, r.deps.Sequence, s.observe)

	return s
}

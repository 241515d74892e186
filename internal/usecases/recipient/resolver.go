package recipient

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/ports/service"
)

const (
	DefaultQuietWindow   = 700 * time.Millisecond
	DefaultLookupTimeout = 10 * time.Second
)

// Status состояние поиска получателя
type Status string

const (
	StatusIdle     Status = "idle"
	StatusPending  Status = "pending"
	StatusFound    Status = "found"
	StatusNotFound Status = "not_found"
	StatusFailed   Status = "failed"
)

// State снимок резолвера. Seq растёт с каждым новым вводом, писать в State может только самый свежий запрос.
type State struct {
	Seq       uint64                    `json:"seq"`
	Handle    string                    `json:"handle,omitempty"`
	Status    Status                    `json:"status"`
	Recipient *domain.RecipientIdentity `json:"recipient,omitempty"`
	Code      string                    `json:"code,omitempty"`
}

// Resolved найден ли получатель
func (s State) Resolved() bool {
	return s.Status == StatusFound && s.Recipient != nil
}

type Config struct {
	QuietWindow   time.Duration
	LookupTimeout time.Duration
}

// Resolver ищет получателя по хендлу с дебаунсом и отбрасывает устаревшие ответы
type Resolver struct {
	lookup  service.IDirectoryService
	clock   clockwork.Clock
	quiet   time.Duration
	timeout time.Duration
	log     *slog.Logger

	mu     sync.Mutex
	seq    uint64
	timer  clockwork.Timer
	cancel context.CancelFunc
	state  State
}

// NewResolver создаёт резолвер, нулевые значения конфига заменяются дефолтами
func NewResolver(lookup service.IDirectoryService, clock clockwork.Clock, cfg Config, log *slog.Logger) *Resolver {
	if cfg.QuietWindow <= 0 {
		cfg.QuietWindow = DefaultQuietWindow
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = DefaultLookupTimeout
	}

	return &Resolver{
		lookup:  lookup,
		clock:   clock,
		quiet:   cfg.QuietWindow,
		timeout: cfg.LookupTimeout,
		log:     log,
		state:   State{Status: StatusIdle},
	}
}

// Resolve принимает очередной ввод пользователя. Короткий хендл сразу даёт NotFound без обращения к Telegram,
// иначе поиск откладывается на quiet window и заменяет собой предыдущий незавершённый.
func (r *Resolver) Resolve(raw string) State {
	handle := domain.NormalizeHandle(raw)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.seq++
	seq := r.seq

	if !domain.IsSearchableHandle(handle) {
		r.state = State{Seq: seq, Handle: handle, Status: StatusNotFound}
		return r.state
	}

	r.state = State{Seq: seq, Handle: handle, Status: StatusPending}
	r.timer = r.clock.AfterFunc(r.quiet, func() {
		r.fire(seq, handle)
	})

	return r.state
}

// State текущий снимок
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Cancel останавливает таймер и незавершённый поиск, сбрасывает найденного получателя
func (r *Resolver) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.seq++
	r.state = State{Seq: r.seq, Status: StatusIdle}
}

func (r *Resolver) stopLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Resolver) fire(seq uint64, handle string) {
	r.mu.Lock()
	if seq != r.seq {
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	r.timer = nil
	r.cancel = cancel
	r.mu.Unlock()

	defer cancel()

	recipient, err := r.lookup.Lookup(ctx, handle)
	r.apply(seq, handle, recipient, err)
}

func (r *Resolver) apply(seq uint64, handle string, recipient *domain.RecipientIdentity, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.seq {
		r.log.Debug("stale lookup result dropped", "handle", handle, "seq", seq, "current_seq", r.seq)
		return
	}
	r.cancel = nil

	switch {
	case err == nil && recipient != nil:
		r.state = State{Seq: seq, Handle: handle, Status: StatusFound, Recipient: recipient}
	case err == nil, errors.Is(err, domain.ErrRecipientNotFound):
		r.state = State{Seq: seq, Handle: handle, Status: StatusNotFound, Code: domain.CodeUserNotFound}
	default:
		r.log.Warn("recipient lookup failed", "handle", handle, "error", err)
		r.state = State{Seq: seq, Handle: handle, Status: StatusFailed, Code: domain.CodeLookupFailed}
	}
}

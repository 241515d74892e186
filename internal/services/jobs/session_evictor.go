package jobs

import (
	"context"
	"log/slog"
	"time"
)

const (
	sessionEvictorName = "session-evictor"

	DefaultEvictInterval = time.Minute
)

type idleEvictor interface {
	EvictIdle() int
}

// SessionEvictor удаляет простаивающие сессии без живого заказа
type SessionEvictor struct {
	sessions idleEvictor
	interval time.Duration
	log      *slog.Logger
}

func NewSessionEvictor(sessions idleEvictor, interval time.Duration, log *slog.Logger) *SessionEvictor {
	if interval <= 0 {
		interval = DefaultEvictInterval
	}
	return &SessionEvictor{
		sessions: sessions,
		interval: interval,
		log:      log,
	}
}

func (j *SessionEvictor) Name() string {
	return sessionEvictorName
}

func (j *SessionEvictor) NextRun(now time.Time) time.Time {
	return now.Add(j.interval)
}

func (j *SessionEvictor) RetryDelays() []time.Duration {
	return nil
}

func (j *SessionEvictor) Run(context.Context) error {
	if evicted := j.sessions.EvictIdle(); evicted > 0 {
		j.log.Info("idle sessions evicted", "count", evicted)
	}
	return nil
}

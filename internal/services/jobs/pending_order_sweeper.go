package jobs

import (
	"context"
	"log/slog"
	"time"
)

const (
	pendingOrderSweeperName = "pending-order-sweeper"

	DefaultSweepInterval = time.Second
)

type expiredSweeper interface {
	SweepExpired() int
}

// PendingOrderSweeper убирает истёкшие заказы во всех сессиях, раз в секунду
type PendingOrderSweeper struct {
	sessions expiredSweeper
	interval time.Duration
	log      *slog.Logger
}

func NewPendingOrderSweeper(sessions expiredSweeper, interval time.Duration, log *slog.Logger) *PendingOrderSweeper {
	if interval <= 0 || interval > DefaultSweepInterval {
		interval = DefaultSweepInterval
	}
	return &PendingOrderSweeper{
		sessions: sessions,
		interval: interval,
		log:      log,
	}
}

func (j *PendingOrderSweeper) Name() string {
	return pendingOrderSweeperName
}

func (j *PendingOrderSweeper) NextRun(now time.Time) time.Time {
	return now.Add(j.interval)
}

// RetryDelays сбой повторять не нужно, через секунду будет следующий проход
func (j *PendingOrderSweeper) RetryDelays() []time.Duration {
	return nil
}

func (j *PendingOrderSweeper) Run(context.Context) error {
	if cleared := j.sessions.SweepExpired(); cleared > 0 {
		j.log.Info("expired pending orders cleared", "count", cleared)
	}
	return nil
}

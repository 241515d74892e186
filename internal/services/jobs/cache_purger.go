package jobs

import (
	"context"
	"log/slog"
	"time"
)

const (
	cachePurgerName = "cache-purger"

	DefaultPurgeInterval = 5 * time.Minute
)

type purger interface {
	Purge() int
}

// CachePurger чистит истёкшие записи in-memory кэша (Redis удаляет их сам)
type CachePurger struct {
	cache    purger
	interval time.Duration
	log      *slog.Logger
}

func NewCachePurger(cache purger, interval time.Duration, log *slog.Logger) *CachePurger {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	return &CachePurger{
		cache:    cache,
		interval: interval,
		log:      log,
	}
}

func (j *CachePurger) Name() string {
	return cachePurgerName
}

func (j *CachePurger) NextRun(now time.Time) time.Time {
	return now.Add(j.interval)
}

func (j *CachePurger) Run(context.Context) error {
	if removed := j.cache.Purge(); removed > 0 {
		j.log.Debug("expired cache entries purged", "count", removed)
	}
	return nil
}

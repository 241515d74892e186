package jobs

import (
	"context"
	"time"
)

// Job представляет периодическую задачу, которую можно запланировать
type Job interface {
	Name() string
	NextRun(now time.Time) time.Time
	Run(ctx context.Context) error
}

// RetryPolicy джоба может сама задать паузы между повторами; без него используются дефолтные
type RetryPolicy interface {
	RetryDelays() []time.Duration
}

package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/YusufBro01/ymastar/internal/ports/jobs"
	"github.com/YusufBro01/ymastar/internal/ports/service"
)

// defaultRetryDelays паузы между повторами для джоб без своей RetryPolicy | now + 1m + 10m + 30m
var defaultRetryDelays = []time.Duration{
	1 * time.Minute,
	10 * time.Minute,
	30 * time.Minute,
}

// Scheduler управляет запуском периодических джоб
type Scheduler struct {
	clock          clockwork.Clock
	jobs           []jobs.Job
	alerterService service.IAlerterService
	log            *slog.Logger
	wg             sync.WaitGroup
}

// NewScheduler создаёт новый планировщик джоб, alerterService может быть nil
func NewScheduler(clock clockwork.Clock, log *slog.Logger, alerterService service.IAlerterService) *Scheduler {
	return &Scheduler{
		clock:          clock,
		jobs:           make([]jobs.Job, 0),
		alerterService: alerterService,
		log:            log,
	}
}

// Register регистрирует джобу в планировщике, до Start
func (s *Scheduler) Register(job jobs.Job) {
	s.jobs = append(s.jobs, job)
	s.log.Debug("job registered", "job_name", job.Name(), "total_jobs", len(s.jobs))
}

// Start запускает все зарегистрированные джобы в своих горутинах и сразу возвращается
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.jobs) == 0 {
		s.log.Warn("no jobs registered, scheduler not started")
		return nil
	}

	s.log.Info("starting job scheduler", "jobs_count", len(s.jobs))

	for _, job := range s.jobs {
		job := job
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runJob(ctx, job)
		}()
	}

	return nil
}

// Wait ждёт остановки всех джоб после отмены контекста Start
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// runJob запускает отдельную джобу в цикле
func (s *Scheduler) runJob(ctx context.Context, job jobs.Job) {
	jobName := job.Name()

	for {
		now := s.clock.Now()
		timer := s.clock.NewTimer(job.NextRun(now).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("job stopped by context", "job_name", jobName)
			return
		case <-timer.Chan():
			attemptErrors := s.executeJobWithRetry(ctx, job)
			if len(attemptErrors) == 0 {
				s.log.Debug("job executed successfully", "job_name", jobName)
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			s.log.Error("job failed after all retries",
				"job_name", jobName,
				"attempts", len(attemptErrors),
				"error", attemptErrors[len(attemptErrors)-1].err,
			)
			s.sendAlert(ctx, jobName, attemptErrors)
		}
	}
}

// jobAttemptError ошибка конкретной попытки выполнения джобы
type jobAttemptError struct {
	attempt int
	err     error
}

// executeJobWithRetry пустой результат - джоба в итоге отработала
func (s *Scheduler) executeJobWithRetry(ctx context.Context, job jobs.Job) []jobAttemptError {
	retries := defaultRetryDelays
	if policy, ok := job.(jobs.RetryPolicy); ok {
		retries = policy.RetryDelays()
	}

	var attemptErrors []jobAttemptError
	for attempt := 1; ; attempt++ {
		err := job.Run(ctx)
		if err == nil {
			return nil
		}
		attemptErrors = append(attemptErrors, jobAttemptError{attempt: attempt, err: err})

		if attempt > len(retries) {
			return attemptErrors
		}

		s.log.Warn("job execution failed, will retry",
			"job_name", job.Name(),
			"attempt", attempt,
			"retries_remaining", len(retries)-attempt+1,
			"error", err,
		)

		timer := s.clock.NewTimer(retries[attempt-1])
		select {
		case <-ctx.Done():
			timer.Stop()
			return attemptErrors
		case <-timer.Chan():
		}
	}
}

// sendAlert алертит на финальную ошибку после ретраев
func (s *Scheduler) sendAlert(ctx context.Context, jobName string, attemptErrors []jobAttemptError) {
	if s.alerterService == nil {
		return
	}

	var errorLines []string
	for _, attemptErr := range attemptErrors {
		errorLines = append(errorLines, fmt.Sprintf("Попытка %d: %s", attemptErr.attempt, attemptErr.err))
	}

	var message strings.Builder
	message.WriteString("⚠️ Финальная ошибка планировщика, ретраи исчерпаны\n\n")
	message.WriteString(fmt.Sprintf("Джоба: %s\n\n", jobName))
	message.WriteString("Ошибки попыток:\n")
	message.WriteString(strings.Join(errorLines, "\n"))

	if alertErr := s.alerterService.SendAlert(ctx, message.String()); alertErr != nil {
		s.log.Warn("failed to send job failure alert",
			"job_name", jobName,
			"error", alertErr,
		)
	}
}

package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind labels the background rendering work this API performs.
type Kind string

const (
	// KindOfficialReport renders the department load-distribution sheet.
	KindOfficialReport Kind = "official_report"
	// KindInstanceExport renders the canonical CSV bundle of an instance.
	KindInstanceExport Kind = "instance_export"
)

// ErrQueueFull is returned when the render buffer has no room; callers
// surface it instead of blocking an HTTP request on a busy worker pool.
var ErrQueueFull = errors.New("render queue full")

// Job is one queued rendering task. ResultID and Format travel with the
// job so log lines and retries stay attributable without a store lookup.
type Job struct {
	ID       string
	Kind     Kind
	ResultID string
	Format   string
	Attempt  int
	Enqueued time.Time
}

// Handler renders one job of a registered kind.
type Handler func(context.Context, Job) error

// Config configures worker pool behaviour. BaseDelay seeds the
// exponential retry backoff: a report that failed because its result
// was still being written is worth retrying soon, a render bug is not,
// so delays double per attempt up to maxRetryDelay.
type Config struct {
	Workers    int
	BufferSize int
	MaxRetries int
	BaseDelay  time.Duration
	Logger     *zap.Logger
}

const maxRetryDelay = 30 * time.Second

// Queue dispatches rendering jobs to the handler registered for their
// kind. Handlers must be registered before Start.
type Queue struct {
	name     string
	handlers map[Kind]Handler

	workers    int
	maxRetries int
	baseDelay  time.Duration
	logger     *zap.Logger

	jobs    chan Job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewQueue builds an empty queue; register handlers before starting it.
func NewQueue(name string, cfg Config) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue{
		name:       name,
		handlers:   make(map[Kind]Handler),
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		logger:     cfg.Logger,
		jobs:       make(chan Job, cfg.BufferSize),
	}
}

// Register binds a handler to a job kind. Jobs of unregistered kinds
// are rejected at Enqueue.
func (q *Queue) Register(kind Kind, handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[kind] = handler
}

// Start begins worker consumption. Safe to call once.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Sugar().Infow("render queue started", "queue", q.name, "workers", q.workers, "kinds", len(q.handlers))
}

// Stop cancels workers and waits for them to exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.logger.Sugar().Infow("render queue stopped", "queue", q.name)
}

// Enqueue pushes a job without blocking: a full buffer returns
// ErrQueueFull so the API can answer 500 instead of hanging.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	ctx := q.ctx
	started := q.started
	_, known := q.handlers[job.Kind]
	q.mu.Unlock()

	if !started {
		return fmt.Errorf("queue %s not started", q.name)
	}
	if !known {
		return fmt.Errorf("queue %s has no handler for kind %q", q.name, job.Kind)
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("queue %s stopped: %w", q.name, ctx.Err())
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			q.mu.Lock()
			handler := q.handlers[job.Kind]
			q.mu.Unlock()
			if handler == nil {
				q.logger.Sugar().Errorw("dropping job with no handler", "queue", q.name, "job_id", job.ID, "kind", job.Kind)
				continue
			}
			if err := handler(q.ctx, job); err != nil {
				q.retry(job, err)
			}
		}
	}
}

// retry requeues a failed job after an exponentially growing delay.
func (q *Queue) retry(job Job, err error) {
	job.Attempt++
	if job.Attempt > q.maxRetries {
		q.logger.Sugar().Errorw("render job exceeded retries",
			"queue", q.name, "job_id", job.ID, "kind", job.Kind, "result_id", job.ResultID, "error", err)
		return
	}

	delay := q.baseDelay << (job.Attempt - 1)
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	q.logger.Sugar().Warnw("render job failed, retrying",
		"queue", q.name, "job_id", job.ID, "kind", job.Kind, "result_id", job.ResultID,
		"attempt", job.Attempt, "delay", delay, "error", err)

	go func(j Job, wait time.Duration) {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
			return
		case <-timer.C:
			if err := q.Enqueue(j); err != nil {
				q.logger.Sugar().Errorw("failed to requeue render job", "queue", q.name, "job_id", j.ID, "error", err)
			}
		}
	}(job, delay)
}

package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/restaurant/internal/domain/errors"
	"github.com/polkiloo/restaurant/internal/domain/model"
	"github.com/polkiloo/restaurant/internal/metrics"
	"github.com/polkiloo/restaurant/internal/notify"
)

// ErrQueueStopped is returned for messages submitted after Stop.
var ErrQueueStopped = errors.New("mail queue is stopped")

// MailQueueOptions tune the background delivery pool.
type MailQueueOptions struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	RetryDelay  time.Duration
	// Timeout bounds every single delivery attempt.
	Timeout time.Duration
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// MailQueue delivers messages in the background with a fixed worker pool.
// Failed deliveries are retried with a linearly growing delay.
type MailQueue struct {
	sender      notify.Sender
	workers     int
	maxAttempts int
	retryDelay  time.Duration
	timeout     time.Duration
	metrics     *metrics.Metrics
	logger      *slog.Logger

	jobs    chan model.Message
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.RWMutex
	stopped bool
}

// NewMailQueue constructs a queue in front of sender.
func NewMailQueue(sender notify.Sender, opts MailQueueOptions) *MailQueue {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &MailQueue{
		sender:      sender,
		workers:     opts.Workers,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
		timeout:     opts.Timeout,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		jobs:        make(chan model.Message, opts.QueueSize),
	}
}

// Send enqueues msg without blocking. A full queue yields notify.ErrQueueFull.
func (q *MailQueue) Send(_ context.Context, msg model.Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.stopped {
		return ErrQueueStopped
	}
	select {
	case q.jobs <- msg:
		return nil
	default:
		return notify.ErrQueueFull
	}
}

// Start launches the workers. Their lifetime is controlled by Stop, not by ctx cancellation.
func (q *MailQueue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cancel != nil || q.stopped {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	q.cancel = cancel

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(runCtx)
	}
}

// Stop refuses new messages and waits for queued ones to be delivered.
// When ctx expires first, pending retries are abandoned.
func (q *MailQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return nil
	}
	q.stopped = true
	close(q.jobs)
	cancel := q.cancel
	q.mu.Unlock()

	if cancel == nil {
		return nil
	}
	defer cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	}
}

// Pending reports the number of queued messages.
func (q *MailQueue) Pending() int {
	return len(q.jobs)
}

func (q *MailQueue) worker(ctx context.Context) {
	defer q.wg.Done()
	for msg := range q.jobs {
		q.deliver(ctx, msg)
	}
}

func (q *MailQueue) deliver(ctx context.Context, msg model.Message) {
	log := q.logger.With(slog.String("event", string(msg.Event)))

	for attempt := 1; ; attempt++ {
		err := q.attempt(ctx, msg)
		if err == nil {
			q.metrics.Notification(msg.Event, metrics.OutcomeSent)
			log.Debug("notification delivered", slog.Int("attempt", attempt))
			return
		}

		if errors.Is(err, domainErrors.ErrInvalidMessage) {
			q.metrics.Notification(msg.Event, metrics.OutcomeRejected)
			log.Warn("notification rejected", slog.String("error", err.Error()))
			return
		}

		if attempt >= q.maxAttempts || ctx.Err() != nil {
			q.metrics.Notification(msg.Event, metrics.OutcomeFailed)
			log.Error("notification delivery failed", slog.Int("attempts", attempt), slog.String("error", err.Error()))
			return
		}

		q.metrics.Notification(msg.Event, metrics.OutcomeRetried)
		delay := q.retryDelay * time.Duration(attempt)
		log.Warn("notification delivery retry", slog.Int("attempt", attempt), slog.Duration("delay", delay), slog.String("error", err.Error()))

		if !sleep(ctx, delay) {
			q.metrics.Notification(msg.Event, metrics.OutcomeFailed)
			log.Error("notification abandoned on shutdown", slog.Int("attempts", attempt))
			return
		}
	}
}

func (q *MailQueue) attempt(ctx context.Context, msg model.Message) error {
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	return q.sender.Send(ctx, msg)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

var _ notify.Sender = (*MailQueue)(nil)

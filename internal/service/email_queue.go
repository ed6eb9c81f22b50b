package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"farmshare-backend/internal/logger"
)

// ErrQueueFull is returned by EmailQueue.Send when the buffer has no room
var ErrQueueFull = errors.New("email queue is full")

// ErrQueueStopped is returned by EmailQueue.Send after Stop
var ErrQueueStopped = errors.New("email queue is stopped")

// emailJob represents an email to be sent asynchronously
type emailJob struct {
	id        string
	toEmail   string
	toName    string
	subject   string
	body      string
	retries   int
	createdAt time.Time
}

// EmailQueue is an EmailSender that hands messages to background workers
// and retries failed deliveries with quadratic backoff.
type EmailQueue struct {
	sender      EmailSender
	jobs        chan emailJob
	maxRetries  int
	sendTimeout time.Duration
	backoff     func(attempt int) time.Duration
	ids         IDGen

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func NewEmailQueue(sender EmailSender, queueSize, maxRetries int) *EmailQueue {
	return &EmailQueue{
		sender:      sender,
		jobs:        make(chan emailJob, queueSize),
		maxRetries:  maxRetries,
		sendTimeout: 30 * time.Second,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt*attempt) * time.Second
		},
		ids: NewULIDGen(),
	}
}

// Start launches workers that run until Stop. Cancelling ctx abandons
// pending retries but queued messages are still delivered once.
func (q *EmailQueue) Start(ctx context.Context, workers int) {
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

func (q *EmailQueue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	logger.Debug("Email worker started", "worker", id)
	for job := range q.jobs {
		q.process(ctx, job)
	}
	logger.Debug("Email worker stopped", "worker", id)
}

func (q *EmailQueue) process(ctx context.Context, job emailJob) {
	for {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.sendTimeout)
		err := q.sender.Send(sendCtx, job.toEmail, job.toName, job.subject, job.body)
		cancel()
		if err == nil {
			logger.Info("Queued email sent", "id", job.id, "to", job.toEmail,
				"attempts", job.retries+1, "queued_for", time.Since(job.createdAt))
			return
		}

		if job.retries >= q.maxRetries {
			logger.Error("Email dropped after retries", "id", job.id, "to", job.toEmail,
				"retries", job.retries, "error", err)
			return
		}
		job.retries++
		wait := q.backoff(job.retries)
		logger.Warn("Retrying email", "id", job.id, "to", job.toEmail,
			"attempt", job.retries, "max_retries", q.maxRetries, "in", wait, "error", err)

		select {
		case <-ctx.Done():
			logger.Warn("Email retry abandoned on shutdown", "id", job.id, "to", job.toEmail)
			return
		case <-time.After(wait):
		}
	}
}

// Send enqueues a message without blocking
func (q *EmailQueue) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return ErrQueueStopped
	}

	now := time.Now()
	job := emailJob{
		id:        q.ids.NewID(now),
		toEmail:   toEmail,
		toName:    toName,
		subject:   subject,
		body:      body,
		createdAt: now,
	}
	select {
	case q.jobs <- job:
		logger.Debug("Email queued", "id", job.id, "to", toEmail)
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new messages and waits for the workers to drain the queue
func (q *EmailQueue) Stop() {
	q.mu.Lock()
	if !q.stopped {
		q.stopped = true
		close(q.jobs)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

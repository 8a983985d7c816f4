package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"sitetrack/models"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// ErrNoHandler is returned when work is submitted before Bind.
var ErrNoHandler = errors.New("tasks: no handler bound to pool")

// Handler runs notification jobs.
type Handler interface {
	HandleProcurementEvent(ctx context.Context, event models.NotificationEvent)
	HandleReceiptCheck(ctx context.Context, payload models.ReceiptCheckPayload)
}

// PoolSubmitter runs notification jobs on an in-process goroutine pool, detached from
// the submitting request. It backs QUEUE_MODE=inline.
type PoolSubmitter struct {
	pool   *ants.Pool
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	mu      sync.RWMutex
	handler Handler
	timers  map[*time.Timer]struct{}
	closed  bool
}

// NewPoolSubmitter creates a pool of size workers; size <= 0 means unbounded. Submission
// never waits for a free worker: a full bounded pool rejects with ants.ErrPoolOverload.
// Jobs run under a context derived from parent, not from the request that submitted them.
func NewPoolSubmitter(parent context.Context, size int, logger *zap.Logger) (*PoolSubmitter, error) {
	if logger == nil {
		logger = zap.L()
	}
	if size <= 0 {
		size = -1
	}
	pool, err := ants.NewPool(size,
		ants.WithPanicHandler(func(p interface{}) {
			logger.Error("notification worker panic recovered", zap.Any("panic", p), zap.Stack("stack"))
		}),
		ants.WithNonblocking(true),
	)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(parent)
	return &PoolSubmitter{
		pool:   pool,
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
		timers: make(map[*time.Timer]struct{}),
	}, nil
}

// Bind sets the handler that runs submitted jobs.
func (p *PoolSubmitter) Bind(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = h
}

func (p *PoolSubmitter) boundHandler() (Handler, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.handler == nil {
		return nil, ErrNoHandler
	}
	return p.handler, nil
}

// SubmitEvent queues the event on the pool and returns a generated job id.
func (p *PoolSubmitter) SubmitEvent(_ context.Context, event models.NotificationEvent) (string, error) {
	h, err := p.boundHandler()
	if err != nil {
		return "", err
	}
	jobID := uuid.NewString()
	err = p.pool.Submit(func() {
		h.HandleProcurementEvent(p.ctx, event)
	})
	if err != nil {
		return "", err
	}
	return jobID, nil
}

// ScheduleReceiptCheck arms a timer that submits the check to the pool after delay.
func (p *PoolSubmitter) ScheduleReceiptCheck(_ context.Context, payload models.ReceiptCheckPayload, delay time.Duration) error {
	h, err := p.boundHandler()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ants.ErrPoolClosed
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		p.mu.Lock()
		delete(p.timers, timer)
		p.mu.Unlock()

		if err := p.pool.Submit(func() { h.HandleReceiptCheck(p.ctx, payload) }); err != nil {
			p.logger.Warn("receipt check dropped",
				zap.String("request_id", payload.RequestID),
				zap.Error(err),
			)
		}
	})
	p.timers[timer] = struct{}{}
	return nil
}

// Close stops pending receipt timers and waits up to timeout for running jobs.
func (p *PoolSubmitter) Close(timeout time.Duration) error {
	p.mu.Lock()
	p.closed = true
	for t := range p.timers {
		t.Stop()
	}
	p.timers = map[*time.Timer]struct{}{}
	p.mu.Unlock()

	defer p.cancel()
	return p.pool.ReleaseTimeout(timeout)
}

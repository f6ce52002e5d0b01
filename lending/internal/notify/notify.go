// Package notify delivers lending notices to the notification service over kafka.
// Delivery is fire-and-forget for the caller: Notify only enqueues.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/pkg/kafka"
	"github.com/Astemirdum/library-lending/pkg/retry"
	"go.uber.org/zap"
)

const (
	defaultQueueSize = 256
	defaultDedupTTL  = 24 * time.Hour
)

// Deduper claims a notice key so the same notice is sent at most once per ttl.
type Deduper interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Dispatcher struct {
	pub      kafka.Publisher
	dedup    Deduper
	log      *zap.Logger
	queue    chan model.Notification
	retry    []retry.Option
	dedupTTL time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

type Option func(*Dispatcher)

func WithQueueSize(n int) Option {
	return func(d *Dispatcher) { d.queue = make(chan model.Notification, n) }
}

func WithRetry(opts ...retry.Option) Option {
	return func(d *Dispatcher) { d.retry = opts }
}

func NewDispatcher(pub kafka.Publisher, dedup Deduper, log *zap.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		pub:      pub,
		dedup:    dedup,
		log:      log.Named("notify"),
		queue:    make(chan model.Notification, defaultQueueSize),
		retry:    []retry.Option{retry.WithMaxAttempts(5), retry.WithBaseDelay(500 * time.Millisecond)},
		dedupTTL: defaultDedupTTL,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notify enqueues n without blocking. A full queue drops the notice with a warning.
func (d *Dispatcher) Notify(_ context.Context, n model.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("dispatcher closed, notice dropped", zap.String("type", string(n.Type)), zap.String("loan", n.LoanID))
		return
	}
	select {
	case d.queue <- n:
	default:
		d.log.Warn("queue full, notice dropped", zap.String("type", string(n.Type)), zap.String("loan", n.LoanID))
	}
}

// Run delivers queued notices until Close is called and the queue is drained.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for n := range d.queue {
		d.deliver(ctx, n)
	}
}

// Close stops accepting notices and waits for Run to drain the queue or ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n model.Notification) {
	log := d.log.With(zap.String("type", string(n.Type)), zap.String("loan", n.LoanID), zap.String("user", n.UserID))
	if n.DedupKey != "" {
		ok, err := d.dedup.Claim(ctx, n.DedupKey, d.dedupTTL)
		if err != nil {
			log.Warn("dedup claim, sending anyway", zap.Error(err))
		} else if !ok {
			log.Debug("duplicate notice skipped")
			return
		}
	}

	err := retry.Do(ctx, func(context.Context) error {
		return d.pub.Publish(kafka.NotificationTopic, n.UserID, n)
	}, d.retry...)
	if err != nil {
		log.Error("notice not delivered", zap.Error(err))
		if n.DedupKey != "" {
			if err := d.dedup.Release(ctx, n.DedupKey); err != nil {
				log.Warn("dedup release", zap.Error(err))
			}
		}
		return
	}
	log.Debug("notice delivered")
}

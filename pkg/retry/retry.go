package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultMaxDelay     = 10 * time.Second
	defaultJitterFactor = 0.3
	multiplier          = 2
)

var (
	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
	ErrNegativeBaseDelay   = errors.New("base delay must not be negative")
	ErrInvalidMaxDelay     = errors.New("max delay must be positive")
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
	ErrNilRetryIf          = errors.New("retry predicate must not be nil")
)

type Func func(ctx context.Context) error

type config struct {
	maxAttempts  int // 0 is unlimited
	baseDelay    time.Duration
	maxDelay     time.Duration
	jitterFactor float64
	retryIf      func(error) bool
}

// Do runs fn with exponential backoff: base, 2*base, 4*base, ... randomized by the jitter factor.
// Errors rejected by the retry predicate are returned immediately; context errors are never retried.
func Do(ctx context.Context, fn Func, options ...Option) error {
	cfg := &config{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		maxDelay:     defaultMaxDelay,
		jitterFactor: defaultJitterFactor,
		retryIf:      func(error) bool { return true },
	}
	for _, option := range options {
		if err := option(cfg); err != nil {
			return err
		}
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.baseDelay
	exp.MaxInterval = cfg.maxDelay
	exp.RandomizationFactor = cfg.jitterFactor
	exp.Multiplier = multiplier
	exp.MaxElapsedTime = 0

	var b backoff.BackOff = exp
	if cfg.maxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(cfg.maxAttempts-1))
	}

	return backoff.Retry(func() error {
		err := fn(ctx)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return backoff.Permanent(err)
		case !cfg.retryIf(err):
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}

type Option func(*config) error

func WithMaxAttempts(attempts int) Option {
	return func(c *config) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = attempts
		return nil
	}
}

// WithoutAttemptLimit retries until fn succeeds, fails permanently or ctx is done.
func WithoutAttemptLimit() Option {
	return func(c *config) error {
		c.maxAttempts = 0
		return nil
	}
}

func WithBaseDelay(delay time.Duration) Option {
	return func(c *config) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}
		c.baseDelay = delay
		return nil
	}
}

func WithMaxDelay(delay time.Duration) Option {
	return func(c *config) error {
		if delay <= 0 {
			return ErrInvalidMaxDelay
		}
		c.maxDelay = delay
		return nil
	}
}

func WithJitterFactor(factor float64) Option {
	return func(c *config) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}
		c.jitterFactor = factor
		return nil
	}
}

// WithRetryIf limits retries to errors matching the predicate.
func WithRetryIf(retryIf func(error) bool) Option {
	return func(c *config) error {
		if retryIf == nil {
			return ErrNilRetryIf
		}
		c.retryIf = retryIf
		return nil
	}
}

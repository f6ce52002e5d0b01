package service

import (
	"context"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/fine"
	"github.com/Astemirdum/library-lending/lending/internal/inventory"
	"github.com/Astemirdum/library-lending/lending/internal/loan"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/policy"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
	"github.com/Astemirdum/library-lending/pkg/retry"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type AccountProvider interface {
	Account(ctx context.Context, userID string) (model.Account, error)
}

type PricingProvider interface {
	// Price reports ok=false when the title has no external price.
	Price(ctx context.Context, titleID string) (model.Money, bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

const (
	defaultOpTimeout = 10 * time.Second
	popularTitles    = 5
)

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	ledger    *inventory.Ledger
	loans     *loan.Machine
	fines     *fine.Calculator
	policy    policy.Policy
	accounts  AccountProvider
	pricing   PricingProvider
	notifier  Notifier
	opTimeout time.Duration
	now       func() time.Time
	retry     []retry.Option
}

type Option func(*Service)

// WithClock replaces the wall clock read once at the start of each operation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithOpTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.opTimeout = d
		}
	}
}

func NewService(
	repo repository.Repository,
	accounts AccountProvider,
	pricing PricingProvider,
	notifier Notifier,
	p policy.Policy,
	log *zap.Logger,
	opts ...Option,
) *Service {
	log = log.Named("service")
	s := &Service{
		log:       log,
		repo:      repo,
		ledger:    inventory.NewLedger(log),
		loans:     loan.NewMachine(p),
		fines:     fine.NewCalculator(p),
		policy:    p,
		accounts:  accounts,
		pricing:   pricing,
		notifier:  notifier,
		opTimeout: defaultOpTimeout,
		now:       time.Now,
		retry: []retry.Option{
			retry.WithMaxAttempts(5),
			retry.WithBaseDelay(5 * time.Millisecond),
			retry.WithRetryIf(func(err error) bool {
				return errors.Is(err, errs.ErrConcurrencyConflict)
			}),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// begin bounds the operation and captures the single now it works with.
func (s *Service) begin(ctx context.Context) (context.Context, context.CancelFunc, time.Time) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	return ctx, cancel, s.now()
}

// withinTx runs fn in one transaction, rerunning it when a compare-and-swap lost a race.
func (s *Service) withinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return retry.Do(ctx, func(ctx context.Context) error {
		return s.repo.WithinTx(ctx, fn)
	}, s.retry...)
}

// fail logs bookkeeping violations loudly before handing err back.
func (s *Service) fail(op string, err error, fields ...zap.Field) error {
	if errs.KindOf(err) == errs.KindInvariant {
		s.log.Error(op+": invariant violated", append(fields, zap.Error(err))...)
	}
	return err
}

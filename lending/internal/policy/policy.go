package policy

import (
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/pkg/errors"
)

const day = 24 * time.Hour

const (
	DefaultLoanPeriod  = 14 * day
	MaxLoanPeriod      = 30 * day
	DefaultMaxRenewals = 2
	DefaultFinePerDay  = model.Money(5000)
	DefaultLostFactor  = 2
	DefaultDamagedFee  = model.Money(50000)
	DefaultReminder    = 3 * day
	DefaultBorrowLimit = 3
)

var ErrInvalidPolicy = errors.New("invalid lending policy")

// Policy is the immutable rule set shared by the engine and the fine calculator.
// Build it with New; the zero value is not usable.
type Policy struct {
	defaultLoanPeriod time.Duration
	maxLoanPeriod     time.Duration
	maxRenewals       int
	finePerDay        model.Money
	lostMultiplier    int64
	damagedFee        model.Money
	reminderBefore    time.Duration
	borrowLimits      map[model.Role]int
	defaultLimit      int
}

type Option func(*Policy)

func WithDefaultLoanPeriod(d time.Duration) Option {
	return func(p *Policy) { p.defaultLoanPeriod = d }
}

func WithMaxLoanPeriod(d time.Duration) Option {
	return func(p *Policy) { p.maxLoanPeriod = d }
}

func WithMaxRenewals(n int) Option {
	return func(p *Policy) { p.maxRenewals = n }
}

func WithFinePerDay(m model.Money) Option {
	return func(p *Policy) { p.finePerDay = m }
}

func WithLostMultiplier(k int64) Option {
	return func(p *Policy) { p.lostMultiplier = k }
}

func WithDamagedFee(m model.Money) Option {
	return func(p *Policy) { p.damagedFee = m }
}

func WithReminderBefore(d time.Duration) Option {
	return func(p *Policy) { p.reminderBefore = d }
}

func WithBorrowLimit(role model.Role, n int) Option {
	return func(p *Policy) { p.borrowLimits[role] = n }
}

func WithDefaultBorrowLimit(n int) Option {
	return func(p *Policy) { p.defaultLimit = n }
}

func New(opts ...Option) (Policy, error) {
	p := Policy{
		defaultLoanPeriod: DefaultLoanPeriod,
		maxLoanPeriod:     MaxLoanPeriod,
		maxRenewals:       DefaultMaxRenewals,
		finePerDay:        DefaultFinePerDay,
		lostMultiplier:    DefaultLostFactor,
		damagedFee:        DefaultDamagedFee,
		reminderBefore:    DefaultReminder,
		borrowLimits: map[model.Role]int{
			model.RoleMember:    3,
			model.RoleLibrarian: 10,
			model.RoleAdmin:     20,
		},
		defaultLimit: DefaultBorrowLimit,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Default is the stock policy. It panics only if the built-in constants are inconsistent.
func Default() Policy {
	p, err := New()
	if err != nil {
		panic(err)
	}
	return p
}

func (p Policy) validate() error {
	switch {
	case p.defaultLoanPeriod <= 0:
		return errors.Wrap(ErrInvalidPolicy, "default loan period must be positive")
	case p.maxLoanPeriod < p.defaultLoanPeriod:
		return errors.Wrap(ErrInvalidPolicy, "max loan period is shorter than the default")
	case p.maxRenewals < 0:
		return errors.Wrap(ErrInvalidPolicy, "max renewals is negative")
	case p.finePerDay < 0 || p.damagedFee < 0 || p.lostMultiplier < 0:
		return errors.Wrap(ErrInvalidPolicy, "fine rates must not be negative")
	case p.reminderBefore < 0:
		return errors.Wrap(ErrInvalidPolicy, "reminder window is negative")
	case p.defaultLimit < 0:
		return errors.Wrap(ErrInvalidPolicy, "default borrow limit is negative")
	}
	for role, n := range p.borrowLimits {
		if n < 0 {
			return errors.Wrapf(ErrInvalidPolicy, "borrow limit for %s is negative", role)
		}
	}
	return nil
}

func (p Policy) DefaultLoanPeriod() time.Duration { return p.defaultLoanPeriod }

func (p Policy) MaxLoanPeriod() time.Duration { return p.maxLoanPeriod }

func (p Policy) MaxRenewals() int { return p.maxRenewals }

func (p Policy) FinePerDay() model.Money { return p.finePerDay }

func (p Policy) LostMultiplier() int64 { return p.lostMultiplier }

func (p Policy) DamagedFee() model.Money { return p.damagedFee }

func (p Policy) ReminderBefore() time.Duration { return p.reminderBefore }

// MaxBooks is the number of concurrent open loans allowed for role.
func (p Policy) MaxBooks(role model.Role) int {
	if n, ok := p.borrowLimits[role]; ok {
		return n
	}
	return p.defaultLimit
}

// CanBorrow reports whether a borrower holding openLoans may take one more.
func (p Policy) CanBorrow(role model.Role, openLoans int) bool {
	return openLoans < p.MaxBooks(role)
}

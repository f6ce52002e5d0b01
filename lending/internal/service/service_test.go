package service_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/policy"
	"github.com/Astemirdum/library-lending/lending/internal/provider"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
	"github.com/Astemirdum/library-lending/lending/internal/service"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const day = 24 * time.Hour

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type accounts struct {
	roles    map[string]model.Role
	inactive map[string]bool
}

func (a accounts) Account(_ context.Context, userID string) (model.Account, error) {
	role, ok := a.roles[userID]
	if !ok {
		role = model.RoleMember
	}
	return model.Account{Username: userID, Role: role, Active: !a.inactive[userID]}, nil
}

type countingAccounts struct {
	accounts
	lookups atomic.Int32
}

func (a *countingAccounts) Account(ctx context.Context, userID string) (model.Account, error) {
	a.lookups.Add(1)
	return a.accounts.Account(ctx, userID)
}

type pricing struct {
	prices map[string]model.Money
	err    error
}

func (p pricing) Price(_ context.Context, titleID string) (model.Money, bool, error) {
	if p.err != nil {
		return 0, false, p.err
	}
	price, ok := p.prices[titleID]
	return price, ok, nil
}

type notifier struct {
	mu      sync.Mutex
	notices []model.Notification
}

func (n *notifier) Notify(_ context.Context, notice model.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *notifier) sent() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.Notification(nil), n.notices...)
}

type env struct {
	svc      *service.Service
	repo     repository.Repository
	clock    *clock
	notifier *notifier
	pricing  *pricing
}

func newEnv(t *testing.T, accts service.AccountProvider) *env {
	t.Helper()
	e := &env{
		repo:     repository.NewMemoryRepository(zap.NewNop()),
		clock:    &clock{now: time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)},
		notifier: &notifier{},
		pricing:  &pricing{},
	}
	e.svc = service.NewService(e.repo, accts, e.pricing, e.notifier, policy.Default(), zap.NewNop(),
		service.WithClock(e.clock.Now))
	return e
}

func (e *env) addTitle(t *testing.T, copies int, price model.Money) model.Title {
	t.Helper()
	title, err := e.svc.AddTitle(context.Background(), model.Title{Name: "Dune", TotalCopies: copies, Price: price})
	require.NoError(t, err)
	return title
}

func (e *env) copies(t *testing.T, titleID string) model.Availability {
	t.Helper()
	a, err := e.svc.Availability(context.Background(), titleID)
	require.NoError(t, err)
	return a
}

func TestService_RoundTrip(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{})
	ctx := context.Background()
	title := e.addTitle(t, 2, 100000)

	loan, err := e.svc.Borrow(ctx, "alice", title.ID, nil, "front desk")
	require.NoError(t, err)
	require.Equal(t, model.StatusBorrowed, loan.Status)
	require.Equal(t, e.clock.Now().Add(policy.DefaultLoanPeriod), loan.DueAt)
	require.Equal(t, 1, e.copies(t, title.ID).AvailableCopies)

	e.clock.Advance(3 * day)
	res, err := e.svc.ReturnBook(ctx, loan.ID, model.ConditionGood, 0, "")
	require.NoError(t, err)
	require.Equal(t, model.Money(0), res.FineCharged)
	require.Empty(t, res.Fines)
	require.Equal(t, model.StatusReturned, res.Loan.Status)
	require.Equal(t, 2, e.copies(t, title.ID).AvailableCopies)
	require.Empty(t, e.notifier.sent())

	_, err = e.svc.ReturnBook(ctx, loan.ID, model.ConditionGood, 0, "")
	require.ErrorIs(t, err, errs.ErrAlreadyReturned)
	require.Equal(t, 2, e.copies(t, title.ID).AvailableCopies)
}

func TestService_OverdueFine(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{})
	ctx := context.Background()
	title := e.addTitle(t, 1, 100000)

	loan, err := e.svc.Borrow(ctx, "alice", title.ID, nil, "")
	require.NoError(t, err)

	e.clock.Advance(policy.DefaultLoanPeriod + 5*day)
	got, err := e.svc.GetLoan(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusOverdue, got.Status)
	require.Equal(t, 5, got.OverdueDays)

	res, err := e.svc.ReturnBook(ctx, loan.ID, model.ConditionGood, 0, "")
	require.NoError(t, err)
	require.Equal(t, model.Money(25000), res.FineCharged)
	require.Equal(t, model.Money(25000), res.Loan.FineAmount)
	require.Len(t, res.Fines, 1)
	require.Equal(t, model.ReasonOverdue, res.Fines[0].Reason)

	fines, err := e.svc.ListFines(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, fines, 1)
	require.Equal(t, model.Money(25000), fines[0].Amount)

	sent := e.notifier.sent()
	require.Len(t, sent, 1)
	require.Equal(t, model.NotificationFine, sent[0].Type)
	require.Equal(t, "alice", sent[0].UserID)
}

func TestService_DamagedWithAdditionalFine(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{})
	ctx := context.Background()
	title := e.addTitle(t, 1, 100000)

	loan, err := e.svc.Borrow(ctx, "alice", title.ID, nil, "")
	require.NoError(t, err)
	e.clock.Advance(policy.DefaultLoanPeriod + 2*day)

	res, err := e.svc.ReturnBook(ctx, loan.ID, model.ConditionDamaged, 7000, "coffee stains")
	require.NoError(t, err)
	require.Equal(t, model.Money(10000+50000+7000), res.FineCharged)
	require.Len(t, res.Fines, 3)
	require.Equal(t, 1, e.copies(t, title.ID).AvailableCopies)
}

func TestService_LostSupersedesOverdue(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{})
	ctx := context.Background()
	title := e.addTitle(t, 3, 100000)

	loan, err := e.svc.Borrow(ctx, "alice", title.ID, nil, "")
	require.NoError(t, err)
	before := e.copies(t, title.ID)
	require.Equal(t, 3, before.TotalCopies)
	require.Equal(t, 2, before.AvailableCopies)

	e.clock.Advance(policy.DefaultLoanPeriod + 10*day)
	res, err := e.svc.MarkLost(ctx, loan.ID, "")
	require.NoError(t, err)
	require.Equal(t, model.Money(200000), res.FineCharged)
	require.Equal(t, model.StatusLost, res.Loan.Status)
	require.Len(t, res.Fines, 1)
	require.Equal(t, model.ReasonLost, res.Fines[0].Reason)

	after := e.copies(t, title.ID)
	require.Equal(t, 2, after.TotalCopies)
	require.Equal(t, before.AvailableCopies, after.AvailableCopies)
	require.Equal(t, 0, after.OnLoan)
}

func TestService_LostUsesExternalPrice(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{})
	ctx := context.Background()
	title := e.addTitle(t, 1, 100000)
	e.pricing.prices = map[string]model.Money{title.ID: 80000}

	loan, err := e.svc.Borrow(ctx, "alice", title.ID, nil, "")
	require.NoError(t, err)
	res, err := e.svc.MarkLost(ctx, loan.ID, "")
	require.NoError(t, err)
	require.Equal(t, model.Money(160000), res.FineCharged)
}

func TestService_LostFallsBackWhenPricingFails(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{})
	ctx := context.Background()
	title := e.addTitle(t, 1, 100000)
	e.pricing.err = errors.New("pricing down")

	loan, err := e.svc.Borrow(ctx, "alice", title.ID, nil, "")
	require.NoError(t, err)
	res, err := e.svc.MarkLost(ctx, loan.ID, "")
	require.NoError(t, err)
	require.Equal(t, model.Money(200000), res.FineCharged)
}

func TestService_RenewalLimit(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{})
	ctx := context.Background()
	title := e.addTitle(t, 1, 0)

	loan, err := e.svc.Borrow(ctx, "alice", title.ID, nil, "")
	require.NoError(t, err)
	for i := 1; i <= policy.DefaultMaxRenewals; i++ {
		renewed, err := e.svc.Renew(ctx, loan.ID)
		require.NoError(t, err)
		require.Equal(t, i, renewed.RenewalCount)
	}
	_, err = e.svc.Renew(ctx, loan.ID)
	require.ErrorIs(t, err, errs.ErrRenewalLimitExceeded)
}

func TestService_RenewOverdue(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{})
	ctx := context.Background()
	title := e.addTitle(t, 1, 0)

	loan, err := e.svc.Borrow(ctx, "alice", title.ID, nil, "")
	require.NoError(t, err)
	e.clock.Advance(policy.DefaultLoanPeriod + time.Minute)

	_, err = e.svc.Renew(ctx, loan.ID)
	require.ErrorIs(t, err, errs.ErrAlreadyOverdue)
}

func TestService_BorrowLimit(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{roles: map[string]model.Role{
		"mary":  model.RoleMember,
		"linus": model.RoleLibrarian,
	}})
	ctx := context.Background()

	titles := make([]model.Title, 4)
	for i := range titles {
		titles[i] = e.addTitle(t, 5, 0)
	}
	for _, user := range []string{"mary", "linus"} {
		for _, title := range titles[:3] {
			_, err := e.svc.Borrow(ctx, user, title.ID, nil, "")
			require.NoError(t, err)
		}
	}

	_, err := e.svc.Borrow(ctx, "mary", titles[3].ID, nil, "")
	require.ErrorIs(t, err, errs.ErrLimitExceeded)
	require.Equal(t, 5, e.copies(t, titles[3].ID).AvailableCopies)

	_, err = e.svc.Borrow(ctx, "linus", titles[3].ID, nil, "")
	require.NoError(t, err)
}

func TestService_StaffBorrowsForMember(t *testing.T) {
	t.Parallel()
	e := newEnv(t, provider.StaticAccounts{})
	ctx := auth.SetAuthContext(context.Background(), "linus", auth.RoleLibrarian)

	titles := make([]model.Title, 7)
	for i := range titles {
		titles[i] = e.addTitle(t, 1, 0)
	}
	for _, title := range titles[:3] {
		_, err := e.svc.Borrow(ctx, "alice", title.ID, nil, "")
		require.NoError(t, err)
	}

	_, err := e.svc.Borrow(ctx, "alice", titles[3].ID, nil, "")
	require.ErrorIs(t, err, errs.ErrLimitExceeded)
	require.Equal(t, 1, e.copies(t, titles[3].ID).AvailableCopies)

	loans, err := e.svc.ListLoans(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, loans, 3)

	// past the member limit on the librarian's own account
	for _, title := range titles[3:] {
		_, err = e.svc.Borrow(ctx, "linus", title.ID, nil, "")
		require.NoError(t, err)
	}
}

func TestService_BorrowLooksUpAccountOnce(t *testing.T) {
	t.Parallel()
	accts := &countingAccounts{}
	e := newEnv(t, accts)
	title := e.addTitle(t, 1, 0)

	_, err := e.svc.Borrow(context.Background(), "alice", title.ID, nil, "")
	require.NoError(t, err)
	require.Equal(t, int32(1), accts.lookups.Load())
}

func TestService_BorrowRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name    string
		borrow  func(e *env, title model.Title) error
		wantErr error
	}{
		{
			name: "same title twice",
			borrow: func(e *env, title model.Title) error {
				if _, err := e.svc.Borrow(ctx, "alice", title.ID, nil, ""); err != nil {
					return err
				}
				_, err := e.svc.Borrow(ctx, "alice", title.ID, nil, "")
				return err
			},
			wantErr: errs.ErrAlreadyBorrowed,
		},
		{
			name: "inactive user",
			borrow: func(e *env, title model.Title) error {
				_, err := e.svc.Borrow(ctx, "ghost", title.ID, nil, "")
				return err
			},
			wantErr: errs.ErrInactiveUser,
		},
		{
			name: "due date in the past",
			borrow: func(e *env, title model.Title) error {
				due := e.clock.Now().Add(-day)
				_, err := e.svc.Borrow(ctx, "alice", title.ID, &due, "")
				return err
			},
			wantErr: errs.ErrInvalidDueDate,
		},
		{
			name: "due date beyond max period",
			borrow: func(e *env, title model.Title) error {
				due := e.clock.Now().Add(policy.MaxLoanPeriod + day)
				_, err := e.svc.Borrow(ctx, "alice", title.ID, &due, "")
				return err
			},
			wantErr: errs.ErrInvalidDueDate,
		},
		{
			name: "unknown title",
			borrow: func(e *env, _ model.Title) error {
				_, err := e.svc.Borrow(ctx, "alice", "5b1f4ab4-8f3e-4a8f-9a3c-2a4fb1f0c0de", nil, "")
				return err
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name: "inactive title",
			borrow: func(e *env, title model.Title) error {
				if err := e.svc.SetTitleActive(ctx, title.ID, false); err != nil {
					return err
				}
				_, err := e.svc.Borrow(ctx, "alice", title.ID, nil, "")
				return err
			},
			wantErr: errs.ErrTitleInactive,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newEnv(t, accounts{inactive: map[string]bool{"ghost": true}})
			title := e.addTitle(t, 2, 0)

			err := tt.borrow(e, title)
			require.ErrorIs(t, err, tt.wantErr)

			loans, err := e.svc.ListLoans(ctx, "ghost")
			require.NoError(t, err)
			require.Empty(t, loans)
			a := e.copies(t, title.ID)
			require.True(t, a.AvailableCopies >= 0 && a.AvailableCopies <= a.TotalCopies)
		})
	}
}

func TestService_ConcurrentBorrowOfLastCopy(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{})
	title := e.addTitle(t, 1, 0)

	const n = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		noCopy  int
		unknown []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.svc.Borrow(context.Background(), fmt.Sprintf("user-%d", i), title.ID, nil, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, errs.ErrNoCopiesAvailable):
				noCopy++
			default:
				unknown = append(unknown, err)
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, unknown)
	require.Equal(t, 1, ok)
	require.Equal(t, n-1, noCopy)
	require.Equal(t, 0, e.copies(t, title.ID).AvailableCopies)
}

func TestService_InventoryStaysInBounds(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{roles: map[string]model.Role{"admin": model.RoleAdmin}})
	ctx := context.Background()
	title := e.addTitle(t, 2, 0)

	var loans []model.LoanInfo
	for i := 0; i < 4; i++ {
		l, err := e.svc.Borrow(ctx, fmt.Sprintf("user-%d", i), title.ID, nil, "")
		if err == nil {
			loans = append(loans, l)
		} else {
			require.ErrorIs(t, err, errs.ErrNoCopiesAvailable)
		}
		a := e.copies(t, title.ID)
		require.True(t, a.AvailableCopies >= 0 && a.AvailableCopies <= a.TotalCopies)
	}
	require.Len(t, loans, 2)

	_, err := e.svc.SetTotalCopies(ctx, title.ID, 1)
	require.ErrorIs(t, err, errs.ErrInvalidQuantity)

	avail, err := e.svc.SetTotalCopies(ctx, title.ID, 5)
	require.NoError(t, err)
	require.Equal(t, model.Availability{TitleID: title.ID, TotalCopies: 5, AvailableCopies: 3, OnLoan: 2, Active: true}, avail)

	for _, l := range loans {
		_, err := e.svc.ReturnBook(ctx, l.ID, model.ConditionGood, 0, "")
		require.NoError(t, err)
		a := e.copies(t, title.ID)
		require.True(t, a.AvailableCopies >= 0 && a.AvailableCopies <= a.TotalCopies)
	}
	require.Equal(t, 5, e.copies(t, title.ID).AvailableCopies)
}

func TestService_MarkOverdue(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{})
	ctx := context.Background()
	title := e.addTitle(t, 5, 0)

	start := e.clock.Now()
	late := start.Add(2 * day)
	soon := start.Add(10 * day)
	later := start.Add(20 * day)

	_, err := e.svc.Borrow(ctx, "alice", title.ID, &late, "")
	require.NoError(t, err)
	_, err = e.svc.Borrow(ctx, "bob", title.ID, &soon, "")
	require.NoError(t, err)
	_, err = e.svc.Borrow(ctx, "carol", title.ID, &later, "")
	require.NoError(t, err)

	e.clock.Advance(8 * day)
	res, err := e.svc.MarkOverdue(ctx)
	require.NoError(t, err)
	require.Equal(t, model.SweepResult{Overdue: 1, Reminders: 1}, res)

	sent := e.notifier.sent()
	require.Len(t, sent, 2)
	require.Equal(t, model.NotificationOverdue, sent[0].Type)
	require.Equal(t, "alice", sent[0].UserID)
	require.Equal(t, 6, sent[0].Payload["overdueDays"])
	require.Equal(t, model.Money(30000), sent[0].Payload["accruedFine"])
	require.NotEmpty(t, sent[0].DedupKey)
	require.Equal(t, model.NotificationReminder, sent[1].Type)
	require.Equal(t, "bob", sent[1].UserID)

	loans, err := e.svc.ListLoans(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, model.StatusBorrowed, loans[0].State)
	require.Equal(t, model.StatusOverdue, loans[0].Status)
}

func TestService_AdjustFine(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{})
	ctx := context.Background()
	title := e.addTitle(t, 1, 0)

	loan, err := e.svc.Borrow(ctx, "alice", title.ID, nil, "")
	require.NoError(t, err)
	e.clock.Advance(policy.DefaultLoanPeriod + day)
	_, err = e.svc.ReturnBook(ctx, loan.ID, model.ConditionGood, 0, "")
	require.NoError(t, err)

	adjusted, err := e.svc.AdjustFine(ctx, loan.ID, 2000, "manual charge")
	require.NoError(t, err)
	require.Equal(t, model.Money(7000), adjusted.FineAmount)

	adjusted, err = e.svc.AdjustFine(ctx, loan.ID, -7000, "waived")
	require.NoError(t, err)
	require.Equal(t, model.Money(0), adjusted.FineAmount)

	_, err = e.svc.AdjustFine(ctx, loan.ID, -1, "")
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	fines, err := e.svc.ListFines(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, fines, 2)
	require.Equal(t, model.ReasonOther, fines[0].Reason)
}

func TestService_Stats(t *testing.T) {
	t.Parallel()
	e := newEnv(t, accounts{})
	ctx := context.Background()
	title := e.addTitle(t, 2, 0)

	_, err := e.svc.Borrow(ctx, "alice", title.ID, nil, "")
	require.NoError(t, err)
	e.clock.Advance(policy.DefaultLoanPeriod + day)

	st, err := e.svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, st.Titles)
	require.Equal(t, 1, st.OnLoan)
	require.Equal(t, 1, st.OverdueLoans)
	require.Len(t, st.Popular, 1)
	require.Equal(t, int64(1), st.Popular[0].BorrowedCount)
}

type conflictingRepo struct {
	repository.Repository
	mu        sync.Mutex
	conflicts int
	calls     int
}

func (r *conflictingRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	r.mu.Lock()
	r.calls++
	fail := r.conflicts > 0
	if fail {
		r.conflicts--
	}
	r.mu.Unlock()
	if fail {
		return errs.ErrConcurrencyConflict
	}
	return r.Repository.WithinTx(ctx, fn)
}

func TestService_RetriesConcurrencyConflict(t *testing.T) {
	t.Parallel()
	repo := &conflictingRepo{Repository: repository.NewMemoryRepository(zap.NewNop())}
	svc := service.NewService(repo, accounts{}, pricing{}, &notifier{}, policy.Default(), zap.NewNop())
	ctx := context.Background()

	title, err := svc.AddTitle(ctx, model.Title{Name: "Dune", TotalCopies: 1})
	require.NoError(t, err)

	repo.conflicts = 2
	repo.calls = 0
	_, err = svc.Borrow(ctx, "alice", title.ID, nil, "")
	require.NoError(t, err)
	require.Equal(t, 3, repo.calls)
}

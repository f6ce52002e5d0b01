package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
)

// memory is a process-local Repository. One mutex serialises every
// transaction; a failed transaction restores the snapshot taken at its start.
type memory struct {
	mu     sync.Mutex
	log    *zap.Logger
	titles map[string]model.Title
	loans  map[string]model.Loan
	fines  []model.Fine
}

func NewMemoryRepository(log *zap.Logger) *memory {
	return &memory{
		log:    log.Named("repo"),
		titles: make(map[string]model.Title),
		loans:  make(map[string]model.Loan),
	}
}

func (m *memory) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	titles, loans, fines := m.snapshot()
	if err := fn(ctx, (*memTx)(m)); err != nil {
		m.titles, m.loans, m.fines = titles, loans, fines
		return err
	}
	if err := ctx.Err(); err != nil {
		m.titles, m.loans, m.fines = titles, loans, fines
		return err
	}
	return nil
}

func (m *memory) snapshot() (map[string]model.Title, map[string]model.Loan, []model.Fine) {
	titles := make(map[string]model.Title, len(m.titles))
	for k, v := range m.titles {
		titles[k] = v
	}
	loans := make(map[string]model.Loan, len(m.loans))
	for k, v := range m.loans {
		loans[k] = v
	}
	fines := make([]model.Fine, len(m.fines))
	copy(fines, m.fines)
	return titles, loans, fines
}

func (m *memory) GetTitle(_ context.Context, titleID string) (model.Title, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (*memTx)(m).title(titleID)
}

func (m *memory) GetLoan(_ context.Context, loanID string) (model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (*memTx)(m).loan(loanID)
}

func (m *memory) ListLoans(_ context.Context, userID string) ([]model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loans := make([]model.Loan, 0)
	for _, l := range m.loans {
		if l.UserID == userID {
			loans = append(loans, l)
		}
	}
	sort.Slice(loans, func(i, j int) bool {
		return loans[i].BorrowedAt.After(loans[j].BorrowedAt)
	})
	return loans, nil
}

func (m *memory) ListOpenLoansDueBefore(_ context.Context, t time.Time) ([]model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loans := make([]model.Loan, 0)
	for _, l := range m.loans {
		if l.ReturnedAt == nil && l.DueAt.Before(t) {
			loans = append(loans, l)
		}
	}
	sort.Slice(loans, func(i, j int) bool {
		return loans[i].DueAt.Before(loans[j].DueAt)
	})
	return loans, nil
}

func (m *memory) ListFines(_ context.Context, userID string) ([]model.Fine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fines := make([]model.Fine, 0)
	for i := len(m.fines) - 1; i >= 0; i-- {
		if m.fines[i].UserID == userID {
			fines = append(fines, m.fines[i])
		}
	}
	return fines, nil
}

func (m *memory) Stats(_ context.Context, now time.Time, top int) (model.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var st model.Stats
	popular := make([]model.PopularTitle, 0)
	for _, t := range m.titles {
		st.Titles++
		st.TotalCopies += t.TotalCopies
		st.AvailableCopies += t.AvailableCopies
		if t.BorrowedCount > 0 {
			popular = append(popular, model.PopularTitle{TitleID: t.ID, Name: t.Name, BorrowedCount: t.BorrowedCount})
		}
	}
	st.OnLoan = st.TotalCopies - st.AvailableCopies
	for _, l := range m.loans {
		if l.ReturnedAt != nil {
			continue
		}
		st.OpenLoans++
		if l.DueAt.Before(now) {
			st.OverdueLoans++
		}
	}
	for _, f := range m.fines {
		if !f.Paid {
			st.UnpaidFines += f.Amount
		}
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].BorrowedCount != popular[j].BorrowedCount {
			return popular[i].BorrowedCount > popular[j].BorrowedCount
		}
		return popular[i].Name < popular[j].Name
	})
	if len(popular) > top {
		popular = popular[:top]
	}
	st.Popular = popular
	return st, nil
}

// memTx is the view handed to WithinTx callbacks; the caller already holds mu.
type memTx memory

func (tx *memTx) title(titleID string) (model.Title, error) {
	t, ok := tx.titles[titleID]
	if !ok {
		return model.Title{}, errors.Wrapf(errs.ErrNotFound, "title %s", titleID)
	}
	return t, nil
}

func (tx *memTx) loan(loanID string) (model.Loan, error) {
	l, ok := tx.loans[loanID]
	if !ok {
		return model.Loan{}, errors.Wrapf(errs.ErrNotFound, "loan %s", loanID)
	}
	return l, nil
}

func (tx *memTx) GetTitle(_ context.Context, titleID string) (model.Title, error) {
	return tx.title(titleID)
}

func (tx *memTx) LockTitle(_ context.Context, titleID string) (model.Title, error) {
	return tx.title(titleID)
}

func (tx *memTx) InsertTitle(_ context.Context, t model.Title) error {
	if _, ok := tx.titles[t.ID]; ok {
		return errors.Wrapf(errs.ErrTitleExists, "title %s", t.ID)
	}
	if !t.Copies().Valid() {
		return errors.Wrapf(errs.ErrInvariant, "title %s: %d of %d available", t.ID, t.AvailableCopies, t.TotalCopies)
	}
	tx.titles[t.ID] = t
	return nil
}

func (tx *memTx) SwapCopies(_ context.Context, titleID string, old, next model.Copies, borrowed int64) error {
	t, err := tx.title(titleID)
	if err != nil {
		return err
	}
	if t.Copies() != old {
		return errors.Wrapf(errs.ErrConcurrencyConflict, "title %s", titleID)
	}
	if !next.Valid() {
		return errors.Wrapf(errs.ErrInvariant, "title %s: %d of %d available", titleID, next.Available, next.Total)
	}
	t.TotalCopies, t.AvailableCopies = next.Total, next.Available
	t.BorrowedCount += borrowed
	t.UpdatedAt = time.Now()
	tx.titles[titleID] = t
	return nil
}

func (tx *memTx) SetTitleActive(_ context.Context, titleID string, active bool, now time.Time) error {
	t, err := tx.title(titleID)
	if err != nil {
		return err
	}
	t.Active = active
	t.UpdatedAt = now
	tx.titles[titleID] = t
	return nil
}

func (tx *memTx) LockBorrower(context.Context, string) error {
	return nil
}

func (tx *memTx) CountOpenLoans(_ context.Context, userID string) (int, error) {
	n := 0
	for _, l := range tx.loans {
		if l.UserID == userID && l.ReturnedAt == nil {
			n++
		}
	}
	return n, nil
}

func (tx *memTx) HasOpenLoan(_ context.Context, userID, titleID string) (bool, error) {
	for _, l := range tx.loans {
		if l.UserID == userID && l.TitleID == titleID && l.ReturnedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memTx) InsertLoan(ctx context.Context, l model.Loan) error {
	if _, ok := tx.titles[l.TitleID]; !ok {
		return errors.Wrapf(errs.ErrNotFound, "title %s", l.TitleID)
	}
	if open, _ := tx.HasOpenLoan(ctx, l.UserID, l.TitleID); open && l.ReturnedAt == nil {
		return errors.Wrap(errs.ErrAlreadyBorrowed, openLoanIndex)
	}
	tx.loans[l.ID] = l
	return nil
}

func (tx *memTx) LockLoan(_ context.Context, loanID string) (model.Loan, error) {
	return tx.loan(loanID)
}

func (tx *memTx) UpdateLoan(_ context.Context, l model.Loan) error {
	if _, err := tx.loan(l.ID); err != nil {
		return err
	}
	tx.loans[l.ID] = l
	return nil
}

func (tx *memTx) InsertFines(_ context.Context, fines ...model.Fine) error {
	for _, f := range fines {
		if f.Amount < 0 {
			return errors.Wrapf(errs.ErrInvariant, "fine %s is negative", f.ID)
		}
	}
	tx.fines = append(tx.fines, fines...)
	return nil
}

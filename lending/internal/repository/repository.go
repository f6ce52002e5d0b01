package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

// Tx is the unit of work handed to WithinTx. Every write made through it
// commits or rolls back together.
type Tx interface {
	GetTitle(ctx context.Context, titleID string) (model.Title, error)
	// LockTitle reads the title and holds it until the transaction ends.
	LockTitle(ctx context.Context, titleID string) (model.Title, error)
	InsertTitle(ctx context.Context, title model.Title) error
	SwapCopies(ctx context.Context, titleID string, old, next model.Copies, borrowed int64) error
	SetTitleActive(ctx context.Context, titleID string, active bool, now time.Time) error

	// LockBorrower serialises borrows of one user.
	LockBorrower(ctx context.Context, userID string) error
	CountOpenLoans(ctx context.Context, userID string) (int, error)
	HasOpenLoan(ctx context.Context, userID, titleID string) (bool, error)
	InsertLoan(ctx context.Context, loan model.Loan) error
	LockLoan(ctx context.Context, loanID string) (model.Loan, error)
	UpdateLoan(ctx context.Context, loan model.Loan) error

	InsertFines(ctx context.Context, fines ...model.Fine) error
}

type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	GetTitle(ctx context.Context, titleID string) (model.Title, error)
	GetLoan(ctx context.Context, loanID string) (model.Loan, error)
	ListLoans(ctx context.Context, userID string) ([]model.Loan, error)
	// ListOpenLoansDueBefore returns unreturned loans with dueAt before t, oldest due first.
	ListOpenLoansDueBefore(ctx context.Context, t time.Time) ([]model.Loan, error)
	ListFines(ctx context.Context, userID string) ([]model.Fine, error)
	Stats(ctx context.Context, now time.Time, top int) (model.Stats, error)
}

const (
	titlesTableName = `titles`
	loansTableName  = `loans`
	finesTableName  = `fines`
)

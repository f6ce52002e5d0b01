package handler

import (
	"context"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LendingService interface {
	Borrow(ctx context.Context, userID, titleID string, dueAt *time.Time, notes string) (model.LoanInfo, error)
	ReturnBook(ctx context.Context, loanID string, condition model.Condition, additionalFine model.Money, notes string) (model.ReturnResult, error)
	MarkLost(ctx context.Context, loanID, notes string) (model.ReturnResult, error)
	Renew(ctx context.Context, loanID string) (model.LoanInfo, error)
	AdjustFine(ctx context.Context, loanID string, delta model.Money, notes string) (model.LoanInfo, error)
	GetLoan(ctx context.Context, loanID string) (model.LoanInfo, error)
	ListLoans(ctx context.Context, userID string) ([]model.LoanInfo, error)
	ListFines(ctx context.Context, userID string) ([]model.Fine, error)
	Availability(ctx context.Context, titleID string) (model.Availability, error)
	SetTotalCopies(ctx context.Context, titleID string, total int) (model.Availability, error)
	Stats(ctx context.Context) (model.Stats, error)
}

// CatalogService is what the catalog consumer drives.
type CatalogService interface {
	AddTitle(ctx context.Context, title model.Title) (model.Title, error)
	SetTotalCopies(ctx context.Context, titleID string, total int) (model.Availability, error)
	SetTitleActive(ctx context.Context, titleID string, active bool) error
}

var (
	_ LendingService = (*service.Service)(nil)
	_ CatalogService = (*service.Service)(nil)
)

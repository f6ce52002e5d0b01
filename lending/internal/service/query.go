package service

import (
	"context"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

// GetLoan derives the status at read time.
func (s *Service) GetLoan(ctx context.Context, loanID string) (model.LoanInfo, error) {
	ctx, cancel, now := s.begin(ctx)
	defer cancel()

	l, err := s.repo.GetLoan(ctx, loanID)
	if err != nil {
		return model.LoanInfo{}, err
	}
	return model.NewLoanInfo(l, now), nil
}

func (s *Service) ListLoans(ctx context.Context, userID string) ([]model.LoanInfo, error) {
	ctx, cancel, now := s.begin(ctx)
	defer cancel()

	loans, err := s.repo.ListLoans(ctx, userID)
	if err != nil {
		return nil, err
	}
	infos := make([]model.LoanInfo, 0, len(loans))
	for _, l := range loans {
		infos = append(infos, model.NewLoanInfo(l, now))
	}
	return infos, nil
}

func (s *Service) ListFines(ctx context.Context, userID string) ([]model.Fine, error) {
	ctx, cancel, _ := s.begin(ctx)
	defer cancel()

	return s.repo.ListFines(ctx, userID)
}

func (s *Service) Availability(ctx context.Context, titleID string) (model.Availability, error) {
	ctx, cancel, _ := s.begin(ctx)
	defer cancel()

	title, err := s.repo.GetTitle(ctx, titleID)
	if err != nil {
		return model.Availability{}, err
	}
	return availability(title), nil
}

func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	ctx, cancel, now := s.begin(ctx)
	defer cancel()

	return s.repo.Stats(ctx, now, popularTitles)
}

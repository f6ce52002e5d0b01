package service

import (
	"context"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AddTitle registers a catalog entry with every copy available.
func (s *Service) AddTitle(ctx context.Context, title model.Title) (model.Title, error) {
	ctx, cancel, now := s.begin(ctx)
	defer cancel()

	if title.ID == "" {
		title.ID = uuid.NewString()
	} else if _, err := uuid.Parse(title.ID); err != nil {
		return model.Title{}, errors.Wrapf(errs.ErrInvalidInput, "title id %q", title.ID)
	}
	if title.TotalCopies < 0 {
		return model.Title{}, errors.Wrapf(errs.ErrInvalidQuantity, "total %d is negative", title.TotalCopies)
	}
	if title.Price < 0 {
		return model.Title{}, errors.Wrapf(errs.ErrInvalidInput, "price %d is negative", title.Price)
	}
	title.AvailableCopies = title.TotalCopies
	title.BorrowedCount = 0
	title.Active = true
	title.CreatedAt, title.UpdatedAt = now, now

	err := s.withinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.InsertTitle(ctx, title)
	})
	if err != nil {
		return model.Title{}, err
	}
	s.log.Info("title added", zap.String("title", title.ID), zap.Int("copies", title.TotalCopies))
	return title, nil
}

func (s *Service) SetTotalCopies(ctx context.Context, titleID string, total int) (model.Availability, error) {
	ctx, cancel, _ := s.begin(ctx)
	defer cancel()

	var avail model.Availability
	err := s.withinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := s.ledger.SetTotalCopies(ctx, tx, titleID, total); err != nil {
			return err
		}
		title, err := tx.GetTitle(ctx, titleID)
		if err != nil {
			return err
		}
		avail = availability(title)
		return nil
	})
	if err != nil {
		return model.Availability{}, s.fail("set total copies", err, zap.String("title", titleID))
	}
	s.log.Info("copies changed", zap.String("title", titleID), zap.Int("total", avail.TotalCopies))
	return avail, nil
}

// SetTitleActive opens or closes a title for new borrows; open loans are untouched.
func (s *Service) SetTitleActive(ctx context.Context, titleID string, active bool) error {
	ctx, cancel, now := s.begin(ctx)
	defer cancel()

	err := s.withinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.SetTitleActive(ctx, titleID, active, now)
	})
	if err != nil {
		return err
	}
	s.log.Info("title activity changed", zap.String("title", titleID), zap.Bool("active", active))
	return nil
}

func availability(t model.Title) model.Availability {
	return model.Availability{
		TitleID:         t.ID,
		TotalCopies:     t.TotalCopies,
		AvailableCopies: t.AvailableCopies,
		OnLoan:          t.ActiveLoanCount(),
		Active:          t.Active,
	}
}

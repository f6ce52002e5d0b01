package service

import (
	"context"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (s *Service) Borrow(ctx context.Context, userID, titleID string, dueAt *time.Time, notes string) (model.LoanInfo, error) {
	ctx, cancel, now := s.begin(ctx)
	defer cancel()

	if userID == "" || titleID == "" {
		return model.LoanInfo{}, errors.Wrap(errs.ErrInvalidInput, "user and title are required")
	}
	due, err := s.loans.DueDate(now, dueAt)
	if err != nil {
		return model.LoanInfo{}, err
	}

	account, err := s.accounts.Account(ctx, userID)
	if err != nil {
		return model.LoanInfo{}, err
	}
	role := account.Role
	if !account.Active {
		return model.LoanInfo{}, errors.Wrapf(errs.ErrInactiveUser, "user %s", userID)
	}

	var created model.Loan
	err = s.withinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if err := tx.LockBorrower(ctx, userID); err != nil {
			return err
		}
		open, err := tx.CountOpenLoans(ctx, userID)
		if err != nil {
			return err
		}
		if !s.policy.CanBorrow(role, open) {
			return errors.Wrapf(errs.ErrLimitExceeded, "%s %s holds %d of %d", role, userID, open, s.policy.MaxBooks(role))
		}
		has, err := tx.HasOpenLoan(ctx, userID, titleID)
		if err != nil {
			return err
		}
		if has {
			return errors.Wrapf(errs.ErrAlreadyBorrowed, "user %s, title %s", userID, titleID)
		}
		title, err := tx.GetTitle(ctx, titleID)
		if err != nil {
			return err
		}
		if !title.Active {
			return errors.Wrapf(errs.ErrTitleInactive, "title %s", titleID)
		}
		if _, err = s.ledger.Reserve(ctx, tx, titleID); err != nil {
			return err
		}
		created = s.loans.Open(userID, titleID, due, now, notes)
		return tx.InsertLoan(ctx, created)
	})
	if err != nil {
		return model.LoanInfo{}, s.fail("borrow", err, zap.String("user", userID), zap.String("title", titleID))
	}

	s.log.Info("borrowed",
		zap.String("loan", created.ID),
		zap.String("user", userID),
		zap.String("title", titleID),
		zap.Time("due", created.DueAt))
	return model.NewLoanInfo(created, now), nil
}

// ReturnBook closes the loan, charges the fine and puts the copy back, or retires it when lost.
func (s *Service) ReturnBook(ctx context.Context, loanID string, condition model.Condition, additionalFine model.Money, notes string) (model.ReturnResult, error) {
	ctx, cancel, now := s.begin(ctx)
	defer cancel()

	if !condition.Valid() {
		return model.ReturnResult{}, errors.Wrapf(errs.ErrInvalidInput, "condition %q", condition)
	}
	if additionalFine < 0 {
		return model.ReturnResult{}, errors.Wrap(errs.ErrInvalidInput, "additional fine is negative")
	}

	current, err := s.repo.GetLoan(ctx, loanID)
	if err != nil {
		return model.ReturnResult{}, err
	}
	if current.IsTerminal() {
		return model.ReturnResult{}, errors.Wrapf(errs.ErrAlreadyReturned, "loan %s is %s", loanID, current.State)
	}
	price, priced := s.externalPrice(ctx, condition, current.TitleID)

	var result model.ReturnResult
	err = s.withinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		l, err := tx.LockLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if l.IsTerminal() {
			return errors.Wrapf(errs.ErrAlreadyReturned, "loan %s is %s", loanID, l.State)
		}
		if !priced {
			title, err := tx.GetTitle(ctx, l.TitleID)
			if err != nil {
				return err
			}
			price = title.Price
		}

		breakdown := s.fines.Calculate(l, condition, now, price)
		charged := breakdown.Total + additionalFine
		if err = s.loans.Close(&l, condition, charged, notes, now); err != nil {
			return err
		}
		if condition == model.ConditionLost {
			_, err = s.ledger.Retire(ctx, tx, l.TitleID)
		} else {
			_, err = s.ledger.Release(ctx, tx, l.TitleID)
		}
		if err != nil {
			return err
		}
		if err = tx.UpdateLoan(ctx, l); err != nil {
			return err
		}

		records := breakdown.Records()
		if additionalFine > 0 {
			records = append(records, model.Fine{Amount: additionalFine, Reason: model.ReasonOther, Notes: notes})
		}
		for i := range records {
			records[i].ID = uuid.NewString()
			records[i].LoanID = l.ID
			records[i].UserID = l.UserID
			records[i].CreatedAt = now
		}
		if err = tx.InsertFines(ctx, records...); err != nil {
			return err
		}
		result = model.ReturnResult{
			Loan:        model.NewLoanInfo(l, now),
			FineCharged: charged,
			Fines:       records,
		}
		return nil
	})
	if err != nil {
		return model.ReturnResult{}, s.fail("return", err, zap.String("loan", loanID), zap.String("title", current.TitleID))
	}

	s.log.Info("returned",
		zap.String("loan", loanID),
		zap.String("condition", string(condition)),
		zap.Int64("fine", int64(result.FineCharged)))
	if result.FineCharged > 0 {
		s.notifier.Notify(ctx, fineNotice(result, now))
	}
	return result, nil
}

// MarkLost declares the copy lost without a physical return.
func (s *Service) MarkLost(ctx context.Context, loanID, notes string) (model.ReturnResult, error) {
	return s.ReturnBook(ctx, loanID, model.ConditionLost, 0, notes)
}

func (s *Service) Renew(ctx context.Context, loanID string) (model.LoanInfo, error) {
	ctx, cancel, now := s.begin(ctx)
	defer cancel()

	var renewed model.Loan
	err := s.withinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		l, err := tx.LockLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if err = s.loans.Renew(&l, now); err != nil {
			return err
		}
		renewed = l
		return tx.UpdateLoan(ctx, l)
	})
	if err != nil {
		return model.LoanInfo{}, err
	}
	s.log.Info("renewed",
		zap.String("loan", loanID),
		zap.Int("renewals", renewed.RenewalCount),
		zap.Time("due", renewed.DueAt))
	return model.NewLoanInfo(renewed, now), nil
}

// AdjustFine corrects the fine of a loan in either direction. Increases are
// recorded as an "other" fine; decreases only lower the loan balance.
func (s *Service) AdjustFine(ctx context.Context, loanID string, delta model.Money, notes string) (model.LoanInfo, error) {
	ctx, cancel, now := s.begin(ctx)
	defer cancel()

	var adjusted model.Loan
	err := s.withinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		l, err := tx.LockLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if err = s.loans.AdjustFine(&l, delta, notes, now); err != nil {
			return err
		}
		if err = tx.UpdateLoan(ctx, l); err != nil {
			return err
		}
		adjusted = l
		if delta < 0 {
			return nil
		}
		return tx.InsertFines(ctx, model.Fine{
			ID:        uuid.NewString(),
			LoanID:    l.ID,
			UserID:    l.UserID,
			Amount:    delta,
			Reason:    model.ReasonOther,
			Notes:     notes,
			CreatedAt: now,
		})
	})
	if err != nil {
		return model.LoanInfo{}, err
	}
	s.log.Info("fine adjusted", zap.String("loan", loanID), zap.Int64("delta", int64(delta)))
	if delta > 0 {
		s.notifier.Notify(ctx, model.Notification{
			Type:       model.NotificationFine,
			UserID:     adjusted.UserID,
			LoanID:     adjusted.ID,
			Payload:    map[string]any{"amount": delta, "reason": model.ReasonOther, "total": adjusted.FineAmount},
			OccurredAt: now,
		})
	}
	return model.NewLoanInfo(adjusted, now), nil
}

// externalPrice asks the pricing service only for lost books; failures fall back to the stored price.
func (s *Service) externalPrice(ctx context.Context, condition model.Condition, titleID string) (model.Money, bool) {
	if condition != model.ConditionLost {
		return 0, false
	}
	price, ok, err := s.pricing.Price(ctx, titleID)
	if err != nil {
		s.log.Warn("pricing unavailable, using stored price", zap.String("title", titleID), zap.Error(err))
		return 0, false
	}
	return price, ok
}

func fineNotice(r model.ReturnResult, now time.Time) model.Notification {
	reasons := make([]model.Reason, 0, len(r.Fines))
	for _, f := range r.Fines {
		reasons = append(reasons, f.Reason)
	}
	return model.Notification{
		Type:   model.NotificationFine,
		UserID: r.Loan.UserID,
		LoanID: r.Loan.ID,
		Payload: map[string]any{
			"amount":  r.FineCharged,
			"reasons": reasons,
			"titleId": r.Loan.TitleID,
			"status":  r.Loan.Status,
		},
		OccurredAt: now,
	}
}

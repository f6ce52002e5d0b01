// Package inventory keeps the per-title copy counters consistent.
package inventory

import (
	"context"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Store is the persistence the ledger needs inside a transaction.
// SwapCopies must apply next only while the stored counters still equal old,
// returning errs.ErrConcurrencyConflict otherwise.
type Store interface {
	LockTitle(ctx context.Context, titleID string) (model.Title, error)
	SwapCopies(ctx context.Context, titleID string, old, next model.Copies, borrowed int64) error
}

type Ledger struct {
	log *zap.Logger
}

func NewLedger(log *zap.Logger) *Ledger {
	return &Ledger{log: log.Named("ledger")}
}

// Reserve takes one available copy of the title.
func (l *Ledger) Reserve(ctx context.Context, s Store, titleID string) (model.Copies, error) {
	title, cur, err := l.load(ctx, s, titleID)
	if err != nil {
		return model.Copies{}, err
	}
	if cur.Available == 0 {
		return model.Copies{}, errors.Wrapf(errs.ErrNoCopiesAvailable, "title %s", title.ID)
	}
	next := model.Copies{Total: cur.Total, Available: cur.Available - 1}
	return next, l.swap(ctx, s, titleID, cur, next, 1)
}

// Release puts one copy back. Releasing past the total is a bookkeeping bug and is never clamped.
func (l *Ledger) Release(ctx context.Context, s Store, titleID string) (model.Copies, error) {
	_, cur, err := l.load(ctx, s, titleID)
	if err != nil {
		return model.Copies{}, err
	}
	if cur.Available+1 > cur.Total {
		l.log.Error("over-release",
			zap.String("title", titleID),
			zap.Int("total", cur.Total),
			zap.Int("available", cur.Available))
		return model.Copies{}, errors.Wrapf(errs.ErrOverRelease, "title %s: %d of %d available", titleID, cur.Available, cur.Total)
	}
	next := model.Copies{Total: cur.Total, Available: cur.Available + 1}
	return next, l.swap(ctx, s, titleID, cur, next, 0)
}

// Retire drops one on-loan copy from the title for good.
func (l *Ledger) Retire(ctx context.Context, s Store, titleID string) (model.Copies, error) {
	_, cur, err := l.load(ctx, s, titleID)
	if err != nil {
		return model.Copies{}, err
	}
	next := model.Copies{Total: cur.Total - 1, Available: cur.Available}
	if cur.OnLoan() == 0 || !next.Valid() {
		l.log.Error("retire without copy on loan",
			zap.String("title", titleID),
			zap.Int("total", cur.Total),
			zap.Int("available", cur.Available))
		return model.Copies{}, errors.Wrapf(errs.ErrInvariant, "title %s has no copy on loan to retire", titleID)
	}
	return next, l.swap(ctx, s, titleID, cur, next, 0)
}

// SetTotalCopies changes the stock; it may not drop below the copies currently on loan.
func (l *Ledger) SetTotalCopies(ctx context.Context, s Store, titleID string, total int) (model.Copies, error) {
	if total < 0 {
		return model.Copies{}, errors.Wrapf(errs.ErrInvalidQuantity, "total %d is negative", total)
	}
	_, cur, err := l.load(ctx, s, titleID)
	if err != nil {
		return model.Copies{}, err
	}
	onLoan := cur.OnLoan()
	if total < onLoan {
		return model.Copies{}, errors.Wrapf(errs.ErrInvalidQuantity, "total %d is below %d copies on loan", total, onLoan)
	}
	next := model.Copies{Total: total, Available: total - onLoan}
	if next == cur {
		return cur, nil
	}
	return next, l.swap(ctx, s, titleID, cur, next, 0)
}

func (l *Ledger) load(ctx context.Context, s Store, titleID string) (model.Title, model.Copies, error) {
	title, err := s.LockTitle(ctx, titleID)
	if err != nil {
		return model.Title{}, model.Copies{}, err
	}
	cur := title.Copies()
	if !cur.Valid() {
		l.log.Error("stored counters out of range",
			zap.String("title", titleID),
			zap.Int("total", cur.Total),
			zap.Int("available", cur.Available))
		return model.Title{}, model.Copies{}, errors.Wrapf(errs.ErrInvariant, "title %s: %d of %d available", titleID, cur.Available, cur.Total)
	}
	return title, cur, nil
}

func (l *Ledger) swap(ctx context.Context, s Store, titleID string, old, next model.Copies, borrowed int64) error {
	if err := s.SwapCopies(ctx, titleID, old, next, borrowed); err != nil {
		if errors.Is(err, errs.ErrConcurrencyConflict) {
			l.log.Debug("copies changed concurrently", zap.String("title", titleID))
		}
		return err
	}
	return nil
}

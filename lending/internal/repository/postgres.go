package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const openLoanIndex = "loans_open_unique"

var (
	titleColumns = []string{
		"id", "name", "author", "isbn", "price", "total_copies", "available_copies",
		"borrowed_count", "active", "created_at", "updated_at",
	}
	loanColumns = []string{
		"id", "user_id", "title_id", "borrowed_at", "due_at", "returned_at", "status",
		"renewal_count", "fine_amount", "condition", "notes", "updated_at",
	}
	fineColumns = []string{
		"id", "loan_id", "user_id", "amount", "reason", "paid", "paid_date", "notes", "created_at",
	}
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	db *pgxpool.Pool
	queries
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	log = log.Named("repo")
	return &repository{
		db:      db,
		queries: queries{db: db, log: log},
	}, nil
}

func (r *repository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.log.Error("rollback", zap.Error(rbErr))
		}
	}()

	if err = fn(ctx, &queries{db: tx, log: r.log}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return mapError(errors.Wrap(err, "commit"))
	}
	return nil
}

// queries runs statements against the pool or, inside WithinTx, against the open transaction.
type queries struct {
	db  querier
	log *zap.Logger
}

func (q *queries) GetTitle(ctx context.Context, titleID string) (model.Title, error) {
	return q.selectTitle(ctx, titleID, false)
}

func (q *queries) LockTitle(ctx context.Context, titleID string) (model.Title, error) {
	return q.selectTitle(ctx, titleID, true)
}

func (q *queries) selectTitle(ctx context.Context, titleID string, forUpdate bool) (model.Title, error) {
	b := qb.Select(titleColumns...).
		From(titlesTableName).
		Where(sq.Eq{"id": titleID})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return model.Title{}, err
	}
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return model.Title{}, mapError(err)
	}
	defer rows.Close()

	title, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Title])
	if err != nil {
		return model.Title{}, errors.WithMessagef(mapError(err), "title %s", titleID)
	}
	return title, nil
}

func (q *queries) InsertTitle(ctx context.Context, t model.Title) error {
	query, args, err := qb.Insert(titlesTableName).
		Columns(titleColumns...).
		Values(t.ID, t.Name, t.Author, t.ISBN, t.Price, t.TotalCopies, t.AvailableCopies,
			t.BorrowedCount, t.Active, t.CreatedAt, t.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err = q.db.Exec(ctx, query, args...); err != nil {
		return mapError(err)
	}
	return nil
}

func (q *queries) SwapCopies(ctx context.Context, titleID string, old, next model.Copies, borrowed int64) error {
	const query = `
update titles
    set total_copies = @next_total,
        available_copies = @next_available,
        borrowed_count = borrowed_count + @borrowed,
        updated_at = now()
where id = @id and total_copies = @old_total and available_copies = @old_available`
	args := pgx.NamedArgs{
		"id":             titleID,
		"next_total":     next.Total,
		"next_available": next.Available,
		"old_total":      old.Total,
		"old_available":  old.Available,
		"borrowed":       borrowed,
	}
	tag, err := q.db.Exec(ctx, query, args)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.ErrConcurrencyConflict, "title %s", titleID)
	}
	return nil
}

func (q *queries) SetTitleActive(ctx context.Context, titleID string, active bool, now time.Time) error {
	query, args, err := qb.Update(titlesTableName).
		Set("active", active).
		Set("updated_at", now).
		Where(sq.Eq{"id": titleID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := q.db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.ErrNotFound, "title %s", titleID)
	}
	return nil
}

func (q *queries) LockBorrower(ctx context.Context, userID string) error {
	if _, err := q.db.Exec(ctx, `select pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return mapError(err)
	}
	return nil
}

func (q *queries) CountOpenLoans(ctx context.Context, userID string) (int, error) {
	return q.countOpen(ctx, sq.Eq{"user_id": userID, "returned_at": nil})
}

func (q *queries) HasOpenLoan(ctx context.Context, userID, titleID string) (bool, error) {
	n, err := q.countOpen(ctx, sq.Eq{"user_id": userID, "title_id": titleID, "returned_at": nil})
	return n > 0, err
}

func (q *queries) countOpen(ctx context.Context, where sq.Eq) (int, error) {
	query, args, err := qb.Select("count(*)").
		From(loansTableName).
		Where(where).
		ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err = q.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (q *queries) InsertLoan(ctx context.Context, l model.Loan) error {
	query, args, err := qb.Insert(loansTableName).
		Columns(loanColumns...).
		Values(l.ID, l.UserID, l.TitleID, l.BorrowedAt, l.DueAt, l.ReturnedAt, l.State,
			l.RenewalCount, l.FineAmount, l.Condition, l.Notes, l.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err = q.db.Exec(ctx, query, args...); err != nil {
		q.log.Debug("InsertLoan", zap.String("query", query), zap.Error(err))
		return mapError(err)
	}
	return nil
}

func (q *queries) GetLoan(ctx context.Context, loanID string) (model.Loan, error) {
	return q.selectLoan(ctx, loanID, false)
}

func (q *queries) LockLoan(ctx context.Context, loanID string) (model.Loan, error) {
	return q.selectLoan(ctx, loanID, true)
}

func (q *queries) selectLoan(ctx context.Context, loanID string, forUpdate bool) (model.Loan, error) {
	b := qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"id": loanID})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return model.Loan{}, mapError(err)
	}
	defer rows.Close()

	loan, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Loan])
	if err != nil {
		return model.Loan{}, errors.WithMessagef(mapError(err), "loan %s", loanID)
	}
	return loan, nil
}

func (q *queries) UpdateLoan(ctx context.Context, l model.Loan) error {
	query, args, err := qb.Update(loansTableName).
		SetMap(map[string]any{
			"due_at":        l.DueAt,
			"returned_at":   l.ReturnedAt,
			"status":        l.State,
			"renewal_count": l.RenewalCount,
			"fine_amount":   l.FineAmount,
			"condition":     l.Condition,
			"notes":         l.Notes,
			"updated_at":    l.UpdatedAt,
		}).
		Where(sq.Eq{"id": l.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := q.db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.ErrNotFound, "loan %s", l.ID)
	}
	return nil
}

func (q *queries) InsertFines(ctx context.Context, fines ...model.Fine) error {
	if len(fines) == 0 {
		return nil
	}
	b := qb.Insert(finesTableName).Columns(fineColumns...)
	for _, f := range fines {
		b = b.Values(f.ID, f.LoanID, f.UserID, f.Amount, f.Reason, f.Paid, f.PaidDate, f.Notes, f.CreatedAt)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	if _, err = q.db.Exec(ctx, query, args...); err != nil {
		return mapError(err)
	}
	return nil
}

func (q *queries) ListLoans(ctx context.Context, userID string) ([]model.Loan, error) {
	return q.selectLoans(ctx, qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("borrowed_at desc"))
}

func (q *queries) ListOpenLoansDueBefore(ctx context.Context, t time.Time) ([]model.Loan, error) {
	return q.selectLoans(ctx, qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"returned_at": nil}).
		Where(sq.Lt{"due_at": t}).
		OrderBy("due_at"))
}

func (q *queries) selectLoans(ctx context.Context, b sq.SelectBuilder) ([]model.Loan, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	loans, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Loan])
	if err != nil {
		return nil, mapError(err)
	}
	return loans, nil
}

func (q *queries) ListFines(ctx context.Context, userID string) ([]model.Fine, error) {
	query, args, err := qb.Select(fineColumns...).
		From(finesTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	fines, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Fine])
	if err != nil {
		return nil, mapError(err)
	}
	return fines, nil
}

func (q *queries) Stats(ctx context.Context, now time.Time, top int) (model.Stats, error) {
	var (
		st                     model.Stats
		totalCopies, available int64
		unpaid                 int64
	)
	const stock = `select count(*), coalesce(sum(total_copies), 0), coalesce(sum(available_copies), 0) from titles`
	if err := q.db.QueryRow(ctx, stock).Scan(&st.Titles, &totalCopies, &available); err != nil {
		return model.Stats{}, mapError(err)
	}
	st.TotalCopies, st.AvailableCopies = int(totalCopies), int(available)
	st.OnLoan = st.TotalCopies - st.AvailableCopies

	const open = `
select count(*), count(*) filter (where due_at < @now)
from loans
where returned_at is null`
	if err := q.db.QueryRow(ctx, open, pgx.NamedArgs{"now": now}).Scan(&st.OpenLoans, &st.OverdueLoans); err != nil {
		return model.Stats{}, mapError(err)
	}

	const fines = `select coalesce(sum(amount), 0)::bigint from fines where not paid`
	if err := q.db.QueryRow(ctx, fines).Scan(&unpaid); err != nil {
		return model.Stats{}, mapError(err)
	}
	st.UnpaidFines = model.Money(unpaid)

	query, args, err := qb.Select("id", "name", "borrowed_count").
		From(titlesTableName).
		Where(sq.Gt{"borrowed_count": 0}).
		OrderBy("borrowed_count desc", "name").
		Limit(uint64(top)).
		ToSql()
	if err != nil {
		return model.Stats{}, err
	}
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return model.Stats{}, mapError(err)
	}
	defer rows.Close()

	st.Popular, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.PopularTitle])
	if err != nil {
		return model.Stats{}, mapError(err)
	}
	return st, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == openLoanIndex {
			return errors.Wrap(errs.ErrAlreadyBorrowed, pgErr.ConstraintName)
		}
		if pgErr.TableName == titlesTableName {
			return errors.Wrap(errs.ErrTitleExists, pgErr.ConstraintName)
		}
	case pgerrcode.CheckViolation:
		return errors.Wrap(errs.ErrInvariant, pgErr.ConstraintName)
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return errors.Wrap(errs.ErrConcurrencyConflict, pgErr.Message)
	case pgerrcode.InvalidTextRepresentation, pgerrcode.ForeignKeyViolation:
		return errors.Wrap(errs.ErrNotFound, pgErr.Message)
	}
	return err
}

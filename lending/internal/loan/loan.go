// Package loan owns the lifecycle of a single borrowing record.
//
//	BORROWED -> RETURNED
//	BORROWED -> OVERDUE   (derived from now > dueAt, never stored)
//	OVERDUE  -> RETURNED
//	BORROWED/OVERDUE -> LOST
//
// RETURNED and LOST are terminal; only administrative fine adjustments touch them afterwards.
package loan

import (
	"strings"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/policy"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Machine struct {
	policy policy.Policy
}

func NewMachine(p policy.Policy) *Machine {
	return &Machine{policy: p}
}

// DueDate resolves the due date of a loan opened at now.
func (m *Machine) DueDate(now time.Time, requested *time.Time) (time.Time, error) {
	limit := now.Add(m.policy.MaxLoanPeriod())
	if requested == nil {
		due := now.Add(m.policy.DefaultLoanPeriod())
		if due.After(limit) {
			due = limit
		}
		return due, nil
	}
	switch {
	case !requested.After(now):
		return time.Time{}, errors.Wrapf(errs.ErrInvalidDueDate, "due date %s is in the past", requested.Format(time.RFC3339))
	case requested.After(limit):
		return time.Time{}, errors.Wrapf(errs.ErrInvalidDueDate, "due date exceeds %d days", int(m.policy.MaxLoanPeriod()/(24*time.Hour)))
	}
	return *requested, nil
}

func (m *Machine) Open(userID, titleID string, dueAt, now time.Time, notes string) model.Loan {
	return model.Loan{
		ID:         uuid.NewString(),
		UserID:     userID,
		TitleID:    titleID,
		BorrowedAt: now,
		DueAt:      dueAt,
		State:      model.StatusBorrowed,
		Notes:      notes,
		UpdatedAt:  now,
	}
}

// Close moves an open loan to RETURNED, or LOST when the copy is gone, charging fine.
func (m *Machine) Close(l *model.Loan, condition model.Condition, fine model.Money, notes string, now time.Time) error {
	if l.IsTerminal() {
		return errors.Wrapf(errs.ErrAlreadyReturned, "loan %s is %s", l.ID, l.State)
	}
	if !condition.Valid() {
		return errors.Wrapf(errs.ErrInvalidInput, "condition %q", condition)
	}
	if fine < 0 {
		return errors.Wrap(errs.ErrInvalidInput, "fine is negative")
	}
	returnedAt := now
	l.ReturnedAt = &returnedAt
	l.State = model.StatusReturned
	if condition == model.ConditionLost {
		l.State = model.StatusLost
	}
	l.Condition = condition
	l.FineAmount += fine
	l.Notes = appendNote(l.Notes, notes)
	l.UpdatedAt = now
	return nil
}

// Renew extends the due date by the standard loan period.
func (m *Machine) Renew(l *model.Loan, now time.Time) error {
	switch l.Status(now) {
	case model.StatusReturned, model.StatusLost:
		return errors.Wrapf(errs.ErrAlreadyReturned, "loan %s is %s", l.ID, l.State)
	case model.StatusOverdue:
		return errors.Wrapf(errs.ErrAlreadyOverdue, "loan %s was due %s", l.ID, l.DueAt.Format(time.RFC3339))
	}
	if l.RenewalCount >= m.policy.MaxRenewals() {
		return errors.Wrapf(errs.ErrRenewalLimitExceeded, "loan %s renewed %d times", l.ID, l.RenewalCount)
	}
	l.DueAt = l.DueAt.Add(m.policy.DefaultLoanPeriod())
	l.RenewalCount++
	l.UpdatedAt = now
	return nil
}

// AdjustFine applies an administrative correction; the balance never drops below zero.
func (m *Machine) AdjustFine(l *model.Loan, delta model.Money, notes string, now time.Time) error {
	if delta == 0 {
		return errors.Wrap(errs.ErrInvalidInput, "adjustment is zero")
	}
	if l.FineAmount+delta < 0 {
		return errors.Wrapf(errs.ErrInvalidInput, "adjustment %d exceeds fine %d", delta, l.FineAmount)
	}
	l.FineAmount += delta
	l.Notes = appendNote(l.Notes, notes)
	l.UpdatedAt = now
	return nil
}

func appendNote(notes, note string) string {
	note = strings.TrimSpace(note)
	switch {
	case note == "":
		return notes
	case notes == "":
		return note
	}
	return notes + "\n" + note
}

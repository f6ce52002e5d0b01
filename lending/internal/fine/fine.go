// Package fine turns a closing loan into the amounts owed by the borrower.
package fine

import (
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/policy"
)

type Breakdown struct {
	Overdue model.Money `json:"overdue"`
	Damaged model.Money `json:"damaged"`
	Lost    model.Money `json:"lost"`
	Total   model.Money `json:"total"`
}

type Calculator struct {
	policy policy.Policy
}

func NewCalculator(p policy.Policy) *Calculator {
	return &Calculator{policy: p}
}

// Calculate has no side effects. A lost book replaces the overdue fine;
// damage is charged on top of it.
func (c *Calculator) Calculate(loan model.Loan, condition model.Condition, now time.Time, price model.Money) Breakdown {
	var b Breakdown
	if condition == model.ConditionLost {
		b.Lost = price * model.Money(c.policy.LostMultiplier())
		if b.Lost < 0 {
			b.Lost = 0
		}
		b.Total = b.Lost
		return b
	}

	b.Overdue = model.Money(model.DaysLate(loan.DueAt, now)) * c.policy.FinePerDay()
	if condition == model.ConditionDamaged {
		b.Damaged = c.policy.DamagedFee()
	}
	b.Total = b.Overdue + b.Damaged
	return b
}

// Accrued is the overdue fine owed so far on an open loan.
func (c *Calculator) Accrued(loan model.Loan, now time.Time) model.Money {
	return model.Money(loan.OverdueDays(now)) * c.policy.FinePerDay()
}

// Records splits a breakdown into one fine record per non-zero component.
func (b Breakdown) Records() []model.Fine {
	var fines []model.Fine
	for _, part := range []struct {
		amount model.Money
		reason model.Reason
	}{
		{b.Overdue, model.ReasonOverdue},
		{b.Damaged, model.ReasonDamaged},
		{b.Lost, model.ReasonLost},
	} {
		if part.amount > 0 {
			fines = append(fines, model.Fine{Amount: part.amount, Reason: part.reason})
		}
	}
	return fines
}

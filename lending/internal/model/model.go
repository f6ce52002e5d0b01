package model

import (
	"time"
)

// Money is an amount in minor currency units.
type Money int64

type Role string

const (
	RoleMember    Role = "member"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

// Account is what the account service knows about a borrower.
type Account struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Active   bool   `json:"active"`
}

type Condition string

const (
	ConditionGood    Condition = "good"
	ConditionDamaged Condition = "damaged"
	ConditionLost    Condition = "lost"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionGood, ConditionDamaged, ConditionLost:
		return true
	}
	return false
}

type Status string

const (
	StatusBorrowed Status = "BORROWED"
	StatusReturned Status = "RETURNED"
	StatusOverdue  Status = "OVERDUE"
	StatusLost     Status = "LOST"
)

type Reason string

const (
	ReasonOverdue Reason = "overdue"
	ReasonLost    Reason = "lost"
	ReasonDamaged Reason = "damaged"
	ReasonOther   Reason = "other"
)

// Copies is the pair of counters the inventory ledger swaps atomically.
type Copies struct {
	Total     int `json:"totalCopies"`
	Available int `json:"availableCopies"`
}

func (c Copies) OnLoan() int {
	return c.Total - c.Available
}

func (c Copies) Valid() bool {
	return c.Available >= 0 && c.Available <= c.Total
}

type Title struct {
	ID              string    `json:"titleUid" db:"id"`
	Name            string    `json:"name" db:"name"`
	Author          string    `json:"author" db:"author"`
	ISBN            string    `json:"isbn" db:"isbn"`
	Price           Money     `json:"price" db:"price"`
	TotalCopies     int       `json:"totalCopies" db:"total_copies"`
	AvailableCopies int       `json:"availableCopies" db:"available_copies"`
	BorrowedCount   int64     `json:"borrowedCount" db:"borrowed_count"`
	Active          bool      `json:"active" db:"active"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

func (t Title) Copies() Copies {
	return Copies{Total: t.TotalCopies, Available: t.AvailableCopies}
}

func (t Title) ActiveLoanCount() int {
	return t.TotalCopies - t.AvailableCopies
}

type Loan struct {
	ID           string     `json:"loanUid" db:"id"`
	UserID       string     `json:"userId" db:"user_id"`
	TitleID      string     `json:"titleUid" db:"title_id"`
	BorrowedAt   time.Time  `json:"borrowedAt" db:"borrowed_at"`
	DueAt        time.Time  `json:"dueAt" db:"due_at"`
	ReturnedAt   *time.Time `json:"returnedAt,omitempty" db:"returned_at"`
	State        Status     `json:"-" db:"status"`
	RenewalCount int        `json:"renewalCount" db:"renewal_count"`
	FineAmount   Money      `json:"fineAmount" db:"fine_amount"`
	Condition    Condition  `json:"condition,omitempty" db:"condition"`
	Notes        string     `json:"notes" db:"notes"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsTerminal reports whether the loan is closed for good.
func (l Loan) IsTerminal() bool {
	return l.State == StatusReturned || l.State == StatusLost
}

// Status derives the observable status at now. OVERDUE is never stored.
func (l Loan) Status(now time.Time) Status {
	if l.IsTerminal() {
		return l.State
	}
	if now.After(l.DueAt) {
		return StatusOverdue
	}
	return StatusBorrowed
}

func (l Loan) IsOverdue(now time.Time) bool {
	return l.Status(now) == StatusOverdue
}

// OverdueDays counts started days past due, zero unless the loan is overdue at now.
func (l Loan) OverdueDays(now time.Time) int {
	if !l.IsOverdue(now) {
		return 0
	}
	return DaysLate(l.DueAt, now)
}

// DaysLate is ceil((now - dueAt) / 24h), or zero when now is not after dueAt.
func DaysLate(dueAt, now time.Time) int {
	if !now.After(dueAt) {
		return 0
	}
	late := now.Sub(dueAt)
	days := late / (24 * time.Hour)
	if late%(24*time.Hour) != 0 {
		days++
	}
	return int(days)
}

// LoanInfo is a loan together with the fields derived at read time.
type LoanInfo struct {
	Loan
	Status      Status `json:"status"`
	IsOverdue   bool   `json:"isOverdue"`
	OverdueDays int    `json:"overdueDays"`
}

func NewLoanInfo(l Loan, now time.Time) LoanInfo {
	return LoanInfo{
		Loan:        l,
		Status:      l.Status(now),
		IsOverdue:   l.IsOverdue(now),
		OverdueDays: l.OverdueDays(now),
	}
}

type Fine struct {
	ID        string     `json:"fineUid" db:"id"`
	LoanID    string     `json:"loanUid" db:"loan_id"`
	UserID    string     `json:"userId" db:"user_id"`
	Amount    Money      `json:"amount" db:"amount"`
	Reason    Reason     `json:"reason" db:"reason"`
	Paid      bool       `json:"paid" db:"paid"`
	PaidDate  *time.Time `json:"paidDate,omitempty" db:"paid_date"`
	Notes     string     `json:"notes" db:"notes"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

type ReturnResult struct {
	Loan        LoanInfo `json:"loan"`
	FineCharged Money    `json:"fineCharged"`
	Fines       []Fine   `json:"fines"`
}

type Availability struct {
	TitleID         string `json:"titleUid"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
	OnLoan          int    `json:"onLoan"`
	Active          bool   `json:"active"`
}

type PopularTitle struct {
	TitleID       string `json:"titleUid" db:"id"`
	Name          string `json:"name" db:"name"`
	BorrowedCount int64  `json:"borrowedCount" db:"borrowed_count"`
}

type Stats struct {
	Titles          int            `json:"titles"`
	TotalCopies     int            `json:"totalCopies"`
	AvailableCopies int            `json:"availableCopies"`
	OnLoan          int            `json:"onLoan"`
	OpenLoans       int            `json:"openLoans"`
	OverdueLoans    int            `json:"overdueLoans"`
	UnpaidFines     Money          `json:"unpaidFines"`
	Popular         []PopularTitle `json:"popular"`
}

type SweepResult struct {
	Overdue   int `json:"overdue"`
	Reminders int `json:"reminders"`
}

package errs

import (
	"github.com/pkg/errors"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindInvalidInput
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Kind() Kind { return e.kind }

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

var (
	ErrNotFound = newError(KindNotFound, "not found")

	ErrNoCopiesAvailable    = newError(KindConflict, "no copies available")
	ErrLimitExceeded        = newError(KindConflict, "borrow limit exceeded")
	ErrAlreadyBorrowed      = newError(KindConflict, "title already borrowed by user")
	ErrAlreadyReturned      = newError(KindConflict, "loan already returned")
	ErrRenewalLimitExceeded = newError(KindConflict, "renewal limit exceeded")
	ErrAlreadyOverdue       = newError(KindConflict, "loan is overdue")
	ErrInactiveUser         = newError(KindConflict, "user account is inactive")
	ErrTitleInactive        = newError(KindConflict, "title is not available for borrowing")
	ErrTitleExists          = newError(KindConflict, "title already exists")
	ErrConcurrencyConflict  = newError(KindConflict, "concurrent modification")

	ErrInvalidDueDate  = newError(KindInvalidInput, "invalid due date")
	ErrInvalidQuantity = newError(KindInvalidInput, "invalid quantity")
	ErrInvalidInput    = newError(KindInvalidInput, "invalid input")

	ErrOverRelease = newError(KindInvariant, "release exceeds total copies")
	ErrInvariant   = newError(KindInvariant, "inventory invariant violated")
)

// KindOf classifies err by the sentinel it wraps.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

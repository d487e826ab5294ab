package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation violates an exclusivity rule,
// e.g. opening a second session on a register that already has one open.
var ErrConflict = errors.New("operation conflicts with existing resource")

// ErrState indicates that the operation is not valid for the current
// session or register status, e.g. closing an already closed session.
var ErrState = errors.New("operation invalid for current state")

// ErrIntegrity indicates a balance-chain mismatch detected on read.
// It is never repaired automatically; it must be surfaced as a hard failure.
var ErrIntegrity = errors.New("ledger integrity fault")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level failure (usually from the persistence layer)
// with an HTTP-ish status code and a message safe to show to the operator.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError that matches ErrNotFound under errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// InsufficientFundsError is returned when a transfer or egress exceeds the
// available balance of the source session. It carries both sides so the
// message can be shown verbatim to the operator.
type InsufficientFundsError struct {
	SessionID string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in session %s: available %s, requested %s",
		e.SessionID, e.Available.StringFixed(2), e.Requested.StringFixed(2))
}

// NewInsufficientFundsError creates an InsufficientFundsError for a session.
func NewInsufficientFundsError(sessionID string, available, requested decimal.Decimal) *InsufficientFundsError {
	return &InsufficientFundsError{SessionID: sessionID, Available: available, Requested: requested}
}

// IsInsufficientFunds reports whether err is an InsufficientFundsError.
func IsInsufficientFunds(err error) (*InsufficientFundsError, bool) {
	var ife *InsufficientFundsError
	ok := errors.As(err, &ife)
	return ife, ok
}

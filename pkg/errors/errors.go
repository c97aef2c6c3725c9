package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound      = errors.New("loan not found")
	ErrLoanAlreadyExists = errors.New("loan already exists")
	ErrInvalidTransition = errors.New("invalid loan state transition")
	ErrTierLimitExceeded = errors.New("principal exceeds client tier limit")
	ErrBelowMinimum      = errors.New("principal is below the minimum loan amount")
	ErrRepaymentRejected = errors.New("repayment rejected")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound      = "LOAN_NOT_FOUND"
	ErrCodeLoanAlreadyExists = "LOAN_ALREADY_EXISTS"
	ErrCodeInvalidArgument   = "INVALID_ARGUMENT"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeTierLimitExceeded = "TIER_LIMIT_EXCEEDED"
	ErrCodeBelowMinimum      = "BELOW_MINIMUM_PRINCIPAL"
	ErrCodeRepaymentRejected = "REPAYMENT_REJECTED"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeCacheError        = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapLoanNotFound(loanNumber string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("loan %s not found", loanNumber),
		ErrLoanNotFound,
	)
}

func WrapLoanAlreadyExists(loanNumber string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyExists,
		fmt.Sprintf("loan %s already exists", loanNumber),
		ErrLoanAlreadyExists,
	)
}

// WrapInvalidArgument marks a caller error: the same input will never
// succeed on retry.
func WrapInvalidArgument(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidArgument,
		err.Error(),
		err,
	)
}

// WrapInvalidTransition carries a state-machine guard failure. These are
// recoverable: nothing was mutated and the reason is safe to show the user.
func WrapInvalidTransition(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTransition,
		reason,
		ErrInvalidTransition,
	)
}

func WrapTierLimitExceeded(level, limit string) *BusinessError {
	return NewBusinessError(
		ErrCodeTierLimitExceeded,
		fmt.Sprintf("principal exceeds the %s tier limit of %s", level, limit),
		ErrTierLimitExceeded,
	)
}

func WrapBelowMinimum(minimum string) *BusinessError {
	return NewBusinessError(
		ErrCodeBelowMinimum,
		fmt.Sprintf("principal must be at least %s", minimum),
		ErrBelowMinimum,
	)
}

func WrapRepaymentRejected(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeRepaymentRejected,
		err.Error(),
		ErrRepaymentRejected,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}

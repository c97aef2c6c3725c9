package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/peteCoder/seashore-mf-be/internal/domain"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create persists a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByLoanNumber retrieves a loan by its loan number
	GetByLoanNumber(ctx context.Context, loanNumber string) (*domain.Loan, error)

	// Update writes back the loan's mutable state (status, balances, dates, actors)
	Update(ctx context.Context, loan *domain.Loan) error

	// LatestLoanNumber returns the highest issued loan number with the given
	// prefix, or "" when none exists yet
	LatestLoanNumber(ctx context.Context, prefix string) (string, error)

	// ListByStatus retrieves loans in the given status
	ListByStatus(ctx context.Context, status string) ([]*domain.Loan, error)

	// ListActiveDueBefore retrieves active loans whose next repayment date
	// falls before the given date
	ListActiveDueBefore(ctx context.Context, date time.Time) ([]*domain.Loan, error)
}

// RepaymentRepository defines the interface for repayment data operations
type RepaymentRepository interface {
	// Create persists a repayment record
	Create(ctx context.Context, repayment *domain.Repayment) error

	// GetByLoanNumber retrieves all repayments for a loan, oldest first
	GetByLoanNumber(ctx context.Context, loanNumber string) ([]*domain.Repayment, error)

	// GetTotalPaid sums the recorded repayments for a loan
	GetTotalPaid(ctx context.Context, loanNumber string) (decimal.Decimal, error)
}

package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/peteCoder/seashore-mf-be/internal/domain"
)

type repaymentRepository struct {
	db *sqlx.DB
}

func NewRepaymentRepository(db *sqlx.DB) RepaymentRepository {
	return &repaymentRepository{db: db}
}

func (r *repaymentRepository) Create(ctx context.Context, repayment *domain.Repayment) error {
	query := `
		INSERT INTO loan_repayments (id, loan_number, amount, balance_after, recorded_by, payment_date, created_at)
		VALUES (:id, :loan_number, :amount, :balance_after, :recorded_by, :payment_date, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, repayment)
	return err
}

func (r *repaymentRepository) GetByLoanNumber(ctx context.Context, loanNumber string) ([]*domain.Repayment, error) {
	query := `
		SELECT id, loan_number, amount, balance_after, recorded_by, payment_date, created_at
		FROM loan_repayments
		WHERE loan_number = $1
		ORDER BY payment_date
	`

	var repayments []*domain.Repayment
	if err := r.db.SelectContext(ctx, &repayments, query, loanNumber); err != nil {
		return nil, err
	}

	return repayments, nil
}

func (r *repaymentRepository) GetTotalPaid(ctx context.Context, loanNumber string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM loan_repayments
		WHERE loan_number = $1
	`

	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, query, loanNumber); err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

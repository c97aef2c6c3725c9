package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/peteCoder/seashore-mf-be/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `
	id, loan_number, client_id, branch_id, created_by, approved_by, disbursed_by,
	principal_amount, repayment_frequency, duration_value,
	monthly_interest_rate, annual_interest_rate, duration_months,
	total_interest, total_repayment, installment_amount, number_of_installments,
	amount_paid, outstanding_balance, status,
	application_date, approval_date, disbursement_date,
	first_repayment_date, final_repayment_date, next_repayment_date, completion_date,
	disbursement_method, disbursement_reference, amount_disbursed,
	purpose, guarantor_name, guarantor_phone, collateral_description,
	rejection_reason, created_at, updated_at
`

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES (
			:id, :loan_number, :client_id, :branch_id, :created_by, :approved_by, :disbursed_by,
			:principal_amount, :repayment_frequency, :duration_value,
			:monthly_interest_rate, :annual_interest_rate, :duration_months,
			:total_interest, :total_repayment, :installment_amount, :number_of_installments,
			:amount_paid, :outstanding_balance, :status,
			:application_date, :approval_date, :disbursement_date,
			:first_repayment_date, :final_repayment_date, :next_repayment_date, :completion_date,
			:disbursement_method, :disbursement_reference, :amount_disbursed,
			:purpose, :guarantor_name, :guarantor_phone, :collateral_description,
			:rejection_reason, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, loan)
	return err
}

func (r *loanRepository) GetByLoanNumber(ctx context.Context, loanNumber string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_number = $1`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, loanNumber); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	loan.UpdatedAt = time.Now()

	query := `
		UPDATE loans SET
			approved_by = :approved_by,
			disbursed_by = :disbursed_by,
			monthly_interest_rate = :monthly_interest_rate,
			annual_interest_rate = :annual_interest_rate,
			duration_months = :duration_months,
			total_interest = :total_interest,
			total_repayment = :total_repayment,
			installment_amount = :installment_amount,
			number_of_installments = :number_of_installments,
			amount_paid = :amount_paid,
			outstanding_balance = :outstanding_balance,
			status = :status,
			approval_date = :approval_date,
			disbursement_date = :disbursement_date,
			first_repayment_date = :first_repayment_date,
			final_repayment_date = :final_repayment_date,
			next_repayment_date = :next_repayment_date,
			completion_date = :completion_date,
			disbursement_method = :disbursement_method,
			disbursement_reference = :disbursement_reference,
			amount_disbursed = :amount_disbursed,
			rejection_reason = :rejection_reason,
			updated_at = :updated_at
		WHERE loan_number = :loan_number
	`

	_, err := r.db.NamedExecContext(ctx, query, loan)
	return err
}

func (r *loanRepository) LatestLoanNumber(ctx context.Context, prefix string) (string, error) {
	query := `
		SELECT loan_number FROM loans
		WHERE loan_number LIKE $1
		ORDER BY loan_number DESC
		LIMIT 1
	`

	var loanNumber string
	err := r.db.GetContext(ctx, &loanNumber, query, prefix+"%")
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return loanNumber, nil
}

func (r *loanRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + ` FROM loans
		WHERE status = $1
		ORDER BY application_date DESC
	`

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query, status); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListActiveDueBefore(ctx context.Context, date time.Time) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + ` FROM loans
		WHERE status = $1 AND next_repayment_date IS NOT NULL AND next_repayment_date < $2
		ORDER BY next_repayment_date
	`

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query, domain.LoanStatusActive, date); err != nil {
		return nil, err
	}

	return loans, nil
}

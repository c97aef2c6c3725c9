package domain

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/peteCoder/seashore-mf-be/internal/calculator"
)

// Loan statuses. Transitions are monotonic: pending_approval goes to
// approved or rejected, approved goes active on disbursement, active and
// overdue flip between each other during repayment, and rejected/completed
// are terminal.
const (
	LoanStatusPendingApproval = "pending_approval"
	LoanStatusApproved        = "approved"
	LoanStatusRejected        = "rejected"
	LoanStatusActive          = "active"
	LoanStatusOverdue         = "overdue"
	LoanStatusCompleted       = "completed"
)

// completionEpsilon absorbs the sub-cent remainder that flat division of the
// total repayment can leave after the final installment.
var completionEpsilon = decimal.NewFromFloat(0.01)

// Loan is the aggregate root for a single loan. Interest figures are set
// from a calculator.Calculation at creation and recomputed in full at
// disbursement; they are never adjusted incrementally.
type Loan struct {
	ID         uuid.UUID `json:"id" db:"id"`
	LoanNumber string    `json:"loan_number" db:"loan_number"`

	ClientID    uuid.UUID     `json:"client_id" db:"client_id"`
	BranchID    uuid.UUID     `json:"branch_id" db:"branch_id"`
	CreatedBy   uuid.UUID     `json:"created_by" db:"created_by"`
	ApprovedBy  uuid.NullUUID `json:"approved_by" db:"approved_by"`
	DisbursedBy uuid.NullUUID `json:"disbursed_by" db:"disbursed_by"`

	PrincipalAmount    decimal.Decimal      `json:"principal_amount" db:"principal_amount"`
	RepaymentFrequency calculator.Frequency `json:"repayment_frequency" db:"repayment_frequency"`
	DurationValue      int                  `json:"duration_value" db:"duration_value"`

	MonthlyInterestRate  decimal.Decimal `json:"monthly_interest_rate" db:"monthly_interest_rate"`
	AnnualInterestRate   decimal.Decimal `json:"annual_interest_rate" db:"annual_interest_rate"`
	DurationMonths       decimal.Decimal `json:"duration_months" db:"duration_months"`
	TotalInterest        decimal.Decimal `json:"total_interest" db:"total_interest"`
	TotalRepayment       decimal.Decimal `json:"total_repayment" db:"total_repayment"`
	InstallmentAmount    decimal.Decimal `json:"installment_amount" db:"installment_amount"`
	NumberOfInstallments int             `json:"number_of_installments" db:"number_of_installments"`

	AmountPaid         decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance" db:"outstanding_balance"`

	Status string `json:"status" db:"status"`

	ApplicationDate    time.Time    `json:"application_date" db:"application_date"`
	ApprovalDate       sql.NullTime `json:"approval_date" db:"approval_date"`
	DisbursementDate   sql.NullTime `json:"disbursement_date" db:"disbursement_date"`
	FirstRepaymentDate sql.NullTime `json:"first_repayment_date" db:"first_repayment_date"`
	FinalRepaymentDate sql.NullTime `json:"final_repayment_date" db:"final_repayment_date"`
	NextRepaymentDate  sql.NullTime `json:"next_repayment_date" db:"next_repayment_date"`
	CompletionDate     sql.NullTime `json:"completion_date" db:"completion_date"`

	DisbursementMethod    sql.NullString  `json:"disbursement_method" db:"disbursement_method"`
	DisbursementReference sql.NullString  `json:"disbursement_reference" db:"disbursement_reference"`
	AmountDisbursed       decimal.Decimal `json:"amount_disbursed" db:"amount_disbursed"`

	Purpose               string         `json:"purpose" db:"purpose"`
	GuarantorName         string         `json:"guarantor_name" db:"guarantor_name"`
	GuarantorPhone        string         `json:"guarantor_phone" db:"guarantor_phone"`
	CollateralDescription sql.NullString `json:"collateral_description" db:"collateral_description"`

	RejectionReason sql.NullString `json:"rejection_reason" db:"rejection_reason"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ApplyCalculation copies a freshly computed repayment plan onto the loan.
// The outstanding balance resets to the new total repayment and the next
// repayment date re-anchors to the plan's first payment date.
func (l *Loan) ApplyCalculation(calc *calculator.Calculation) {
	l.MonthlyInterestRate = calc.MonthlyInterestRate
	l.AnnualInterestRate = calc.AnnualInterestRate
	l.DurationMonths = calc.DurationMonths
	l.TotalInterest = calc.TotalInterest
	l.TotalRepayment = calc.TotalRepayment
	l.InstallmentAmount = calc.InstallmentAmount
	l.NumberOfInstallments = calc.NumberOfInstallments
	l.FirstRepaymentDate = sql.NullTime{Time: calc.FirstPaymentDate, Valid: true}
	l.FinalRepaymentDate = sql.NullTime{Time: calc.FinalPaymentDate, Valid: true}
	l.NextRepaymentDate = sql.NullTime{Time: calc.FirstPaymentDate, Valid: true}
	l.OutstandingBalance = calc.TotalRepayment
}

// Approve moves a pending loan to approved, recording the approver and the
// approval time. Returns false with a reason when the loan is not pending.
func (l *Loan) Approve(approvedBy uuid.UUID, now time.Time) (bool, string) {
	if l.Status != LoanStatusPendingApproval {
		return false, fmt.Sprintf("cannot approve loan with status: %s", l.Status)
	}

	l.Status = LoanStatusApproved
	l.ApprovedBy = uuid.NullUUID{UUID: approvedBy, Valid: true}
	l.ApprovalDate = sql.NullTime{Time: now, Valid: true}
	return true, "loan approved successfully"
}

// Reject moves a pending loan to rejected and stores the reason. An empty
// reason is accepted here; callers are expected to require one.
func (l *Loan) Reject(reason string, now time.Time) (bool, string) {
	if l.Status != LoanStatusPendingApproval {
		return false, fmt.Sprintf("cannot reject loan with status: %s", l.Status)
	}

	l.Status = LoanStatusRejected
	l.RejectionReason = sql.NullString{String: reason, Valid: true}
	l.UpdatedAt = now
	return true, "loan rejected"
}

// Disburse activates an approved loan. The caller supplies a repayment plan
// recomputed from the actual disbursement time so the schedule reflects when
// money moved, not when the application was filed.
func (l *Loan) Disburse(disbursedBy uuid.UUID, calc *calculator.Calculation, now time.Time) (bool, string) {
	if l.Status != LoanStatusApproved {
		return false, fmt.Sprintf("only approved loans can be disbursed, current status: %s", l.Status)
	}

	l.Status = LoanStatusActive
	l.DisbursedBy = uuid.NullUUID{UUID: disbursedBy, Valid: true}
	l.DisbursementDate = sql.NullTime{Time: now, Valid: true}
	l.AmountDisbursed = l.PrincipalAmount
	l.ApplyCalculation(calc)
	return true, "loan disbursed successfully"
}

// RecordRepayment applies a repayment to the loan. The whole amount is
// applied or none of it: a non-positive amount, an amount above the
// outstanding balance, or a loan outside active/overdue leaves the loan
// untouched. A balance within completionEpsilon of zero clamps to zero and
// completes the loan; otherwise the status follows whether the advanced
// next repayment date has already passed.
func (l *Loan) RecordRepayment(amount decimal.Decimal, now time.Time) error {
	if l.Status != LoanStatusActive && l.Status != LoanStatusOverdue {
		return fmt.Errorf("cannot record repayment for loan with status: %s", l.Status)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("repayment amount must be greater than zero")
	}
	if amount.GreaterThan(l.OutstandingBalance) {
		return fmt.Errorf("repayment amount (%s) exceeds outstanding balance (%s)",
			amount.StringFixed(2), l.OutstandingBalance.StringFixed(2))
	}

	l.AmountPaid = l.AmountPaid.Add(amount)
	l.OutstandingBalance = l.OutstandingBalance.Sub(amount)

	next := calculator.DateOnly(now)
	if l.NextRepaymentDate.Valid {
		next = l.NextRepaymentDate.Time
	}
	next = calculator.NextPaymentDate(next, l.RepaymentFrequency)
	l.NextRepaymentDate = sql.NullTime{Time: next, Valid: true}

	if l.OutstandingBalance.LessThanOrEqual(completionEpsilon) {
		l.OutstandingBalance = decimal.Zero
		l.Status = LoanStatusCompleted
		l.CompletionDate = sql.NullTime{Time: now, Valid: true}
	} else if next.Before(calculator.DateOnly(now)) {
		l.Status = LoanStatusOverdue
	} else {
		l.Status = LoanStatusActive
	}

	return nil
}

// MarkOverdue flips an active loan to overdue once its next repayment date
// has passed. Reports whether the status changed.
func (l *Loan) MarkOverdue(now time.Time) bool {
	if l.Status != LoanStatusActive || !l.NextRepaymentDate.Valid {
		return false
	}
	if !l.NextRepaymentDate.Time.Before(calculator.DateOnly(now)) {
		return false
	}
	l.Status = LoanStatusOverdue
	return true
}

// DaysOverdue reports how many whole days the loan is past its next
// repayment date. Zero unless the loan is overdue.
func (l *Loan) DaysOverdue(now time.Time) int {
	if l.Status != LoanStatusOverdue || !l.NextRepaymentDate.Valid {
		return 0
	}

	days := int(calculator.DateOnly(now).Sub(calculator.DateOnly(l.NextRepaymentDate.Time)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

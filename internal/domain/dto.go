package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/peteCoder/seashore-mf-be/internal/calculator"
)

// Client borrowing tiers. Each tier caps the principal a client may apply
// for; the limits live in configuration.
const (
	ClientLevelBronze   = "bronze"
	ClientLevelSilver   = "silver"
	ClientLevelGold     = "gold"
	ClientLevelPlatinum = "platinum"
	ClientLevelDiamond  = "diamond"
)

// DTOs for requests and responses

type ApplyLoanRequest struct {
	ClientID           uuid.UUID       `json:"client_id" validate:"required"`
	ClientLevel        string          `json:"client_level" validate:"required,oneof=bronze silver gold platinum diamond"`
	BranchID           uuid.UUID       `json:"branch_id" validate:"required"`
	CreatedBy          uuid.UUID       `json:"created_by" validate:"required"`
	PrincipalAmount    decimal.Decimal `json:"principal_amount" validate:"required"`
	RepaymentFrequency string          `json:"repayment_frequency" validate:"required,oneof=daily weekly biweekly monthly"`
	DurationValue      int             `json:"duration_value" validate:"required,gt=0"`
	Purpose            string          `json:"purpose" validate:"required"`
	GuarantorName      string          `json:"guarantor_name" validate:"required"`
	GuarantorPhone     string          `json:"guarantor_phone" validate:"required"`
	Collateral         string          `json:"collateral,omitempty"`
}

// Frequency converts the validated wire value into a calculator.Frequency.
func (r *ApplyLoanRequest) Frequency() calculator.Frequency {
	return calculator.Frequency(r.RepaymentFrequency)
}

type ApproveLoanRequest struct {
	ApprovedBy uuid.UUID `json:"approved_by" validate:"required"`
}

type RejectLoanRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type DisburseLoanRequest struct {
	DisbursedBy uuid.UUID `json:"disbursed_by" validate:"required"`
	Method      string    `json:"method" validate:"omitempty,oneof=bank_transfer cash mobile_money cheque"`
	Reference   string    `json:"reference,omitempty"`
}

type RepaymentRequest struct {
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	RecordedBy uuid.UUID       `json:"recorded_by" validate:"required"`
}

type ApplyLoanResponse struct {
	Loan     *Loan                      `json:"loan"`
	Schedule []calculator.ScheduleEntry `json:"schedule"`
}

type TransitionResponse struct {
	LoanNumber string `json:"loan_number"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type RepaymentResponse struct {
	LoanNumber         string          `json:"loan_number"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	Status             string          `json:"status"`
}

type ScheduleResponse struct {
	LoanNumber string                     `json:"loan_number"`
	Schedule   []calculator.ScheduleEntry `json:"schedule"`
}

type OverdueResponse struct {
	LoanNumber  string `json:"loan_number"`
	Status      string `json:"status"`
	DaysOverdue int    `json:"days_overdue"`
}

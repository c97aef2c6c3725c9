package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repayment is one recorded payment against a loan.
type Repayment struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	LoanNumber   string          `json:"loan_number" db:"loan_number"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after" db:"balance_after"`
	RecordedBy   uuid.NullUUID   `json:"recorded_by" db:"recorded_by"`
	PaymentDate  time.Time       `json:"payment_date" db:"payment_date"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

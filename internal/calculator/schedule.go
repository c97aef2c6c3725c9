package calculator

import (
	"time"

	"github.com/shopspring/decimal"
)

const InstallmentStatusPending = "pending"

// ScheduleEntry is one projected installment in a repayment schedule.
type ScheduleEntry struct {
	InstallmentNumber   int             `json:"installment_number"`
	DueDate             time.Time       `json:"due_date"`
	InstallmentAmount   decimal.Decimal `json:"installment_amount"`
	BalanceAfterPayment decimal.Decimal `json:"balance_after_payment"`
	Status              string          `json:"status"`
}

// GenerateSchedule projects the full installment schedule for the given
// terms. The projection is static: every entry starts pending and the
// running balance assumes each installment is paid in full, floored at zero.
// It is a pure function of its inputs and independent of actual payment
// history.
func (e *Engine) GenerateSchedule(principal decimal.Decimal, frequency Frequency, durationValue int, startDate time.Time) ([]ScheduleEntry, error) {
	calc, err := e.CalculateLoan(principal, frequency, durationValue, startDate)
	if err != nil {
		return nil, err
	}

	schedule := make([]ScheduleEntry, 0, durationValue)
	balance := calc.TotalRepayment
	dueDate := calc.FirstPaymentDate

	for i := 1; i <= durationValue; i++ {
		balance = balance.Sub(calc.InstallmentAmount)
		if balance.IsNegative() {
			balance = decimal.Zero
		}

		schedule = append(schedule, ScheduleEntry{
			InstallmentNumber:   i,
			DueDate:             dueDate,
			InstallmentAmount:   calc.InstallmentAmount,
			BalanceAfterPayment: balance,
			Status:              InstallmentStatusPending,
		})

		dueDate = NextPaymentDate(dueDate, frequency)
	}

	return schedule, nil
}

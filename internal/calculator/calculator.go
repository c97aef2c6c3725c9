package calculator

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Argument errors. These are caller errors: the same input will never
// succeed on retry.
var (
	ErrUnknownFrequency = errors.New("unknown repayment frequency")
	ErrInvalidPrincipal = errors.New("principal amount must be greater than zero")
	ErrInvalidDuration  = errors.New("duration must be greater than zero")
)

// Month-conversion divisors. Fixed approximations, not calendar-exact; the
// rest of the system depends on these exact values for reproducible figures.
var (
	daysPerMonth    = decimal.NewFromInt(30)
	weeksPerMonth   = decimal.NewFromFloat(4.33)
	biweeksPerMonth = decimal.NewFromFloat(2.17)
)

// Calculation is the fully specified repayment plan derived from raw loan
// terms. It is immutable once produced.
type Calculation struct {
	PrincipalAmount      decimal.Decimal `json:"principal_amount"`
	MonthlyInterestRate  decimal.Decimal `json:"monthly_interest_rate"`
	AnnualInterestRate   decimal.Decimal `json:"annual_interest_rate"`
	RepaymentFrequency   Frequency       `json:"repayment_frequency"`
	DurationValue        int             `json:"duration_value"`
	DurationMonths       decimal.Decimal `json:"duration_months"`
	TotalInterest        decimal.Decimal `json:"total_interest"`
	TotalRepayment       decimal.Decimal `json:"total_repayment"`
	InstallmentAmount    decimal.Decimal `json:"installment_amount"`
	NumberOfInstallments int             `json:"number_of_installments"`
	FirstPaymentDate     time.Time       `json:"first_payment_date"`
	FinalPaymentDate     time.Time       `json:"final_payment_date"`
	OutstandingBalance   decimal.Decimal `json:"outstanding_balance"`
}

// Engine computes flat-rate loan figures from an injected rate table. It is
// stateless apart from the table and safe for concurrent use.
type Engine struct {
	rates RateTable
}

func NewEngine(rates RateTable) *Engine {
	return &Engine{rates: rates}
}

// InterestRate returns the monthly rate for the tier containing
// durationValue. Tiers are checked in table order and the first match wins;
// if nothing matches the last tier's rate applies.
func (e *Engine) InterestRate(frequency Frequency, durationValue int) (decimal.Decimal, error) {
	tiers, ok := e.rates[frequency]
	if !ok || len(tiers) == 0 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownFrequency, frequency)
	}

	for _, tier := range tiers {
		if tier.Contains(durationValue) {
			return tier.MonthlyRate, nil
		}
	}

	return tiers[len(tiers)-1].MonthlyRate, nil
}

// ConvertToMonths normalizes a frequency-native period count to a
// month-equivalent duration for interest computation. An unrecognized
// frequency is returned as-is.
func ConvertToMonths(frequency Frequency, durationValue int) decimal.Decimal {
	d := decimal.NewFromInt(int64(durationValue))
	switch frequency {
	case FrequencyDaily:
		return d.Div(daysPerMonth)
	case FrequencyWeekly:
		return d.Div(weeksPerMonth)
	case FrequencyBiweekly:
		return d.Div(biweeksPerMonth)
	default:
		return d
	}
}

// CalculateLoan produces the complete repayment plan for the given terms
// using the flat-rate method:
//
//	Total Interest = Principal x Monthly Rate x Duration in Months
//	Total Repayment = Principal + Total Interest
//	Installment = Total Repayment / Number of Installments
//
// A zero startDate anchors the schedule to today. Monetary outputs are
// rounded to 2 decimal places; the installment amount is a flat division
// with no remainder redistribution onto the final installment.
func (e *Engine) CalculateLoan(principal decimal.Decimal, frequency Frequency, durationValue int, startDate time.Time) (*Calculation, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidPrincipal
	}
	if durationValue <= 0 {
		return nil, ErrInvalidDuration
	}

	monthlyRate, err := e.InterestRate(frequency, durationValue)
	if err != nil {
		return nil, err
	}

	durationMonths := ConvertToMonths(frequency, durationValue)

	totalInterest := principal.Mul(monthlyRate).Mul(durationMonths).Round(2)
	totalRepayment := principal.Add(totalInterest)
	installment := totalRepayment.Div(decimal.NewFromInt(int64(durationValue))).Round(2)

	if startDate.IsZero() {
		startDate = time.Now()
	}
	startDate = DateOnly(startDate)

	annualRate := monthlyRate.Mul(decimal.NewFromInt(12)).Mul(decimal.NewFromInt(100))

	return &Calculation{
		PrincipalAmount:      principal,
		MonthlyInterestRate:  monthlyRate,
		AnnualInterestRate:   annualRate,
		RepaymentFrequency:   frequency,
		DurationValue:        durationValue,
		DurationMonths:       durationMonths,
		TotalInterest:        totalInterest,
		TotalRepayment:       totalRepayment,
		InstallmentAmount:    installment,
		NumberOfInstallments: durationValue,
		FirstPaymentDate:     NextPaymentDate(startDate, frequency),
		FinalPaymentDate:     FinalPaymentDate(startDate, frequency, durationValue),
		OutstandingBalance:   totalRepayment,
	}, nil
}

// RateInfo returns the tier schedule for a frequency formatted for display,
// percentages with one fraction digit. Unknown frequencies yield nil.
func (e *Engine) RateInfo(frequency Frequency) []TierInfo {
	tiers, ok := e.rates[frequency]
	if !ok {
		return nil
	}

	hundred := decimal.NewFromInt(100)
	twelve := decimal.NewFromInt(12)

	info := make([]TierInfo, 0, len(tiers))
	for _, tier := range tiers {
		monthly := tier.MonthlyRate.Mul(hundred)
		info = append(info, TierInfo{
			Range:       tier.Range(),
			MonthlyRate: monthly.StringFixed(1) + "%",
			AnnualRate:  monthly.Mul(twelve).StringFixed(1) + "%",
		})
	}
	return info
}

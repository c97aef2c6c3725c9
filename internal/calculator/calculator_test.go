package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine() *Engine {
	return NewEngine(DefaultRateTable())
}

func TestInterestRate(t *testing.T) {
	engine := testEngine()

	tests := []struct {
		name          string
		frequency     Frequency
		durationValue int
		expected      string
	}{
		{"daily short term", FrequencyDaily, 30, "0.1"},
		{"daily lower bound of second tier", FrequencyDaily, 31, "0.08"},
		{"daily mid tier", FrequencyDaily, 120, "0.07"},
		{"daily open-ended tier", FrequencyDaily, 365, "0.06"},
		{"weekly first tier", FrequencyWeekly, 12, "0.09"},
		{"weekly second tier", FrequencyWeekly, 20, "0.07"},
		{"weekly third tier", FrequencyWeekly, 52, "0.06"},
		{"weekly open-ended tier", FrequencyWeekly, 53, "0.05"},
		{"monthly first tier", FrequencyMonthly, 3, "0.08"},
		{"monthly second tier", FrequencyMonthly, 6, "0.06"},
		{"monthly third tier", FrequencyMonthly, 12, "0.05"},
		{"monthly open-ended tier", FrequencyMonthly, 24, "0.04"},
		{"biweekly first tier", FrequencyBiweekly, 12, "0.08"},
		{"biweekly second tier", FrequencyBiweekly, 24, "0.06"},
		{"biweekly open-ended tier", FrequencyBiweekly, 25, "0.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := engine.InterestRate(tt.frequency, tt.durationValue)
			require.NoError(t, err)
			assert.True(t, rate.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, rate)
		})
	}
}

func TestInterestRateUnknownFrequency(t *testing.T) {
	engine := testEngine()

	_, err := engine.InterestRate("fortnightly", 10)
	assert.ErrorIs(t, err, ErrUnknownFrequency)
}

func TestInterestRateFallsBackToLastTier(t *testing.T) {
	// A table without an open-ended top tier exercises the fallback path.
	engine := NewEngine(RateTable{
		FrequencyMonthly: {
			{Min: 1, Max: 6, MonthlyRate: decimal.NewFromFloat(0.08)},
			{Min: 7, Max: 12, MonthlyRate: decimal.NewFromFloat(0.05)},
		},
	})

	rate, err := engine.InterestRate(FrequencyMonthly, 100)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.05)))
}

func TestInterestRateMonotonicity(t *testing.T) {
	// For a fixed frequency the rate never increases as duration grows.
	engine := testEngine()

	for frequency, samples := range map[Frequency][]int{
		FrequencyDaily:    {1, 15, 30, 31, 90, 91, 180, 181, 400},
		FrequencyWeekly:   {1, 12, 13, 26, 27, 52, 53, 104},
		FrequencyMonthly:  {1, 2, 3, 4, 6, 7, 12, 13, 36},
		FrequencyBiweekly: {1, 12, 13, 24, 25, 60},
	} {
		previous := decimal.NewFromInt(1)
		for _, duration := range samples {
			rate, err := engine.InterestRate(frequency, duration)
			require.NoError(t, err)
			assert.True(t, rate.LessThanOrEqual(previous),
				"%s: rate at duration %d increased (%s > %s)", frequency, duration, rate, previous)
			previous = rate
		}
	}
}

func TestConvertToMonths(t *testing.T) {
	tests := []struct {
		name          string
		frequency     Frequency
		durationValue int
		expected      decimal.Decimal
	}{
		{"30 days is one month", FrequencyDaily, 30, decimal.NewFromInt(1)},
		{"60 days is two months", FrequencyDaily, 60, decimal.NewFromInt(2)},
		{"weekly uses 4.33 divisor", FrequencyWeekly, 20, decimal.NewFromInt(20).Div(decimal.NewFromFloat(4.33))},
		{"biweekly uses 2.17 divisor", FrequencyBiweekly, 13, decimal.NewFromInt(13).Div(decimal.NewFromFloat(2.17))},
		{"monthly is identity", FrequencyMonthly, 12, decimal.NewFromInt(12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertToMonths(tt.frequency, tt.durationValue)
			assert.True(t, result.Equal(tt.expected), "expected %s, got %s", tt.expected, result)
		})
	}
}

func TestCalculateLoan(t *testing.T) {
	engine := testEngine()
	start := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name                string
		principal           decimal.Decimal
		frequency           Frequency
		durationValue       int
		expectedRate        string
		expectedInterest    string
		expectedRepayment   string
		expectedInstallment string
		expectedAnnualRate  string
	}{
		{
			name:                "daily loan for 30 days",
			principal:           decimal.NewFromInt(50000),
			frequency:           FrequencyDaily,
			durationValue:       30,
			expectedRate:        "0.1",
			expectedInterest:    "5000",
			expectedRepayment:   "55000",
			expectedInstallment: "1833.33",
			expectedAnnualRate:  "120",
		},
		{
			name:                "weekly loan for 20 weeks",
			principal:           decimal.NewFromInt(100000),
			frequency:           FrequencyWeekly,
			durationValue:       20,
			expectedRate:        "0.07",
			expectedInterest:    "32332.56",
			expectedRepayment:   "132332.56",
			expectedInstallment: "6616.63",
			expectedAnnualRate:  "84",
		},
		{
			name:                "monthly loan for 12 months",
			principal:           decimal.NewFromInt(200000),
			frequency:           FrequencyMonthly,
			durationValue:       12,
			expectedRate:        "0.05",
			expectedInterest:    "120000",
			expectedRepayment:   "320000",
			expectedInstallment: "26666.67",
			expectedAnnualRate:  "60",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, err := engine.CalculateLoan(tt.principal, tt.frequency, tt.durationValue, start)
			require.NoError(t, err)

			assert.True(t, calc.MonthlyInterestRate.Equal(decimal.RequireFromString(tt.expectedRate)),
				"rate: expected %s, got %s", tt.expectedRate, calc.MonthlyInterestRate)
			assert.True(t, calc.TotalInterest.Equal(decimal.RequireFromString(tt.expectedInterest)),
				"interest: expected %s, got %s", tt.expectedInterest, calc.TotalInterest)
			assert.True(t, calc.TotalRepayment.Equal(decimal.RequireFromString(tt.expectedRepayment)),
				"repayment: expected %s, got %s", tt.expectedRepayment, calc.TotalRepayment)
			assert.True(t, calc.InstallmentAmount.Equal(decimal.RequireFromString(tt.expectedInstallment)),
				"installment: expected %s, got %s", tt.expectedInstallment, calc.InstallmentAmount)
			assert.True(t, calc.AnnualInterestRate.Equal(decimal.RequireFromString(tt.expectedAnnualRate)),
				"annual rate: expected %s, got %s", tt.expectedAnnualRate, calc.AnnualInterestRate)

			assert.Equal(t, tt.durationValue, calc.NumberOfInstallments)
			assert.True(t, calc.OutstandingBalance.Equal(calc.TotalRepayment))
			assert.True(t, calc.TotalRepayment.GreaterThan(tt.principal),
				"total repayment must exceed principal")
			assert.Equal(t, NextPaymentDate(start, tt.frequency), calc.FirstPaymentDate)
			assert.Equal(t, FinalPaymentDate(start, tt.frequency, tt.durationValue), calc.FinalPaymentDate)
		})
	}
}

func TestCalculateLoanInvalidArguments(t *testing.T) {
	engine := testEngine()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		principal     decimal.Decimal
		frequency     Frequency
		durationValue int
		expectedErr   error
	}{
		{"zero principal", decimal.Zero, FrequencyMonthly, 6, ErrInvalidPrincipal},
		{"negative principal", decimal.NewFromInt(-100), FrequencyMonthly, 6, ErrInvalidPrincipal},
		{"zero duration", decimal.NewFromInt(1000), FrequencyMonthly, 0, ErrInvalidDuration},
		{"negative duration", decimal.NewFromInt(1000), FrequencyMonthly, -3, ErrInvalidDuration},
		{"unknown frequency", decimal.NewFromInt(1000), "quarterly", 6, ErrUnknownFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, err := engine.CalculateLoan(tt.principal, tt.frequency, tt.durationValue, start)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, calc)
		})
	}
}

func TestCalculateLoanIdempotent(t *testing.T) {
	engine := testEngine()
	start := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	first, err := engine.CalculateLoan(decimal.NewFromInt(75000), FrequencyWeekly, 26, start)
	require.NoError(t, err)
	second, err := engine.CalculateLoan(decimal.NewFromInt(75000), FrequencyWeekly, 26, start)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRateInfo(t *testing.T) {
	engine := testEngine()

	info := engine.RateInfo(FrequencyMonthly)
	require.Len(t, info, 4)

	assert.Equal(t, "1-3", info[0].Range)
	assert.Equal(t, "8.0%", info[0].MonthlyRate)
	assert.Equal(t, "96.0%", info[0].AnnualRate)
	assert.Equal(t, "13+", info[3].Range)
	assert.Equal(t, "4.0%", info[3].MonthlyRate)
	assert.Equal(t, "48.0%", info[3].AnnualRate)

	assert.Nil(t, engine.RateInfo("hourly"))
}

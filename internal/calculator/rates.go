package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Frequency is a repayment frequency. Values are lowercase and case-sensitive
// on the wire.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// Valid reports whether f is one of the four supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// RateTier maps an inclusive duration range to a monthly interest rate.
// Max == 0 marks an open-ended tier ("181+", "13+", ...). Duration units are
// frequency-native: days for daily, weeks for weekly, biweekly periods for
// biweekly, months for monthly.
type RateTier struct {
	Min         int
	Max         int
	MonthlyRate decimal.Decimal
}

// Contains reports whether durationValue falls inside the tier's range.
func (t RateTier) Contains(durationValue int) bool {
	if t.Max == 0 {
		return durationValue >= t.Min
	}
	return durationValue >= t.Min && durationValue <= t.Max
}

// Range renders the tier bounds the way they appear in rate sheets, e.g.
// "1-30" or "181+".
func (t RateTier) Range() string {
	if t.Max == 0 {
		return fmt.Sprintf("%d+", t.Min)
	}
	return fmt.Sprintf("%d-%d", t.Min, t.Max)
}

// RateTable holds the ordered rate tiers per frequency. Lookup walks tiers in
// order and the first match wins. The table is treated as immutable once the
// engine is constructed.
type RateTable map[Frequency][]RateTier

// DefaultRateTable returns the standard tiered rate schedule. Rates are
// monthly decimal fractions (0.08 = 8% per month).
func DefaultRateTable() RateTable {
	return RateTable{
		FrequencyDaily: {
			{Min: 1, Max: 30, MonthlyRate: decimal.NewFromFloat(0.10)},
			{Min: 31, Max: 90, MonthlyRate: decimal.NewFromFloat(0.08)},
			{Min: 91, Max: 180, MonthlyRate: decimal.NewFromFloat(0.07)},
			{Min: 181, MonthlyRate: decimal.NewFromFloat(0.06)},
		},
		FrequencyWeekly: {
			{Min: 1, Max: 12, MonthlyRate: decimal.NewFromFloat(0.09)},
			{Min: 13, Max: 26, MonthlyRate: decimal.NewFromFloat(0.07)},
			{Min: 27, Max: 52, MonthlyRate: decimal.NewFromFloat(0.06)},
			{Min: 53, MonthlyRate: decimal.NewFromFloat(0.05)},
		},
		FrequencyMonthly: {
			{Min: 1, Max: 3, MonthlyRate: decimal.NewFromFloat(0.08)},
			{Min: 4, Max: 6, MonthlyRate: decimal.NewFromFloat(0.06)},
			{Min: 7, Max: 12, MonthlyRate: decimal.NewFromFloat(0.05)},
			{Min: 13, MonthlyRate: decimal.NewFromFloat(0.04)},
		},
		FrequencyBiweekly: {
			{Min: 1, Max: 12, MonthlyRate: decimal.NewFromFloat(0.08)},
			{Min: 13, Max: 24, MonthlyRate: decimal.NewFromFloat(0.06)},
			{Min: 25, MonthlyRate: decimal.NewFromFloat(0.05)},
		},
	}
}

// TierInfo is a display-friendly view of one rate tier.
type TierInfo struct {
	Range       string `json:"range"`
	MonthlyRate string `json:"monthly_rate"`
	AnnualRate  string `json:"annual_rate"`
}

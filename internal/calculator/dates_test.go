package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestNextPaymentDate(t *testing.T) {
	tests := []struct {
		name      string
		current   time.Time
		frequency Frequency
		expected  time.Time
	}{
		{"daily adds one day", date(2025, 6, 15), FrequencyDaily, date(2025, 6, 16)},
		{"weekly adds seven days", date(2025, 6, 15), FrequencyWeekly, date(2025, 6, 22)},
		{"biweekly adds fourteen days", date(2025, 6, 15), FrequencyBiweekly, date(2025, 6, 29)},
		{"monthly adds one calendar month", date(2025, 6, 15), FrequencyMonthly, date(2025, 7, 15)},
		{"monthly wraps december into next year", date(2025, 12, 10), FrequencyMonthly, date(2026, 1, 10)},
		{"monthly clamps jan 31 to end of february", date(2025, 1, 31), FrequencyMonthly, date(2025, 2, 28)},
		{"monthly clamps to feb 29 in a leap year", date(2024, 1, 31), FrequencyMonthly, date(2024, 2, 29)},
		{"unknown frequency falls back to 30 days", date(2025, 6, 1), "quarterly", date(2025, 7, 1)},
		{"clock is stripped", time.Date(2025, 6, 15, 23, 45, 0, 0, time.UTC), FrequencyDaily, date(2025, 6, 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextPaymentDate(tt.current, tt.frequency))
		})
	}
}

func TestFinalPaymentDate(t *testing.T) {
	tests := []struct {
		name          string
		start         time.Time
		frequency     Frequency
		durationValue int
		expected      time.Time
	}{
		{"daily 30 days", date(2025, 6, 1), FrequencyDaily, 30, date(2025, 7, 1)},
		{"weekly 20 weeks", date(2025, 1, 6), FrequencyWeekly, 20, date(2025, 5, 26)},
		{"biweekly 6 periods", date(2025, 1, 1), FrequencyBiweekly, 6, date(2025, 3, 26)},
		{"monthly 12 months", date(2025, 3, 15), FrequencyMonthly, 12, date(2026, 3, 15)},
		{"monthly across year boundary", date(2025, 11, 20), FrequencyMonthly, 3, date(2026, 2, 20)},
		{"monthly clamps month-end overflow", date(2025, 1, 31), FrequencyMonthly, 1, date(2025, 2, 28)},
		{"monthly clamps oct 31 plus 4 months", date(2025, 10, 31), FrequencyMonthly, 4, date(2026, 2, 28)},
		{"monthly keeps day when target month is long enough", date(2025, 1, 31), FrequencyMonthly, 2, date(2025, 3, 31)},
		{"monthly 18 months spans more than a year", date(2025, 5, 10), FrequencyMonthly, 18, date(2026, 11, 10)},
		{"unknown frequency falls back to 30-day periods", date(2025, 1, 1), "quarterly", 2, date(2025, 3, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FinalPaymentDate(tt.start, tt.frequency, tt.durationValue))
		})
	}
}

func TestDateOnly(t *testing.T) {
	stamped := time.Date(2025, 8, 31, 17, 4, 59, 120, time.UTC)
	assert.Equal(t, date(2025, 8, 31), DateOnly(stamped))
}

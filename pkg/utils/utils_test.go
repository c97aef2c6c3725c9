package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextLoanNumber(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		last     string
		expected string
	}{
		{"first loan of the year", 2025, "", "LON2025000001"},
		{"increments the sequence", 2025, "LON2025000041", "LON2025000042"},
		{"sequence restarts on a new year", 2026, "", "LON2026000001"},
		{"malformed last number starts over", 2025, "LON2025xxxxxx", "LON2025000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextLoanNumber(tt.year, tt.last))
		})
	}
}

func TestLoanNumberPrefix(t *testing.T) {
	assert.Equal(t, "LON2025", LoanNumberPrefix(2025))
}

func TestIsLoanNumber(t *testing.T) {
	assert.True(t, IsLoanNumber("LON2025000001"))
	assert.False(t, IsLoanNumber("SAV2025000001"))
	assert.False(t, IsLoanNumber("LON2025"))
	assert.False(t, IsLoanNumber("LON2025abc001"))
}

func TestIsDateOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dueDate time.Time
		overdue bool
	}{
		{"yesterday is overdue", time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), true},
		{"today is not overdue", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), false},
		{"later today is not overdue", time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC), false},
		{"tomorrow is not overdue", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overdue, IsDateOverdue(tt.dueDate, now))
		})
	}
}

package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Loan numbers look like LON2025000001: a fixed prefix, the application
// year, and a 6-digit sequence that restarts each year.
const loanNumberPrefix = "LON"

// LoanNumberPrefix returns the prefix shared by every loan number issued in
// the given year, e.g. "LON2025".
func LoanNumberPrefix(year int) string {
	return fmt.Sprintf("%s%d", loanNumberPrefix, year)
}

// NextLoanNumber produces the loan number that follows last within a year.
// An empty or malformed last number starts the sequence at 1.
func NextLoanNumber(year int, last string) string {
	seq := 1
	if len(last) >= 6 {
		if n, err := strconv.Atoi(last[len(last)-6:]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%06d", LoanNumberPrefix(year), seq)
}

// IsLoanNumber reports whether s has the generated loan number shape.
func IsLoanNumber(s string) bool {
	if !strings.HasPrefix(s, loanNumberPrefix) {
		return false
	}
	digits := s[len(loanNumberPrefix):]
	if len(digits) != 10 {
		return false
	}
	_, err := strconv.Atoi(digits)
	return err == nil
}

// IsDateOverdue checks if a due date has passed relative to now, comparing
// at day granularity.
func IsDateOverdue(dueDate, now time.Time) bool {
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, dueDate.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

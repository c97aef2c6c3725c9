package calculator

import "time"

// DateOnly strips the clock from t, keeping year/month/day in t's location.
// All schedule dates are day-granular.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextPaymentDate advances a payment date by one period of the given
// frequency. An unrecognized frequency falls back to +30 days.
func NextPaymentDate(current time.Time, frequency Frequency) time.Time {
	current = DateOnly(current)
	switch frequency {
	case FrequencyDaily:
		return current.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return current.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return current.AddDate(0, 0, 14)
	case FrequencyMonthly:
		return addMonthsClamped(current, 1)
	default:
		return current.AddDate(0, 0, 30)
	}
}

// FinalPaymentDate advances startDate by durationValue whole periods of the
// given frequency. An unrecognized frequency falls back to 30-day periods.
func FinalPaymentDate(startDate time.Time, frequency Frequency, durationValue int) time.Time {
	startDate = DateOnly(startDate)
	switch frequency {
	case FrequencyDaily:
		return startDate.AddDate(0, 0, durationValue)
	case FrequencyWeekly:
		return startDate.AddDate(0, 0, durationValue*7)
	case FrequencyBiweekly:
		return startDate.AddDate(0, 0, durationValue*14)
	case FrequencyMonthly:
		return addMonthsClamped(startDate, durationValue)
	default:
		return startDate.AddDate(0, 0, durationValue*30)
	}
}

// addMonthsClamped adds calendar months keeping the day-of-month where
// possible. When the target month is shorter (Jan 31 + 1 month), the day is
// clamped to the last day of that month instead of rolling forward the way
// time.AddDate normalizes overflow.
func addMonthsClamped(t time.Time, months int) time.Time {
	year := t.Year()
	month := int(t.Month()) + months
	year += (month - 1) / 12
	month = (month-1)%12 + 1

	day := t.Day()
	if last := daysInMonth(year, time.Month(month)); day > last {
		day = last
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

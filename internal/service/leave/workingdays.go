package leave

import (
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

var halfDayAmount = decimal.NewFromFloat(0.5)

// DaysByYear computes the chargeable working days in [start, end] inclusive,
// partitioned by calendar year. Weekends and holidays are skipped, never
// counted and never an error.
//
// A half-day request must cover a single date and charges 0.5 against that
// date's year regardless of weekday.
func DaysByYear(cal *Calendar, start, end time.Time, halfDay bool) (map[int]decimal.Decimal, error) {
	if end.Before(start) {
		return nil, leave.ErrInvalidRange
	}

	if halfDay {
		if !sameDate(start, end) {
			return nil, leave.ErrInvalidRange
		}
		return map[int]decimal.Decimal{start.Year(): halfDayAmount}, nil
	}

	days := make(map[int]decimal.Decimal)
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		if !cal.IsWorkingDay(current) {
			continue
		}
		days[current.Year()] = days[current.Year()].Add(decimal.NewFromInt(1))
	}
	return days, nil
}

// TotalDays is the scalar convenience over DaysByYear, used by reporting
// callers that do not care about the year split.
func TotalDays(cal *Calendar, start, end time.Time, halfDay bool) (decimal.Decimal, error) {
	byYear, err := DaysByYear(cal, start, end, halfDay)
	if err != nil {
		return decimal.Zero, err
	}
	return sumDays(byYear), nil
}

func sumDays(byYear map[int]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, days := range byYear {
		total = total.Add(days)
	}
	return total
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

package leave

import (
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/leave"
)

const dateLayout = "2006-01-02"

// Calendar answers "is this date a working day" against a fixed holiday set.
// It is built fresh per invocation from the holiday repository so that
// holiday changes are always picked up; nothing is memoized across calls.
type Calendar struct {
	holidays map[string]struct{}
}

func NewCalendar(holidays []leave.Holiday) *Calendar {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h.Date.Format(dateLayout)] = struct{}{}
	}
	return &Calendar{holidays: set}
}

// IsWorkingDay reports whether date is a Monday-Friday that is not a
// registered holiday.
func (c *Calendar) IsWorkingDay(date time.Time) bool {
	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return false
	}
	_, holiday := c.holidays[date.Format(dateLayout)]
	return !holiday
}

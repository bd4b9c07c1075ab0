package recurrence

import (
	"time"

	"github.com/backofhouse/backofhouse/pkg/civiltime"
)

// Expand produces the ordered list of concrete occurrence dates of a rule
// within the inclusive [windowStart, windowEnd] range.
//
// The template start marks the first day the event can ever occur; nothing
// before it is produced. Dates listed in exceptions are skipped (exact-date
// match). An inverted window yields an empty list rather than an error,
// because windows usually come straight from UI view ranges.
func Expand(rule Rule, templateStart, windowStart, windowEnd civiltime.CivilDate, exceptions []civiltime.CivilDate) []civiltime.CivilDate {
	if windowEnd.Before(windowStart) {
		return nil
	}

	skipped := make(map[civiltime.CivilDate]struct{}, len(exceptions))
	for _, d := range exceptions {
		skipped[d] = struct{}{}
	}

	var dates []civiltime.CivilDate
	switch {
	case rule.Freq == Weekly && rule.Active():
		dates = expandWeekly(rule.Days, templateStart, windowStart, windowEnd)
	case rule.Freq == Monthly && rule.Active():
		dates = expandMonthly(rule.MonthDay, templateStart, windowStart, windowEnd)
	default:
		// No active recurrence: the template itself is the only occurrence.
		if !templateStart.Before(windowStart) && !templateStart.After(windowEnd) {
			dates = []civiltime.CivilDate{templateStart}
		}
	}

	result := make([]civiltime.CivilDate, 0, len(dates))
	var last civiltime.CivilDate
	for _, d := range dates {
		if _, skip := skipped[d]; skip {
			continue
		}
		if len(result) > 0 && d == last {
			continue
		}
		result = append(result, d)
		last = d
	}
	return result
}

func expandWeekly(days []time.Weekday, templateStart, windowStart, windowEnd civiltime.CivilDate) []civiltime.CivilDate {
	wanted := make(map[time.Weekday]struct{}, len(days))
	for _, day := range days {
		wanted[day] = struct{}{}
	}

	first := windowStart
	if first.Before(templateStart) {
		first = templateStart
	}

	var dates []civiltime.CivilDate
	for day := first; !day.After(windowEnd); day = day.AddDays(1) {
		if _, ok := wanted[day.Weekday()]; ok {
			dates = append(dates, day)
		}
	}
	return dates
}

func expandMonthly(monthDay int, templateStart, windowStart, windowEnd civiltime.CivilDate) []civiltime.CivilDate {
	var dates []civiltime.CivilDate

	year, month := windowStart.Year, windowStart.Month
	for {
		monthStart := civiltime.CivilDate{Year: year, Month: month, Day: 1}
		if monthStart.After(windowEnd) {
			break
		}
		// Months shorter than the wanted day produce no occurrence; the date
		// is never clamped to the end of the month.
		if monthDay <= civiltime.DaysInMonth(year, month) {
			day := civiltime.CivilDate{Year: year, Month: month, Day: monthDay}
			if !day.Before(templateStart) && !day.Before(windowStart) && !day.After(windowEnd) {
				dates = append(dates, day)
			}
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return dates
}

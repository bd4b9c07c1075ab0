package civiltime

import (
	"fmt"
	"time"
)

// CivilDate is a calendar day with no time of day and no timezone attached.
// It is what date-only form fields produce and consume.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// CivilDateTime is a wall-clock moment with no timezone attached until it is
// resolved against the company timezone.
type CivilDateTime struct {
	Date   CivilDate
	Hour   int
	Minute int
}

func NewDate(year int, month time.Month, day int) CivilDate {
	return CivilDate{Year: year, Month: month, Day: day}
}

func (d CivilDate) IsZero() bool {
	return d == CivilDate{}
}

// IsValid reports whether the date denotes an existing calendar day.
func (d CivilDate) IsValid() bool {
	if d.Month < time.January || d.Month > time.December {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compare returns -1, 0 or 1 depending on whether d is before, equal to or
// after other.
func (d CivilDate) Compare(other CivilDate) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func (d CivilDate) Before(other CivilDate) bool {
	return d.Compare(other) < 0
}

func (d CivilDate) After(other CivilDate) bool {
	return d.Compare(other) > 0
}

// AddDays returns the date n days after d (n may be negative). The arithmetic
// is pure calendar math and does not involve any timezone.
func (d CivilDate) AddDays(n int) CivilDate {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Weekday returns the day of the week of d.
func (d CivilDate) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// DaysInMonth returns the number of days of the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (dt CivilDateTime) String() string {
	return fmt.Sprintf("%sT%02d:%02d", dt.Date, dt.Hour, dt.Minute)
}

func (dt CivilDateTime) IsZero() bool {
	return dt == CivilDateTime{}
}

// WithDate moves the wall-clock value to another calendar day, preserving the
// previously entered hour and minute.
func (dt CivilDateTime) WithDate(d CivilDate) CivilDateTime {
	dt.Date = d
	return dt
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

package civiltime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Wire formats used by form fields and storage.
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02T15:04"
)

var (
	datePattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dateTimePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2})$`)
	embeddedDate    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// ParseDate parses the "YYYY-MM-DD" wire format digit by digit, with no
// timezone math involved. The second return value is false for anything that
// is not a valid calendar day.
func ParseDate(s string) (CivilDate, bool) {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return CivilDate{}, false
	}
	d := CivilDate{
		Year:  atoi(m[1]),
		Month: time.Month(atoi(m[2])),
		Day:   atoi(m[3]),
	}
	if !d.IsValid() {
		return CivilDate{}, false
	}
	return d, true
}

// ParseDateTime parses the "YYYY-MM-DDTHH:mm" wire format.
func ParseDateTime(s string) (CivilDateTime, bool) {
	m := dateTimePattern.FindStringSubmatch(s)
	if m == nil {
		return CivilDateTime{}, false
	}
	dt := CivilDateTime{
		Date: CivilDate{
			Year:  atoi(m[1]),
			Month: time.Month(atoi(m[2])),
			Day:   atoi(m[3]),
		},
		Hour:   atoi(m[4]),
		Minute: atoi(m[5]),
	}
	if !dt.Date.IsValid() || dt.Hour > 23 || dt.Minute > 59 {
		return CivilDateTime{}, false
	}
	return dt, true
}

// DecodeDate turns a form or storage value into the calendar day it denotes
// in the given zone.
//
// A value already in "YYYY-MM-DD" or "YYYY-MM-DDTHH:mm" shape is a wall-clock
// value and is parsed directly. A value carrying its own offset (RFC 3339) is
// an instant: it is first rendered into the zone and only then read as a date,
// so an instant is never naively truncated to its UTC calendar day. As a last
// resort an embedded "YYYY-MM-DD" substring is extracted. Anything else yields
// ok == false; the caller treats it as "no date entered".
func DecodeDate(value string, loc *time.Location) (CivilDate, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return CivilDate{}, false
	}
	if d, ok := ParseDate(s); ok {
		return d, true
	}
	if dt, ok := ParseDateTime(s); ok {
		return dt.Date, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return ToCivilDate(t, loc), true
	}
	if sub := embeddedDate.FindString(s); sub != "" {
		return ParseDate(sub)
	}
	return CivilDate{}, false
}

// DecodeDateTime is the date-time analog of DecodeDate. Date-only input is
// accepted and reads as midnight.
func DecodeDateTime(value string, loc *time.Location) (CivilDateTime, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return CivilDateTime{}, false
	}
	if dt, ok := ParseDateTime(s); ok {
		return dt, true
	}
	if d, ok := ParseDate(s); ok {
		return CivilDateTime{Date: d}, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return ToCivilDateTime(t, loc), true
	}
	if sub := embeddedDate.FindString(s); sub != "" {
		if d, ok := ParseDate(sub); ok {
			return CivilDateTime{Date: d}, true
		}
	}
	return CivilDateTime{}, false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

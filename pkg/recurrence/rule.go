package recurrence

import (
	"strconv"
	"strings"
	"time"
)

// Frequency is the kind of recurrence an event template carries.
type Frequency string

const (
	None    Frequency = "none"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// Rule is the parsed form of the stored recurrence string. The string form
// exists only at the storage and form boundary; everything inside the service
// works with this type.
//
// A Weekly rule is only active with a non-empty day set. A Monthly rule with
// MonthDay 0 is "monthly but unconfigured" and produces no occurrences.
type Rule struct {
	Freq     Frequency
	Days     []time.Weekday
	MonthDay int
}

var dayCodes = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

var codeDays = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// DayCode returns the canonical two-letter code of a weekday.
func DayCode(day time.Weekday) (string, bool) {
	code, ok := dayCodes[day]
	return code, ok
}

// ParseDayCode maps a two-letter code (case-insensitive) back to a weekday.
func ParseDayCode(code string) (time.Weekday, bool) {
	day, ok := codeDays[strings.ToUpper(strings.TrimSpace(code))]
	return day, ok
}

// Active reports whether the rule actually makes an event recur.
func (r Rule) Active() bool {
	switch r.Freq {
	case Weekly:
		return len(r.Days) > 0
	case Monthly:
		return r.MonthDay >= 1 && r.MonthDay <= 31
	default:
		return false
	}
}

// Encode renders the rule into its canonical stored string.
//
// A rule that is not active encodes to the empty string, so a half-filled form
// (weekly with no days checked, monthly with no day picked) never corrupts
// storage. Weekday order is kept exactly as the caller supplied it.
func (r Rule) Encode() string {
	switch r.Freq {
	case Weekly:
		if len(r.Days) == 0 {
			return ""
		}
		codes := make([]string, 0, len(r.Days))
		for _, day := range r.Days {
			code, ok := dayCodes[day]
			if !ok {
				continue
			}
			codes = append(codes, code)
		}
		if len(codes) == 0 {
			return ""
		}
		return "FREQ=WEEKLY;BYDAY=" + strings.Join(codes, ",")
	case Monthly:
		if r.MonthDay < 1 || r.MonthDay > 31 {
			return ""
		}
		return "FREQ=MONTHLY;BYMONTHDAY=" + strconv.Itoa(r.MonthDay)
	default:
		return ""
	}
}

// Decode parses a stored rule string. The empty string, an unknown FREQ and
// any unparseable input all decode to the inactive None rule; a stored rule
// can never make a read fail.
func Decode(s string) Rule {
	fields := splitFields(s)

	switch strings.ToUpper(fields["FREQ"]) {
	case "WEEKLY":
		rule := Rule{Freq: Weekly}
		byDay := fields["BYDAY"]
		if byDay == "" {
			return rule
		}
		for _, code := range strings.Split(byDay, ",") {
			day, ok := codeDays[strings.ToUpper(strings.TrimSpace(code))]
			if !ok {
				// Unknown two-letter codes are dropped; duplicates are the
				// caller's responsibility and pass through untouched.
				continue
			}
			rule.Days = append(rule.Days, day)
		}
		return rule
	case "MONTHLY":
		rule := Rule{Freq: Monthly}
		if n, err := strconv.Atoi(strings.TrimSpace(fields["BYMONTHDAY"])); err == nil {
			rule.MonthDay = n
		}
		return rule
	default:
		return Rule{Freq: None}
	}
}

func splitFields(s string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Split(s, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		fields[strings.ToUpper(strings.TrimSpace(kv[0]))] = strings.TrimSpace(kv[1])
	}
	return fields
}

package event

import (
	"sort"
	"time"

	"github.com/backofhouse/backofhouse/pkg/civiltime"
	"github.com/backofhouse/backofhouse/pkg/recurrence"
	"github.com/google/uuid"
)

// Occurrence is one concrete calendar entry produced from an event template,
// ready for rendering or for staffing/availability matching.
type Occurrence struct {
	EventUID uuid.UUID
	Title    string
	Date     civiltime.CivilDate
	Start    civiltime.CivilDateTime
	End      civiltime.CivilDateTime // zero when the event has no explicit end
	AllDay   bool
}

// Occurrences expands a stored event into its concrete occurrences within the
// inclusive [windowStart, windowEnd] civil-date window, interpreted in the
// company timezone.
//
// All-day occurrences carry civil midnights with no time component. Timed
// occurrences carry the template's original time of day reattached to each
// expanded date; an end on a later day than the start keeps the same day
// offset on every occurrence. The expansion is recomputed from the rule on
// every call, so rule or exception edits take effect on the next read.
func Occurrences(e Event, windowStart, windowEnd civiltime.CivilDate, loc *time.Location) []Occurrence {
	templateStart := civiltime.ToCivilDateTime(e.StartTime, loc)

	var templateEnd civiltime.CivilDateTime
	endDayOffset := 0
	if e.HasEnd() {
		templateEnd = civiltime.ToCivilDateTime(e.EndTime, loc)
		endDayOffset = daysBetween(templateStart.Date, templateEnd.Date)
	}

	dates := recurrence.Expand(e.Recurrence, templateStart.Date, windowStart, windowEnd, e.Exceptions)

	occurrences := make([]Occurrence, 0, len(dates))
	for _, date := range dates {
		occ := Occurrence{
			EventUID: e.UID.UUID,
			Title:    e.Title,
			Date:     date,
			AllDay:   e.AllDay,
		}
		if e.AllDay {
			occ.Start = civiltime.CivilDateTime{Date: date}
			if e.HasEnd() {
				occ.End = civiltime.CivilDateTime{Date: date.AddDays(endDayOffset)}
			}
		} else {
			occ.Start = templateStart.WithDate(date)
			if e.HasEnd() {
				occ.End = templateEnd.WithDate(date.AddDays(endDayOffset))
			}
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences
}

// SortOccurrences orders occurrences ascending by date, then start time, then
// title. Callers rely on the ordering being stable across identical reads.
func SortOccurrences(occurrences []Occurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if c := a.Date.Compare(b.Date); c != 0 {
			return c < 0
		}
		if a.Start.Hour != b.Start.Hour {
			return a.Start.Hour < b.Start.Hour
		}
		if a.Start.Minute != b.Start.Minute {
			return a.Start.Minute < b.Start.Minute
		}
		return a.Title < b.Title
	})
}

func daysBetween(from, to civiltime.CivilDate) int {
	a := time.Date(from.Year, from.Month, from.Day, 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year, to.Month, to.Day, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

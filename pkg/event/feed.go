package event

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/backofhouse/backofhouse/internal/utils"
	"github.com/backofhouse/backofhouse/pkg/civiltime"
)

// feedOccurrenceLimit caps how many occurrences a single feed render carries.
// Signage displays only show the next handful of entries anyway.
const feedOccurrenceLimit = 50

// FeedRenderer turns expanded occurrences into an iCalendar document that
// lobby signage and kitchen displays can subscribe to.
type FeedRenderer interface {
	RenderFeed(occurrences []Occurrence, loc *time.Location) (string, error)
}

type ICalFeedRendererImpl struct {
	clock utils.Clock
}

func NewICalFeedRenderer(clock utils.Clock) *ICalFeedRendererImpl {
	return &ICalFeedRendererImpl{clock: clock}
}

func (t *ICalFeedRendererImpl) RenderFeed(occurrences []Occurrence, loc *time.Location) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//backofhouse//calendar//EN")

	now := t.clock.Now()
	for _, occ := range occurrences {
		// Each occurrence gets its own VEVENT; the feed carries the expanded
		// dates, never the recurrence rule, so subscribers see exactly what
		// the back office sees.
		vevent := cal.AddEvent(fmt.Sprintf("%s-%s@backofhouse", occ.EventUID, occ.Date))
		vevent.SetDtStampTime(now)
		vevent.SetSummary(occ.Title)

		if occ.AllDay {
			vevent.SetAllDayStartAt(civilDay(occ.Start.Date))
			end := occ.Start.Date
			if !occ.End.Date.IsZero() {
				end = occ.End.Date
			}
			// DTEND on all-day entries is exclusive.
			vevent.SetAllDayEndAt(civilDay(end.AddDays(1)))
			continue
		}

		vevent.SetStartAt(civiltime.WallClockInstant(occ.Start, loc))
		if !occ.End.Date.IsZero() {
			vevent.SetEndAt(civiltime.WallClockInstant(occ.End, loc))
		}
	}

	return cal.Serialize(), nil
}

func civilDay(d civiltime.CivilDate) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

package event

import (
	"time"

	"github.com/backofhouse/backofhouse/pkg/civiltime"
	"github.com/backofhouse/backofhouse/pkg/recurrence"
	"github.com/google/uuid"
)

// Event is a stored calendar template. StartTime and EndTime are absolute
// instants; they are produced exactly once, at the form boundary, from the
// wall-clock values the user typed. When Recurrence is active the event is a
// template whose concrete dates come from expanding the rule, not from
// StartTime alone.
type Event struct {
	UID        uuid.NullUUID
	Title      string
	StartTime  time.Time
	EndTime    time.Time // zero when the event has no explicit end
	AllDay     bool
	Recurrence recurrence.Rule
	Exceptions []civiltime.CivilDate
}

func (e Event) HasEnd() bool {
	return !e.EndTime.IsZero()
}

package event_bus

import "time"

const (
	CalendarEventStoredType  EventType = "calendar.event.stored"
	CalendarEventDeletedType EventType = "calendar.event.deleted"
	ExceptionChangedType     EventType = "calendar.exception.changed"
)

// CalendarEventStored is published after an event template is created or
// updated. Subscribers see the stored instants, not the wall-clock input.
type CalendarEventStored struct {
	UID       string
	Title     string
	StartTime time.Time
	AllDay    bool
}

type CalendarEventDeleted struct {
	UID string
}

// ExceptionChanged is published when a single occurrence date is skipped or
// restored on a recurring event.
type ExceptionChanged struct {
	EventUID string
	Date     string
	Removed  bool
}

package app

import (
	"database/sql"

	"github.com/backofhouse/backofhouse/internal/config"
	"github.com/backofhouse/backofhouse/internal/event_bus"
	"github.com/backofhouse/backofhouse/internal/utils"
	"github.com/backofhouse/backofhouse/pkg/event"
	"github.com/backofhouse/backofhouse/pkg/settings"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	SettingsRepo    settings.Repository
	SettingsService settings.Service
	SettingsHandler *settings.Handler

	EventRepo    event.Repository
	EventService event.Service
	EventHandler *event.Handler
	FeedRenderer event.FeedRenderer

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.Bus = event_bus.NewEventBus()
	subscribeAuditLog(deps.Bus)

	deps.SettingsRepo = settings.NewRepository(db)
	deps.SettingsService = settings.NewService(deps.SettingsRepo, cfg.Calendar.Timezone)
	deps.SettingsHandler = settings.NewHandler(deps.SettingsService)

	deps.EventRepo = event.NewRepository(db)
	deps.EventService = event.NewService(deps.EventRepo, deps.SettingsService, deps.Clock, deps.Bus)
	deps.FeedRenderer = event.NewICalFeedRenderer(deps.Clock)
	deps.EventHandler = event.NewHandler(deps.EventService, deps.FeedRenderer)

	return deps
}

// subscribeAuditLog records every calendar mutation in the application log so
// managers can reconstruct who changed the schedule and when.
func subscribeAuditLog(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped[event_bus.CalendarEventStored](bus, event_bus.CalendarEventStoredType,
		func(e event_bus.EventT[event_bus.CalendarEventStored]) error {
			log.Infof("calendar event stored: %s (%q, allDay=%t)", e.Data.UID, e.Data.Title, e.Data.AllDay)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.CalendarEventDeleted](bus, event_bus.CalendarEventDeletedType,
		func(e event_bus.EventT[event_bus.CalendarEventDeleted]) error {
			log.Infof("calendar event deleted: %s", e.Data.UID)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.ExceptionChanged](bus, event_bus.ExceptionChangedType,
		func(e event_bus.EventT[event_bus.ExceptionChanged]) error {
			if e.Data.Removed {
				log.Infof("occurrence restored: event %s on %s", e.Data.EventUID, e.Data.Date)
			} else {
				log.Infof("occurrence skipped: event %s on %s", e.Data.EventUID, e.Data.Date)
			}
			return nil
		})
}

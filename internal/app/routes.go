package app

import (
	"github.com/backofhouse/backofhouse/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Calendar views
	r.HandleFunc("/api/calendar", deps.EventHandler.GetCalendar).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/calendar/upcoming", deps.EventHandler.GetUpcoming).Methods("GET")
	r.HandleFunc("/api/calendar/feed.ics", deps.EventHandler.GetFeed).Methods("GET")

	// Event templates
	r.HandleFunc("/api/event", deps.EventHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/event", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/event/{eventUid}", deps.EventHandler.GetEvent).Methods("GET")
	r.HandleFunc("/api/event/{eventUid}", deps.EventHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/event/{eventUid}", deps.EventHandler.DeleteEvent).Methods("DELETE")

	// Occurrence exceptions
	r.HandleFunc("/api/event/{eventUid}/exception/{date}", deps.EventHandler.AddException).Methods("PUT")
	r.HandleFunc("/api/event/{eventUid}/exception/{date}", deps.EventHandler.RemoveException).Methods("DELETE")

	// Company settings
	r.HandleFunc("/api/settings", deps.SettingsHandler.GetSettings).Methods("GET")
	r.HandleFunc("/api/settings", deps.SettingsHandler.UpdateSettings).Methods("PUT")
}

package app

import (
	"github.com/dayboard/dayboard/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Calendar
	r.HandleFunc("/api/calendar/events", deps.CalendarHandler.GetEvents).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/calendar/events", deps.CalendarHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/calendar/events/{occurrenceId}", deps.CalendarHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/calendar/events/{occurrenceId}", deps.CalendarHandler.DeleteEvent).Methods("DELETE")
	r.HandleFunc("/api/calendar/conflicts", deps.CalendarHandler.GetConflicts).Queries("start", "{start}", "end", "{end}").Methods("GET")
	r.HandleFunc("/api/calendar/holidays", deps.CalendarHandler.GetHolidays).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/calendar/filters", deps.CalendarHandler.UpdateFilters).Methods("PUT")

	// Reminders
	r.HandleFunc("/api/calendar/reminders/due", deps.CalendarHandler.GetDueReminders).Methods("GET")
	r.HandleFunc("/api/calendar/reminders/{reminderId}/dismiss", deps.CalendarHandler.DismissReminder).Methods("POST")
}

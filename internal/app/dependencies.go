package app

import (
	"time"

	"github.com/dayboard/dayboard/internal/config"
	"github.com/dayboard/dayboard/internal/event_bus"
	"github.com/dayboard/dayboard/pkg/calendar"
	"github.com/dayboard/dayboard/pkg/schedule"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	ScheduleClient schedule.Client

	CalendarStore   *calendar.Store
	CalendarHandler *calendar.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()

	deps.ScheduleClient = schedule.NewClient(
		cfg.Schedule.BaseURL,
		time.Duration(cfg.Schedule.TimeoutSeconds)*time.Second,
	)

	deps.CalendarStore = calendar.NewStore(deps.ScheduleClient, deps.Bus)
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarStore)

	return deps
}

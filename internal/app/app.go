package app

import (
	"net/http"
	"time"

	"github.com/dayboard/dayboard/internal/config"
	"github.com/dayboard/dayboard/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Build dependencies (store, clients, handlers...)
	deps := BuildDependencies(cfg)

	// Middleware chain
	SetupMiddleware(r, deps, cfg)

	// Routes
	RegisterRoutes(r, deps, cfg)

	// Frontend
	if cfg.Frontend.Enabled {
		frontend := rest.NewFrontendHandler("frontend", "index.html")
		r.PathPrefix("/").Handler(frontend)
	}

	deps.CalendarStore.SetShowHolidays(cfg.Holidays.Enabled)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, deps: deps, router: r, srv: srv}, nil
}

// Run starts the due-reminder poller and the HTTP server, and blocks.
func (a *Application) Run() error {
	if err := a.deps.CalendarStore.StartReminderPolling(a.cfg.Reminders.PollInterval); err != nil {
		return err
	}
	defer a.deps.CalendarStore.Close()

	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}

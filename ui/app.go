package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cardops/domain/analytics"
	"cardops/domain/card"
	"cardops/domain/machine"
	"cardops/internal/logging"
)

// App serves the dashboard query API. It holds the merged tables in memory;
// every endpoint filters and recomputes from scratch per request, so the app
// carries no per-request state and reloading data is a matter of swapping
// the tables.
type App struct {
	router   *chi.Mux
	cards    analytics.Table
	machines analytics.Table
	log      *logging.Logger
}

// NewApp creates the query API over the merged card and machine tables.
// Kiddie ride labels are excluded from the machine views here, not during
// ingest: the merged table keeps every row, the dashboard never shows them
// (those rides are already covered by the card domain's Kiddie Land section).
func NewApp(cards []card.Record, machines []machine.Record, log *logging.Logger) *App {
	app := &App{
		router:   chi.NewRouter(),
		cards:    analytics.CardTable(cards),
		machines: analytics.MachineTable(machine.ExcludeKiddie(machines)),
		log:      log,
	}
	app.setupMiddleware()
	app.setupRoutes()
	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/api/health", a.handleHealth)

	a.router.Get("/api/card/summary", a.handleCardSummary)
	a.router.Get("/api/card/trend", a.handleCardTrend)
	a.router.Get("/api/card/ranking", a.handleCardRanking)

	a.router.Get("/api/machine/trend", a.handleMachineTrend)
	a.router.Get("/api/machine/ranking", a.handleMachineRanking)
	a.router.Get("/api/machine/heatmap", a.handleMachineHeatmap)

	a.router.Get("/api/efficiency", a.handleEfficiency)
	a.router.Get("/api/correlation", a.handleCorrelation)
}

// Router exposes the handler for tests and embedding.
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the web server
func (a *App) Start(addr string) error {
	a.log.Info("dashboard API listening on http://%s", addr)
	return http.ListenAndServe(addr, a.router)
}

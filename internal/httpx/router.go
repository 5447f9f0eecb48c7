package httpx

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/roasplan/internal/metrics"
	"github.com/Simplici0/roasplan/internal/roas"
	"github.com/Simplici0/roasplan/internal/simulation"
)

// SegmentCatalog lists the market segments served by the API.
type SegmentCatalog interface {
	roas.SegmentLookup
	List() []roas.Segment
}

// SimulationStore persists calculation snapshots.
type SimulationStore interface {
	Create(ctx context.Context, s simulation.Simulation) (simulation.Simulation, error)
	Get(ctx context.Context, id string) (simulation.Simulation, error)
	List(ctx context.Context, query string) ([]simulation.ListItem, error)
}

// Deps are the collaborators the router serves.
type Deps struct {
	Logger      *slog.Logger
	DB          *sql.DB
	Engine      *roas.Engine
	Segments    SegmentCatalog
	Simulations SimulationStore
	Metrics     *metrics.Recorder
}

type server struct {
	log         *slog.Logger
	db          *sql.DB
	engine      *roas.Engine
	segments    SegmentCatalog
	simulations SimulationStore
	metrics     *metrics.Recorder
}

// NewRouter mounts the JSON API, health probes and the metrics endpoint.
func NewRouter(d Deps) http.Handler {
	s := &server{
		log:         d.Logger,
		db:          d.DB,
		engine:      d.Engine,
		segments:    d.Segments,
		simulations: d.Simulations,
		metrics:     d.Metrics,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestIDHeader)
	r.Use(accessLog(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/segments", s.handleSegmentsList)
		r.Get("/segments/{id}", s.handleSegmentGet)

		r.Post("/calculate", s.handleCalculate)
		r.Post("/scenarios", s.handleScenarios)
		r.Post("/projection", s.handleProjection)

		r.Post("/simulations", s.handleSimulationCreate)
		r.Get("/simulations", s.handleSimulationsList)
		r.Get("/simulations/{id}", s.handleSimulationGet)
		r.Get("/simulations/{id}/projection.csv", s.handleSimulationCSV)

		r.Post("/share", s.handleShareCreate)
		r.Get("/share/{token}", s.handleShareGet)
	})

	return r
}

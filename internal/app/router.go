package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/safar-erp/safar-erp/internal/fees"
	"github.com/safar-erp/safar-erp/internal/ledger"
	"github.com/safar-erp/safar-erp/internal/observability"
	"github.com/safar-erp/safar-erp/internal/statement"
	"github.com/safar-erp/safar-erp/internal/trips"
	"github.com/safar-erp/safar-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	LedgerHandler    *ledger.Handler
	StatementHandler *statement.Handler
	TripsHandler     *trips.Handler
	FeesHandler      *fees.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Safar defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.LedgerHandler != nil {
		r.Route("/ledger", params.LedgerHandler.MountRoutes)
	}
	if params.StatementHandler != nil {
		r.Route("/statements", params.StatementHandler.MountRoutes)
	}
	if params.TripsHandler != nil {
		r.Route("/trips", params.TripsHandler.MountRoutes)
	}
	if params.FeesHandler != nil {
		r.Route("/fees", params.FeesHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

package statement

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/safar-erp/safar-erp/internal/platform/httpx"
)

// Handler exposes the income statement over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the statement HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches the statement endpoints. Report generation fans out
// several queries, so it carries a tighter rate limit than the default stack.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(httprate.Limit(20, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).
		Get("/income", h.IncomeStatement)
}

// IncomeStatement renders the per-currency report for ?from=...&to=...
// (YYYY-MM-DD, inclusive). A period with no activity responds with an empty
// group list, which the caller renders as a "no activity" state.
func (h *Handler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Period", err.Error())
		return
	}
	report, err := h.service.IncomeStatement(r.Context(), period)
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Period", err.Error())
			return
		}
		h.logger.Error("income statement", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func parsePeriod(r *http.Request) (Period, error) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		return Period{}, err
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		return Period{}, err
	}
	return Period{From: from, To: to}, nil
}

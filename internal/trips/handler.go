package trips

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/safar-erp/safar-erp/internal/platform/httpx"
)

// Handler exposes trip profitability over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the trips HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches the trip endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(httprate.Limit(20, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).
		Get("/{id}/profitability", h.Profitability)
}

// Profitability renders the reconciled report for one trip.
func (h *Handler) Profitability(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	report, err := h.service.Profitability(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("trip profitability", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

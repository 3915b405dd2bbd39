package fees

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/safar-erp/safar-erp/internal/platform/httpx"
)

// Handler quotes transfer commissions over JSON.
type Handler struct{}

// NewHandler constructs the fees HTTP handler.
func NewHandler() *Handler {
	return &Handler{}
}

// MountRoutes attaches the fee endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/instapay", h.Quote)
}

type quoteResponse struct {
	Direction  Direction       `json:"direction"`
	Amount     decimal.Decimal `json:"amount"`
	Commission decimal.Decimal `json:"commission"`
	Net        decimal.Decimal `json:"net"`
}

// Quote computes the commission and net figure for one transfer.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	dir := Direction(r.URL.Query().Get("direction"))
	if err := dir.Validate(); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Direction", err.Error())
		return
	}
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Amount", "amount must be a decimal number")
		return
	}
	if amount.IsNegative() {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Amount", "amount must not be negative")
		return
	}
	net, commission := Net(dir, amount)
	httpx.JSON(w, http.StatusOK, quoteResponse{
		Direction:  dir,
		Amount:     amount,
		Commission: commission,
		Net:        net,
	})
}

package ledger

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/safar-erp/safar-erp/internal/platform/httpx"
)

// Handler exposes the journal lifecycle over JSON.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the ledger HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

type lineRequest struct {
	AccountID   int64           `json:"accountId" validate:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

type createRequest struct {
	Type         string        `json:"type" validate:"required,oneof=MANUAL AUTO"`
	Date         time.Time     `json:"date" validate:"required"`
	Description  string        `json:"description"`
	Actor        string        `json:"actor" validate:"required"`
	SourceModule string        `json:"sourceModule"`
	SourceID     string        `json:"sourceId"`
	TransferKind string        `json:"transferKind"`
	Lines        []lineRequest `json:"lines" validate:"required,min=2,dive"`
}

type editRequest struct {
	Actor       string        `json:"actor" validate:"required"`
	Description string        `json:"description"`
	Lines       []lineRequest `json:"lines" validate:"required,min=2,dive"`
}

type transitionRequest struct {
	Actor string `json:"actor" validate:"required"`
}

func toLineInputs(lines []lineRequest) []LineInput {
	out := make([]LineInput, 0, len(lines))
	for _, line := range lines {
		out = append(out, LineInput{
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
		})
	}
	return out
}

// List renders all journal entries, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, r, "list journals", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// Get renders one entry with its lines.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get journal", err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

// Create accepts a new manual or auto entry.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input := CreateInput{
		Type:         EntryType(req.Type),
		Date:         req.Date,
		Description:  req.Description,
		Actor:        req.Actor,
		SourceModule: req.SourceModule,
		TransferKind: TransferKind(req.TransferKind),
		Lines:        toLineInputs(req.Lines),
	}
	if req.SourceID != "" {
		sourceID, err := uuid.Parse(req.SourceID)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "sourceId must be a UUID")
			return
		}
		input.SourceID = sourceID
	}
	entry, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.respondError(w, r, "create journal", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

// Post finalises a draft manual entry.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "post journal", h.service.Post)
}

// Unpost reverts a posted manual entry to draft.
func (h *Handler) Unpost(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "unpost journal", h.service.Unpost)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string, fn func(context.Context, TransitionInput) (JournalEntry, error)) {
	id, err := entryID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req transitionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	entry, err := fn(r.Context(), TransitionInput{EntryID: id, Actor: req.Actor})
	if err != nil {
		h.respondError(w, r, action, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

// Edit replaces the line set of a draft manual entry.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req editRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	entry, err := h.service.Edit(r.Context(), EditInput{
		EntryID:     id,
		Actor:       req.Actor,
		Description: req.Description,
		Lines:       toLineInputs(req.Lines),
	})
	if err != nil {
		h.respondError(w, r, "edit journal", err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

// Delete removes a draft manual entry and its lines.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req transitionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.Delete(r.Context(), TransitionInput{EntryID: id, Actor: req.Actor}); err != nil {
		h.respondError(w, r, "delete journal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAccounts renders the chart of accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		h.respondError(w, r, "list accounts", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func entryID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, ErrEntryNotFound), errors.Is(err, ErrAccountNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrUnbalanced), errors.Is(err, ErrTooFewLines),
		errors.Is(err, ErrLineNotSingleSided), errors.Is(err, ErrInvalidTransferKind):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unbalanced Entry", err.Error())
	case errors.Is(err, ErrAutoImmutable), errors.Is(err, ErrAlreadyPosted),
		errors.Is(err, ErrNotPosted), errors.Is(err, ErrSourceAlreadyLinked):
		httpx.Problem(w, http.StatusConflict, "Invalid Transition", err.Error())
	default:
		h.logger.Error(action, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

package credentials

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/intakeworks/storygate/pkg/handlers"
	"github.com/intakeworks/storygate/pkg/pagination"
	"github.com/intakeworks/storygate/pkg/routes"
)

// Handler serves the admin credential endpoints.
type Handler struct {
	repo    *Repository
	paging  pagination.Config
	eventID string
	logger  *slog.Logger
}

// NewHandler creates a credential Handler.
func NewHandler(repo *Repository, paging pagination.Config, eventID string, logger *slog.Logger) *Handler {
	return &Handler{
		repo:    repo,
		paging:  paging,
		eventID: eventID,
		logger:  logger.With("system", "credentials"),
	}
}

// Routes returns the handler's route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/credentials",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "", Handler: h.List},
			{Method: http.MethodGet, Pattern: "/stats", Handler: h.Stats},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: h.Get},
			{Method: http.MethodPost, Pattern: "/inspect", Handler: h.Inspect},
		},
	}
}

// List returns a page of issued credentials, optionally filtered by tier.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query(), h.paging)
	tier := r.URL.Query().Get("tier")

	result, err := h.repo.List(r.Context(), page, tier)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get returns a single credential by ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	credential, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, credential)
}

// Stats returns issuance totals per tier.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.repo.CountByTier(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"byTier": counts,
	})
}

type inspectRequest struct {
	Code string `json:"code"`
}

// Inspect validates a credential code and returns its vendor-facing details.
func (h *Handler) Inspect(w http.ResponseWriter, r *http.Request) {
	var req inspectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	info, err := ParseCode(req.Code, h.eventID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, info)
}

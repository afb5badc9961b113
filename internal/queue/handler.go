package queue

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mailward/mailward/pkg/handlers"
	"github.com/mailward/mailward/pkg/pagination"
	"github.com/mailward/mailward/pkg/routes"
)

// Handler provides HTTP endpoints for review-queue operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NotesRequest is the notes update payload. Notes must be present; an empty
// string is valid, a missing field is not.
type NotesRequest struct {
	Notes *string `json:"notes"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pg pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "queue"),
		pagination: pg,
	}
}

// Routes returns the route group definition for queue endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/queue",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/stats", Handler: h.Stats},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/report", Handler: h.Report},
			{Method: "POST", Pattern: "/{id}/verdict", Handler: h.Verdict},
			{Method: "PUT", Pattern: "/{id}/notes", Handler: h.Notes},
		},
	}
}

// List returns every pending item enriched with its decision document.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.ListPending(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// Stats returns queue-level KPIs from a full scan.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching rows.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	result, err := h.sys.Search(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Verdict applies a reviewer decision to the item in the path.
func (h *Handler) Verdict(w http.ResponseWriter, r *http.Request) {
	var cmd VerdictCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	result, err := h.sys.ApplyVerdict(r.Context(), r.PathValue("id"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Notes replaces the reviewer notes on the item in the path.
func (h *Handler) Notes(w http.ResponseWriter, r *http.Request) {
	var req NotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}
	if req.Notes == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingNotes)
		return
	}

	if err := h.sys.SetNotes(r.Context(), r.PathValue("id"), *req.Notes); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Report escalates a decision document into the queue from a user complaint.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	var cmd ReportCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	result, err := h.sys.Report(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	handlers.RespondJSON(w, status, result)
}

package feedback

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mailward/mailward/pkg/handlers"
	"github.com/mailward/mailward/pkg/routes"
)

// Handler provides the direct feedback submission endpoint used by the
// history view.
type Handler struct {
	recorder Recorder
	logger   *slog.Logger
}

// SubmitRequest is the direct feedback submission payload.
type SubmitRequest struct {
	RunID     string `json:"run_id"`
	Verdict   string `json:"verdict"`
	Actor     string `json:"actor"`
	Notes     string `json:"notes"`
	FromAddr  string `json:"from_addr"`
	LogBucket string `json:"log_bucket"`
	LogKey    string `json:"log_key"`
}

// NewHandler creates a Handler with the given recorder and logger.
func NewHandler(recorder Recorder, logger *slog.Logger) *Handler {
	return &Handler{
		recorder: recorder,
		logger:   logger.With("handler", "feedback"),
	}
}

// Routes returns the route group definition for feedback endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/feedback",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Submit},
		},
	}
}

// Submit records a history-sourced feedback row.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidEntry)
		return
	}

	if req.Verdict != "allow" && req.Verdict != "block" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidEntry)
		return
	}

	entry := Entry{
		RunID:     req.RunID,
		Verdict:   req.Verdict,
		Actor:     req.Actor,
		Notes:     req.Notes,
		FromAddr:  req.FromAddr,
		Source:    SourceFeedback,
		LogBucket: req.LogBucket,
		LogKey:    req.LogKey,
	}

	if err := h.recorder.Record(r.Context(), entry); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, map[string]bool{"recorded": true})
}

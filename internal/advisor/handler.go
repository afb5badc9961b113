package advisor

import (
	"log/slog"
	"net/http"

	"github.com/mailward/mailward/pkg/handlers"
	"github.com/mailward/mailward/pkg/routes"
)

// Handler provides the recommendation retrieval endpoint.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "advisor"),
	}
}

// Routes returns the route group definition for advisor endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/recommendations",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Recommendations},
		},
	}
}

// Recommendations returns generator guidance, or the static fallback when
// the generator is unreachable. Both are 200 responses.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Recommendations(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

package analytics

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mailward/mailward/internal/decisions"
	"github.com/mailward/mailward/pkg/handlers"
	"github.com/mailward/mailward/pkg/routes"
)

// Handler provides HTTP endpoints for the window-scan views.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "analytics"),
	}
}

// Routes returns the route group definition for analytics endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/metrics", Handler: h.Metrics},
			{Method: "GET", Pattern: "/history", Handler: h.History},
			{Method: "GET", Pattern: "/inbox", Handler: h.Inbox},
		},
	}
}

// Metrics returns aggregate counts and a daily trend for the trailing
// ?days=N window (default 7).
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 7)

	report, err := h.sys.Metrics(r.Context(), days)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}

// History returns display records for an inclusive ?from=&to= day range
// (YYYY-MM-DD, default the trailing week).
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	records, err := h.sys.History(r.Context(), from, to)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"records": records, "count": len(records)})
}

// Inbox returns the messages visible to ?address= over the trailing
// ?days=N window.
func (h *Handler) Inbox(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	days := intQuery(r, "days", 7)

	messages, err := h.sys.Inbox(r.Context(), address, days)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"messages": messages, "count": len(messages)})
}

func intQuery(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func dateRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -6)
	to := now

	if v := r.URL.Query().Get("from"); v != "" {
		t, ok := decisions.ParseTime(v + "T00:00:00Z")
		if !ok {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from=%s", ErrInvalidRange, v)
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, ok := decisions.ParseTime(v + "T00:00:00Z")
		if !ok {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to=%s", ErrInvalidRange, v)
		}
		to = t
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to precedes from", ErrInvalidRange)
	}
	return from, to, nil
}

package api

import (
	"net/http"

	"github.com/mailward/mailward/internal/feedback"
	"github.com/mailward/mailward/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Queue.Handler().Routes(),
		domain.Analytics.Handler().Routes(),
		domain.Advisor.Handler().Routes(),
		domain.Pipeline.Handler().Routes(),
		feedback.NewHandler(domain.Feedback, runtime.Logger).Routes(),
	)
}

package api

import (
	"github.com/mailward/mailward/internal/advisor"
	"github.com/mailward/mailward/internal/analytics"
	"github.com/mailward/mailward/internal/decisions"
	"github.com/mailward/mailward/internal/feedback"
	"github.com/mailward/mailward/internal/pipeline"
	"github.com/mailward/mailward/internal/queue"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Queue     queue.System
	Analytics analytics.System
	Feedback  feedback.Recorder
	Advisor   advisor.System
	Pipeline  pipeline.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	docStore := decisions.NewStore(runtime.Storage, runtime.StoragePrefix)
	queueStore := queue.NewStore(runtime.Database.Connection())

	recorder := feedback.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Metrics,
	)

	queueSystem := queue.New(
		queueStore,
		docStore,
		recorder,
		runtime.Metrics,
		runtime.Logger,
		runtime.Pagination,
		runtime.ScanConcurrency,
	)

	analyticsSystem := analytics.New(
		docStore,
		queueStore,
		runtime.Metrics,
		runtime.Logger,
		runtime.ScanConcurrency,
	)

	return &Domain{
		Queue:     queueSystem,
		Analytics: analyticsSystem,
		Feedback:  recorder,
		Advisor:   advisor.New(runtime.Advisor, runtime.Logger),
		Pipeline:  pipeline.New(runtime.Pipeline, runtime.Logger),
	}
}

package api

import (
	"github.com/mailward/mailward/internal/config"
	"github.com/mailward/mailward/internal/infrastructure"
	"github.com/mailward/mailward/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination      pagination.Config
	Advisor         config.AdvisorConfig
	Pipeline        config.PipelineConfig
	StoragePrefix   string
	ScanConcurrency int
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Registry:  infra.Registry,
			Metrics:   infra.Metrics,
		},
		Pagination:      cfg.API.Pagination,
		Advisor:         cfg.Advisor,
		Pipeline:        cfg.Pipeline,
		StoragePrefix:   cfg.Storage.Prefix,
		ScanConcurrency: cfg.API.ScanConcurrency,
	}
}

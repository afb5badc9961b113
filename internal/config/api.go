package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mailward/mailward/pkg/middleware"
	"github.com/mailward/mailward/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "MAILWARD_CORS_ENABLED",
	Origins:          "MAILWARD_CORS_ORIGINS",
	AllowedMethods:   "MAILWARD_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "MAILWARD_CORS_ALLOWED_HEADERS",
	AllowCredentials: "MAILWARD_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "MAILWARD_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "MAILWARD_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "MAILWARD_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, pagination, and scan settings.
// ScanConcurrency caps the number of simultaneous document fetches issued by
// queue enrichment and window scans.
type APIConfig struct {
	BasePath        string                `toml:"base_path"`
	ScanConcurrency int                   `toml:"scan_concurrency"`
	CORS            middleware.CORSConfig `toml:"cors"`
	Pagination      pagination.Config     `toml:"pagination"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.ScanConcurrency != 0 {
		c.ScanConcurrency = overlay.ScanConcurrency
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.ScanConcurrency <= 0 {
		c.ScanConcurrency = 8
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("MAILWARD_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("MAILWARD_API_SCAN_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ScanConcurrency = n
		}
	}
}

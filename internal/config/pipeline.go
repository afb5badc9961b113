package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvPipelineBaseURL = "MAILWARD_PIPELINE_BASE_URL"
	EnvPipelineTimeout = "MAILWARD_PIPELINE_TIMEOUT"
)

// PipelineConfig holds the endpoint of the external classification pipeline.
// An empty base URL disables the analyze pass-through.
type PipelineConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *PipelineConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvPipelineTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *PipelineConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}

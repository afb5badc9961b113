package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAdvisorProviderName = "MAILWARD_ADVISOR_PROVIDER_NAME"
	EnvAdvisorBaseURL      = "MAILWARD_ADVISOR_BASE_URL"
	EnvAdvisorToken        = "MAILWARD_ADVISOR_TOKEN"
	EnvAdvisorDeployment   = "MAILWARD_ADVISOR_DEPLOYMENT"
	EnvAdvisorAPIVersion   = "MAILWARD_ADVISOR_API_VERSION"
	EnvAdvisorAuthType     = "MAILWARD_ADVISOR_AUTH_TYPE"
	EnvAdvisorModelName    = "MAILWARD_ADVISOR_MODEL_NAME"
)

// AdvisorConfig holds the go-agents configuration for the recommendation
// generator agent.
type AdvisorConfig struct {
	Agent gaconfig.AgentConfig `toml:"agent"`
}

// Finalize applies the three-phase finalize pattern to the advisor agent config:
// defaults from go-agents DefaultAgentConfig, environment variable overrides,
// and validation.
func (c *AdvisorConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites the agent config from overlay when set.
func (c *AdvisorConfig) Merge(overlay *AdvisorConfig) {
	if overlay.Agent.Name != "" {
		c.Agent = overlay.Agent
	}
}

func (c *AdvisorConfig) loadDefaults() {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(&c.Agent)
	c.Agent = defaults

	if c.Agent.Name == "" {
		c.Agent.Name = "advisor"
	}
}

func (c *AdvisorConfig) loadEnv() {
	if c.Agent.Provider == nil {
		c.Agent.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Agent.Provider.Options == nil {
		c.Agent.Provider.Options = make(map[string]any)
	}
	if c.Agent.Model == nil {
		c.Agent.Model = &gaconfig.ModelConfig{}
	}
	if v := os.Getenv(EnvAdvisorProviderName); v != "" {
		c.Agent.Provider.Name = v
	}
	if v := os.Getenv(EnvAdvisorBaseURL); v != "" {
		c.Agent.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAdvisorModelName); v != "" {
		c.Agent.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Agent.Provider.Options[key] = v
		}
	}

	setOption(EnvAdvisorToken, "token")
	setOption(EnvAdvisorDeployment, "deployment")
	setOption(EnvAdvisorAPIVersion, "api_version")
	setOption(EnvAdvisorAuthType, "auth_type")
}

func (c *AdvisorConfig) validate() error {
	if c.Agent.Provider == nil || c.Agent.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Agent.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}

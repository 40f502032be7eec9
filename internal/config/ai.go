package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvAIUseEvaluation    = "STORYGATE_AI_USE_EVALUATION"
	EnvAIUseModeration    = "STORYGATE_AI_USE_MODERATION"
	EnvAIUseResponses     = "STORYGATE_AI_USE_RESPONSES"
	EnvAICallTimeout      = "STORYGATE_AI_CALL_TIMEOUT"
	EnvAIRetryCount       = "STORYGATE_AI_RETRY_COUNT"
	EnvAIRetryDelay       = "STORYGATE_AI_RETRY_DELAY"
	EnvAIBreakerThreshold = "STORYGATE_AI_BREAKER_THRESHOLD"
	EnvAIBaseURL          = "STORYGATE_AI_BASE_URL"
	EnvAIAPIKey           = "STORYGATE_AI_API_KEY"
	EnvAIModel            = "STORYGATE_AI_MODEL"
)

// AIConfig controls the remote AI capabilities: kill switches, retry
// bounds, breaker threshold, and the upstream endpoint.
type AIConfig struct {
	UseEvaluation    bool   `toml:"use_evaluation"`
	UseModeration    bool   `toml:"use_moderation"`
	UseResponses     bool   `toml:"use_responses"`
	CallTimeout      string `toml:"call_timeout"`
	RetryCount       int    `toml:"retry_count"`
	RetryDelay       string `toml:"retry_delay"`
	BreakerThreshold int    `toml:"breaker_threshold"`
	BaseURL          string `toml:"base_url"`
	APIKey           string `toml:"api_key"`
	Model            string `toml:"model"`
}

// CallTimeoutDuration returns CallTimeout as a time.Duration.
func (c *AIConfig) CallTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.CallTimeout)
	return d
}

// RetryDelayDuration returns RetryDelay as a time.Duration.
func (c *AIConfig) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites fields from overlay. Kill switches always apply.
func (c *AIConfig) Merge(overlay *AIConfig) {
	c.UseEvaluation = overlay.UseEvaluation
	c.UseModeration = overlay.UseModeration
	c.UseResponses = overlay.UseResponses

	if overlay.CallTimeout != "" {
		c.CallTimeout = overlay.CallTimeout
	}
	if overlay.RetryCount != 0 {
		c.RetryCount = overlay.RetryCount
	}
	if overlay.RetryDelay != "" {
		c.RetryDelay = overlay.RetryDelay
	}
	if overlay.BreakerThreshold != 0 {
		c.BreakerThreshold = overlay.BreakerThreshold
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
}

func (c *AIConfig) loadDefaults() {
	if c.CallTimeout == "" {
		c.CallTimeout = "8s"
	}
	if c.RetryCount == 0 {
		c.RetryCount = 2
	}
	if c.RetryDelay == "" {
		c.RetryDelay = "500ms"
	}
	if c.BreakerThreshold == 0 {
		c.BreakerThreshold = 3
	}
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
}

func (c *AIConfig) loadEnv() {
	setBool := func(key string, target *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*target = b
			}
		}
	}
	setBool(EnvAIUseEvaluation, &c.UseEvaluation)
	setBool(EnvAIUseModeration, &c.UseModeration)
	setBool(EnvAIUseResponses, &c.UseResponses)

	if v := os.Getenv(EnvAICallTimeout); v != "" {
		c.CallTimeout = v
	}
	if v := os.Getenv(EnvAIRetryCount); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RetryCount = n
		}
	}
	if v := os.Getenv(EnvAIRetryDelay); v != "" {
		c.RetryDelay = v
	}
	if v := os.Getenv(EnvAIBreakerThreshold); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BreakerThreshold = n
		}
	}
	if v := os.Getenv(EnvAIBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvAIAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvAIModel); v != "" {
		c.Model = v
	}
}

func (c *AIConfig) validate() error {
	if _, err := time.ParseDuration(c.CallTimeout); err != nil {
		return fmt.Errorf("invalid call_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return fmt.Errorf("invalid retry_delay: %w", err)
	}
	if c.RetryCount < 1 {
		return fmt.Errorf("retry_count must be positive: %d", c.RetryCount)
	}
	if c.BreakerThreshold < 1 {
		return fmt.Errorf("breaker_threshold must be positive: %d", c.BreakerThreshold)
	}

	anyEnabled := c.UseEvaluation || c.UseModeration || c.UseResponses
	if anyEnabled && c.APIKey == "" {
		return fmt.Errorf("api_key required when an AI capability is enabled")
	}
	return nil
}

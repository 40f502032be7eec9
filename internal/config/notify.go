package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvNotifyEnabled  = "STORYGATE_NOTIFY_ENABLED"
	EnvNotifyHost     = "STORYGATE_NOTIFY_SMTP_HOST"
	EnvNotifyPort     = "STORYGATE_NOTIFY_SMTP_PORT"
	EnvNotifyFrom     = "STORYGATE_NOTIFY_FROM"
	EnvNotifyPassword = "STORYGATE_NOTIFY_PASSWORD"
)

// NotifyConfig controls the credential email dispatch.
type NotifyConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	From     string `toml:"from"`
	Password string `toml:"password"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *NotifyConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites fields from overlay. Enabled always applies.
func (c *NotifyConfig) Merge(overlay *NotifyConfig) {
	c.Enabled = overlay.Enabled

	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.From != "" {
		c.From = overlay.From
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
}

func (c *NotifyConfig) loadDefaults() {
	if c.Port == 0 {
		c.Port = 587
	}
}

func (c *NotifyConfig) loadEnv() {
	if v := os.Getenv(EnvNotifyEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	if v := os.Getenv(EnvNotifyHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvNotifyPort); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Port = n
		}
	}
	if v := os.Getenv(EnvNotifyFrom); v != "" {
		c.From = v
	}
	if v := os.Getenv(EnvNotifyPassword); v != "" {
		c.Password = v
	}
}

func (c *NotifyConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("smtp host required when notify is enabled")
	}
	if c.From == "" {
		return fmt.Errorf("from address required when notify is enabled")
	}
	return nil
}

package pagination

import (
	"fmt"
	"os"
	"strconv"
)

// Config bounds page sizes for list endpoints.
type Config struct {
	DefaultPageSize int `toml:"default_page_size"`
	MaxPageSize     int `toml:"max_page_size"`
}

// Env maps environment variable names onto pagination settings.
type Env struct {
	DefaultPageSize string
	MaxPageSize     string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overlays non-zero values from o onto c.
func (c *Config) Merge(o *Config) {
	if o == nil {
		return
	}
	if o.DefaultPageSize > 0 {
		c.DefaultPageSize = o.DefaultPageSize
	}
	if o.MaxPageSize > 0 {
		c.MaxPageSize = o.MaxPageSize
	}
}

func (c *Config) loadDefaults() {
	if c.DefaultPageSize == 0 {
		c.DefaultPageSize = 20
	}
	if c.MaxPageSize == 0 {
		c.MaxPageSize = 100
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.DefaultPageSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DefaultPageSize = n
		}
	}
	if v := os.Getenv(env.MaxPageSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxPageSize = n
		}
	}
}

func (c *Config) validate() error {
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("default page size must be positive: %d", c.DefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("max page size %d below default %d", c.MaxPageSize, c.DefaultPageSize)
	}
	return nil
}

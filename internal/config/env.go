package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvOverrides are the environment variables that take precedence over the
// config file.
type EnvOverrides struct {
	Dir         string `env:"WSREPO_DIR"`
	GlobalDir   string `env:"WSREPO_GLOBAL_DIR"`
	TemplateDir string `env:"WSREPO_TEMPLATE_DIR"`
	Debug       string `env:"WSREPO_DEBUG"`
}

// ParseEnv reads EnvOverrides from the process environment.
func ParseEnv() (EnvOverrides, error) {
	var o EnvOverrides
	if err := env.Parse(&o); err != nil {
		return o, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

// Apply copies every set override into c. WSREPO_DEBUG names the log file.
func (o EnvOverrides) Apply(c *Config) {
	if o.Dir != "" {
		c.Dir = o.Dir
	}
	if o.GlobalDir != "" {
		c.GlobalDir = o.GlobalDir
	}
	if o.TemplateDir != "" {
		c.TemplateDir = o.TemplateDir
	}
	if o.Debug != "" {
		c.LogFile = o.Debug
		c.LogLevel = "debug"
	}
}

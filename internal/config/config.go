package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/retrospec/internal/agent"
	"github.com/maxbolgarin/retrospec/internal/history"
	"github.com/maxbolgarin/retrospec/internal/provider"
	"github.com/maxbolgarin/retrospec/internal/server"
)

// Config represents the main application configuration
type Config struct {
	Server   server.Config   `yaml:"server"`
	Provider provider.Config `yaml:"provider"`
	Agent    agent.Config    `yaml:"agent"`
	History  history.Config  `yaml:"history"`
}

// Load reads configuration from a yaml file (environment overrides apply)
// or from the environment alone when no path is given. Per-component
// validation happens in each component's constructor.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return cfg, errm.Wrap(err, "read config file")
		}
		return cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, errm.Wrap(err, "read config from environment")
	}

	return cfg, nil
}

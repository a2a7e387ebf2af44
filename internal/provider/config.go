package provider

import (
	"slices"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

type Type string

// Supported VCS provider types
const (
	GitHub Type = "github"
	GitLab Type = "gitlab"
)

var supportedTypes = []Type{GitHub, GitLab}

// Config represents VCS provider configuration. Token is optional:
// anonymous access works against public repositories with a lower quota.
type Config struct {
	Type    Type   `yaml:"type" env:"PROVIDER_TYPE"`
	BaseURL string `yaml:"base_url" env:"PROVIDER_BASE_URL"`
	Token   string `yaml:"token" env:"PROVIDER_TOKEN"`
}

func (c *Config) PrepareAndValidate() error {
	c.Type = Type(lang.Check(string(c.Type), string(GitHub)))

	if !slices.Contains(supportedTypes, c.Type) {
		return errm.Errorf("invalid provider type: %s", c.Type)
	}

	return nil
}

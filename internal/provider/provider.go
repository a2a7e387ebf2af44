package provider

import (
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/retrospec/internal/model"
	"github.com/maxbolgarin/retrospec/internal/provider/github"
	"github.com/maxbolgarin/retrospec/internal/provider/gitlab"
)

// New creates a new VCS provider based on the configuration
func New(cfg Config) (model.CommitProvider, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	cfgForProvider := model.ProviderConfig{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
	}

	var provider model.CommitProvider
	var err error

	switch cfg.Type {
	case GitHub:
		provider, err = github.New(cfgForProvider)
	case GitLab:
		provider, err = gitlab.New(cfgForProvider)
	default:
		return nil, errm.Errorf("unsupported provider type: %s", cfg.Type)
	}
	if err != nil {
		return nil, errm.Wrap(err, "failed to create provider")
	}

	return provider, nil
}

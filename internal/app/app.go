package app

import (
	"context"

	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/retrospec/internal/agent"
	"github.com/maxbolgarin/retrospec/internal/config"
	"github.com/maxbolgarin/retrospec/internal/history"
	"github.com/maxbolgarin/retrospec/internal/model"
	"github.com/maxbolgarin/retrospec/internal/provider"
	"github.com/maxbolgarin/retrospec/internal/server"
)

// Retrospec is the main service that wires all components together.
// The commit cache lives here: constructed once at process start and
// handed to the history service, never package-level state.
type Retrospec struct {
	provider model.CommitProvider
	cache    *history.Cache
	history  *history.Service
	agent    *agent.Agent
	server   *server.Server

	cfg config.Config
	log logze.Logger
}

// LoadConfig loads the application configuration
func LoadConfig(path string) (config.Config, error) {
	return config.Load(path)
}

// New creates a new service instance
func New(ctx contem.Context, cfg config.Config) (*Retrospec, error) {
	service := &Retrospec{
		cfg: cfg,
		log: logze.With("component", "app"),
	}

	if err := service.init(ctx, cfg); err != nil {
		return nil, errm.Wrap(err, "failed to initialize service")
	}

	return service, nil
}

// Start starts the API server
func (s *Retrospec) Start(ctx context.Context) error {
	if err := s.server.Start(ctx); err != nil {
		return errm.Wrap(err, "failed to start API server")
	}
	return nil
}

func (s *Retrospec) init(ctx contem.Context, cfg config.Config) (err error) {
	s.provider, err = provider.New(cfg.Provider)
	if err != nil {
		return errm.Wrap(err, "failed to create VCS provider")
	}

	s.cache = history.NewCache()

	s.history, err = history.NewService(cfg.History, s.provider, s.cache)
	if err != nil {
		return errm.Wrap(err, "failed to create history service")
	}

	s.agent, err = agent.New(ctx, cfg.Agent)
	if err != nil {
		return errm.Wrap(err, "failed to create analysis agent")
	}

	s.server, err = server.New(cfg.Server, s.history, s.agent)
	if err != nil {
		return errm.Wrap(err, "failed to create API server")
	}
	ctx.Add(s.server.Stop)

	return nil
}

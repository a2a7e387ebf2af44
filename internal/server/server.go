package server

import (
	"context"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/retrospec/internal/agent"
	"github.com/maxbolgarin/retrospec/internal/history"
	"github.com/maxbolgarin/servex/v2"
)

// Server exposes the commit-history and analysis API over HTTP
type Server struct {
	history *history.Service
	agent   *agent.Agent
	config  Config
	log     logze.Logger
	server  *servex.Server
}

// New creates a new API server
func New(cfg Config, hist *history.Service, ag *agent.Agent) (*Server, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	log := logze.With("component", "server")

	server, err := servex.NewServer(
		servex.WithReadTimeout(cfg.Timeout),
		servex.WithIdleTimeout(cfg.Timeout*2),
		servex.WithLogger(log),
		servex.WithHealthEndpoint(),
		servex.WithDefaultMetrics(),
		servex.WithCertificate(cfg.Certificate),
	)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create server")
	}

	s := &Server{
		history: hist,
		agent:   ag,
		config:  cfg,
		log:     log,
		server:  server,
	}

	server.HandleFunc("/", s.handleRoot)
	server.HandleFunc("/api/repo-info", s.handleRepoInfo)
	server.HandleFunc("/api/commit-history", s.handleCommitHistory)
	server.HandleFunc("/api/analyze-commit", s.handleAnalyzeCommit)
	server.HandleFunc("/api/detect-regression", s.handleDetectRegression)
	server.HandleFunc("/api/generate-repair", s.handleGenerateRepair)

	return s, nil
}

// Start starts the API server
func (s *Server) Start(ctx context.Context) error {
	if s.config.EnableHTTPS {
		return s.server.StartHTTPS(s.config.Address)
	}
	return s.server.StartHTTP(s.config.Address)
}

// Stop stops the API server
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

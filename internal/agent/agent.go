// Package agent forwards assembled prompts to an LLM completion backend
// for natural-language analysis: commit summaries, regression detection
// and repair suggestions.
package agent

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/retrospec/internal/agent/gemini"
	"github.com/maxbolgarin/retrospec/internal/agent/groq"
	"github.com/maxbolgarin/retrospec/internal/agent/prompts"
	"github.com/maxbolgarin/retrospec/internal/model"
)

// Generation bounds are fixed per operation, not configurable: commit
// analysis runs warmer and shorter than regression/repair generation.
const (
	analysisTemperature = 0.3
	analysisMaxTokens   = 1000

	regressionTemperature = 0.2
	regressionMaxTokens   = 1500

	// Diffs beyond this many characters are truncated, not chunked.
	maxDiffChars = 6000
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Agent is the analysis gateway: it builds prompts and delegates text
// generation to the configured completion backend.
type Agent struct {
	cfg Config
	api model.AgentAPI
	log logze.Logger
}

// New creates a new analysis agent with the configured backend
func New(ctx context.Context, cfg Config) (*Agent, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	agent := &Agent{
		cfg: cfg,
		log: logze.With("component", "agent"),
	}

	modelCfg := model.ModelConfig{
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		URL:      cfg.BaseURL,
		ProxyURL: cfg.ProxyURL,
		IsTest:   cfg.IsTest,
	}

	var err error
	switch cfg.Type {
	case Groq:
		var cli *cliex.HTTP
		cli, err = cliex.NewWithConfig(cliex.Config{
			UserAgent:      cfg.UserAgent,
			ProxyAddress:   cfg.ProxyURL,
			RequestTimeout: cfg.Timeout,
		})
		if err != nil {
			return nil, errm.Wrap(err, "failed to create HTTP client")
		}
		agent.api, err = groq.New(ctx, cli, modelCfg)
	case Gemini:
		agent.api, err = gemini.New(ctx, modelCfg)
	default:
		return nil, errm.Errorf("unsupported agent type: %s", cfg.Type)
	}
	if err != nil {
		return nil, errm.Wrap(err, "failed to create agent backend")
	}

	return agent, nil
}

// AnalyzeCommit generates a natural-language analysis of one commit's diff.
// Diff content is capped at 6000 characters before prompt assembly.
func (a *Agent) AnalyzeCommit(ctx context.Context, hash, repoPath, diff string) (string, error) {
	return a.call(ctx, prompts.BuildCommitAnalysis(hash, repoPath, truncateDiff(diff)),
		analysisTemperature, analysisMaxTokens)
}

// DetectRegression asks the backend to identify regressions in the
// supplied performance data
func (a *Agent) DetectRegression(ctx context.Context, performanceData map[string]any) (string, error) {
	payload, err := json.MarshalIndent(performanceData, "", "  ")
	if err != nil {
		return "", errm.Wrap(err, "marshal performance data")
	}
	return a.call(ctx, prompts.BuildRegressionDetection(string(payload)),
		regressionTemperature, regressionMaxTokens)
}

// GenerateRepair asks the backend for a repair strategy based on a
// previously produced regression analysis
func (a *Agent) GenerateRepair(ctx context.Context, regressionData map[string]any) (string, error) {
	payload, err := json.MarshalIndent(regressionData, "", "  ")
	if err != nil {
		return "", errm.Wrap(err, "marshal regression data")
	}
	return a.call(ctx, prompts.BuildRepairStrategy(string(payload)),
		regressionTemperature, regressionMaxTokens)
}

func (a *Agent) call(ctx context.Context, p model.Prompt, temperature float32, maxTokens int) (string, error) {
	resp, err := a.api.CallAPI(ctx, model.APIRequest{
		Prompt:       p.UserPrompt,
		SystemPrompt: p.SystemPrompt,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
	})
	if err != nil {
		return "", errm.Wrap(err, "failed to call completion API")
	}
	if resp.Content == "" {
		return "", errm.New("empty response from completion API")
	}

	a.log.Debug("completion finished", "total_tokens", resp.TotalTokens)

	return resp.Content, nil
}

func truncateDiff(diff string) string {
	if len(diff) > maxDiffChars {
		return diff[:maxDiffChars]
	}
	return diff
}

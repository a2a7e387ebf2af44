package groq

import (
	"context"
	"strings"
	"time"

	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/retrospec/internal/model"
)

const (
	defaultModel = "llama-3.3-70b-versatile"
	defaultURL   = "https://api.groq.com/openai/v1/chat/completions"
)

var _ model.AgentAPI = (*Agent)(nil)

// Agent implements the AgentAPI interface over Groq's
// OpenAI-compatible chat completions endpoint
type Agent struct {
	cli *cliex.HTTP
	cfg model.ModelConfig
}

// New creates a new Groq agent
func New(ctx context.Context, cli *cliex.HTTP, cfg model.ModelConfig) (*Agent, error) {
	if cfg.APIKey == "" {
		return nil, errm.New("Groq API key is required")
	}
	cfg.Model = lang.Check(cfg.Model, defaultModel)
	cfg.URL = lang.Check(cfg.URL, defaultURL)

	cli.C().SetAuthToken(cfg.APIKey)

	agent := &Agent{
		cli: cli,
		cfg: cfg,
	}

	// Test connection if needed (may take tokens)
	if cfg.IsTest {
		if err := agent.testConnection(ctx); err != nil {
			return nil, errm.Wrap(err, "failed to connect to Groq API")
		}
	}

	return agent, nil
}

// CallAPI makes a chat completion request to the Groq API
func (a *Agent) CallAPI(ctx context.Context, req model.APIRequest) (model.APIResponse, error) {
	reqBody := chatCompletionRequest{
		Model:       a.cfg.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      false,
	}
	if req.SystemPrompt != "" {
		reqBody.Messages = append(reqBody.Messages, message{Role: "system", Content: req.SystemPrompt})
	}
	reqBody.Messages = append(reqBody.Messages, message{Role: "user", Content: req.Prompt})

	var respBody chatCompletionResponse
	requestURL := lang.Check(req.URL, a.cfg.URL)
	_, err := a.cli.Post(ctx, requestURL, reqBody, &respBody)
	if err != nil {
		return model.APIResponse{}, errm.Wrap(err, "failed to make API request")
	}

	if respBody.Error != nil {
		return model.APIResponse{}, errm.Errorf("Groq API error: %s", respBody.Error.Message)
	}

	var content string
	if len(respBody.Choices) > 0 {
		content = strings.TrimSpace(respBody.Choices[0].Message.Content)
	}

	return model.APIResponse{
		CreateTime:       time.Unix(respBody.Created, 0),
		Content:          content,
		PromptTokens:     respBody.Usage.PromptTokens,
		CompletionTokens: respBody.Usage.CompletionTokens,
		TotalTokens:      respBody.Usage.TotalTokens,
	}, nil
}

func (a *Agent) testConnection(ctx context.Context) error {
	_, err := a.CallAPI(ctx, model.APIRequest{
		Prompt:      "Respond with 'OK' if you can understand this message.",
		MaxTokens:   10,
		Temperature: 0.5,
	})
	if err != nil {
		return errm.Wrap(err, "connection test failed")
	}
	return nil
}

package agent

import (
	"slices"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "retrospec/1.0 (https://github.com/maxbolgarin/retrospec)"
)

// AgentType represents the type of completion backend
type AgentType string

// Supported completion backends
const (
	Groq   AgentType = "groq"
	Gemini AgentType = "gemini"
)

var supportedAgentTypes = []AgentType{Groq, Gemini}

// Config represents completion backend configuration
type Config struct {
	Type   AgentType `yaml:"type" env:"AGENT_TYPE"`
	APIKey string    `yaml:"api_key" env:"AGENT_API_KEY"`
	Model  string    `yaml:"model" env:"AGENT_MODEL"`

	BaseURL   string        `yaml:"base_url" env:"AGENT_BASE_URL"`
	ProxyURL  string        `yaml:"proxy_url" env:"AGENT_PROXY_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"AGENT_TIMEOUT"`
	UserAgent string        `yaml:"user_agent" env:"AGENT_USER_AGENT"`
	IsTest    bool          `yaml:"is_test" env:"AGENT_IS_TEST"`
}

func (c *Config) PrepareAndValidate() error {
	if c.APIKey == "" {
		return errm.New("api key is required")
	}

	c.Type = AgentType(lang.Check(string(c.Type), string(Groq)))
	if !slices.Contains(supportedAgentTypes, c.Type) {
		return errm.Errorf("invalid agent type: %s", c.Type)
	}

	c.Timeout = lang.Check(c.Timeout, defaultTimeout)
	c.UserAgent = lang.Check(c.UserAgent, defaultUserAgent)

	return nil
}

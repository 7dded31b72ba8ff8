package transcription

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/voicedoc/provider"
	"github.com/kbukum/voicedoc/security"
)

// ServiceName identifies the transcription endpoint in errors and logs.
const ServiceName = "transcription"

// Provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderOpenAISDK = "openaisdk"
	ProviderWhisper   = "whisper"
)

// Defaults for the OpenAI-compatible endpoint.
const (
	DefaultBaseURL        = "https://api.openai.com/v1"
	DefaultModel          = "whisper-1"
	DefaultResponseFormat = "json"
	DefaultFileName       = "recording.webm"
)

// Provider is the interface that transcription backends must implement.
// Providers report failures as AUTH_ERROR or UPSTREAM_ERROR; a response
// without text is returned as-is.
type Provider interface {
	provider.Provider

	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// Config selects and configures the provider.
type Config struct {
	// Provider is "openai" (default), "openaisdk" or "whisper".
	Provider string `yaml:"provider" mapstructure:"provider"`
	// BaseURL is the API root; requests go to {base}/audio/transcriptions.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
	// ResponseFormat is sent as response_format (default: json).
	ResponseFormat string        `yaml:"response_format" mapstructure:"response_format"`
	Language       string        `yaml:"language" mapstructure:"language"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// TLS trusts a private CA, for a self-hosted sidecar behind HTTPS.
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.ResponseFormat == "" {
		c.ResponseFormat = DefaultResponseFormat
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("transcription.base_url is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("transcription.timeout must not be negative")
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("transcription.%w", err)
	}
	return nil
}

// Registry maps provider names to factories.
type Registry = provider.Registry[Provider, Config]

// NewRegistry creates an empty provider registry. Provider packages add
// themselves with their Register functions.
func NewRegistry() *Registry {
	return provider.NewRegistry[Provider, Config]()
}

// New creates the provider named by cfg.Provider.
func New(reg *Registry, cfg Config) (Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := reg.Create(cfg.Provider, cfg)
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}
	return p, nil
}

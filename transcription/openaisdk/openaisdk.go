// Package openaisdk implements transcription.Provider with the
// github.com/sashabaranov/go-openai client.
package openaisdk

import (
	"bytes"
	"context"
	stderrors "errors"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/httpclient"
	"github.com/kbukum/voicedoc/transcription"
)

// Provider transcribes through go-openai. A client is built per call since
// the API key comes from the saved configuration.
type Provider struct {
	cfg        transcription.Config
	httpClient *http.Client
}

var _ transcription.Provider = (*Provider)(nil)

// Register adds the provider to reg.
func Register(reg *transcription.Registry) {
	reg.RegisterFactory(transcription.ProviderOpenAISDK, func(cfg transcription.Config) (transcription.Provider, error) {
		return New(cfg)
	})
}

// New creates the provider.
func New(cfg transcription.Config) (*Provider, error) {
	cfg.ApplyDefaults()
	transport, err := httpclient.NewTransport(cfg.TLS)
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout}}, nil
}

func (p *Provider) Name() string                       { return transcription.ProviderOpenAISDK }
func (p *Provider) IsAvailable(_ context.Context) bool { return p.cfg.BaseURL != "" }

// Transcribe sends req through CreateTranscription.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	clientCfg := goopenai.DefaultConfig(req.APIKey)
	clientCfg.BaseURL = p.cfg.BaseURL
	clientCfg.HTTPClient = p.httpClient
	client := goopenai.NewClientWithConfig(clientCfg)

	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	fileName := req.FileName
	if fileName == "" {
		fileName = transcription.DefaultFileName
	}
	language := req.Language
	if language == "" {
		language = p.cfg.Language
	}

	resp, err := client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    model,
		FilePath: fileName,
		Reader:   bytes.NewReader(req.Audio),
		Format:   goopenai.AudioResponseFormat(p.cfg.ResponseFormat),
		Language: language,
	})
	if err != nil {
		return nil, mapError(err)
	}

	out := &transcription.Response{Text: resp.Text, Language: resp.Language, Duration: resp.Duration}
	for _, s := range resp.Segments {
		out.Segments = append(out.Segments, transcription.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return out, nil
}

func mapError(err error) error {
	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case stderrors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case stderrors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return errors.AuthFailed(transcription.ServiceName, status).WithCause(err)
	}
	return errors.Upstream(transcription.ServiceName, status, err)
}

// Package whisper implements transcription.Provider against a local
// faster-whisper HTTP sidecar. The sidecar needs no API key.
package whisper

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/httpclient"
	"github.com/kbukum/voicedoc/transcription"
)

const (
	defaultURL   = "http://localhost:8387"
	defaultModel = "base"
)

// Provider posts audio to {url}/transcribe.
type Provider struct {
	model    string
	language string
	client   *httpclient.Client
}

var _ transcription.Provider = (*Provider)(nil)

// Register adds the provider to reg.
func Register(reg *transcription.Registry) {
	reg.RegisterFactory(transcription.ProviderWhisper, func(cfg transcription.Config) (transcription.Provider, error) {
		return New(cfg)
	})
}

// New creates the provider. The OpenAI defaults in cfg are replaced by the
// sidecar's.
func New(cfg transcription.Config) (*Provider, error) {
	url := cfg.BaseURL
	if url == "" || url == transcription.DefaultBaseURL {
		url = defaultURL
	}
	model := cfg.Model
	if model == "" || model == transcription.DefaultModel {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	client, err := httpclient.New(httpclient.Config{BaseURL: url, Timeout: timeout, TLS: cfg.TLS})
	if err != nil {
		return nil, err
	}
	return &Provider{model: model, language: cfg.Language, client: client}, nil
}

func (p *Provider) Name() string { return transcription.ProviderWhisper }

// IsAvailable checks the sidecar's health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	resp, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "health"})
	return err == nil && resp.StatusCode == http.StatusOK
}

type whisperResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Text  string  `json:"text"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"segments"`
}

// Transcribe uploads req.Audio as the "audio" part.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	fields := map[string]string{"model": p.model}
	if req.Model != "" {
		fields["model"] = req.Model
	}
	if lang := req.Language; lang != "" {
		fields["language"] = lang
	} else if p.language != "" {
		fields["language"] = p.language
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "transcribe",
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "audio",
				FileName:    req.FileName,
				ContentType: req.MIMEType,
				Data:        req.Audio,
			}},
		},
	})
	if err != nil {
		return nil, transcription.HTTPError(err)
	}

	var result whisperResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, errors.Upstream(transcription.ServiceName, resp.StatusCode, err)
	}

	out := &transcription.Response{Text: result.Text, Language: result.Language}
	for _, s := range result.Segments {
		out.Segments = append(out.Segments, transcription.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	if n := len(result.Segments); n > 0 {
		out.Duration = result.Segments[n-1].End
	}
	return out, nil
}

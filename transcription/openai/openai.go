// Package openai implements transcription.Provider against the OpenAI
// audio transcription endpoint (and compatible servers) using httpclient.
package openai

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/httpclient"
	"github.com/kbukum/voicedoc/transcription"
)

const endpoint = "audio/transcriptions"

// Provider posts multipart uploads to {base}/audio/transcriptions.
type Provider struct {
	cfg    transcription.Config
	client *httpclient.Client
}

var _ transcription.Provider = (*Provider)(nil)

// Register adds the provider to reg.
func Register(reg *transcription.Registry) {
	reg.RegisterFactory(transcription.ProviderOpenAI, func(cfg transcription.Config) (transcription.Provider, error) {
		return New(cfg)
	})
}

// New creates the provider.
func New(cfg transcription.Config) (*Provider, error) {
	cfg.ApplyDefaults()
	client, err := httpclient.New(httpclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout, TLS: cfg.TLS})
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client}, nil
}

func (p *Provider) Name() string { return transcription.ProviderOpenAI }

// IsAvailable reports whether the provider is configured. Reachability is
// only known once a keyed request is made.
func (p *Provider) IsAvailable(_ context.Context) bool { return p.cfg.BaseURL != "" }

type transcriptionResponse struct {
	Text     *string `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads req.Audio as the "file" part. A body without a text
// field yields an empty Response.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	fields := map[string]string{
		"model":           model,
		"response_format": p.cfg.ResponseFormat,
	}
	if lang := firstNonEmpty(req.Language, p.cfg.Language); lang != "" {
		fields["language"] = lang
	}
	fileName := req.FileName
	if fileName == "" {
		fileName = transcription.DefaultFileName
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   endpoint,
		Auth:   httpclient.BearerAuth(req.APIKey),
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "file",
				FileName:    fileName,
				ContentType: req.MIMEType,
				Data:        req.Audio,
			}},
		},
	})
	if err != nil {
		return nil, transcription.HTTPError(err)
	}

	var body transcriptionResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, errors.Upstream(transcription.ServiceName, resp.StatusCode, err)
	}
	out := &transcription.Response{Language: body.Language, Duration: body.Duration}
	if body.Text != nil {
		out.Text = *body.Text
	}
	for _, s := range body.Segments {
		out.Segments = append(out.Segments, transcription.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

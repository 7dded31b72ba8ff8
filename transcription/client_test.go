package transcription

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/kbukum/voicedoc/audio"
	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/httpclient"
	"github.com/kbukum/voicedoc/logger"
)

type stubProvider struct {
	resp *Response
	err  error
	got  Request
}

func (s *stubProvider) Name() string                       { return "stub" }
func (s *stubProvider) IsAvailable(_ context.Context) bool { return true }
func (s *stubProvider) Transcribe(_ context.Context, req Request) (*Response, error) {
	s.got = req
	return s.resp, s.err
}

func payload() *audio.Payload {
	return &audio.Payload{Data: []byte("c1c2"), MIMEType: audio.MIMEWebM, CapturedAt: time.Now(), Chunks: 2}
}

func TestClientTranscribe(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		want     string
		code     errors.ErrorCode
	}{
		{"text", &stubProvider{resp: &Response{Text: " Create an invoice template \n"}}, " Create an invoice template \n", ""},
		{"empty text", &stubProvider{resp: &Response{}}, "", errors.ErrCodeEmptyResult},
		{"whitespace text", &stubProvider{resp: &Response{Text: "  "}}, "", errors.ErrCodeEmptyResult},
		{"auth", &stubProvider{err: errors.AuthFailed(ServiceName, 401)}, "", errors.ErrCodeAuth},
		{"plain error", &stubProvider{err: stderrors.New("boom")}, "", errors.ErrCodeUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.provider, logger.NewNop())
			got, err := c.Transcribe(context.Background(), payload(), "sk-test")
			if tt.code == "" {
				if err != nil || got != tt.want {
					t.Fatalf("Transcribe = %q, %v", got, err)
				}
			} else if !errors.HasCode(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
			if tt.provider.got.APIKey != "sk-test" || tt.provider.got.FileName != "recording.webm" {
				t.Errorf("request = %+v", tt.provider.got)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"audio/webm":             "recording.webm",
		"audio/webm;codecs=opus": "recording.webm",
		"audio/ogg":              "recording.ogg",
		"audio/wav":              "recording.wav",
		"":                       "recording.webm",
	}
	for mime, want := range tests {
		if got := FileName(mime); got != want {
			t.Errorf("FileName(%q) = %q, want %q", mime, got, want)
		}
	}
}

func TestHTTPError(t *testing.T) {
	if err := HTTPError(httpclient.ClassifyStatusCode(403, nil)); !errors.HasCode(err, errors.ErrCodeAuth) {
		t.Errorf("403: %v", err)
	}
	if err := HTTPError(httpclient.ClassifyStatusCode(500, nil)); !errors.HasCode(err, errors.ErrCodeUpstream) {
		t.Errorf("500: %v", err)
	}
	if err := HTTPError(httpclient.NewConnectionError(stderrors.New("refused"))); !errors.HasCode(err, errors.ErrCodeUpstream) {
		t.Errorf("connection: %v", err)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(NewRegistry(), Config{Provider: "nope"}); err == nil {
		t.Error("expected error for unregistered provider")
	}
}

package transcription

import (
	"context"
	"strings"
	"time"

	"github.com/kbukum/voicedoc/audio"
	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/httpclient"
	"github.com/kbukum/voicedoc/logger"
)

// Client transcribes captured payloads with a Provider. It makes exactly
// one attempt per call.
type Client struct {
	provider Provider
	log      *logger.Logger
}

// NewClient wraps p.
func NewClient(p Provider, log *logger.Logger) *Client {
	return &Client{provider: p, log: log.WithComponent("transcription")}
}

// Provider returns the wrapped provider.
func (c *Client) Provider() Provider { return c.provider }

// Transcribe uploads payload with apiKey and returns the transcript text.
// A response without text is an EMPTY_RESULT error.
func (c *Client) Transcribe(ctx context.Context, payload *audio.Payload, apiKey string) (string, error) {
	start := time.Now()
	resp, err := c.provider.Transcribe(ctx, Request{
		Audio:    payload.Data,
		FileName: FileName(payload.MIMEType),
		MIMEType: payload.MIMEType,
		APIKey:   apiKey,
	})
	fields := logger.Fields(
		logger.FieldProvider, c.provider.Name(),
		logger.FieldBytes, payload.Size(),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	)
	if err != nil {
		fields[logger.FieldError] = err.Error()
		c.log.Warn("transcription failed", fields)
		if _, ok := errors.AsAppError(err); ok {
			return "", err
		}
		return "", errors.Upstream(ServiceName, 0, err)
	}

	if strings.TrimSpace(resp.Text) == "" {
		c.log.Warn("transcription returned no text", fields)
		return "", errors.EmptyResult(ServiceName)
	}
	fields["chars"] = len(resp.Text)
	c.log.Info("transcription complete", fields)
	return resp.Text, nil
}

// FileName returns the upload file name for a MIME type.
func FileName(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(base) {
	case "audio/ogg":
		return "recording.ogg"
	case "audio/wav", "audio/x-wav":
		return "recording.wav"
	case "audio/mpeg":
		return "recording.mp3"
	default:
		return DefaultFileName
	}
}

// HTTPError maps an httpclient failure to AUTH_ERROR (401/403) or
// UPSTREAM_ERROR.
func HTTPError(err error) error {
	status := httpclient.StatusCode(err)
	if httpclient.IsAuth(err) {
		return errors.AuthFailed(ServiceName, status).WithCause(err)
	}
	return errors.Upstream(ServiceName, status, err)
}

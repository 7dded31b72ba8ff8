// Package delivery forwards transcripts to the configured document
// generation webhook.
package delivery

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/httpclient"
	"github.com/kbukum/voicedoc/logger"
	"github.com/kbukum/voicedoc/security"
)

// ServiceName identifies the webhook in errors and logs.
const ServiceName = "delivery"

// RequestType is sent with every delivery.
const RequestType = "document_generation"

// TimestampLayout is RFC 3339 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Request is the JSON body posted to the webhook.
type Request struct {
	Transcript  string `json:"transcript"`
	Timestamp   string `json:"timestamp"`
	RequestType string `json:"requestType"`
}

// NewRequest builds the body for transcript captured at capturedAt.
func NewRequest(transcript string, capturedAt time.Time) Request {
	return Request{
		Transcript:  transcript,
		Timestamp:   capturedAt.UTC().Format(TimestampLayout),
		RequestType: RequestType,
	}
}

// Config configures the webhook client.
type Config struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// TLS trusts a private CA for webhooks on an internal network.
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("delivery.timeout must not be negative")
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("delivery.%w", err)
	}
	return nil
}

// Client posts transcripts to a webhook. Each call is a single attempt; the
// response body is ignored.
type Client struct {
	http *httpclient.Client
	log  *logger.Logger
}

// New creates a delivery client.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	hc, err := httpclient.New(httpclient.Config{Timeout: cfg.Timeout, TLS: cfg.TLS})
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, log: log.WithComponent("delivery")}, nil
}

// Deliver posts transcript to webhookURL. Any 2xx is success; anything else
// is an UPSTREAM_ERROR.
func (c *Client) Deliver(ctx context.Context, webhookURL, transcript string, capturedAt time.Time) error {
	start := time.Now()
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    webhookURL,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    NewRequest(transcript, capturedAt),
	})
	fields := logger.Fields(logger.FieldDuration, time.Since(start).Milliseconds())
	if resp != nil {
		fields[logger.FieldStatus] = resp.StatusCode
	}
	if err != nil {
		fields[logger.FieldError] = err.Error()
		c.log.Warn("delivery failed", fields)
		return errors.Upstream(ServiceName, httpclient.StatusCode(err), err)
	}
	c.log.Info("transcript delivered", fields)
	return nil
}

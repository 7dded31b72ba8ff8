package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig holds TLS file paths and options.
type TLSConfig struct {
	// CAFile verifies peers. Clients use it for the server, the listener
	// for client certificates.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`
	// CertFile and KeyFile are the local certificate: the serving
	// certificate for a listener, a client certificate for mTLS.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`
	// ServerName overrides the name verified by clients.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`
	// SkipVerify disables client-side certificate verification.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`
}

// Validate checks that cert and key come together.
func (c *TLSConfig) Validate() error {
	if (c.CertFile != "") != (c.KeyFile != "") {
		return fmt.Errorf("tls: cert_file and key_file must be set together")
	}
	return nil
}

// Client returns the configuration for outbound connections, or nil when
// nothing is set and the system defaults apply.
func (c *TLSConfig) Client() (*tls.Config, error) {
	if c.CAFile == "" && c.CertFile == "" && c.ServerName == "" && !c.SkipVerify {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ServerName:         c.ServerName,
		InsecureSkipVerify: c.SkipVerify, //nolint:gosec // opt-in for local sidecars
	}
	if c.CAFile != "" {
		pool, err := loadPool(c.CAFile)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}
	if c.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("tls: load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

// Server returns the listener configuration, or nil when no certificate is
// set and the listener stays plain HTTP. A CAFile requires clients to
// present a certificate it signed.
func (c *TLSConfig) Server() (*tls.Config, error) {
	if c.CertFile == "" && c.KeyFile == "" {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("tls: load server certificate: %w", err)
	}
	cfg := &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{"http/1.1"},
	}
	if c.CAFile != "" {
		pool, err := loadPool(c.CAFile)
		if err != nil {
			return nil, err
		}
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return cfg, nil
}

func loadPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tls: read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("tls: no certificates in %s", path)
	}
	return pool, nil
}

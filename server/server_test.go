package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicedoc/component"
	"github.com/kbukum/voicedoc/logger"
	"github.com/kbukum/voicedoc/security"
	"github.com/kbukum/voicedoc/security/tlstest"
	"github.com/kbukum/voicedoc/server/middleware"
)

func testConfig() Config {
	cfg := Config{Host: "127.0.0.1", Port: 0}
	cfg.ApplyDefaults()
	cfg.Port = 0
	return cfg
}

func startServer(t *testing.T, cfg Config, checker func(context.Context) []component.Health) (*Server, *ServerComponent) {
	t.Helper()
	s := New(cfg, logger.NewNop())
	s.ApplyDefaults("voicedoc", checker, nil)
	s.GinEngine().POST("/api/echo", func(c *gin.Context) { RespondOK(c, gin.H{"ok": true}) })

	sc := NewComponent(s)
	if h := sc.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("health before start = %s", h.Status)
	}
	if err := sc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = sc.Stop(context.Background()) })
	return s, sc
}

func TestServerLifecycle(t *testing.T) {
	checker := func(context.Context) []component.Health {
		return []component.Health{{Name: "store", Status: component.StatusHealthy}}
	}
	s, sc := startServer(t, testConfig(), checker)

	if h := sc.Health(context.Background()); h.Status != component.StatusHealthy || h.Message != s.Addr() {
		t.Errorf("health after start = %+v", h)
	}

	resp, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/health status = %d", resp.StatusCode)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Error("request ID header missing")
	}
	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != string(component.StatusHealthy) || body.Service != "voicedoc" {
		t.Errorf("body = %+v", body)
	}

	if err := sc.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	client := &http.Client{Timeout: time.Second}
	if _, err := client.Get("http://" + s.Addr() + "/health"); err == nil {
		t.Error("expected the stopped server to refuse connections")
	}
}

func TestHealthUnhealthy(t *testing.T) {
	checker := func(context.Context) []component.Health {
		return []component.Health{{Name: "store", Status: component.StatusUnhealthy}}
	}
	s, _ := startServer(t, testConfig(), checker)

	resp, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestServerTLS(t *testing.T) {
	certs := tlstest.Generate(t)
	cfg := testConfig()
	cfg.TLS = security.TLSConfig{CertFile: certs.CertFile, KeyFile: certs.KeyFile}
	s, _ := startServer(t, cfg, nil)

	client := &http.Client{Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: certs.Pool}}}
	resp, err := client.Get("https://" + s.Addr() + "/version")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestStartBadCertificate(t *testing.T) {
	cfg := testConfig()
	cfg.TLS = security.TLSConfig{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}
	if err := New(cfg, logger.NewNop()).Start(context.Background()); err == nil {
		t.Error("expected an error for a missing certificate")
	}
}

func TestRoutes(t *testing.T) {
	s := New(testConfig(), logger.NewNop())
	s.ApplyDefaults("voicedoc", nil, nil)
	s.GinEngine().POST("/api/echo", func(c *gin.Context) {})

	routes := s.Routes()
	if len(routes) != 3 {
		t.Fatalf("routes = %+v", routes)
	}
	if routes[0].Path != "/api/echo" {
		t.Errorf("API routes should come first, got %s", routes[0].Path)
	}
	if routes[len(routes)-1].Path != "/version" {
		t.Errorf("last route = %s", routes[len(routes)-1].Path)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port out of range", func(c *Config) { c.Port = 70000 }, true},
		{"negative timeout", func(c *Config) { c.ReadTimeout = -1 }, true},
		{"negative login rate", func(c *Config) { c.LoginRate = -1 }, true},
		{"cert without key", func(c *Config) { c.TLS.CertFile = "cert.pem" }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{}
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

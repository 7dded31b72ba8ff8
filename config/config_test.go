package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

type storeSection struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	Path    string `yaml:"path" mapstructure:"path"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Store         storeSection  `yaml:"store" mapstructure:"store"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging in development, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info logging, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
name: voicedoc
environment: staging
timeout: 5s
store:
  backend: file
  path: /tmp/voicedoc.json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("voicedoc", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env"))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "voicedoc" || cfg.Environment != "staging" {
		t.Errorf("unexpected base config: %+v", cfg.ServiceConfig)
	}
	if cfg.Store.Backend != "file" || cfg.Store.Path != "/tmp/voicedoc.json" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Timeout)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("store:\n  backend: file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("NAME", "from-env")

	var cfg testConfig
	if err := LoadConfig("voicedoc", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env"))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Store.Backend != "redis" {
		t.Errorf("expected env override 'redis', got %q", cfg.Store.Backend)
	}
	if cfg.Name != "from-env" {
		t.Errorf("expected name from env, got %q", cfg.Name)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestConfigKeys(t *testing.T) {
	got := configKeys(reflect.TypeOf(&testConfig{}), "")
	want := []string{
		"name", "environment", "version", "debug",
		"logging.level", "logging.format", "logging.output", "logging.no_color", "logging.timestamp", "logging.caller",
		"store.backend", "store.path", "timeout",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("configKeys =\n%v\nwant\n%v", got, want)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolverSearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/voicedoc/config.yml": true,
		"./config.yml":              true,
		".env":                      true,
	}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("voicedoc", LoaderConfig{})
	if files.ConfigFile != "./cmd/voicedoc/config.yml" {
		t.Errorf("expected cmd config first, got %q", files.ConfigFile)
	}
	if files.EnvFile != ".env" {
		t.Errorf("expected .env, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPaths(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("voicedoc", LoaderConfig{ConfigFile: "/etc/voicedoc.yml"})
	if files.ConfigFile != "/etc/voicedoc.yml" {
		t.Errorf("explicit path should win, got %q", files.ConfigFile)
	}
}

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/voicedoc/logger"
)

// newTestClient creates a Client backed by miniredis.
func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	client, err := New(Config{Addr: mini.Addr()}, logger.NewNop())
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, mini
}

func TestClient_GetSetDel(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	if err := client.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	if _, ok, err := client.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := client.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok, err := client.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}

	if err := client.Del(ctx, "k", "never-set"); err != nil {
		t.Fatalf("Del failed: %v", err)
	}
	if _, ok, _ := client.Get(ctx, "k"); ok {
		t.Error("expected key deleted")
	}
}

func TestClient_Expiration(t *testing.T) {
	client, mini := newTestClient(t)
	ctx := context.Background()

	if err := client.Set(ctx, "k", "v", 2*time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	mini.FastForward(3 * time.Second)
	if _, ok, _ := client.Get(ctx, "k"); ok {
		t.Error("expected key expired")
	}
}

func TestClient_CloseIdempotent(t *testing.T) {
	client, _ := newTestClient(t)
	if err := client.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{DialTimeout: "soon"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid dial_timeout")
	}
}

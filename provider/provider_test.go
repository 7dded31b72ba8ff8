package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type testProvider struct {
	name      string
	available bool
}

func (p *testProvider) Name() string                         { return p.name }
func (p *testProvider) IsAvailable(ctx context.Context) bool { return p.available }

type testConfig struct {
	Available bool
}

func newTestRegistry() *Registry[*testProvider, testConfig] {
	reg := NewRegistry[*testProvider, testConfig]()
	reg.RegisterFactory("beta", func(cfg testConfig) (*testProvider, error) {
		return &testProvider{name: "beta", available: cfg.Available}, nil
	})
	reg.RegisterFactory("alpha", func(cfg testConfig) (*testProvider, error) {
		return &testProvider{name: "alpha", available: cfg.Available}, nil
	})
	return reg
}

func TestRegistryCreate(t *testing.T) {
	reg := newTestRegistry()
	p, err := reg.Create("beta", testConfig{Available: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Name() != "beta" || !p.IsAvailable(context.Background()) {
		t.Errorf("unexpected provider: %+v", p)
	}
}

func TestRegistryCreateUnregistered(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Create("missing", testConfig{})
	if err == nil {
		t.Fatal("expected error for unregistered factory")
	}
	if !strings.Contains(err.Error(), "not registered") || !strings.Contains(err.Error(), "alpha") {
		t.Errorf("unexpected error: %q", err.Error())
	}
}

func TestRegistryListAndHas(t *testing.T) {
	reg := newTestRegistry()
	names := reg.List()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("expected sorted [alpha beta], got %v", names)
	}
	if !reg.Has("alpha") || reg.Has("gamma") {
		t.Error("Has returned wrong result")
	}
}

func TestForEach(t *testing.T) {
	var got []int
	err := ForEach(context.Background(), FromSlice([]int{1, 2, 3}), func(v int) error {
		got = append(got, v)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("got %v", got)
	}
}

func TestForEachStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := ForEach(context.Background(), FromSlice([]string{"a", "b"}), func(string) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("err=%v calls=%d", err, calls)
	}
}

func TestSliceIteratorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := FromSlice([]int{1}).Next(ctx)
	if ok || !errors.Is(err, context.Canceled) {
		t.Errorf("ok=%v err=%v", ok, err)
	}
}

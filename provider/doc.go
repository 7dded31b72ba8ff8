// Package provider implements a small generic provider framework for
// swappable backends.
//
// A Registry maps names to typed factories so a backend can be chosen from
// configuration at startup:
//
//	reg := provider.NewRegistry[kvstore.Store, kvstore.Config]()
//	reg.RegisterFactory("memory", newMemory)
//	store, err := reg.Create(cfg.Backend, cfg)
//
// Iterator is the pull-based stream used for lazily produced values such as
// captured audio chunks.
package provider

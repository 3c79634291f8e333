package config

import "sync/atomic"

// Store holds the active configuration for watch mode and swaps it atomically on reload.
type Store struct {
	p atomic.Pointer[Config]
}

// NewStore creates a Store holding cfg.
func NewStore(cfg *Config) *Store {
	s := &Store{}
	s.p.Store(cfg)
	return s
}

// Current returns the active configuration.
func (s *Store) Current() *Config {
	return s.p.Load()
}

// Update replaces the active configuration and returns the previous one.
func (s *Store) Update(cfg *Config) *Config {
	return s.p.Swap(cfg)
}

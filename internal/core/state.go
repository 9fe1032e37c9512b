// Package core holds the process-wide configuration state.
package core

import (
	"errors"
	"sync"

	"robot-controller/internal/config"
)

var (
	ErrAlreadyLoaded = errors.New("configuration already loaded")
	ErrNotLoaded     = errors.New("configuration not loaded")
)

// Phase is the load lifecycle of the configuration set.
type Phase int

const (
	Unloaded Phase = iota
	Loaded
)

func (p Phase) String() string {
	if p == Loaded {
		return "loaded"
	}
	return "unloaded"
}

// State is the single source of truth for the running configuration.
// It moves from Unloaded to Loaded exactly once and never back.
type State struct {
	mu  sync.RWMutex
	cfg *config.Config
}

// NewState creates a new, unloaded State.
func NewState() *State {
	return &State{}
}

// Load runs fn and keeps its result. A failed fn leaves the state Unloaded,
// a second successful Load is refused.
func (s *State) Load(fn func() (*config.Config, error)) (*config.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg != nil {
		return nil, ErrAlreadyLoaded
	}
	cfg, err := fn()
	if err != nil {
		return nil, err
	}
	s.cfg = cfg
	return cfg, nil
}

// Config returns the loaded configuration.
func (s *State) Config() (*config.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg == nil {
		return nil, ErrNotLoaded
	}
	return s.cfg, nil
}

// Phase reports where in the lifecycle the state is.
func (s *State) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg == nil {
		return Unloaded
	}
	return Loaded
}

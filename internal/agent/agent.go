// Package agent runs the firmware startup sequence: configuration first,
// then every subsystem that consumes it.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"robot-controller/internal/config"
	"robot-controller/internal/core"

	"github.com/sirupsen/logrus"
)

// Subsystem is a collaborator that consumes the configuration set.
type Subsystem interface {
	Name() string
	Start(ctx context.Context, cfg *config.Config) error
	Stop() error
}

// LoadFunc produces the configuration set, usually a closure over config.Load.
type LoadFunc func() (*config.Config, error)

type Agent struct {
	load       LoadFunc
	state      *core.State
	subsystems []Subsystem
	log        *logrus.Entry

	mu      sync.Mutex
	started []Subsystem
}

// NewAgent creates an agent; subsystems start in the order given.
func NewAgent(load LoadFunc, subsystems ...Subsystem) *Agent {
	return &Agent{
		load:       load,
		state:      core.NewState(),
		subsystems: subsystems,
		log:        logrus.WithField("component", "agent"),
	}
}

// State exposes the configuration state for inspection.
func (a *Agent) State() *core.State {
	return a.state
}

// Start loads the configuration and starts every subsystem. Invalid
// configuration aborts before any subsystem is touched; a failing subsystem
// stops those already running.
func (a *Agent) Start(ctx context.Context) (*config.Config, error) {
	cfg, err := a.state.Load(a.load)
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfiguration) {
			a.log.WithError(err).Error("Refusing to start with invalid configuration")
		}
		return nil, fmt.Errorf("startup aborted: %w", err)
	}

	if cfg.HasPlaceholderCredentials() {
		a.log.Warnf("WiFi SSID %q looks like a template placeholder, the network may not come up", cfg.WiFiSSID())
	}

	for _, sub := range a.subsystems {
		if err := ctx.Err(); err != nil {
			a.Shutdown()
			return nil, fmt.Errorf("startup aborted: %w", err)
		}
		a.log.Debugf("Starting %s", sub.Name())
		if err := sub.Start(ctx, cfg); err != nil {
			a.log.WithError(err).Errorf("Subsystem %s failed to start", sub.Name())
			a.Shutdown()
			return nil, fmt.Errorf("start %s: %w", sub.Name(), err)
		}
		a.mu.Lock()
		a.started = append(a.started, sub)
		a.mu.Unlock()
	}

	a.log.Infof("Agent ready: %d subsystem(s), HTTP port %d, %d baud", len(a.subsystems), cfg.ServerPort(), cfg.SerialBaudRate())
	return cfg, nil
}

// Run starts the agent and blocks until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	if _, err := a.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	a.log.Info("Agent shutting down...")
	a.Shutdown()
	return nil
}

// Shutdown stops started subsystems in reverse order. It is safe to call twice.
func (a *Agent) Shutdown() {
	a.mu.Lock()
	started := a.started
	a.started = nil
	a.mu.Unlock()

	for i := len(started) - 1; i >= 0; i-- {
		if err := started[i].Stop(); err != nil {
			a.log.WithError(err).Warnf("Subsystem %s did not stop cleanly", started[i].Name())
		}
	}
}

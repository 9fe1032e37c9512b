package agent

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"robot-controller/internal/config"
	"robot-controller/internal/core"
	"robot-controller/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeSubsystem struct {
	name     string
	rec      *recorder
	startErr error
	got      *config.Config
}

func (f *fakeSubsystem) Name() string { return f.name }

func (f *fakeSubsystem) Start(_ context.Context, cfg *config.Config) error {
	f.rec.add("start " + f.name)
	f.got = cfg
	return f.startErr
}

func (f *fakeSubsystem) Stop() error {
	f.rec.add("stop " + f.name)
	return nil
}

func validLoad() (*config.Config, error) {
	s := config.Defaults()
	s.WiFi.SSID = "workshop"
	return config.New(s)
}

func TestStartOrder(t *testing.T) {
	rec := &recorder{}
	net := &fakeSubsystem{name: "network", rec: rec}
	motors := &fakeSubsystem{name: "motors", rec: rec}
	a := NewAgent(validLoad, net, motors)

	cfg, err := a.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Loaded, a.State().Phase())
	assert.Same(t, cfg, net.got)
	assert.Same(t, cfg, motors.got)

	a.Shutdown()
	a.Shutdown()
	assert.Equal(t, []string{"start network", "start motors", "stop motors", "stop network"}, rec.list())
}

// motionSubsystem logs a calibration run through the console's movement logger.
type motionSubsystem struct {
	console *logging.SerialConsole
	logged  bool
}

func (m *motionSubsystem) Name() string { return "motion" }

func (m *motionSubsystem) Start(_ context.Context, cfg *config.Config) error {
	d := cfg.Drive()
	m.logged = m.console.Movements().Logf("calibration run: 20 cm in %s", d.TravelTime(20))
	return nil
}

func (m *motionSubsystem) Stop() error { return nil }

func TestConsoleHandsMovementsToLaterSubsystems(t *testing.T) {
	logger := logrus.New()
	var out bytes.Buffer
	logger.SetOutput(&out)
	console := logging.NewSerialConsole("", logger, nil)
	motion := &motionSubsystem{console: console}

	a := NewAgent(validLoad, console, motion)
	_, err := a.Start(context.Background())
	require.NoError(t, err)
	defer a.Shutdown()

	assert.True(t, motion.logged)
	assert.Contains(t, out.String(), "calibration run: 20 cm in 2s")
}

func TestInvalidConfigurationStartsNothing(t *testing.T) {
	rec := &recorder{}
	load := func() (*config.Config, error) {
		s := config.Defaults()
		s.Pins.Motor1Reverse = s.Pins.Motor1Forward
		return config.New(s)
	}
	a := NewAgent(load, &fakeSubsystem{name: "motors", rec: rec})

	_, err := a.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfiguration)
	assert.Empty(t, rec.list())
	assert.Equal(t, core.Unloaded, a.State().Phase())
}

func TestFailingSubsystemUnwinds(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("no wifi")
	a := NewAgent(validLoad,
		&fakeSubsystem{name: "console", rec: rec},
		&fakeSubsystem{name: "network", rec: rec, startErr: boom},
		&fakeSubsystem{name: "motors", rec: rec},
	)

	_, err := a.Start(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "network")
	assert.Equal(t, []string{"start console", "start network", "stop console"}, rec.list())
}

func TestStartTwiceRefused(t *testing.T) {
	a := NewAgent(validLoad)
	_, err := a.Start(context.Background())
	require.NoError(t, err)

	_, err = a.Start(context.Background())
	assert.ErrorIs(t, err, core.ErrAlreadyLoaded)
}

func TestRunStopsOnCancel(t *testing.T) {
	rec := &recorder{}
	a := NewAgent(validLoad, &fakeSubsystem{name: "console", rec: rec})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return len(rec.list()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, []string{"start console", "stop console"}, rec.list())
}

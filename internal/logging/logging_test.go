package logging

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"robot-controller/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func newConfig(t *testing.T, mutate func(*config.Settings)) *config.Config {
	t.Helper()
	s := config.Defaults()
	s.WiFi.SSID = "workshop"
	if mutate != nil {
		mutate(&s)
	}
	cfg, err := config.New(s)
	require.NoError(t, err)
	return cfg
}

func TestConfigureLevel(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer

	Configure(logger, config.Debug{Serial: true}, &buf)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	Configure(logger, config.Debug{Serial: false}, &buf)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestMovementsDisabled(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	m := NewMovements(newConfig(t, func(s *config.Settings) { s.Debug.Movements = false }), logger)
	assert.False(t, m.Logf("forward %d cm", 10))
	assert.Empty(t, buf.String())
	assert.Zero(t, m.Dropped())
}

func TestMovementsThrottled(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	// 9600 baud leaves room for 6 lines per second.
	m := NewMovements(newConfig(t, func(s *config.Settings) { s.Server.SerialBaudRate = 9600 }), logger)

	written := 0
	for i := 0; i < 20; i++ {
		if m.Logf("step %d", i) {
			written++
		}
	}
	assert.Equal(t, 6, written)
	assert.Equal(t, int64(14), m.Dropped())
	assert.Contains(t, buf.String(), "step 0")
	assert.NotContains(t, buf.String(), "step 19")
}

type fakePort struct {
	bytes.Buffer
	closed bool
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestSerialConsoleTeesOutput(t *testing.T) {
	logger := logrus.New()
	var stderr bytes.Buffer
	logger.SetOutput(&stderr)

	port := &fakePort{}
	var gotName string
	var gotMode *serial.Mode
	console := NewSerialConsole("/dev/ttyUSB0", logger, func(name string, mode *serial.Mode) (io.WriteCloser, error) {
		gotName, gotMode = name, mode
		return port, nil
	})

	require.NoError(t, console.Start(context.Background(), newConfig(t, nil)))
	assert.Equal(t, "/dev/ttyUSB0", gotName)
	assert.Equal(t, 115200, gotMode.BaudRate)

	logger.Info("hello robot")
	assert.Contains(t, port.String(), "hello robot")
	assert.Contains(t, stderr.String(), "hello robot")

	require.NoError(t, console.Stop())
	assert.True(t, port.closed)

	logger.Info("after stop")
	assert.NotContains(t, port.String(), "after stop")
	assert.Contains(t, stderr.String(), "after stop")
}

func TestSerialConsoleDisabled(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	console := NewSerialConsole("/dev/ttyUSB0", logger, func(string, *serial.Mode) (io.WriteCloser, error) {
		t.Fatal("port must not be opened")
		return nil, nil
	})

	cfg := newConfig(t, func(s *config.Settings) { s.Debug.Serial = false })
	require.NoError(t, console.Start(context.Background(), cfg))
	assert.NoError(t, console.Stop())
}

func TestSerialConsoleOpenError(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	boom := errors.New("permission denied")
	console := NewSerialConsole("/dev/ttyUSB0", logger, func(string, *serial.Mode) (io.WriteCloser, error) {
		return nil, boom
	})

	err := console.Start(context.Background(), newConfig(t, nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "serial-console", console.Name())
}

func TestSerialConsoleWithoutPortAppliesLevel(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	console := NewSerialConsole("", logger, func(string, *serial.Mode) (io.WriteCloser, error) {
		t.Fatal("port must not be opened")
		return nil, nil
	})

	require.NoError(t, console.Start(context.Background(), newConfig(t, nil)))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.NoError(t, console.Stop())
}

func TestSerialConsoleMovements(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	console := NewSerialConsole("", logger, nil)
	assert.Nil(t, console.Movements())

	require.NoError(t, console.Start(context.Background(), newConfig(t, nil)))
	m := console.Movements()
	require.NotNil(t, m)
	assert.Contains(t, buf.String(), "Drive idle at 10.0 cm/s: left D1/D2 x1, right D3/D4 x1")

	assert.True(t, m.Logf("forward %d cm", 30))
	assert.Contains(t, buf.String(), "forward 30 cm")
	assert.NoError(t, console.Stop())
}

func TestSerialConsoleMovementsDisabled(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	console := NewSerialConsole("", logger, nil)

	cfg := newConfig(t, func(s *config.Settings) { s.Debug.Movements = false })
	require.NoError(t, console.Start(context.Background(), cfg))
	assert.False(t, console.Movements().Logf("forward"))
	assert.NotContains(t, buf.String(), "Drive idle")
}

package logging

import (
	"context"
	"fmt"
	"io"
	"sync"

	"robot-controller/internal/config"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// OpenFunc opens a serial port; serial.Open satisfies it through OpenPort.
type OpenFunc func(name string, mode *serial.Mode) (io.WriteCloser, error)

// OpenPort opens a real serial device.
func OpenPort(name string, mode *serial.Mode) (io.WriteCloser, error) {
	return serial.Open(name, mode)
}

// SerialConsole applies the debug toggles to the logger and tees its output
// to a serial port at the configured baud rate. Without a port name, or with
// serial debugging disabled, only the log level is applied. It also owns the
// movement logger handed to the motion subsystems.
type SerialConsole struct {
	portName string
	open     OpenFunc
	logger   *logrus.Logger

	mu        sync.Mutex
	port      io.WriteCloser
	prevOut   io.Writer
	movements *Movements
}

// NewSerialConsole creates the console subsystem for portName.
func NewSerialConsole(portName string, logger *logrus.Logger, open OpenFunc) *SerialConsole {
	if open == nil {
		open = OpenPort
	}
	return &SerialConsole{
		portName: portName,
		open:     open,
		logger:   logger,
	}
}

func (c *SerialConsole) Name() string { return "serial-console" }

// Movements returns the movement logger, or nil before Start.
func (c *SerialConsole) Movements() *Movements {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.movements
}

func (c *SerialConsole) Start(_ context.Context, cfg *config.Config) error {
	Configure(c.logger, cfg.Debug(), nil)
	movements := NewMovements(cfg, c.logger)
	c.mu.Lock()
	c.movements = movements
	c.mu.Unlock()

	if !cfg.DebugSerialEnabled() || c.portName == "" {
		c.logger.Debug("Serial debug output disabled")
		logDrive(movements, cfg)
		return nil
	}

	mode := cfg.Serial().Mode()
	port, err := c.open(c.portName, mode)
	if err != nil {
		return fmt.Errorf("unable to open serial port %s: %w", c.portName, err)
	}

	c.mu.Lock()
	c.port = port
	c.prevOut = c.logger.Out
	c.logger.SetOutput(io.MultiWriter(c.prevOut, port))
	c.mu.Unlock()

	c.logger.Infof("Serial console on %s at %d baud", c.portName, mode.BaudRate)
	logDrive(movements, cfg)
	return nil
}

// logDrive records the drivetrain wiring once, so the first movement log
// shows which pins are about to move.
func logDrive(m *Movements, cfg *config.Config) {
	d, b := cfg.Drive(), cfg.Board()
	m.Logf("Drive idle at %.1f cm/s: left %s/%s x%g, right %s/%s x%g",
		d.BaseSpeed,
		b.Label(d.Left.Forward), b.Label(d.Left.Reverse), d.Left.Correction,
		b.Label(d.Right.Forward), b.Label(d.Right.Reverse), d.Right.Correction)
}

func (c *SerialConsole) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.movements != nil {
		if n := c.movements.Dropped(); n > 0 {
			c.logger.Debugf("%d movement logs were suppressed", n)
		}
	}
	if c.port == nil {
		return nil
	}
	c.logger.SetOutput(c.prevOut)
	err := c.port.Close()
	c.port = nil
	if err != nil {
		return fmt.Errorf("unable to close serial port %s: %w", c.portName, err)
	}
	return nil
}

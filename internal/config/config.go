// Package config provides the robot's validated, read-only configuration set.
//
// A Config is built once at startup from the compiled-in template, optionally
// overlaid with a file and the environment, and then handed to every
// subsystem. It has no setters and all accessors return copies, so it can be
// shared between goroutines without locking.
package config

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"strconv"
	"time"

	"robot-controller/internal/board"

	"go.bug.st/serial"
)

// Config is the immutable configuration set.
type Config struct {
	s     Settings
	board board.Profile
}

// New validates s against the default board and wraps it.
func New(s Settings) (*Config, error) {
	return NewForBoard(s, board.ESP8266)
}

// NewForBoard validates s against profile and wraps it.
func NewForBoard(s Settings, profile board.Profile) (*Config, error) {
	if err := s.validate(profile); err != nil {
		return nil, err
	}
	return &Config{s: s, board: profile}, nil
}

// Settings returns a copy of every value.
func (c *Config) Settings() Settings { return c.s }

// Board returns the hardware profile the values were validated against.
func (c *Config) Board() board.Profile { return c.board }

// Get returns the value of f. Unknown fields yield nil.
func (c *Config) Get(f Field) any {
	field, ok := lookupField(f)
	if !ok {
		return nil
	}
	return field.get(&c.s)
}

// Render formats the value of f the way it would be written in the environment.
func (c *Config) Render(f Field) string {
	if f == FieldWiFiPassword && c.s.WiFi.Password != "" {
		return "********"
	}
	switch v := c.Get(f).(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// WiFiSSID is the network the robot joins.
func (c *Config) WiFiSSID() string { return c.s.WiFi.SSID }

// WiFiPassword is empty for an open network.
func (c *Config) WiFiPassword() string { return c.s.WiFi.Password }

// BaseSpeed is the straight-line speed in cm/s.
func (c *Config) BaseSpeed() float64 { return c.s.Motion.BaseSpeed }

// TurnDuration90 is how long a 90 degree turn runs, in ms.
func (c *Config) TurnDuration90() int { return c.s.Motion.TurnDuration90 }

// TurnDuration120 is how long a 120 degree turn runs, in ms.
func (c *Config) TurnDuration120() int { return c.s.Motion.TurnDuration120 }

// Motor1PinForward drives the left motor forward.
func (c *Config) Motor1PinForward() int { return c.s.Pins.Motor1Forward }

// Motor1PinReverse drives the left motor backwards.
func (c *Config) Motor1PinReverse() int { return c.s.Pins.Motor1Reverse }

// Motor2PinForward drives the right motor forward.
func (c *Config) Motor2PinForward() int { return c.s.Pins.Motor2Forward }

// Motor2PinReverse drives the right motor backwards.
func (c *Config) Motor2PinReverse() int { return c.s.Pins.Motor2Reverse }

// ServerPort is the HTTP listen port.
func (c *Config) ServerPort() int { return c.s.Server.Port }

// SerialBaudRate is the debug console speed.
func (c *Config) SerialBaudRate() int { return c.s.Server.SerialBaudRate }

// LeftMotorCorrectionFactor scales the left motor's duty cycle.
func (c *Config) LeftMotorCorrectionFactor() float64 { return c.s.Calibration.LeftCorrection }

// RightMotorCorrectionFactor scales the right motor's duty cycle.
func (c *Config) RightMotorCorrectionFactor() float64 { return c.s.Calibration.RightCorrection }

// DebugSerialEnabled turns on debug output on the serial console.
func (c *Config) DebugSerialEnabled() bool { return c.s.Debug.Serial }

// DebugMovementsEnabled turns on per-movement logging.
func (c *Config) DebugMovementsEnabled() bool { return c.s.Debug.Movements }

// HasPlaceholderCredentials reports whether the WiFi values were never filled in.
func (c *Config) HasPlaceholderCredentials() bool {
	return c.s.WiFi.SSID == PlaceholderSSID || c.s.WiFi.Password == PlaceholderPassword
}

// Network is what the WiFi/HTTP stack needs.
type Network struct {
	SSID       string
	Password   string
	ServerPort int
}

// Addr is the listen address for the HTTP server.
func (n Network) Addr() string {
	return net.JoinHostPort("", strconv.Itoa(n.ServerPort))
}

// Serial is what the serial console needs.
type Serial struct {
	BaudRate int
}

// Mode returns the 8N1 port mode at the configured rate.
func (s Serial) Mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: s.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Motor is one side of the drivetrain.
type Motor struct {
	Forward    int
	Reverse    int
	Correction float64
}

// Drive is what the motor driver needs.
type Drive struct {
	BaseSpeed float64 // cm/s
	Left      Motor
	Right     Motor
}

// TravelTime is how long a straight run of distance cm takes at BaseSpeed.
// At 10 cm/s that is 100ms per cm. Non-positive distances take no time and
// the result saturates instead of overflowing.
func (d Drive) TravelTime(distance float64) time.Duration {
	if !(distance > 0) || !(d.BaseSpeed > 0) {
		return 0
	}
	ns := math.Round(distance / d.BaseSpeed * float64(time.Second))
	if ns >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ns)
}

// Endpoint is how a route planner reaches the robot's HTTP server.
type Endpoint struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// Controller-side defaults for reaching the robot.
const (
	DefaultRobotHost      = "192.168.1.100"
	DefaultRequestTimeout = 5 * time.Second
)

// URL returns the address of path on the robot, e.g. "/executar".
func (e Endpoint) URL(path string) string {
	u := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(e.Host, strconv.Itoa(e.Port)),
		Path:   path,
	}
	return u.String()
}

// Turns holds the open-loop turn timings.
type Turns struct {
	Quarter time.Duration // 90 degrees
	Sharp   time.Duration // 120 degrees
}

// Debug holds the log toggles.
type Debug struct {
	Serial    bool
	Movements bool
}

// Network returns the WiFi credentials and the HTTP port.
func (c *Config) Network() Network {
	return Network{
		SSID:       c.s.WiFi.SSID,
		Password:   c.s.WiFi.Password,
		ServerPort: c.s.Server.Port,
	}
}

// Serial returns the console settings.
func (c *Config) Serial() Serial {
	return Serial{BaudRate: c.s.Server.SerialBaudRate}
}

// Drive returns the motor wiring, corrections and base speed.
// Motor 1 is the left wheel.
func (c *Config) Drive() Drive {
	return Drive{
		BaseSpeed: c.s.Motion.BaseSpeed,
		Left: Motor{
			Forward:    c.s.Pins.Motor1Forward,
			Reverse:    c.s.Pins.Motor1Reverse,
			Correction: c.s.Calibration.LeftCorrection,
		},
		Right: Motor{
			Forward:    c.s.Pins.Motor2Forward,
			Reverse:    c.s.Pins.Motor2Reverse,
			Correction: c.s.Calibration.RightCorrection,
		},
	}
}

// Endpoint returns the address a controller uses to reach the robot at host.
// An empty host falls back to DefaultRobotHost, a non-positive timeout to
// DefaultRequestTimeout.
func (c *Config) Endpoint(host string, timeout time.Duration) Endpoint {
	if host == "" {
		host = DefaultRobotHost
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return Endpoint{Host: host, Port: c.s.Server.Port, Timeout: timeout}
}

// Turns returns the turn timings. Validation bounds them so they never overflow.
func (c *Config) Turns() Turns {
	return Turns{
		Quarter: time.Duration(c.s.Motion.TurnDuration90) * time.Millisecond,
		Sharp:   time.Duration(c.s.Motion.TurnDuration120) * time.Millisecond,
	}
}

// Debug returns the log toggles.
func (c *Config) Debug() Debug {
	return Debug{
		Serial:    c.s.Debug.Serial,
		Movements: c.s.Debug.Movements,
	}
}

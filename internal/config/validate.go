package config

import (
	"math"
	"time"

	"robot-controller/internal/board"
)

const (
	maxSSIDLength = 32
	maxPort       = 65535
	// Longest turn, in ms, that still fits a time.Duration.
	maxTurnDuration = math.MaxInt64 / int64(time.Millisecond)
)

// validate checks every invariant and reports all violations at once.
// The password is free-form: empty means an open network.
func (s *Settings) validate(profile board.Profile) error {
	var p problems

	if s.WiFi.SSID == "" {
		p.add(FieldWiFiSSID, s.WiFi.SSID, InvariantSSIDLength, "must not be empty")
	} else if len(s.WiFi.SSID) > maxSSIDLength {
		p.add(FieldWiFiSSID, s.WiFi.SSID, InvariantSSIDLength, "must be at most %d bytes, got %d", maxSSIDLength, len(s.WiFi.SSID))
	}

	if !(s.Motion.BaseSpeed > 0) {
		p.add(FieldBaseSpeed, s.Motion.BaseSpeed, InvariantPositive, "must be greater than 0 cm/s")
	}
	turns := []struct {
		field Field
		ms    int
	}{
		{FieldTurnDuration90, s.Motion.TurnDuration90},
		{FieldTurnDuration120, s.Motion.TurnDuration120},
	}
	for _, turn := range turns {
		switch {
		case turn.ms <= 0:
			p.add(turn.field, turn.ms, InvariantPositive, "must be greater than 0 ms")
		case int64(turn.ms) > maxTurnDuration:
			p.add(turn.field, turn.ms, InvariantDurationRange, "must be at most %d ms", maxTurnDuration)
		}
	}

	pins := []struct {
		field Field
		gpio  int
	}{
		{FieldMotor1PinForward, s.Pins.Motor1Forward},
		{FieldMotor1PinReverse, s.Pins.Motor1Reverse},
		{FieldMotor2PinForward, s.Pins.Motor2Forward},
		{FieldMotor2PinReverse, s.Pins.Motor2Reverse},
	}
	seen := make(map[int]Field, len(pins))
	for _, pin := range pins {
		switch {
		case !profile.ValidPin(pin.gpio):
			p.add(pin.field, pin.gpio, InvariantPinValid, "GPIO%d is not a usable output on %s", pin.gpio, profile.Name())
		case s.Debug.Serial && profile.SerialPin(pin.gpio):
			p.add(pin.field, pin.gpio, InvariantPinValid, "GPIO%d (%s) carries the serial console while %s is set", pin.gpio, profile.Label(pin.gpio), FieldDebugSerial)
		}
		if owner, dup := seen[pin.gpio]; dup {
			p.add(pin.field, pin.gpio, InvariantPinsDistinct, "GPIO%d is already assigned to %s", pin.gpio, owner)
			continue
		}
		seen[pin.gpio] = pin.field
	}

	if s.Server.Port < 0 || s.Server.Port > maxPort {
		p.add(FieldServerPort, s.Server.Port, InvariantPortRange, "must be within 0..%d", maxPort)
	}
	if !profile.SupportsBaud(s.Server.SerialBaudRate) {
		p.add(FieldSerialBaudRate, s.Server.SerialBaudRate, InvariantBaudSupported, "%s supports %v", profile.Name(), profile.BaudRates())
	}

	if !(s.Calibration.LeftCorrection > 0) {
		p.add(FieldLeftCorrection, s.Calibration.LeftCorrection, InvariantPositive, "must be greater than 0, 1.0 disables correction")
	}
	if !(s.Calibration.RightCorrection > 0) {
		p.add(FieldRightCorrection, s.Calibration.RightCorrection, InvariantPositive, "must be greater than 0, 1.0 disables correction")
	}

	return p.err()
}

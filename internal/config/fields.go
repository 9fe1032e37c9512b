package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"robot-controller/internal/board"
)

// Field names one value of the configuration set.
type Field string

const (
	FieldWiFiSSID         Field = "wifi_ssid"
	FieldWiFiPassword     Field = "wifi_password"
	FieldBaseSpeed        Field = "base_speed"
	FieldTurnDuration90   Field = "turn_duration_90"
	FieldTurnDuration120  Field = "turn_duration_120"
	FieldMotor1PinForward Field = "motor1_pin_forward"
	FieldMotor1PinReverse Field = "motor1_pin_reverse"
	FieldMotor2PinForward Field = "motor2_pin_forward"
	FieldMotor2PinReverse Field = "motor2_pin_reverse"
	FieldServerPort       Field = "server_port"
	FieldSerialBaudRate   Field = "serial_baud_rate"
	FieldLeftCorrection   Field = "left_motor_correction_factor"
	FieldRightCorrection  Field = "right_motor_correction_factor"
	FieldDebugSerial      Field = "debug_serial_enabled"
	FieldDebugMovements   Field = "debug_movements_enabled"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindPin
	kindFloat
	kindBool
)

type fieldSpec struct {
	name Field
	kind fieldKind
	ref  func(*Settings) any
}

// registry is ordered the way the fields are grouped in the template.
var registry = []fieldSpec{
	{FieldWiFiSSID, kindString, func(s *Settings) any { return &s.WiFi.SSID }},
	{FieldWiFiPassword, kindString, func(s *Settings) any { return &s.WiFi.Password }},
	{FieldBaseSpeed, kindFloat, func(s *Settings) any { return &s.Motion.BaseSpeed }},
	{FieldTurnDuration90, kindInt, func(s *Settings) any { return &s.Motion.TurnDuration90 }},
	{FieldTurnDuration120, kindInt, func(s *Settings) any { return &s.Motion.TurnDuration120 }},
	{FieldMotor1PinForward, kindPin, func(s *Settings) any { return &s.Pins.Motor1Forward }},
	{FieldMotor1PinReverse, kindPin, func(s *Settings) any { return &s.Pins.Motor1Reverse }},
	{FieldMotor2PinForward, kindPin, func(s *Settings) any { return &s.Pins.Motor2Forward }},
	{FieldMotor2PinReverse, kindPin, func(s *Settings) any { return &s.Pins.Motor2Reverse }},
	{FieldServerPort, kindInt, func(s *Settings) any { return &s.Server.Port }},
	{FieldSerialBaudRate, kindInt, func(s *Settings) any { return &s.Server.SerialBaudRate }},
	{FieldLeftCorrection, kindFloat, func(s *Settings) any { return &s.Calibration.LeftCorrection }},
	{FieldRightCorrection, kindFloat, func(s *Settings) any { return &s.Calibration.RightCorrection }},
	{FieldDebugSerial, kindBool, func(s *Settings) any { return &s.Debug.Serial }},
	{FieldDebugMovements, kindBool, func(s *Settings) any { return &s.Debug.Movements }},
}

// Fields returns every field name in template order.
func Fields() []Field {
	out := make([]Field, 0, len(registry))
	for _, f := range registry {
		out = append(out, f.name)
	}
	return out
}

// ParseField resolves a field name, ignoring case and surrounding blanks.
func ParseField(name string) (Field, error) {
	want := Field(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := lookupField(want); ok {
		return want, nil
	}
	return "", fmt.Errorf("unknown config field %q", name)
}

// EnvName is the environment variable that overrides f.
func (f Field) EnvName() string {
	return EnvPrefix + strings.ToUpper(string(f))
}

func lookupField(name Field) (fieldSpec, bool) {
	for _, f := range registry {
		if f.name == name {
			return f, true
		}
	}
	return fieldSpec{}, false
}

func (f fieldSpec) get(s *Settings) any {
	switch p := f.ref(s).(type) {
	case *string:
		return *p
	case *int:
		return *p
	case *float64:
		return *p
	case *bool:
		return *p
	}
	return nil
}

// parse assigns a textual value, as found in the environment.
func (f fieldSpec) parse(s *Settings, raw string, profile board.Profile) error {
	switch p := f.ref(s).(type) {
	case *string:
		*p = raw
	case *int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil && f.kind == kindPin {
			n, err = profile.Pin(raw)
		}
		if err != nil {
			return err
		}
		*p = n
	case *float64:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return err
		}
		*p = v
	case *bool:
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}

// assign sets a dynamically typed value, as produced by a script.
// Strings are parsed the same way environment values are.
func (f fieldSpec) assign(s *Settings, v any, profile board.Profile) error {
	if str, ok := v.(string); ok && f.kind != kindString {
		return f.parse(s, str, profile)
	}
	switch p := f.ref(s).(type) {
	case *string:
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected a string, got %T", v)
		}
		*p = str
	case *int:
		num, ok := v.(float64)
		if !ok {
			return fmt.Errorf("expected a number, got %T", v)
		}
		if num != math.Trunc(num) || math.IsInf(num, 0) {
			return fmt.Errorf("expected an integer, got %v", num)
		}
		*p = int(num)
	case *float64:
		num, ok := v.(float64)
		if !ok {
			return fmt.Errorf("expected a number, got %T", v)
		}
		*p = num
	case *bool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected a boolean, got %T", v)
		}
		*p = b
	}
	return nil
}

package config

// WiFiConfig - credentials for the station the robot joins
type WiFiConfig struct {
	SSID     string `json:"ssid" yaml:"ssid"`
	Password string `json:"password" yaml:"password"`
}

// MotionConfig - open-loop motion timing
type MotionConfig struct {
	BaseSpeed       float64 `json:"base_speed" yaml:"base_speed"`               // cm/s
	TurnDuration90  int     `json:"turn_duration_90" yaml:"turn_duration_90"`   // ms
	TurnDuration120 int     `json:"turn_duration_120" yaml:"turn_duration_120"` // ms
}

// PinConfig - motor shield wiring. Motor 1 is the left wheel, motor 2 the right one.
type PinConfig struct {
	Motor1Forward int `json:"motor1_forward" yaml:"motor1_forward"`
	Motor1Reverse int `json:"motor1_reverse" yaml:"motor1_reverse"`
	Motor2Forward int `json:"motor2_forward" yaml:"motor2_forward"`
	Motor2Reverse int `json:"motor2_reverse" yaml:"motor2_reverse"`
}

// ServerConfig - HTTP port and serial console speed
type ServerConfig struct {
	Port           int `json:"port" yaml:"port"`
	SerialBaudRate int `json:"serial_baud_rate" yaml:"serial_baud_rate"`
}

// CalibrationConfig - per-motor speed multipliers, 1.0 means no correction
type CalibrationConfig struct {
	LeftCorrection  float64 `json:"left_motor_correction_factor" yaml:"left_motor_correction_factor"`
	RightCorrection float64 `json:"right_motor_correction_factor" yaml:"right_motor_correction_factor"`
}

// DebugConfig - log toggles
type DebugConfig struct {
	Serial    bool `json:"serial" yaml:"serial"`
	Movements bool `json:"movements" yaml:"movements"`
}

// Settings is a plain literal assignment of every tunable value.
// It carries no guarantees; New turns it into a validated Config.
type Settings struct {
	WiFi        WiFiConfig        `json:"wifi" yaml:"wifi"`
	Motion      MotionConfig      `json:"motion" yaml:"motion"`
	Pins        PinConfig         `json:"pins" yaml:"pins"`
	Server      ServerConfig      `json:"server" yaml:"server"`
	Calibration CalibrationConfig `json:"calibration" yaml:"calibration"`
	Debug       DebugConfig       `json:"debug" yaml:"debug"`
}

// Template placeholders shipped in the example configuration.
const (
	PlaceholderSSID     = "SUA_REDE_WIFI"
	PlaceholderPassword = "SUA_SENHA_WIFI"
)

// Defaults returns the compiled-in template values.
func Defaults() Settings {
	return Settings{
		WiFi: WiFiConfig{
			SSID:     PlaceholderSSID,
			Password: PlaceholderPassword,
		},
		Motion: MotionConfig{
			BaseSpeed:       10.0,
			TurnDuration90:  500,
			TurnDuration120: 700,
		},
		Pins: PinConfig{
			Motor1Forward: 5, // D1
			Motor1Reverse: 4, // D2
			Motor2Forward: 0, // D3
			Motor2Reverse: 2, // D4
		},
		Server: ServerConfig{
			Port:           80,
			SerialBaudRate: 115200,
		},
		Calibration: CalibrationConfig{
			LeftCorrection:  1.0,
			RightCorrection: 1.0,
		},
		Debug: DebugConfig{
			Serial:    true,
			Movements: true,
		},
	}
}

// Redacted returns a copy with the WiFi password masked.
func (s Settings) Redacted() Settings {
	if s.WiFi.Password != "" {
		s.WiFi.Password = "********"
	}
	return s
}

package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"robot-controller/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	root := newRootCommand(logger)
	var out bytes.Buffer
	root.cmd.SetOut(&out)
	root.cmd.SetErr(io.Discard)
	root.cmd.SetArgs(args)
	err := root.cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateTemplate(t *testing.T) {
	out, err := run(t, "validate", "--no-env")
	require.NoError(t, err)
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "OK configuration is valid")
}

func TestValidateDuplicatePins(t *testing.T) {
	path := writeConfig(t, "robot.yaml", "pins:\n  motor1_forward: 5\n  motor1_reverse: 5\n")
	out, err := run(t, "validate", "--no-env", "--config", path)
	require.ErrorIs(t, err, config.ErrInvalidConfiguration)
	assert.Contains(t, out, "FAIL motor1_pin_reverse=5 violates pins_distinct")
}

func TestConfigFromEnv(t *testing.T) {
	path := writeConfig(t, "robot.lua", `server_port = 8088`)
	t.Setenv("ROBOTCFG_CONFIG", path)

	out, err := run(t, "get", "server_port", "--no-env")
	require.NoError(t, err)
	assert.Equal(t, "8088\n", out)
}

func TestGetHonoursRobotEnv(t *testing.T) {
	t.Setenv("ROBOT_BASE_SPEED", "12.5")

	out, err := run(t, "get", "base_speed")
	require.NoError(t, err)
	assert.Equal(t, "12.5\n", out)

	out, err = run(t, "get", "base_speed", "--no-env")
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
}

func TestGetPassword(t *testing.T) {
	out, err := run(t, "get", "wifi_password", "--no-env")
	require.NoError(t, err)
	assert.Equal(t, "********\n", out)

	out, err = run(t, "get", "wifi_password", "--no-env", "--reveal")
	require.NoError(t, err)
	assert.Equal(t, config.PlaceholderPassword+"\n", out)
}

func TestGetUnknownField(t *testing.T) {
	_, err := run(t, "get", "velocidade_base", "--no-env")
	assert.ErrorContains(t, err, "unknown config field")
}

func TestShowRedactsPassword(t *testing.T) {
	out, err := run(t, "show", "--no-env")
	require.NoError(t, err)

	var s config.Settings
	require.NoError(t, yaml.Unmarshal([]byte(out), &s))
	assert.Equal(t, "********", s.WiFi.Password)
	assert.Equal(t, 80, s.Server.Port)
}

func TestTemplateLoadsBack(t *testing.T) {
	out, err := run(t, "template")
	require.NoError(t, err)
	assert.Contains(t, out, `wifi_ssid = "SUA_REDE_WIFI"`)

	path := writeConfig(t, "robot.lua", out)
	out, err = run(t, "validate", "--no-env", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
}

func TestEndpoint(t *testing.T) {
	path := writeConfig(t, "robot.json", `{"server": {"port": 8080}}`)
	out, err := run(t, "endpoint", "/executar", "--no-env", "--config", path, "--host", "robot.local", "--timeout", "2s")
	require.NoError(t, err)
	assert.Equal(t, "http://robot.local:8080/executar (timeout 2s)\n", out)

	out, err = run(t, "endpoint", "--no-env")
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.1.100:80/ (timeout 5s)\n", out)
}

func TestTravel(t *testing.T) {
	out, err := run(t, "travel", "45", "--no-env")
	require.NoError(t, err)
	assert.Equal(t, "4.5s\n", out)

	_, err = run(t, "travel", "far", "--no-env")
	assert.ErrorContains(t, err, "invalid distance")
}

// Package logging is the serial/debug logging subsystem.
package logging

import (
	"io"

	"robot-controller/internal/config"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger from the debug toggles:
// Debug level when serial debugging is on, Info otherwise.
func Setup(debug config.Debug, out io.Writer) *logrus.Logger {
	logger := logrus.StandardLogger()
	Configure(logger, debug, out)
	return logger
}

// Configure applies the debug toggles to logger.
func Configure(logger *logrus.Logger, debug config.Debug, out io.Writer) {
	if out != nil {
		logger.SetOutput(out)
	}
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	if debug.Serial {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

// These variables will be set by the build script
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if err := newRootCommand(logger).cmd.Execute(); err != nil {
		logger.Errorf("robotcfg: %v", err)
		os.Exit(1)
	}
}

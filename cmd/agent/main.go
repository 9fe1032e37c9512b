package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"robot-controller/internal/agent"
	"robot-controller/internal/config"
	"robot-controller/internal/logging"

	flag "github.com/spf13/pflag"
)

// These variables will be set by the build script
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPath := flag.String("config", os.Getenv("ROBOT_CONFIG"), "config file (.yaml, .json or .lua)")
	serialPort := flag.String("serial-port", os.Getenv("ROBOT_SERIAL_PORT"), "serial device for the debug console, empty to disable")
	flag.Parse()

	log := logging.Setup(config.Debug{}, os.Stderr)

	// Print the version information on startup
	log.Infof("Starting robot agent version: %s, commit: %s, built: %s", version, commit, date)

	a := agent.NewAgent(func() (*config.Config, error) {
		return config.Load(config.WithFile(*configPath), config.WithEnv(os.LookupEnv))
	}, logging.NewSerialConsole(*serialPort, log, nil))

	// Wait for termination signal for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.WithError(err).Error("Agent failed to start")
		stop()
		os.Exit(1)
	}
	log.Info("Agent shut down gracefully.")
}

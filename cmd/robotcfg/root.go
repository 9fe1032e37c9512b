package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"robot-controller/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	cfgConfig  = "config"
	cfgNoEnv   = "no-env"
	cfgVerbose = "verbose"
	cfgFormat  = "format"
	cfgReveal  = "reveal"
	cfgHost    = "host"
	cfgTimeout = "timeout"
)

type rootCommand struct {
	cmd    *cobra.Command
	v      *viper.Viper
	logger *logrus.Logger
}

func newRootCommand(logger *logrus.Logger) *rootCommand {
	v := viper.New()

	// Environment variable support, e.g. ROBOTCFG_CONFIG=robot.yaml
	v.SetEnvPrefix("ROBOTCFG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	c := &rootCommand{
		v:      v,
		logger: logger,
		cmd: &cobra.Command{
			Use:           "robotcfg",
			Short:         "Inspect and validate the robot configuration",
			Long:          `Loads the robot configuration the same way the firmware agent does and reports on it.`,
			Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
			SilenceUsage:  true,
			SilenceErrors: true,
			PersistentPreRun: func(_ *cobra.Command, _ []string) {
				if v.GetBool(cfgVerbose) {
					logger.SetLevel(logrus.DebugLevel)
				}
			},
			RunE: func(cmd *cobra.Command, _ []string) error {
				return cmd.Help()
			},
		},
	}

	c.cmd.PersistentFlags().String(cfgConfig, "", "config file (.yaml, .json or .lua); template values when empty")
	c.cmd.PersistentFlags().Bool(cfgNoEnv, false, "ignore "+config.EnvPrefix+"* environment overrides")
	c.cmd.PersistentFlags().Bool(cfgVerbose, false, "enable verbose logging")
	for _, name := range []string{cfgConfig, cfgNoEnv, cfgVerbose} {
		_ = v.BindPFlag(name, c.cmd.PersistentFlags().Lookup(name))
	}

	c.cmd.AddCommand(
		c.newValidateCommand(),
		c.newShowCommand(),
		c.newGetCommand(),
		c.newTemplateCommand(),
		c.newEndpointCommand(),
		c.newTravelCommand(),
	)

	return c
}

// load resolves the configuration exactly as the agent does.
func (c *rootCommand) load() (*config.Config, error) {
	logrus.SetOutput(c.logger.Out)
	logrus.SetLevel(c.logger.GetLevel())

	opts := []config.Option{config.WithFile(c.v.GetString(cfgConfig))}
	if !c.v.GetBool(cfgNoEnv) {
		opts = append(opts, config.WithEnv(os.LookupEnv))
	}
	return config.Load(opts...)
}

func (c *rootCommand) newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every invariant and list the violations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.load()
			var invalid *config.InvalidConfigurationError
			if errors.As(err, &invalid) {
				for _, p := range invalid.Problems {
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s\n", p.Error())
				}
				return err
			}
			if err != nil {
				return err
			}
			if cfg.HasPlaceholderCredentials() {
				fmt.Fprintln(cmd.OutOrStdout(), "WARN WiFi credentials are still the template placeholders")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK configuration is valid")
			return nil
		},
	}
}

func (c *rootCommand) newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.load()
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString(cfgFormat)
			s := cfg.Settings()
			if reveal, _ := cmd.Flags().GetBool(cfgReveal); !reveal {
				s = s.Redacted()
			}
			return config.Encode(cmd.OutOrStdout(), format, s)
		},
	}
	cmd.Flags().String(cfgFormat, config.FormatYAML, "output format: yaml, json or lua")
	cmd.Flags().Bool(cfgReveal, false, "print the WiFi password in clear text")
	return cmd
}

func (c *rootCommand) newGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get FIELD",
		Short: "Print a single value",
		Long:  "Print a single value. Fields: " + fieldList(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := config.ParseField(args[0])
			if err != nil {
				return err
			}
			cfg, err := c.load()
			if err != nil {
				return err
			}
			out := cfg.Render(field)
			if reveal, _ := cmd.Flags().GetBool(cfgReveal); reveal && field == config.FieldWiFiPassword {
				out = cfg.WiFiPassword()
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Bool(cfgReveal, false, "print the WiFi password in clear text")
	return cmd
}

func (c *rootCommand) newTemplateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print the compiled-in template as a starting config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString(cfgFormat)
			return config.Encode(cmd.OutOrStdout(), format, config.Defaults())
		},
	}
	cmd.Flags().String(cfgFormat, config.FormatLua, "output format: lua, yaml or json")
	return cmd
}

func (c *rootCommand) newEndpointCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "endpoint [PATH]",
		Short: "Print the URL a route planner uses to reach the robot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load()
			if err != nil {
				return err
			}
			host, _ := cmd.Flags().GetString(cfgHost)
			timeout, _ := cmd.Flags().GetDuration(cfgTimeout)
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			ep := cfg.Endpoint(host, timeout)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (timeout %s)\n", ep.URL(path), ep.Timeout)
			return nil
		},
	}
	cmd.Flags().String(cfgHost, config.DefaultRobotHost, "robot address on the WiFi network")
	cmd.Flags().Duration(cfgTimeout, config.DefaultRequestTimeout, "request timeout")
	return cmd
}

func (c *rootCommand) newTravelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "travel CM",
		Short: "Print how long a straight run takes at the base speed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			distance, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid distance %q: %w", args[0], err)
			}
			cfg, err := c.load()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Drive().TravelTime(distance))
			return nil
		},
	}
}

func fieldList() string {
	names := make([]string, 0, len(config.Fields()))
	for _, f := range config.Fields() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

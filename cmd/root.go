package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pulse-sim/pulse-sim/sim"
)

var (
	cfgFile  string     // Optional YAML config file
	logLevel string     // Log verbosity level
	cfg      sim.Config // Resolved run configuration, set before any subcommand runs
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "pulse-sim",
	Short: "Deterministic simulator for merge, switch, exhaust and concat dispatch policies",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		v := viper.New()
		if err := bindFlags(v, cmd); err != nil {
			logrus.Fatalf("Failed to bind flags: %v", err)
		}
		c, err := loadConfig(v, cfgFile)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		// Validate already accepted the level
		level, _ := logrus.ParseLevel(c.LogLevel)
		logrus.SetLevel(level)
		cfg = c
		logrus.Debugf("configuration: %+v", cfg)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default ./pulse-sim.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().Int64("delay", sim.DefaultConfig().TaskDelayMs, "Task delay in milliseconds, shared by all policies")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(replayCmd)
}

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pulse-sim/pulse-sim/sim"
)

const (
	envPrefix         = "PULSESIM"
	defaultConfigName = "pulse-sim"
)

// flagKeys maps config keys to the flags that override them. A flag only
// overrides when it exists on the running command.
var flagKeys = map[string]string{
	"log_level":        "log",
	"task_delay_ms":    "delay",
	"tick_interval_ms": "tick",
	"ticks_per_moment": "ticks-per-moment",
	"moment_limit":     "moments",
}

// registerDefaults seeds v with the stock configuration. Every key must be
// registered so that environment overrides are visible to Unmarshal.
func registerDefaults(v *viper.Viper) {
	defaults := sim.DefaultConfig()
	v.SetDefault("tick_interval_ms", defaults.TickIntervalMs)
	v.SetDefault("ticks_per_moment", defaults.TicksPerMoment)
	v.SetDefault("moment_limit", defaults.MomentLimit)
	v.SetDefault("task_delay_ms", defaults.TaskDelayMs)
	v.SetDefault("log_level", defaults.LogLevel)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, name := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// loadConfig resolves the run configuration. Precedence, highest first:
// flags set on the command line, PULSESIM_* environment variables, the
// config file, built-in defaults. An explicit file must exist; the default
// ./pulse-sim.yaml is optional. Unknown keys in the file are rejected.
func loadConfig(v *viper.Viper, file string) (sim.Config, error) {
	registerDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return sim.Config{}, fmt.Errorf("reading config %s: %w", file, err)
		}
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return sim.Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var c sim.Config
	if err := v.UnmarshalExact(&c); err != nil {
		return sim.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if err := c.Validate(); err != nil {
		return sim.Config{}, err
	}
	return c, nil
}

package sim

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config groups the named timing constants of a run.
// All durations are in virtual milliseconds.
type Config struct {
	TickIntervalMs int64  `mapstructure:"tick_interval_ms" yaml:"tick_interval_ms" json:"tick_interval_ms"` // Clock interval
	TicksPerMoment int64  `mapstructure:"ticks_per_moment" yaml:"ticks_per_moment" json:"ticks_per_moment"` // ticks per demo moment
	MomentLimit    int64  `mapstructure:"moment_limit" yaml:"moment_limit" json:"moment_limit"`             // moments before the demo source completes
	TaskDelayMs    int64  `mapstructure:"task_delay_ms" yaml:"task_delay_ms" json:"task_delay_ms"`          // fixed task latency, shared by all policies
	LogLevel       string `mapstructure:"log_level" yaml:"log_level" json:"-"`
}

// DefaultConfig returns the stock demo timing: 50ms ticks, a moment every
// half second, seven moments, and one-second tasks.
func DefaultConfig() Config {
	return Config{
		TickIntervalMs: 50,
		TicksPerMoment: 10,
		MomentLimit:    7,
		TaskDelayMs:    1000,
		LogLevel:       "error",
	}
}

// MomentIntervalMs returns the time between two moments.
func (c Config) MomentIntervalMs() int64 {
	return c.TickIntervalMs * c.TicksPerMoment
}

// Validate checks that every constant is in range.
func (c Config) Validate() error {
	if c.TickIntervalMs <= 0 {
		return fmt.Errorf("tick_interval_ms must be positive, got %d", c.TickIntervalMs)
	}
	if c.TicksPerMoment <= 0 {
		return fmt.Errorf("ticks_per_moment must be positive, got %d", c.TicksPerMoment)
	}
	if c.MomentLimit <= 0 {
		return fmt.Errorf("moment_limit must be positive, got %d", c.MomentLimit)
	}
	if c.TaskDelayMs <= 0 {
		return fmt.Errorf("task_delay_ms must be positive, got %d", c.TaskDelayMs)
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}

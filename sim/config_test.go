package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero tick", func(c *Config) { c.TickIntervalMs = 0 }, "tick_interval_ms"},
		{"zero ticks per moment", func(c *Config) { c.TicksPerMoment = 0 }, "ticks_per_moment"},
		{"negative limit", func(c *Config) { c.MomentLimit = -1 }, "moment_limit"},
		{"zero delay", func(c *Config) { c.TaskDelayMs = 0 }, "task_delay_ms"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"empty level", func(c *Config) { c.LogLevel = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_MomentInterval(t *testing.T) {
	assert.Equal(t, int64(500), DefaultConfig().MomentIntervalMs())
}

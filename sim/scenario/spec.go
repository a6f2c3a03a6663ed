// Package scenario loads scripted source-event timelines from YAML and
// replays them into one dispatcher per policy.
package scenario

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/pulse-sim/pulse-sim/sim"
)

// Scenario is the top-level scripted timeline.
// Loaded from YAML via Load(path).
type Scenario struct {
	Version      string        `yaml:"version"`
	Name         string        `yaml:"name"`
	TaskDelayMs  int64         `yaml:"task_delay_ms,omitempty"` // 0 = use the run configuration
	Policies     []string      `yaml:"policies,omitempty"`      // empty = all four
	Events       []EventSpec   `yaml:"events"`
	Generate     *GenerateSpec `yaml:"generate,omitempty"`       // seeded synthetic events, merged with Events
	TeardownAtMs *int64        `yaml:"teardown_at_ms,omitempty"` // nil = run to completion
}

// EventSpec is one scripted source event.
type EventSpec struct {
	AtMs int64   `yaml:"at_ms"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

var validVersions = map[string]bool{"": true, "1": true}

// Load reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if s.Version == "" {
		s.Version = "1"
	}
	return &s, nil
}

// Validate checks that all fields in the scenario are valid.
func (s *Scenario) Validate() error {
	if !validVersions[s.Version] {
		return fmt.Errorf("unsupported scenario version %q; valid: 1", s.Version)
	}
	if s.TaskDelayMs < 0 {
		return fmt.Errorf("task_delay_ms must be non-negative, got %d", s.TaskDelayMs)
	}
	if _, err := sim.ParsePolicies(s.Policies); err != nil {
		return fmt.Errorf("policies: %w", err)
	}
	if len(s.Events) == 0 && s.Generate == nil {
		return fmt.Errorf("at least one event or a generate block required")
	}
	if s.Generate != nil {
		if err := s.Generate.Validate(); err != nil {
			return err
		}
	}
	for i, e := range s.Events {
		prefix := fmt.Sprintf("events[%d]", i)
		if e.AtMs < 0 {
			return fmt.Errorf("%s: at_ms must be non-negative, got %d", prefix, e.AtMs)
		}
		if err := validatePercent(prefix+".x", e.X); err != nil {
			return err
		}
		if err := validatePercent(prefix+".y", e.Y); err != nil {
			return err
		}
	}
	if s.TeardownAtMs != nil && *s.TeardownAtMs < 0 {
		return fmt.Errorf("teardown_at_ms must be non-negative, got %d", *s.TeardownAtMs)
	}
	return nil
}

func validatePercent(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val < 0 || val > 100 {
		return fmt.Errorf("%s must be within [0, 100], got %f", name, val)
	}
	return nil
}

// Timeline returns the scripted and generated events ordered by time.
// Events at the same instant keep their listed order, scripted first.
func (s *Scenario) Timeline() []EventSpec {
	events := slices.Clone(s.Events)
	if s.Generate != nil {
		events = append(events, s.Generate.Events()...)
	}
	slices.SortStableFunc(events, func(a, b EventSpec) int { return cmp.Compare(a.AtMs, b.AtMs) })
	return events
}

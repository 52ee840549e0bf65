package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning groups everything a tuning file may override.
type Tuning struct {
	Timings    Timings          `yaml:"timings"`
	Resilience ResilienceConfig `yaml:"resilience"`
}

// DefaultTuning returns the built-in timings and retry policies.
func DefaultTuning() Tuning {
	return Tuning{
		Timings:    DefaultTimings,
		Resilience: DefaultResilienceConfig,
	}
}

// LoadTuning reads a YAML file on top of the defaults. Keys missing from the
// file keep their default value. An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	tuning := DefaultTuning()
	if path == "" {
		return tuning, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tuning, fmt.Errorf("failed to read tuning file: %w", err)
	}

	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return DefaultTuning(), fmt.Errorf("failed to parse tuning file: %w", err)
	}

	return tuning, nil
}

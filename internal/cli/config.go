package cli

import (
	"fmt"
	"os"

	"github.com/adgarrio/polyfit"
	"gopkg.in/yaml.v3"
)

// ObservationSet is the YAML-facing representation of a list of
// observations. Exactly one of the variant-specific fields applies per
// entry, selected by Kind.
type ObservationSet struct {
	Degree       int               `yaml:"degree"`
	Observations []ObservationSpec `yaml:"observations"`
}

// ObservationSpec is one entry of an ObservationSet. Kind selects which of
// X/Y/StartX/EndX/Order/Constants apply, mirroring polyfit.Observation's
// tagged variants.
type ObservationSpec struct {
	Kind      string    `yaml:"kind"` // direct, derivative, integral, integral_interval
	X         float64   `yaml:"x,omitempty"`
	Y         float64   `yaml:"y"`
	StartX    float64   `yaml:"start_x,omitempty"`
	EndX      float64   `yaml:"end_x,omitempty"`
	Order     int       `yaml:"order,omitempty"`
	Constants []float64 `yaml:"constants,omitempty"`
}

// LoadObservationSet reads and parses a YAML observation-set file.
func LoadObservationSet(path string) (*ObservationSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read observation set: %w", err)
	}
	var set ObservationSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse observation set: %w", err)
	}
	return &set, nil
}

// ToObservations converts the YAML spec into polyfit.Observation values.
func (s *ObservationSet) ToObservations() ([]polyfit.Observation, error) {
	out := make([]polyfit.Observation, len(s.Observations))
	for i, spec := range s.Observations {
		o, err := spec.toObservation()
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
		out[i] = o
	}
	return out, nil
}

func (spec ObservationSpec) toObservation() (polyfit.Observation, error) {
	var constants []float64
	if len(spec.Constants) > 0 {
		constants = spec.Constants
	}
	switch spec.Kind {
	case "direct", "":
		return polyfit.NewDirectObservation(spec.X, spec.Y), nil
	case "derivative":
		return polyfit.NewDerivativeObservation(spec.X, spec.Y, spec.Order)
	case "integral":
		return polyfit.NewIntegralObservation(spec.X, spec.Y, spec.Order, constants)
	case "integral_interval":
		return polyfit.NewIntegralIntervalObservation(spec.StartX, spec.EndX, spec.Y, spec.Order, constants)
	default:
		return polyfit.Observation{}, fmt.Errorf("unknown observation kind %q", spec.Kind)
	}
}

package soardemo

import (
	"fmt"
	"time"
)

// Config holds the configuration for the Thermal Soar demo
type Config struct {
	NumBirds        int
	NumThermals     int
	ThermalRadius   float64
	ThermalStrength float64
	DurationTicks   uint64
	UpdateInterval  time.Duration
	Seed            int64
}

// ValidateAndParse validates and parses raw parameters into a Config
func ValidateAndParse(params map[string]interface{}) (*Config, error) {
	cfg := &Config{
		NumBirds:        16,
		NumThermals:     3,
		ThermalRadius:   50,
		ThermalStrength: 0.5,
		DurationTicks:   400,
		UpdateInterval:  25 * time.Millisecond,
		Seed:            1,
	}

	// num_birds
	if v, ok := params["num_birds"]; ok {
		switch val := v.(type) {
		case int:
			cfg.NumBirds = val
		case float64:
			cfg.NumBirds = int(val)
		default:
			return nil, fmt.Errorf("num_birds must be an integer")
		}
	}
	if cfg.NumBirds < 1 {
		return nil, fmt.Errorf("num_birds must be at least 1")
	}

	// thermals
	if v, ok := params["thermals"]; ok {
		switch val := v.(type) {
		case int:
			cfg.NumThermals = val
		case float64:
			cfg.NumThermals = int(val)
		default:
			return nil, fmt.Errorf("thermals must be an integer")
		}
	}
	if cfg.NumThermals < 0 {
		return nil, fmt.Errorf("thermals must be >= 0")
	}

	// thermal_radius
	if v, ok := params["thermal_radius"]; ok {
		switch val := v.(type) {
		case float64:
			cfg.ThermalRadius = val
		case int:
			cfg.ThermalRadius = float64(val)
		default:
			return nil, fmt.Errorf("thermal_radius must be a number")
		}
	}
	if cfg.ThermalRadius <= 0 {
		return nil, fmt.Errorf("thermal_radius must be greater than 0")
	}

	// thermal_strength
	if v, ok := params["thermal_strength"]; ok {
		switch val := v.(type) {
		case float64:
			cfg.ThermalStrength = val
		case int:
			cfg.ThermalStrength = float64(val)
		default:
			return nil, fmt.Errorf("thermal_strength must be a number")
		}
	}
	if cfg.ThermalStrength <= 0 {
		return nil, fmt.Errorf("thermal_strength must be greater than 0")
	}

	// duration_ticks
	if v, ok := params["duration_ticks"]; ok {
		switch val := v.(type) {
		case int:
			cfg.DurationTicks = uint64(val)
		case float64:
			cfg.DurationTicks = uint64(val)
		default:
			return nil, fmt.Errorf("duration_ticks must be an integer")
		}
	}
	if cfg.DurationTicks < 1 {
		return nil, fmt.Errorf("duration_ticks must be at least 1")
	}

	// update_interval (duration value or Go duration string)
	if v, ok := params["update_interval"]; ok {
		switch val := v.(type) {
		case time.Duration:
			cfg.UpdateInterval = val
		default:
			d, err := time.ParseDuration(fmt.Sprintf("%v", v))
			if err != nil {
				return nil, fmt.Errorf("invalid update_interval format: %w", err)
			}
			cfg.UpdateInterval = d
		}
	}
	if cfg.UpdateInterval < 0 {
		return nil, fmt.Errorf("update_interval must be >= 0")
	}

	// seed
	if v, ok := params["seed"]; ok {
		switch val := v.(type) {
		case int:
			cfg.Seed = int64(val)
		case int64:
			cfg.Seed = val
		case float64:
			cfg.Seed = int64(val)
		default:
			return nil, fmt.Errorf("seed must be an integer")
		}
	}

	return cfg, nil
}

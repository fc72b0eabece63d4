package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML on top of the defaults so partial files stay valid
	config := GetDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads config from file or returns default, with environment overrides
func LoadConfigOrDefault(path string) (*Config, error) {
	var config *Config
	var err error

	if path != "" {
		config, err = LoadConfig(path)
		if err != nil {
			// Log error but continue with default
			fmt.Printf("Warning: Could not load config from %s: %v\n", path, err)
			config = nil
		}
	}

	// Try default locations if no config loaded yet
	if config == nil {
		defaultPaths := []string{
			"config.yaml",
			"flock-pursuit.yaml",
			filepath.Join("cmd", "flock-pursuit", "config.yaml"),
		}

		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				config, err = LoadConfig(p)
				if err == nil {
					fmt.Printf("Loaded config from: %s\n", p)
					break
				}
			}
		}
	}

	// Use default config if still no config loaded
	if config == nil {
		config = GetDefaultConfig()
	}

	// Always apply environment variable overrides
	MergeWithEnvironment(config)

	return config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Validate before saving
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	// Write file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// MergeWithCLIOverrides applies CLI parameter overrides to the configuration
func MergeWithCLIOverrides(config *Config, overrides map[string]interface{}) {
	for key, value := range overrides {
		switch key {
		case "seed":
			if seed, ok := value.(int64); ok {
				config.Simulation.Seed = seed
			}
		case "duration_ticks":
			if ticks, ok := value.(uint64); ok && ticks > 0 {
				config.Simulation.DurationTicks = ticks
			}
		case "update_interval":
			if duration, ok := value.(time.Duration); ok && duration >= 0 {
				config.Simulation.UpdateInterval = duration
			}
		case "num_birds":
			if count, ok := value.(int); ok && count >= 0 {
				config.Flock.InitialBirds = count
			}
		case "terrain":
			if kind, ok := value.(string); ok {
				validKinds := []string{"flat", "noise"}
				for _, valid := range validKinds {
					if kind == valid {
						config.Terrain.Kind = kind
						break
					}
				}
			}
		case "log_level":
			if level, ok := value.(string); ok {
				validLevels := []string{"debug", "info", "warn", "error"}
				for _, valid := range validLevels {
					if level == valid {
						config.Reporting.ConsoleLevel = level
						break
					}
				}
			}
		case "enable_csv":
			if enable, ok := value.(bool); ok {
				config.Reporting.EnableCSV = enable
			}
		case "output_dir":
			if dir, ok := value.(string); ok && dir != "" {
				config.Reporting.OutputDir = dir
			}
		case "progress_every":
			if every, ok := value.(uint64); ok {
				config.Reporting.ProgressEvery = every
			}
		}
	}
}

// LoadConfigWithOverrides loads config and applies both environment and CLI overrides
func LoadConfigWithOverrides(path string, cliOverrides map[string]interface{}) (*Config, error) {
	config, err := LoadConfigOrDefault(path)
	if err != nil {
		return nil, err
	}

	// Apply CLI overrides after environment variables
	if cliOverrides != nil {
		MergeWithCLIOverrides(config, cliOverrides)
	}

	// Final validation
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed after overrides: %w", err)
	}

	return config, nil
}

// MergeWithEnvironment merges config with environment variables
func MergeWithEnvironment(config *Config) {
	// Override the run seed
	if seed := os.Getenv("FLOCKSIM_SEED"); seed != "" {
		if value, err := strconv.ParseInt(seed, 10, 64); err == nil {
			config.Simulation.Seed = value
		}
	}

	// Override run length and pacing
	if ticks := os.Getenv("FLOCKSIM_DURATION_TICKS"); ticks != "" {
		if value, err := strconv.ParseUint(ticks, 10, 64); err == nil && value > 0 {
			config.Simulation.DurationTicks = value
		}
	}

	if interval := os.Getenv("FLOCKSIM_UPDATE_INTERVAL"); interval != "" {
		if duration, err := time.ParseDuration(interval); err == nil && duration >= 0 {
			config.Simulation.UpdateInterval = duration
		}
	}

	// Override the starting flock size
	if birds := os.Getenv("FLOCKSIM_NUM_BIRDS"); birds != "" {
		if count, err := strconv.Atoi(birds); err == nil && count >= 0 {
			config.Flock.InitialBirds = count
		}
	}

	// Override terrain kind
	if kind := os.Getenv("FLOCKSIM_TERRAIN"); kind != "" {
		validKinds := []string{"flat", "noise"}
		for _, valid := range validKinds {
			if strings.ToLower(kind) == valid {
				config.Terrain.Kind = valid
				break
			}
		}
	}

	// Override logging level
	if logLevel := os.Getenv("FLOCKSIM_LOG_LEVEL"); logLevel != "" {
		validLevels := []string{"debug", "info", "warn", "error"}
		for _, valid := range validLevels {
			if strings.ToLower(logLevel) == valid {
				config.Reporting.ConsoleLevel = valid
				break
			}
		}
	}

	// Override CSV capture
	if enableCSV := os.Getenv("FLOCKSIM_ENABLE_CSV"); enableCSV != "" {
		if enable, err := strconv.ParseBool(enableCSV); err == nil {
			config.Reporting.EnableCSV = enable
		}
	}

	if outputDir := os.Getenv("FLOCKSIM_OUTPUT_DIR"); outputDir != "" {
		config.Reporting.OutputDir = outputDir
	}
}

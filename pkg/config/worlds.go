package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// World is a named preset bundling the knobs a run usually varies. Zero
// values mean "leave the simulation default alone".
type World struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	ConfigFile  string `yaml:"config_file,omitempty"`
	Seed        int64  `yaml:"seed,omitempty"`
	Terrain     string `yaml:"terrain,omitempty"`
	NumBirds    int    `yaml:"num_birds,omitempty"`
}

// Config holds the world preset collection
type Config struct {
	Worlds   []World `yaml:"worlds"`
	Selected string  `yaml:"selected,omitempty"`
}

// Params converts the preset into simulation parameter overrides. Only the
// fields the preset actually sets are emitted.
func (w World) Params() map[string]interface{} {
	params := make(map[string]interface{})
	if w.ConfigFile != "" {
		params["config_file"] = w.ConfigFile
	}
	if w.Seed != 0 {
		params["seed"] = int(w.Seed)
	}
	if w.Terrain != "" {
		params["terrain"] = w.Terrain
	}
	if w.NumBirds > 0 {
		params["num_birds"] = w.NumBirds
	}
	return params
}

// LoadWorlds loads world presets from the default location
func LoadWorlds() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".flocksim", "worlds.yaml")
	return LoadWorldsFromFile(configPath)
}

// LoadWorldsFromFile loads world presets from a specific file
func LoadWorldsFromFile(path string) (*Config, error) {
	// If file doesn't exist, return default presets
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return getDefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read worlds file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse worlds file: %w", err)
	}

	return &config, nil
}

// SaveWorlds saves the world preset collection
func SaveWorlds(config *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".flocksim")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "worlds.yaml")
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal worlds: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write worlds file: %w", err)
	}

	return nil
}

// getDefaultConfig returns the stock presets
func getDefaultConfig() *Config {
	return &Config{
		Worlds: []World{
			{
				Name:        "Meadow",
				Description: "Small flock over flat ground",
				Terrain:     "flat",
				NumBirds:    16,
				Seed:        1,
			},
			{
				Name:        "Foothills",
				Description: "Full flock over rolling noise terrain",
				Terrain:     "noise",
				NumBirds:    24,
				Seed:        7,
			},
		},
	}
}

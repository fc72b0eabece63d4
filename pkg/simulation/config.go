package simulation

// SimulationConfig is the metadata and parameter schema a simulation
// publishes in its simulation.yaml. The CLI discovers these files to
// list simulations and drive parameter prompting.
type SimulationConfig struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Version     string      `yaml:"version"`
	Category    string      `yaml:"category"`
	Parameters  []Parameter `yaml:"parameters"`
}

// Parameter is one prompt-able knob. Type selects the prompt and the
// Go type handed to Configure: integer, float, string, duration or
// boolean. Min, Max and Options are enforced at prompt time.
type Parameter struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"`
	Description string      `yaml:"description"`
	Default     interface{} `yaml:"default"`
	Required    bool        `yaml:"required"`
	Min         interface{} `yaml:"min,omitempty"`
	Max         interface{} `yaml:"max,omitempty"`
	Options     []string    `yaml:"options,omitempty"`
}

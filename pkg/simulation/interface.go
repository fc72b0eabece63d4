package simulation

import (
	"context"

	"github.com/Bra-moth/UAV-Path-Planning/pkg/recorder"
)

// Simulation defines the interface that all simulations must implement
type Simulation interface {
	// Name returns the name of the simulation
	Name() string

	// Description returns a brief description of what the simulation does
	Description() string

	// Configure sets up the simulation with the provided parameters
	Configure(params map[string]interface{}) error

	// Run executes the simulation, streaming ticks and events into the recorder
	Run(ctx context.Context, rec recorder.Recorder) error

	// Stop gracefully shuts down the simulation
	Stop() error
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/Bra-moth/UAV-Path-Planning/pkg/config"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/logger"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/simulation"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/utils"

	// Import simulations to register them
	_ "github.com/Bra-moth/UAV-Path-Planning/cmd/flock-pursuit/simulation"
	_ "github.com/Bra-moth/UAV-Path-Planning/cmd/soar-demo"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation",
	Long:  `Run a simulation interactively or with specified parameters`,
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().StringP("simulation", "s", "", "simulation name to run")
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	sp := logger.NewSpinner("Discovering simulations...")
	sp.Start()
	simInfos, err := utils.DiscoverSimulations()
	if err != nil {
		sp.Error("Simulation discovery failed")
		return fmt.Errorf("failed to discover simulations: %w", err)
	}
	sp.Success(fmt.Sprintf("Found %d simulation(s)", len(simInfos)))

	simName, err := selectSimulation(cmd, simInfos)
	if err != nil {
		return fmt.Errorf("failed to select simulation: %w", err)
	}

	sim, err := simulation.DefaultRegistry.Get(simName)
	if err != nil {
		return fmt.Errorf("failed to get simulation: %w", err)
	}

	var simConfig *simulation.SimulationConfig
	for i := range simInfos {
		if simInfos[i].Config.Name == simName {
			simConfig = &simInfos[i].Config
			break
		}
	}
	if simConfig == nil {
		return fmt.Errorf("simulation configuration not found for %s", simName)
	}

	if err := applyWorldPreset(simConfig); err != nil {
		return err
	}

	params, err := utils.PromptForParameters(simConfig.Parameters)
	if err != nil {
		return fmt.Errorf("failed to get parameters: %w", err)
	}

	if err := sim.Configure(params); err != nil {
		return fmt.Errorf("failed to configure simulation: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Warn("\nReceived interrupt signal, stopping simulation...")
		if err := sim.Stop(); err != nil {
			logger.Errorf("Failed to stop simulation: %v", err)
			cancel()
			return
		}
		// A second interrupt aborts without waiting for the graceful stop
		<-sigChan
		logger.Warn("\nSecond interrupt, aborting...")
		cancel()
	}()

	logger.LogSection(fmt.Sprintf("Starting %s", sim.Name()))
	if err := sim.Run(ctx, nil); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	logger.Success("Simulation completed successfully")
	return nil
}

// applyWorldPreset folds the selected world preset into the parameter
// defaults, so prompts (and skip-prompt runs) start from the preset.
func applyWorldPreset(simConfig *simulation.SimulationConfig) error {
	if worldName == "" {
		return nil
	}

	worldsCfg, err := config.LoadWorlds()
	if err != nil {
		return fmt.Errorf("failed to load world presets: %w", err)
	}

	for _, w := range worldsCfg.Worlds {
		if w.Name != worldName {
			continue
		}
		overrides := w.Params()
		for i := range simConfig.Parameters {
			if v, ok := overrides[simConfig.Parameters[i].Name]; ok {
				simConfig.Parameters[i].Default = v
			}
		}
		logger.Infof("Applied world preset %s", w.Name)
		return nil
	}

	return fmt.Errorf("world preset %s not found (try 'flocksim worlds list')", worldName)
}

func selectSimulation(cmd *cobra.Command, simInfos []utils.SimulationInfo) (string, error) {
	// Check if simulation is specified via flag
	simName, _ := cmd.Flags().GetString("simulation")
	if simName != "" {
		return simName, nil
	}

	if len(simInfos) == 0 {
		return "", fmt.Errorf("no simulations found")
	}

	// Build options for selection
	options := make([]string, len(simInfos))
	descriptions := make(map[string]string)

	for i, info := range simInfos {
		options[i] = info.Config.Name
		descriptions[info.Config.Name] = info.Config.Description
	}

	// Interactive selection
	var selected string
	prompt := &survey.Select{
		Message: "Select simulation:",
		Options: options,
		Description: func(value string, index int) string {
			return descriptions[value]
		},
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	return selected, nil
}

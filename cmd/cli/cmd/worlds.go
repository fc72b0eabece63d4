package cmd

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/Bra-moth/UAV-Path-Planning/pkg/config"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/logger"
)

var worldsCmd = &cobra.Command{
	Use:   "worlds",
	Short: "Manage world presets",
	Long:  `Manage named world presets applied with the --world flag`,
}

var worldsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured world presets",
	RunE:  listWorlds,
}

var worldsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new world preset",
	RunE:  addWorld,
}

var worldsRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a world preset",
	RunE:  removeWorld,
}

func init() {
	worldsCmd.AddCommand(worldsListCmd)
	worldsCmd.AddCommand(worldsAddCmd)
	worldsCmd.AddCommand(worldsRemoveCmd)
}

func listWorlds(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWorlds()
	if err != nil {
		return fmt.Errorf("failed to load world presets: %w", err)
	}

	if len(cfg.Worlds) == 0 {
		fmt.Println("No world presets configured")
		return nil
	}

	table := logger.NewTable("NAME", "TERRAIN", "BIRDS", "SEED", "DESCRIPTION")
	for _, w := range cfg.Worlds {
		terrain := w.Terrain
		if terrain == "" {
			terrain = "-"
		}
		birds := "-"
		if w.NumBirds > 0 {
			birds = strconv.Itoa(w.NumBirds)
		}
		seed := "-"
		if w.Seed != 0 {
			seed = strconv.FormatInt(w.Seed, 10)
		}
		table.AddRow(w.Name, terrain, birds, seed, w.Description)
	}
	table.Print()

	return nil
}

func addWorld(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWorlds()
	if err != nil {
		return fmt.Errorf("failed to load world presets: %w", err)
	}

	var world config.World

	// Prompt for name
	namePrompt := &survey.Input{
		Message: "Preset name:",
	}
	if err := survey.AskOne(namePrompt, &world.Name, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	// Check if name already exists
	for _, existing := range cfg.Worlds {
		if existing.Name == world.Name {
			return fmt.Errorf("world preset %s already exists", world.Name)
		}
	}

	// Prompt for description
	descPrompt := &survey.Input{
		Message: "Description:",
	}
	if err := survey.AskOne(descPrompt, &world.Description); err != nil {
		return err
	}

	// Prompt for terrain kind
	terrainPrompt := &survey.Select{
		Message: "Terrain:",
		Options: []string{"noise", "flat", "(simulation default)"},
		Default: "noise",
	}
	var terrain string
	if err := survey.AskOne(terrainPrompt, &terrain); err != nil {
		return err
	}
	if terrain != "(simulation default)" {
		world.Terrain = terrain
	}

	// Prompt for flock size, blank keeps the simulation default
	birdsPrompt := &survey.Input{
		Message: "Number of birds (blank for default):",
	}
	var birds string
	if err := survey.AskOne(birdsPrompt, &birds); err != nil {
		return err
	}
	if birds != "" {
		count, err := strconv.Atoi(birds)
		if err != nil || count < 0 {
			return fmt.Errorf("number of birds must be a non-negative integer")
		}
		world.NumBirds = count
	}

	// Prompt for seed, blank keeps the simulation default
	seedPrompt := &survey.Input{
		Message: "Seed (blank for default):",
	}
	var seed string
	if err := survey.AskOne(seedPrompt, &seed); err != nil {
		return err
	}
	if seed != "" {
		value, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("seed must be an integer")
		}
		world.Seed = value
	}

	// Prompt for a config file, blank uses built-in defaults
	filePrompt := &survey.Input{
		Message: "Config file (blank for built-in defaults):",
	}
	if err := survey.AskOne(filePrompt, &world.ConfigFile); err != nil {
		return err
	}

	// Add to config
	cfg.Worlds = append(cfg.Worlds, world)

	// Save config
	if err := config.SaveWorlds(cfg); err != nil {
		return fmt.Errorf("failed to save world presets: %w", err)
	}

	fmt.Printf("World preset %s added successfully\n", world.Name)
	return nil
}

func removeWorld(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWorlds()
	if err != nil {
		return fmt.Errorf("failed to load world presets: %w", err)
	}

	if len(cfg.Worlds) == 0 {
		fmt.Println("No world presets to remove")
		return nil
	}

	// Build list of preset names
	names := make([]string, len(cfg.Worlds))
	for i, w := range cfg.Worlds {
		names[i] = w.Name
	}

	// Prompt for selection
	var selected string
	prompt := &survey.Select{
		Message: "Select world preset to remove:",
		Options: names,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return err
	}

	// Confirm removal
	var confirm bool
	confirmPrompt := &survey.Confirm{
		Message: fmt.Sprintf("Are you sure you want to remove %s?", selected),
		Default: false,
	}
	if err := survey.AskOne(confirmPrompt, &confirm); err != nil {
		return err
	}

	if !confirm {
		fmt.Println("Removal cancelled")
		return nil
	}

	// Remove from config
	newWorlds := make([]config.World, 0, len(cfg.Worlds)-1)
	for _, w := range cfg.Worlds {
		if w.Name != selected {
			newWorlds = append(newWorlds, w)
		}
	}
	cfg.Worlds = newWorlds

	// Save config
	if err := config.SaveWorlds(cfg); err != nil {
		return fmt.Errorf("failed to save world presets: %w", err)
	}

	fmt.Printf("World preset %s removed successfully\n", selected)
	return nil
}

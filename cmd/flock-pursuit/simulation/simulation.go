package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/Bra-moth/UAV-Path-Planning/cmd/flock-pursuit/config"
	"github.com/Bra-moth/UAV-Path-Planning/cmd/flock-pursuit/reporting"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/core"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/logger"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/recorder"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/simulation"
)

// FlockPursuitSimulation runs a soaring flock against a single pursuit UAV
// on a fixed-step world clock.
type FlockPursuitSimulation struct {
	config *config.Config

	// Thermal schedule, rebuilt at the start of every run
	scripted     []config.ThermalSpec
	nextScripted int
	rng          *rand.Rand

	stopChan chan struct{}
}

// NewFlockPursuitSimulation creates a new instance
func NewFlockPursuitSimulation() simulation.Simulation {
	return &FlockPursuitSimulation{
		stopChan: make(chan struct{}),
	}
}

// Name returns the simulation name
func (s *FlockPursuitSimulation) Name() string {
	return "Flock Pursuit"
}

// Description returns the simulation description
func (s *FlockPursuitSimulation) Description() string {
	return "A soaring bird flock over procedural terrain hunted by a single patrol UAV"
}

// Configure sets up the simulation with provided parameters. Parameters
// override the YAML config, which overrides the built-in defaults.
func (s *FlockPursuitSimulation) Configure(params map[string]interface{}) error {
	overrides := make(map[string]interface{})

	// Prompted integers arrive as int, YAML defaults may arrive as float64
	switch v := params["seed"].(type) {
	case int:
		overrides["seed"] = int64(v)
	case int64:
		overrides["seed"] = v
	case float64:
		overrides["seed"] = int64(v)
	}

	switch v := params["duration_ticks"].(type) {
	case int:
		if v > 0 {
			overrides["duration_ticks"] = uint64(v)
		}
	case float64:
		if v > 0 {
			overrides["duration_ticks"] = uint64(v)
		}
	}

	switch v := params["update_interval"].(type) {
	case time.Duration:
		overrides["update_interval"] = v
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid update_interval: %w", err)
		}
		overrides["update_interval"] = d
	}

	switch v := params["num_birds"].(type) {
	case int:
		if v >= 0 {
			overrides["num_birds"] = v
		}
	case float64:
		if v >= 0 {
			overrides["num_birds"] = int(v)
		}
	}

	if v, ok := params["terrain"].(string); ok && v != "" {
		overrides["terrain"] = v
	}

	if v, ok := params["log_level"].(string); ok && v != "" {
		overrides["log_level"] = v
	}

	switch v := params["enable_csv"].(type) {
	case bool:
		overrides["enable_csv"] = v
	case string:
		overrides["enable_csv"] = v == "true" || v == "1" || v == "yes"
	}

	if v, ok := params["output_dir"].(string); ok && v != "" {
		overrides["output_dir"] = v
	}

	switch v := params["progress_every"].(type) {
	case int:
		if v >= 0 {
			overrides["progress_every"] = uint64(v)
		}
	case float64:
		if v >= 0 {
			overrides["progress_every"] = uint64(v)
		}
	}

	configPath := ""
	if v, ok := params["config_file"].(string); ok {
		configPath = v
	}

	cfg, err := config.LoadConfigWithOverrides(configPath, overrides)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	s.config = cfg

	logger.SetLevel(logger.ParseLevel(cfg.Reporting.ConsoleLevel))
	logger.Infof("Configured %s: %d birds for %d ticks, seed %d, %s terrain",
		s.Name(), cfg.Flock.InitialBirds, cfg.Simulation.DurationTicks,
		cfg.Simulation.Seed, cfg.Terrain.Kind)

	return nil
}

// Run executes the simulation, streaming ticks and events into the recorder.
// The passed recorder may be nil; the configured console, CSV and summary
// sinks are attached alongside it.
func (s *FlockPursuitSimulation) Run(ctx context.Context, rec recorder.Recorder) error {
	if s.config == nil {
		return fmt.Errorf("simulation not configured")
	}
	cfg := s.config

	logger.Infof("Starting %s simulation", s.Name())
	logger.Debugf("%s", cfg)

	ground := cfg.BuildTerrain()

	// Assemble the recorder stack. Sinks opened here are closed here; the
	// caller keeps ownership of the recorder it passed in.
	owned := []recorder.Recorder{recorder.NewConsole(cfg.Reporting.ProgressEvery)}

	if cfg.Reporting.EnableCSV {
		csvRec, err := recorder.NewCSV(cfg.Reporting.OutputDir, cfg.Reporting.PerBirdCSV)
		if err != nil {
			return fmt.Errorf("failed to open csv recorder: %w", err)
		}
		logger.Infof("Writing CSV capture to %s", csvRec.Dir())
		owned = append(owned, csvRec)
	}

	var collector *reporting.Collector
	if cfg.Reporting.Summary {
		collector = reporting.NewCollector(cfg.Simulation.Name, cfg.Simulation.Seed)
		owned = append(owned, collector)
	}

	defer func() {
		for _, r := range owned {
			if err := r.Close(); err != nil {
				logger.Warnf("Failed to close recorder: %v", err)
			}
		}
	}()

	world := core.NewWorld(cfg.WorldConfig(), ground, recorder.NewMulti(append(owned, rec)...))

	// Opening flock; placement comes from the world's seeded spawn logic
	for i := 0; i < cfg.Flock.InitialBirds; i++ {
		world.RequestAddBird(nil)
	}

	s.resetThermalSchedule(cfg)

	var tickC <-chan time.Time
	if cfg.Simulation.UpdateInterval > 0 {
		ticker := time.NewTicker(cfg.Simulation.UpdateInterval)
		defer ticker.Stop()
		tickC = ticker.C
	} else {
		// A closed channel is always ready, so a zero interval runs flat out
		paced := make(chan time.Time)
		close(paced)
		tickC = paced
	}

	start := time.Now()
	stopped := false

	for !stopped && world.Tick() < cfg.Simulation.DurationTicks {
		select {
		case <-ctx.Done():
			logger.Info("Simulation cancelled by context")
			return ctx.Err()
		case <-s.stopChan:
			logger.Info("Simulation stopped by user")
			stopped = true
			continue
		case <-tickC:
		}

		s.dispatchThermals(world)
		world.Step()
	}

	elapsed := time.Since(start)
	logger.Infof("Run complete: %d ticks in %s, %d captures, %d birds remaining",
		world.Tick(), elapsed.Round(time.Millisecond), world.Captures(), world.Flock().Count())

	if collector != nil {
		summary := collector.Summarize()
		if cfg.Reporting.OutputDir != "" {
			if _, err := summary.Save(cfg.Reporting.OutputDir); err != nil {
				logger.Errorf("Failed to save run summary: %v", err)
			}
		}
		summary.Print()
	}

	return nil
}

// Stop gracefully shuts down the simulation
func (s *FlockPursuitSimulation) Stop() error {
	select {
	case <-s.stopChan:
		// Already closed
	default:
		close(s.stopChan)
	}
	return nil
}

// resetThermalSchedule orders the scripted columns by due tick and seeds
// the random generator. The thermal stream is keyed off the run seed so
// replays place the same columns.
func (s *FlockPursuitSimulation) resetThermalSchedule(cfg *config.Config) {
	s.scripted = make([]config.ThermalSpec, len(cfg.Thermals.Scripted))
	copy(s.scripted, cfg.Thermals.Scripted)
	sort.SliceStable(s.scripted, func(i, j int) bool {
		return s.scripted[i].AtTick < s.scripted[j].AtTick
	})
	s.nextScripted = 0
	s.rng = rand.New(rand.NewSource(cfg.Simulation.Seed))
}

// dispatchThermals queues scripted columns that are due this tick and rolls
// the periodic random generator. Requests land before Step so a column due
// at tick N is live during tick N+1.
func (s *FlockPursuitSimulation) dispatchThermals(world *core.World) {
	tick := world.Tick()

	for s.nextScripted < len(s.scripted) && s.scripted[s.nextScripted].AtTick <= tick {
		spec := s.scripted[s.nextScripted]
		s.nextScripted++

		center := core.Vector3{X: spec.Center.X, Y: spec.Center.Y, Z: spec.Center.Z}
		world.RequestAddThermal(center, spec.Radius, spec.Strength, spec.TTLTicks)
		logger.Debugf("Scripted thermal due at tick %d: (%.0f, %.0f) radius %.0f strength %.2f",
			spec.AtTick, center.X, center.Y, spec.Radius, spec.Strength)
	}

	t := s.config.Thermals
	if t.RandomEvery == 0 || tick == 0 || tick%t.RandomEvery != 0 {
		return
	}

	bounds := s.config.WorldConfig().World.Bounds
	center := core.Vector3{
		X: bounds.Min.X + s.rng.Float64()*(bounds.Max.X-bounds.Min.X),
		Y: bounds.Min.Y + s.rng.Float64()*(bounds.Max.Y-bounds.Min.Y),
	}
	radius := t.RadiusMin + s.rng.Float64()*(t.RadiusMax-t.RadiusMin)
	strength := t.StrengthMin + s.rng.Float64()*(t.StrengthMax-t.StrengthMin)
	ttl := t.TTLMin
	if t.TTLMax > t.TTLMin {
		ttl += uint64(s.rng.Int63n(int64(t.TTLMax-t.TTLMin) + 1))
	}

	world.RequestAddThermal(center, radius, strength, ttl)
	logger.Debugf("Random thermal at tick %d: (%.0f, %.0f) radius %.0f strength %.2f ttl %d",
		tick, center.X, center.Y, radius, strength, ttl)
}

// init registers the simulation
func init() {
	if err := simulation.DefaultRegistry.Register("Flock Pursuit", NewFlockPursuitSimulation); err != nil {
		logger.Errorf("Failed to register simulation: %v", err)
	}
}

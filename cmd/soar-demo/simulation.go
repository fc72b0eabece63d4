// Package soardemo registers the Thermal Soar demo: a flock riding
// randomly scattered updrafts with no pursuer. It drives the flock and
// thermal layers directly, without a world around them.
package soardemo

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Bra-moth/UAV-Path-Planning/pkg/core"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/logger"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/recorder"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/simulation"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/terrain"
)

// SoarDemoSimulation implements the simulation.Simulation interface
type SoarDemoSimulation struct {
	config   *Config
	stopChan chan struct{}
}

// NewSoarDemoSimulation creates a new Thermal Soar simulation instance
func NewSoarDemoSimulation() simulation.Simulation {
	return &SoarDemoSimulation{
		stopChan: make(chan struct{}),
	}
}

// Name returns the simulation name
func (s *SoarDemoSimulation) Name() string {
	return "Thermal Soar"
}

// Description returns a description of the simulation
func (s *SoarDemoSimulation) Description() string {
	return "Energy-driven flock soaring between thermal updrafts, no pursuit"
}

// Configure sets up the simulation with the provided parameters
func (s *SoarDemoSimulation) Configure(params map[string]interface{}) error {
	cfg, err := ValidateAndParse(params)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	s.config = cfg

	logger.Infof("Configured %s: %d birds, %d thermals, %d ticks",
		s.Name(), cfg.NumBirds, cfg.NumThermals, cfg.DurationTicks)
	return nil
}

// Run executes the soar demo until the tick budget is spent
func (s *SoarDemoSimulation) Run(ctx context.Context, rec recorder.Recorder) error {
	if s.config == nil {
		return fmt.Errorf("simulation not configured")
	}
	cfg := s.config
	if rec == nil {
		rec = recorder.Nop{}
	}

	wp := core.DefaultWorldParams()
	flock := core.NewFlock(core.DefaultFlockParams(), core.DefaultBirdParams(), wp.Bounds, terrain.Flat{}, cfg.Seed)
	thermals := core.NewThermalField()
	rng := rand.New(rand.NewSource(cfg.Seed))

	for i := 0; i < cfg.NumBirds; i++ {
		pos := core.Vector3{
			X: wp.Bounds.Min.X + rng.Float64()*(wp.Bounds.Max.X-wp.Bounds.Min.X),
			Y: wp.Bounds.Min.Y + rng.Float64()*(wp.Bounds.Max.Y-wp.Bounds.Min.Y),
			Z: wp.SpawnAltMin + rng.Float64()*(wp.SpawnAltMax-wp.SpawnAltMin),
		}
		id, err := flock.AddBird(pos)
		if err != nil {
			logger.Warnf("Bird placement rejected: %v", err)
			continue
		}
		rec.RecordEvent(recorder.NewEvent(0, recorder.EventBirdAdded, id, "bird placed"))
	}

	for i := 0; i < cfg.NumThermals; i++ {
		center := core.Vector3{
			X: wp.Bounds.Min.X + rng.Float64()*(wp.Bounds.Max.X-wp.Bounds.Min.X),
			Y: wp.Bounds.Min.Y + rng.Float64()*(wp.Bounds.Max.Y-wp.Bounds.Min.Y),
		}
		id := thermals.Add(center, cfg.ThermalRadius, cfg.ThermalStrength, 0)
		rec.RecordEvent(recorder.NewEvent(0, recorder.EventThermalAdded, id,
			fmt.Sprintf("thermal at (%.0f, %.0f)", center.X, center.Y)))
	}

	logger.Infof("Soaring %d birds across %d updrafts", flock.Count(), thermals.Count())

	var tickC <-chan time.Time
	if cfg.UpdateInterval > 0 {
		ticker := time.NewTicker(cfg.UpdateInterval)
		defer ticker.Stop()
		tickC = ticker.C
	} else {
		// A closed channel never blocks, so a zero interval runs unpaced.
		paced := make(chan time.Time)
		close(paced)
		tickC = paced
	}

	stateTicks := make(map[core.BirdState]uint64)
	var birdTicks uint64

	bar := logger.NewProgressBar(int(cfg.DurationTicks), "Soaring")
	stopped := false
	for tick := uint64(1); tick <= cfg.DurationTicks && !stopped; tick++ {
		select {
		case <-ctx.Done():
			fmt.Println()
			logger.Warn("Soar demo cancelled by context")
			return ctx.Err()
		case <-s.stopChan:
			fmt.Println()
			logger.Warn("Soar demo stopped by user")
			stopped = true
			continue
		case <-tickC:
		}

		flock.Advance(wp.TickDT, thermals)

		snapshot := flock.Snapshot()
		for _, b := range snapshot {
			stateTicks[b.State]++
			birdTicks++
		}
		rec.RecordTick(buildReport(tick, wp.TickDT, snapshot, thermals.Count()))
		bar.Increment()
	}
	if !stopped {
		bar.Finish()
	}

	s.printSummary(flock, stateTicks, birdTicks)
	return nil
}

// Stop gracefully stops the simulation
func (s *SoarDemoSimulation) Stop() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	return nil
}

// buildReport converts a flock snapshot into the recorder row format.
// The UAV block stays zero; the demo has no pursuer.
func buildReport(tick uint64, dt float64, snapshot []core.BirdSnapshot, thermalCount int) recorder.TickReport {
	report := recorder.TickReport{
		Tick:     tick,
		SimTime:  float64(tick) * dt,
		Birds:    make([]recorder.BirdStatus, 0, len(snapshot)),
		Thermals: thermalCount,
	}
	for _, b := range snapshot {
		report.Birds = append(report.Birds, recorder.BirdStatus{
			ID:       b.ID,
			Position: recorder.Point{X: b.Position.X, Y: b.Position.Y, Z: b.Position.Z},
			Velocity: recorder.Point{X: b.Velocity.X, Y: b.Velocity.Y, Z: b.Velocity.Z},
			Energy:   b.Energy,
			State:    string(b.State),
		})
	}
	return report
}

func (s *SoarDemoSimulation) printSummary(flock *core.Flock, stateTicks map[core.BirdState]uint64, birdTicks uint64) {
	logger.LogSubSection("Flock State Summary")

	table := logger.NewTable("STATE", "SHARE")
	order := []core.BirdState{
		core.BirdStateCruising,
		core.BirdStateSoaring,
		core.BirdStateGliding,
		core.BirdStatePerched,
	}
	for _, state := range order {
		share := 0.0
		if birdTicks > 0 {
			share = float64(stateTicks[state]) / float64(birdTicks) * 100
		}
		table.AddRow(string(state), fmt.Sprintf("%.1f%%", share))
	}
	table.Print()

	var meanEnergy float64
	snapshot := flock.Snapshot()
	if len(snapshot) > 0 {
		for _, b := range snapshot {
			meanEnergy += b.Energy
		}
		meanEnergy /= float64(len(snapshot))
	}
	logger.LogKeyValue("Mean final energy", fmt.Sprintf("%.1f", meanEnergy))

	logger.Success("Soar demo complete")
}

func init() {
	simulation.DefaultRegistry.Register("Thermal Soar", NewSoarDemoSimulation)
}

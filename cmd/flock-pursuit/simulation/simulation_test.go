package simulation

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/Bra-moth/UAV-Path-Planning/cmd/flock-pursuit/config"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/logger"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/recorder"
)

func TestMain(m *testing.M) {
	logger.SetLevel(logger.ParseLevel("error"))
	m.Run()
}

// captureRecorder keeps everything the run streamed out.
type captureRecorder struct {
	ticks  []recorder.TickReport
	events []recorder.Event
}

func (c *captureRecorder) RecordTick(r recorder.TickReport) { c.ticks = append(c.ticks, r) }
func (c *captureRecorder) RecordEvent(e recorder.Event)     { c.events = append(c.events, e) }
func (c *captureRecorder) Close() error                     { return nil }

func (c *captureRecorder) countEvents(eventType string) int {
	n := 0
	for _, e := range c.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

func testParams(t *testing.T, extra map[string]interface{}) map[string]interface{} {
	t.Helper()
	params := map[string]interface{}{
		"seed":            int(7),
		"num_birds":       6,
		"duration_ticks":  40,
		"update_interval": "0s",
		"terrain":         "flat",
		"enable_csv":      false,
		"output_dir":      t.TempDir(),
		"log_level":       "error",
		"progress_every":  0,
	}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

// ---------- Configure ----------

func TestConfigure_AppliesParameterOverrides(t *testing.T) {
	sim := NewFlockPursuitSimulation().(*FlockPursuitSimulation)

	err := sim.Configure(testParams(t, map[string]interface{}{
		"seed":           42,
		"num_birds":      12,
		"duration_ticks": 250,
		"terrain":        "flat",
	}))
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}

	cfg := sim.config
	if cfg.Simulation.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Simulation.Seed)
	}
	if cfg.Flock.InitialBirds != 12 {
		t.Errorf("initial birds = %d, want 12", cfg.Flock.InitialBirds)
	}
	if cfg.Simulation.DurationTicks != 250 {
		t.Errorf("duration = %d, want 250", cfg.Simulation.DurationTicks)
	}
	if cfg.Terrain.Kind != "flat" {
		t.Errorf("terrain = %q, want flat", cfg.Terrain.Kind)
	}
	if cfg.Simulation.UpdateInterval != 0 {
		t.Errorf("update interval = %v, want 0", cfg.Simulation.UpdateInterval)
	}
}

func TestConfigure_FloatParametersFromYAMLDefaults(t *testing.T) {
	sim := NewFlockPursuitSimulation().(*FlockPursuitSimulation)

	// Values decoded from YAML defaults can arrive as float64
	err := sim.Configure(testParams(t, map[string]interface{}{
		"seed":           float64(9),
		"num_birds":      float64(8),
		"duration_ticks": float64(100),
	}))
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}

	if sim.config.Simulation.Seed != 9 {
		t.Errorf("seed = %d, want 9", sim.config.Simulation.Seed)
	}
	if sim.config.Flock.InitialBirds != 8 {
		t.Errorf("initial birds = %d, want 8", sim.config.Flock.InitialBirds)
	}
	if sim.config.Simulation.DurationTicks != 100 {
		t.Errorf("duration = %d, want 100", sim.config.Simulation.DurationTicks)
	}
}

func TestConfigure_RejectsBadUpdateInterval(t *testing.T) {
	sim := NewFlockPursuitSimulation()

	err := sim.Configure(testParams(t, map[string]interface{}{
		"update_interval": "not-a-duration",
	}))
	if err == nil {
		t.Fatal("expected error for malformed update_interval")
	}
}

func TestConfigure_DurationParameterAccepted(t *testing.T) {
	sim := NewFlockPursuitSimulation().(*FlockPursuitSimulation)

	// The prompt flow hands durations over as time.Duration
	err := sim.Configure(testParams(t, map[string]interface{}{
		"update_interval": 50 * time.Millisecond,
	}))
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if sim.config.Simulation.UpdateInterval != 50*time.Millisecond {
		t.Errorf("update interval = %v, want 50ms", sim.config.Simulation.UpdateInterval)
	}
}

// ---------- Run ----------

func TestRun_RequiresConfigure(t *testing.T) {
	sim := NewFlockPursuitSimulation()

	if err := sim.Run(context.Background(), nil); err == nil {
		t.Fatal("expected error when running unconfigured")
	}
}

func TestRun_CompletesAndStreamsTicks(t *testing.T) {
	sim := NewFlockPursuitSimulation()
	if err := sim.Configure(testParams(t, nil)); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	rec := &captureRecorder{}
	if err := sim.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(rec.ticks) != 40 {
		t.Fatalf("recorded %d ticks, want 40", len(rec.ticks))
	}
	if last := rec.ticks[len(rec.ticks)-1]; last.Tick != 40 {
		t.Errorf("final tick = %d, want 40", last.Tick)
	}

	// The opening flock spawns on the first step
	first := rec.ticks[0]
	if len(first.Birds) != 6 {
		t.Errorf("birds on first tick = %d, want 6", len(first.Birds))
	}
	if got := rec.countEvents(recorder.EventBirdAdded); got != 6 {
		t.Errorf("bird_added events = %d, want 6", got)
	}

	// Both tick-zero scripted thermals are live from the first step; the
	// third is scheduled past the end of this short run
	if first.Thermals != 2 {
		t.Errorf("thermals on first tick = %d, want 2", first.Thermals)
	}
	if got := rec.countEvents(recorder.EventThermalAdded); got != 2 {
		t.Errorf("thermal_added events = %d, want 2", got)
	}

	if first.UAV.Mode == "" {
		t.Error("UAV status missing from tick report")
	}
}

func TestRun_SameSeedReplaysIdentically(t *testing.T) {
	runOnce := func() recorder.TickReport {
		sim := NewFlockPursuitSimulation()
		if err := sim.Configure(testParams(t, map[string]interface{}{"seed": 99})); err != nil {
			t.Fatalf("Configure: %v", err)
		}
		rec := &captureRecorder{}
		if err := sim.Run(context.Background(), rec); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(rec.ticks) == 0 {
			t.Fatal("no ticks recorded")
		}
		return rec.ticks[len(rec.ticks)-1]
	}

	first := runOnce()
	second := runOnce()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("final tick reports diverged between identical seeds:\n%+v\n%+v", first, second)
	}
}

func TestRun_StopEndsRunEarly(t *testing.T) {
	sim := NewFlockPursuitSimulation()
	err := sim.Configure(testParams(t, map[string]interface{}{
		"duration_ticks":  100000,
		"update_interval": "2ms",
	}))
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}

	rec := &captureRecorder{}
	done := make(chan error, 1)
	go func() {
		done <- sim.Run(context.Background(), rec)
	}()

	time.Sleep(50 * time.Millisecond)
	if err := sim.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run after Stop: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}

	if len(rec.ticks) == 0 || len(rec.ticks) >= 100000 {
		t.Errorf("recorded %d ticks, want an early cut", len(rec.ticks))
	}

	// Stop twice must not panic
	if err := sim.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestRun_ContextCancelAborts(t *testing.T) {
	sim := NewFlockPursuitSimulation()
	err := sim.Configure(testParams(t, map[string]interface{}{
		"duration_ticks":  100000,
		"update_interval": "2ms",
	}))
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sim.Run(ctx, &captureRecorder{})
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// ---------- thermal scheduling ----------

func TestDispatchThermals_ScriptedSpecsFireOnSchedule(t *testing.T) {
	sim := NewFlockPursuitSimulation()
	err := sim.Configure(testParams(t, map[string]interface{}{
		"duration_ticks": 20,
	}))
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}

	fp := sim.(*FlockPursuitSimulation)
	fp.config.Thermals.Scripted = []config.ThermalSpec{
		{AtTick: 0, Center: config.Vec3{X: 100, Y: 100}, Radius: 40, Strength: 0.5},
		{AtTick: 10, Center: config.Vec3{X: 300, Y: 200}, Radius: 30, Strength: 0.7},
	}
	fp.config.Thermals.RandomEvery = 0

	rec := &captureRecorder{}
	if err := sim.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// One column live from tick 1, the second joins after its due tick
	if got := rec.ticks[0].Thermals; got != 1 {
		t.Errorf("thermals at tick 1 = %d, want 1", got)
	}
	if got := rec.ticks[len(rec.ticks)-1].Thermals; got != 2 {
		t.Errorf("thermals at final tick = %d, want 2", got)
	}

	var dueTicks []uint64
	for _, e := range rec.events {
		if e.Type == recorder.EventThermalAdded {
			dueTicks = append(dueTicks, e.Tick)
		}
	}
	if len(dueTicks) != 2 {
		t.Fatalf("thermal_added events = %d, want 2", len(dueTicks))
	}
	if dueTicks[0] != 1 {
		t.Errorf("first thermal landed at tick %d, want 1", dueTicks[0])
	}
	if dueTicks[1] != 11 {
		t.Errorf("second thermal landed at tick %d, want 11", dueTicks[1])
	}
}

func TestRun_RandomThermalsSpawnPeriodically(t *testing.T) {
	sim := NewFlockPursuitSimulation()
	err := sim.Configure(testParams(t, map[string]interface{}{
		"duration_ticks": 25,
	}))
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}

	fp := sim.(*FlockPursuitSimulation)
	fp.config.Thermals.Scripted = nil
	fp.config.Thermals.RandomEvery = 10
	fp.config.Thermals.RadiusMin = 20
	fp.config.Thermals.RadiusMax = 40
	fp.config.Thermals.StrengthMin = 0.3
	fp.config.Thermals.StrengthMax = 0.5
	fp.config.Thermals.TTLMin = 50
	fp.config.Thermals.TTLMax = 50

	rec := &captureRecorder{}
	if err := sim.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Generator rolls at ticks 10 and 20, columns land one tick later
	if got := rec.countEvents(recorder.EventThermalAdded); got != 2 {
		t.Errorf("thermal_added events = %d, want 2", got)
	}
	if got := rec.ticks[len(rec.ticks)-1].Thermals; got != 2 {
		t.Errorf("thermals at final tick = %d, want 2", got)
	}
}

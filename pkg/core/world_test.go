package core

import (
	"os"
	"testing"

	"github.com/Bra-moth/UAV-Path-Planning/pkg/logger"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/recorder"
)

func TestMain(m *testing.M) {
	logger.SetLevel(logger.ErrorLevel)
	os.Exit(m.Run())
}

// memRecorder collects reports in memory for assertions.
type memRecorder struct {
	ticks  []recorder.TickReport
	events []recorder.Event
}

func (m *memRecorder) RecordTick(r recorder.TickReport) { m.ticks = append(m.ticks, r) }
func (m *memRecorder) RecordEvent(e recorder.Event)     { m.events = append(m.events, e) }
func (m *memRecorder) Close() error                     { return nil }

func (m *memRecorder) eventsOf(kind string) []recorder.Event {
	var out []recorder.Event
	for _, e := range m.events {
		if e.Type == kind {
			out = append(out, e)
		}
	}
	return out
}

// solidTerrain blocks every placement.
type solidTerrain struct{}

func (solidTerrain) HeightAt(x, y float64) float64        { return 0 }
func (solidTerrain) IsObstacle(p Vector3, r float64) bool { return true }

func newTestWorld(seed int64, terrain Terrain) (*World, *memRecorder) {
	cfg := DefaultWorldConfig()
	cfg.World.Seed = seed
	rec := &memRecorder{}
	return NewWorld(cfg, terrain, rec), rec
}

// ---------- Command queue ----------

func TestStep_CommandsApplyAtNextTick(t *testing.T) {
	w, rec := newTestWorld(1, flatTerrain{})

	pos := Vec3(200, 200, 60)
	w.RequestAddBird(&pos)
	if w.Flock().Count() != 0 {
		t.Fatal("request must not mutate the world before the tick")
	}

	w.Step()
	if w.Flock().Count() != 1 {
		t.Fatalf("expected 1 bird after the tick, got %d", w.Flock().Count())
	}

	added := rec.eventsOf(recorder.EventBirdAdded)
	if len(added) != 1 {
		t.Fatalf("expected 1 add event, got %d", len(added))
	}
	if added[0].Tick != 1 {
		t.Errorf("add applied at tick %d, want 1", added[0].Tick)
	}
}

func TestStep_RejectedPlacementKeepsWorldIntact(t *testing.T) {
	w, rec := newTestWorld(1, flatTerrain{})

	bad := Vec3(-50, 200, 60)
	w.RequestAddBird(&bad)
	w.Step()

	if w.Flock().Count() != 0 {
		t.Errorf("rejected placement added a bird, count=%d", w.Flock().Count())
	}
	if len(rec.eventsOf(recorder.EventPlacementRejected)) != 1 {
		t.Error("expected a placement_rejected event")
	}
}

func TestStep_RandomSpawn(t *testing.T) {
	w, _ := newTestWorld(7, flatTerrain{})
	w.RequestAddBird(nil)
	w.Step()

	if w.Flock().Count() != 1 {
		t.Fatalf("random spawn failed, count=%d", w.Flock().Count())
	}
	snap := w.Flock().Snapshot()[0]
	if !w.params.Bounds.Contains(snap.Position) {
		t.Errorf("spawned outside bounds: %+v", snap.Position)
	}
}

func TestResolveSpawn_PlacesInsideAltitudeBand(t *testing.T) {
	w, _ := newTestWorld(7, flatTerrain{})

	for i := 0; i < 20; i++ {
		pos, err := w.resolveSpawn(nil)
		if err != nil {
			t.Fatalf("spawn %d failed: %v", i, err)
		}
		if !w.params.Bounds.Contains(pos) {
			t.Errorf("spawn %d outside bounds: %+v", i, pos)
		}
		if pos.Z < w.params.SpawnAltMin || pos.Z > w.params.SpawnAltMax {
			t.Errorf("spawn %d altitude %f outside [%f, %f]", i, pos.Z, w.params.SpawnAltMin, w.params.SpawnAltMax)
		}
	}
}

func TestStep_RandomSpawnExhaustsAttempts(t *testing.T) {
	w, rec := newTestWorld(7, solidTerrain{})
	w.RequestAddBird(nil)
	w.Step()

	if w.Flock().Count() != 0 {
		t.Errorf("spawn on solid terrain should fail, count=%d", w.Flock().Count())
	}
	if len(rec.eventsOf(recorder.EventPlacementRejected)) != 1 {
		t.Error("expected a placement_rejected event after exhausting attempts")
	}
}

func TestStep_RemoveUnknownIsSilentNoOp(t *testing.T) {
	w, rec := newTestWorld(1, flatTerrain{})

	w.RequestRemoveBird(4242)
	w.Step()

	if len(rec.eventsOf(recorder.EventBirdRemoved)) != 0 {
		t.Error("unknown removal must not emit a removal event")
	}
	if w.Tick() != 1 {
		t.Errorf("tick should still advance, got %d", w.Tick())
	}
}

func TestStep_AddThenRemoveRoundTrip(t *testing.T) {
	w, rec := newTestWorld(1, flatTerrain{})

	pos := Vec3(200, 200, 60)
	w.RequestAddBird(&pos)
	w.Step()

	id := rec.eventsOf(recorder.EventBirdAdded)[0].BirdID
	w.RequestRemoveBird(id)
	w.Step()

	if w.Flock().Count() != 0 {
		t.Errorf("expected empty flock, count=%d", w.Flock().Count())
	}
	removed := rec.eventsOf(recorder.EventBirdRemoved)
	if len(removed) != 1 || removed[0].BirdID != id {
		t.Errorf("expected one removal event for bird %d, got %+v", id, removed)
	}

	// Removing again is a no-op.
	w.RequestRemoveBird(id)
	w.Step()
	if len(rec.eventsOf(recorder.EventBirdRemoved)) != 1 {
		t.Error("repeated removal emitted another event")
	}
}

// ---------- Thermals ----------

func TestStep_ThermalValidationAndExpiry(t *testing.T) {
	w, rec := newTestWorld(1, flatTerrain{})

	w.RequestAddThermal(Vec3(300, 300, 0), -5, 1.0, 0)
	w.Step()
	if w.Thermals().Count() != 0 {
		t.Error("invalid thermal was added")
	}
	if len(rec.eventsOf(recorder.EventCommandIgnored)) != 1 {
		t.Error("expected a command_ignored event for the invalid thermal")
	}

	w.RequestAddThermal(Vec3(300, 300, 0), 40, 0.8, 2)
	w.Step() // tick 2: added, expires at tick 4
	if w.Thermals().Count() != 1 {
		t.Fatalf("expected 1 thermal, got %d", w.Thermals().Count())
	}
	w.Step() // tick 3: still alive
	if w.Thermals().Count() != 1 {
		t.Errorf("thermal expired early, count=%d", w.Thermals().Count())
	}
	w.Step() // tick 4: pruned at tick start
	if w.Thermals().Count() != 0 {
		t.Errorf("thermal outlived its ttl, count=%d", w.Thermals().Count())
	}
}

// ---------- Determinism ----------

func runScripted(seed int64) (*World, *memRecorder) {
	cfg := DefaultWorldConfig()
	cfg.World.Seed = seed
	rec := &memRecorder{}
	w := NewWorld(cfg, flatTerrain{}, rec)

	for i := 0; i < 6; i++ {
		w.RequestAddBird(nil)
	}
	w.RequestAddThermal(Vec3(420, 320, 0), 60, 0.5, 0)

	for tick := 1; tick <= 40; tick++ {
		if tick == 10 {
			w.RequestRemoveBird(1)
		}
		w.Step()
	}
	return w, rec
}

func TestStep_DeterministicForSeedAndScript(t *testing.T) {
	wa, ra := runScripted(42)
	wb, rb := runScripted(42)

	as, bs := wa.Flock().Snapshot(), wb.Flock().Snapshot()
	if len(as) != len(bs) {
		t.Fatalf("flock sizes diverged: %d vs %d", len(as), len(bs))
	}
	for i := range as {
		if as[i] != bs[i] {
			t.Fatalf("bird %d diverged:\n%+v\n%+v", as[i].ID, as[i], bs[i])
		}
	}

	ua, ub := wa.UAV(), wb.UAV()
	if ua.Position != ub.Position || ua.Velocity != ub.Velocity || ua.Energy != ub.Energy || ua.Mode != ub.Mode {
		t.Errorf("uav state diverged:\n%+v %+v %f %s\n%+v %+v %f %s",
			ua.Position, ua.Velocity, ua.Energy, ua.Mode,
			ub.Position, ub.Velocity, ub.Energy, ub.Mode)
	}
	if wa.Captures() != wb.Captures() {
		t.Errorf("capture counts diverged: %d vs %d", wa.Captures(), wb.Captures())
	}
	if len(ra.events) != len(rb.events) {
		t.Errorf("event streams diverged: %d vs %d", len(ra.events), len(rb.events))
	}
}

// ---------- Capture ----------

func TestStep_CaptureRemovesBirdAndCounts(t *testing.T) {
	w, rec := newTestWorld(1, flatTerrain{})

	// Right next to the UAV's starting point.
	pos := w.uav.Params().PatrolCenter.Add(Vec3(4, 0, 0))
	w.RequestAddBird(&pos)
	w.Step()

	if w.Captures() != 1 {
		t.Fatalf("expected an immediate capture, got %d", w.Captures())
	}
	if w.Flock().Count() != 0 {
		t.Errorf("captured bird should leave the flock, count=%d", w.Flock().Count())
	}
	captures := rec.eventsOf(recorder.EventCapture)
	if len(captures) != 1 {
		t.Fatalf("expected 1 capture event, got %d", len(captures))
	}

	w.Step()
	if w.Captures() != 1 {
		t.Errorf("capture count should stay at 1, got %d", w.Captures())
	}
}

// ---------- Reporting ----------

func TestStep_EmitsTickReports(t *testing.T) {
	w, rec := newTestWorld(1, flatTerrain{})

	pos := Vec3(200, 200, 60)
	w.RequestAddBird(&pos)
	w.Step()
	w.Step()

	if len(rec.ticks) != 2 {
		t.Fatalf("expected 2 tick reports, got %d", len(rec.ticks))
	}
	first := rec.ticks[0]
	if first.Tick != 1 || first.SimTime != w.params.TickDT {
		t.Errorf("first report tick=%d simTime=%f", first.Tick, first.SimTime)
	}
	if len(first.Birds) != 1 {
		t.Errorf("expected 1 bird in the report, got %d", len(first.Birds))
	}
	if first.UAV.Mode == "" {
		t.Error("uav status missing from the report")
	}
	if rec.ticks[1].Tick != 2 {
		t.Errorf("second report tick=%d", rec.ticks[1].Tick)
	}
}

func TestStep_DegradedEventLatches(t *testing.T) {
	cfg := DefaultWorldConfig()
	cfg.UAV.BaseDrain = 60 // exhausts the battery on the second tick
	rec := &memRecorder{}
	w := NewWorld(cfg, flatTerrain{}, rec)

	for i := 0; i < 5; i++ {
		w.Step()
	}

	if !w.UAV().Degraded() {
		t.Fatal("uav should be degraded under extreme drain")
	}
	if got := len(rec.eventsOf(recorder.EventUAVDegraded)); got != 1 {
		t.Errorf("degraded event should fire once, got %d", got)
	}
}

package core

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/Bra-moth/UAV-Path-Planning/pkg/logger"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/recorder"
)

// Bounds is the axis-aligned box every agent stays inside.
type Bounds struct {
	Min Vector3
	Max Vector3
}

// Contains reports whether the point lies inside the box, inclusive.
func (b Bounds) Contains(p Vector3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Clamp confines the point to the box.
func (b Bounds) Clamp(p Vector3) Vector3 {
	if p.X < b.Min.X {
		p.X = b.Min.X
	} else if p.X > b.Max.X {
		p.X = b.Max.X
	}
	if p.Y < b.Min.Y {
		p.Y = b.Min.Y
	} else if p.Y > b.Max.Y {
		p.Y = b.Max.Y
	}
	if p.Z < b.Min.Z {
		p.Z = b.Min.Z
	} else if p.Z > b.Max.Z {
		p.Z = b.Max.Z
	}
	return p
}

// Center returns the box midpoint.
func (b Bounds) Center() Vector3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// WorldParams holds the world-level settings, read once at initialization.
type WorldParams struct {
	Bounds Bounds
	TickDT float64
	Seed   int64

	// Random spawn placement
	SpawnAttempts int
	SpawnAltMin   float64
	SpawnAltMax   float64
}

// DefaultWorldParams returns the stock demo world.
func DefaultWorldParams() WorldParams {
	return WorldParams{
		Bounds:        Bounds{Max: Vector3{X: 800, Y: 600, Z: 120}},
		TickDT:        1.0,
		Seed:          1,
		SpawnAttempts: 16,
		SpawnAltMin:   40,
		SpawnAltMax:   80,
	}
}

// WorldConfig bundles every tuning block the world needs.
type WorldConfig struct {
	World WorldParams
	Flock FlockParams
	Bird  BirdParams
	UAV   UAVParams
}

// DefaultWorldConfig returns the stock demo tuning.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		World: DefaultWorldParams(),
		Flock: DefaultFlockParams(),
		Bird:  DefaultBirdParams(),
		UAV:   DefaultUAVParams(),
	}
}

// command is an external request applied at the start of the next tick,
// never mid-tick.
type command interface {
	apply(w *World)
}

type addBirdCommand struct {
	position *Vector3
}

type addThermalCommand struct {
	center   Vector3
	radius   float64
	strength float64
	ttlTicks uint64
}

type removeBirdCommand struct {
	id int64
}

// World owns the whole simulation: the flock, the thermal field, the UAV,
// the clock, and the queue of pending external commands. All mutation
// happens inside Step, single-threaded and in a fixed order, so a run is
// reproducible from its seed and command sequence.
type World struct {
	params   WorldParams
	flock    *Flock
	thermals *ThermalField
	uav      *UAV
	terrain  Terrain
	rec      recorder.Recorder
	rng      *rand.Rand
	log      logger.Logger

	tick         uint64
	captures     int
	lastDegraded bool

	mu      sync.Mutex
	pending []command
}

// NewWorld assembles a world from its config, terrain and recorder. The
// recorder may be nil.
func NewWorld(cfg WorldConfig, terrain Terrain, rec recorder.Recorder) *World {
	if rec == nil {
		rec = recorder.Nop{}
	}
	return &World{
		params:   cfg.World,
		flock:    NewFlock(cfg.Flock, cfg.Bird, cfg.World.Bounds, terrain, cfg.World.Seed),
		thermals: NewThermalField(),
		uav:      NewUAV(cfg.UAV.PatrolCenter, cfg.UAV, cfg.World.Bounds, terrain),
		terrain:  terrain,
		rec:      rec,
		rng:      rand.New(rand.NewSource(cfg.World.Seed)),
		log:      logger.WithPrefix("world"),
	}
}

// Tick returns the number of completed ticks.
func (w *World) Tick() uint64 {
	return w.tick
}

// Captures returns the running capture count.
func (w *World) Captures() int {
	return w.captures
}

// Flock exposes the bird set for read access.
func (w *World) Flock() *Flock {
	return w.flock
}

// UAV exposes the pursuit controller for read access.
func (w *World) UAV() *UAV {
	return w.uav
}

// Thermals exposes the updraft field for read access.
func (w *World) Thermals() *ThermalField {
	return w.thermals
}

// RequestAddBird queues a spawn for the next tick. A nil position asks for
// a seeded random placement.
func (w *World) RequestAddBird(position *Vector3) {
	w.enqueue(&addBirdCommand{position: position})
}

// RequestAddThermal queues an updraft for the next tick. ttlTicks of zero
// means the thermal persists until removed.
func (w *World) RequestAddThermal(center Vector3, radius, strength float64, ttlTicks uint64) {
	w.enqueue(&addThermalCommand{center: center, radius: radius, strength: strength, ttlTicks: ttlTicks})
}

// RequestRemoveBird queues a removal for the next tick. Unknown ids are a
// no-op when applied.
func (w *World) RequestRemoveBird(id int64) {
	w.enqueue(&removeBirdCommand{id: id})
}

func (w *World) enqueue(c command) {
	w.mu.Lock()
	w.pending = append(w.pending, c)
	w.mu.Unlock()
}

// Step advances the simulation one tick: pending commands first, then the
// flock, then the UAV against the flock's post-tick snapshot, then the
// tick report.
func (w *World) Step() {
	w.tick++

	w.mu.Lock()
	queued := w.pending
	w.pending = nil
	w.mu.Unlock()
	for _, c := range queued {
		c.apply(w)
	}

	if pruned := w.thermals.Prune(w.tick); pruned > 0 {
		w.log.Debugf("tick %d: %d thermal(s) expired", w.tick, pruned)
	}

	dt := w.params.TickDT
	w.flock.Advance(dt, w.thermals)

	snapshot := w.flock.Snapshot()
	capture := w.uav.Advance(dt, snapshot)
	if capture != nil {
		w.captures++
		msg := fmt.Sprintf("bird %d captured at (%.0f, %.0f, %.0f)",
			capture.BirdID, capture.Position.X, capture.Position.Y, capture.Position.Z)
		w.log.Infof("tick %d: %s", w.tick, msg)
		w.rec.RecordEvent(recorder.NewEvent(w.tick, recorder.EventCapture, capture.BirdID, msg))
		// A captured bird leaves the flock.
		_ = w.flock.RemoveBird(capture.BirdID)
	}

	if w.uav.Degraded() != w.lastDegraded {
		w.lastDegraded = w.uav.Degraded()
		if w.lastDegraded {
			w.rec.RecordEvent(recorder.NewEvent(w.tick, recorder.EventUAVDegraded, 0, "uav energy exhausted, degraded patrol"))
		} else {
			w.rec.RecordEvent(recorder.NewEvent(w.tick, recorder.EventUAVRecovered, 0, "uav energy recovered"))
		}
	}

	w.rec.RecordTick(w.buildReport(snapshot))
}

func (c *addBirdCommand) apply(w *World) {
	pos, err := w.resolveSpawn(c.position)
	if err == nil {
		var id int64
		id, err = w.flock.AddBird(pos)
		if err == nil {
			w.rec.RecordEvent(recorder.NewEvent(w.tick, recorder.EventBirdAdded, id,
				fmt.Sprintf("bird %d spawned at (%.0f, %.0f, %.0f)", id, pos.X, pos.Y, pos.Z)))
			return
		}
	}
	w.log.Warnf("tick %d: add bird rejected: %v", w.tick, err)
	w.rec.RecordEvent(recorder.NewEvent(w.tick, recorder.EventPlacementRejected, 0, err.Error()))
}

// resolveSpawn picks the spawn point for an add request. Explicit positions
// are used as-is; nil requests draw seeded random candidates until one
// clears the terrain.
func (w *World) resolveSpawn(position *Vector3) (Vector3, error) {
	if position != nil {
		return *position, nil
	}

	b := w.params.Bounds
	altMin, altMax := w.params.SpawnAltMin, w.params.SpawnAltMax
	if altMax <= altMin {
		altMax = altMin + 1
	}
	attempts := w.params.SpawnAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var last Vector3
	for i := 0; i < attempts; i++ {
		last = Vector3{
			X: b.Min.X + w.rng.Float64()*(b.Max.X-b.Min.X),
			Y: b.Min.Y + w.rng.Float64()*(b.Max.Y-b.Min.Y),
			Z: altMin + w.rng.Float64()*(altMax-altMin),
		}
		if w.terrain == nil || !w.terrain.IsObstacle(last, w.flock.params.BirdClearance) {
			return last, nil
		}
	}
	return Vector3{}, &PlacementError{Position: last, Reason: fmt.Sprintf("no clear spawn found in %d attempts", attempts)}
}

func (c *addThermalCommand) apply(w *World) {
	if c.radius <= 0 || c.strength <= 0 {
		msg := fmt.Sprintf("add thermal ignored: radius %.2f, strength %.2f", c.radius, c.strength)
		w.log.Warnf("tick %d: %s", w.tick, msg)
		w.rec.RecordEvent(recorder.NewEvent(w.tick, recorder.EventCommandIgnored, 0, msg))
		return
	}
	expires := uint64(0)
	if c.ttlTicks > 0 {
		expires = w.tick + c.ttlTicks
	}
	id := w.thermals.Add(c.center, c.radius, c.strength, expires)
	w.rec.RecordEvent(recorder.NewEvent(w.tick, recorder.EventThermalAdded, 0,
		fmt.Sprintf("thermal %d at (%.0f, %.0f) radius %.0f strength %.2f", id, c.center.X, c.center.Y, c.radius, c.strength)))
}

func (c *removeBirdCommand) apply(w *World) {
	if err := w.flock.RemoveBird(c.id); err != nil {
		// Bird already gone; removal is idempotent.
		w.log.Debugf("tick %d: remove bird %d: %v", w.tick, c.id, err)
		return
	}
	w.rec.RecordEvent(recorder.NewEvent(w.tick, recorder.EventBirdRemoved, c.id,
		fmt.Sprintf("bird %d removed", c.id)))
}

// buildReport converts the post-tick state into the recorder's view.
func (w *World) buildReport(snapshot []BirdSnapshot) recorder.TickReport {
	birds := make([]recorder.BirdStatus, 0, len(snapshot))
	for _, b := range snapshot {
		birds = append(birds, recorder.BirdStatus{
			ID:       b.ID,
			Position: toPoint(b.Position),
			Velocity: toPoint(b.Velocity),
			Energy:   b.Energy,
			State:    string(b.State),
		})
	}

	path := w.uav.PredictedPath()
	points := make([]recorder.Point, 0, len(path))
	for _, p := range path {
		points = append(points, toPoint(p))
	}

	return recorder.TickReport{
		Tick:    w.tick,
		SimTime: float64(w.tick) * w.params.TickDT,
		Birds:   birds,
		UAV: recorder.UAVStatus{
			Position: toPoint(w.uav.Position),
			Velocity: toPoint(w.uav.Velocity),
			Energy:   w.uav.Energy,
			Mode:     string(w.uav.Mode),
			Degraded: w.uav.Degraded(),
			TargetID: w.uav.TargetID(),
			Path:     points,
		},
		Thermals:      w.thermals.Count(),
		CapturesTotal: w.captures,
	}
}

func toPoint(v Vector3) recorder.Point {
	return recorder.Point{X: v.X, Y: v.Y, Z: v.Z}
}

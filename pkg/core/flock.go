package core

import (
	"sort"
)

// Terrain answers ground height and obstacle occupancy queries. The
// implementation lives outside the core; the flock uses it for spawn
// placement and the UAV for reactive avoidance.
type Terrain interface {
	HeightAt(x, y float64) float64
	IsObstacle(p Vector3, radius float64) bool
}

// FlockParams holds the flocking rule weights and radii, read once at
// initialization.
type FlockParams struct {
	PerceptionRadius   float64
	SeparationDistance float64

	SeparationWeight float64
	AlignmentWeight  float64
	CohesionWeight   float64
	WanderWeight     float64

	// SteerStrength scales the blended steering direction into a
	// per-tick velocity change.
	SteerStrength float64

	// Soft boundary handling: birds inside BoundsMargin of an edge get
	// pushed back with BoundsStrength per unit of penetration depth.
	BoundsMargin   float64
	BoundsStrength float64

	// BirdClearance is the collision radius used for spawn placement.
	BirdClearance float64
}

// DefaultFlockParams returns the stock tuning for the demo flock.
func DefaultFlockParams() FlockParams {
	return FlockParams{
		PerceptionRadius:   50.0,
		SeparationDistance: 25.0,
		SeparationWeight:   1.5,
		AlignmentWeight:    1.0,
		CohesionWeight:     1.0,
		WanderWeight:       0.4,
		SteerStrength:      1.0,
		BoundsMargin:       50.0,
		BoundsStrength:     0.1,
		BirdClearance:      1.0,
	}
}

// Flock owns the full bird set and advances it one tick at a time using
// separation, alignment and cohesion over each bird's neighborhood. All
// reads during a tick come from the pre-tick snapshot; results are
// committed only after every bird has been computed, so the outcome does
// not depend on update order.
type Flock struct {
	birds      map[int64]*Bird
	order      []int64
	nextID     int64
	seed       int64
	params     FlockParams
	birdParams BirdParams
	bounds     Bounds
	terrain    Terrain
}

// NewFlock creates an empty flock. The seed feeds each bird's private
// wander stream.
func NewFlock(params FlockParams, birdParams BirdParams, bounds Bounds, terrain Terrain, seed int64) *Flock {
	return &Flock{
		birds:      make(map[int64]*Bird),
		nextID:     1,
		seed:       seed,
		params:     params,
		birdParams: birdParams,
		bounds:     bounds,
		terrain:    terrain,
	}
}

// AddBird spawns a cruising bird at the position. It fails with a
// PlacementError when the position is outside the world bounds or collides
// with a static obstacle.
func (f *Flock) AddBird(position Vector3) (int64, error) {
	if !f.bounds.Contains(position) {
		return 0, &PlacementError{Position: position, Reason: "outside world bounds"}
	}
	if f.terrain != nil && f.terrain.IsObstacle(position, f.params.BirdClearance) {
		return 0, &PlacementError{Position: position, Reason: "obstructed"}
	}

	id := f.nextID
	f.nextID++
	b := newBird(id, position, f.birdParams, f.seed^(id*0x9E3779B9))
	f.birds[id] = b
	f.order = append(f.order, id)
	return id, nil
}

// RemoveBird deletes the bird with the given id. Removing an unknown id
// returns an InvalidReferenceError that callers treat as a no-op.
func (f *Flock) RemoveBird(id int64) error {
	if _, ok := f.birds[id]; !ok {
		return &InvalidReferenceError{ID: id}
	}
	delete(f.birds, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// Exists reports whether a bird with the id is alive.
func (f *Flock) Exists(id int64) bool {
	_, ok := f.birds[id]
	return ok
}

// Count returns the number of birds.
func (f *Flock) Count() int {
	return len(f.birds)
}

// Snapshot copies every bird's observable state, sorted by id. Neighbor
// sums always iterate this canonical ordering so results do not depend on
// insertion or update order.
func (f *Flock) Snapshot() []BirdSnapshot {
	snap := make([]BirdSnapshot, 0, len(f.birds))
	for _, b := range f.birds {
		snap = append(snap, b.Snapshot())
	}
	sort.Slice(snap, func(i, j int) bool { return snap[i].ID < snap[j].ID })
	return snap
}

// birdResult is the staged outcome of one bird's tick, applied at commit.
type birdResult struct {
	id       int64
	state    BirdState
	position Vector3
	velocity Vector3
	energy   float64
}

// Advance moves the whole flock forward one tick against the thermal
// field. State resolution, energy and kinematics for each bird read only
// the pre-tick snapshot plus the bird's own pre-tick fields.
func (f *Flock) Advance(dt float64, thermals *ThermalField) {
	ids := make([]int64, len(f.order))
	copy(ids, f.order)
	f.advanceOrdered(dt, thermals, ids)
}

// advanceOrdered runs the compute phase following the given id order, then
// commits every result. The order must contain each live bird exactly
// once; results are identical for any permutation.
func (f *Flock) advanceOrdered(dt float64, thermals *ThermalField, ids []int64) {
	snapshot := f.Snapshot()

	results := make([]birdResult, 0, len(ids))
	for _, id := range ids {
		b, ok := f.birds[id]
		if !ok {
			continue
		}
		results = append(results, f.computeBird(b, snapshot, thermals, dt))
	}

	for _, r := range results {
		b := f.birds[r.id]
		b.State = r.state
		b.Position = r.position
		b.Velocity = r.velocity
		b.Energy = r.energy
	}
}

// computeBird resolves one bird's next state, velocity, position and
// energy from the snapshot. The only mutation is the draw from the bird's
// private wander stream.
func (f *Flock) computeBird(b *Bird, snapshot []BirdSnapshot, thermals *ThermalField, dt float64) birdResult {
	strength, inThermal := thermals.Query(b.Position)
	soarable := inThermal && strength >= f.birdParams.SoarMinStrength

	state := nextBirdState(b.State, b.Energy, soarable, f.birdParams)

	if state == BirdStatePerched {
		pos := b.Position
		if b.State != BirdStatePerched && f.terrain != nil {
			// Land on entering the perched state.
			pos.Z = f.terrain.HeightAt(pos.X, pos.Y)
		}
		return birdResult{
			id:       b.ID,
			state:    state,
			position: pos,
			velocity: Vector3{},
			energy:   nextEnergy(b.Energy, state, 0, 0, dt, f.birdParams),
		}
	}

	steer := f.steering(b, snapshot)
	velocity := b.Velocity.
		Add(steer.Scale(f.params.SteerStrength * dt)).
		Add(f.boundsForce(b.Position).Scale(dt)).
		ClampMagnitude(f.birdParams.MaxSpeed(state))

	position := f.bounds.Clamp(b.Position.Add(velocity.Scale(dt)))
	if f.terrain != nil {
		if floor := f.terrain.HeightAt(position.X, position.Y); position.Z < floor {
			position.Z = floor
		}
	}

	soarGain := 0.0
	if state == BirdStateSoaring {
		soarGain = strength
	}

	return birdResult{
		id:       b.ID,
		state:    state,
		position: position,
		velocity: velocity,
		energy:   nextEnergy(b.Energy, state, velocity.Magnitude(), soarGain, dt, f.birdParams),
	}
}

// steering blends separation, alignment, cohesion and wander into a single
// steering direction. Rules contribute only when active and the sum is
// normalized by the active weight, so a bird with no neighbors steers by
// wander alone.
func (f *Flock) steering(b *Bird, snapshot []BirdSnapshot) Vector3 {
	var separation, avgVelocity, centroid Vector3
	neighbors := 0

	for _, other := range snapshot {
		if other.ID == b.ID {
			continue
		}
		dist := b.Position.DistanceTo(other.Position)
		if dist >= f.params.PerceptionRadius {
			continue
		}
		neighbors++

		if dist > 0 && dist < f.params.SeparationDistance {
			diff := b.Position.Subtract(other.Position)
			separation = separation.Add(diff.Normalize().Scale(f.params.SeparationDistance / dist))
		}
		avgVelocity = avgVelocity.Add(other.Velocity)
		centroid = centroid.Add(other.Position)
	}

	var total Vector3
	var totalWeight float64

	if neighbors > 0 {
		if !separation.IsZero() {
			total = total.Add(separation.Normalize().Scale(f.params.SeparationWeight))
			totalWeight += f.params.SeparationWeight
		}

		avgVelocity = avgVelocity.Scale(1.0 / float64(neighbors))
		alignment := avgVelocity.Subtract(b.Velocity)
		if !alignment.IsZero() {
			total = total.Add(alignment.Normalize().Scale(f.params.AlignmentWeight))
			totalWeight += f.params.AlignmentWeight
		}

		centroid = centroid.Scale(1.0 / float64(neighbors))
		cohesion := centroid.Subtract(b.Position)
		if !cohesion.IsZero() {
			total = total.Add(cohesion.Normalize().Scale(f.params.CohesionWeight))
			totalWeight += f.params.CohesionWeight
		}
	}

	if f.params.WanderWeight > 0 {
		total = total.Add(b.wander().Scale(f.params.WanderWeight))
		totalWeight += f.params.WanderWeight
	}

	if totalWeight == 0 {
		return Vector3{}
	}
	return total.Scale(1.0 / totalWeight)
}

// boundsForce pushes agents back toward the interior when they enter the
// soft margin near a world edge.
func (f *Flock) boundsForce(p Vector3) Vector3 {
	return boundsForce(p, f.bounds, f.params.BoundsMargin, f.params.BoundsStrength)
}

// boundsForce is shared with the UAV controller.
func boundsForce(p Vector3, b Bounds, margin, strength float64) Vector3 {
	if margin <= 0 {
		return Vector3{}
	}
	var force Vector3
	if d := p.X - b.Min.X; d < margin {
		force.X += (margin - d) / margin * strength
	}
	if d := b.Max.X - p.X; d < margin {
		force.X -= (margin - d) / margin * strength
	}
	if d := p.Y - b.Min.Y; d < margin {
		force.Y += (margin - d) / margin * strength
	}
	if d := b.Max.Y - p.Y; d < margin {
		force.Y -= (margin - d) / margin * strength
	}
	if d := p.Z - b.Min.Z; d < margin {
		force.Z += (margin - d) / margin * strength
	}
	if d := b.Max.Z - p.Z; d < margin {
		force.Z -= (margin - d) / margin * strength
	}
	return force
}

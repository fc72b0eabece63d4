package core

import (
	"math"
)

// UAVMode identifies the controller's operating mode.
type UAVMode string

const (
	UAVModePatrolling UAVMode = "PATROLLING" // Deterministic loiter, no target
	UAVModePursuing   UAVMode = "PURSUING"   // Closing on a selected bird
)

// UAVParams holds the pursuit controller's tuning, read once at
// initialization.
type UAVParams struct {
	MaxSpeed    float64
	MaxAccel    float64
	MaxTurnRate float64 // radians per unit time

	// Target selection
	SearchRadius     float64
	CaptureRadius    float64
	DistanceWeight   float64
	EnergyWeight     float64
	RetargetInterval uint64 // ticks between periodic re-evaluations

	// Intercept prediction
	MaxLeadTime float64

	// Patrol circuit
	PatrolCenter Vector3
	PatrolRadius float64
	PatrolSpeed  float64

	// Energy model
	EnergyMax           float64
	BaseDrain           float64
	AccelDrainCoeff     float64
	SpeedDrainCoeff     float64
	RegenRate           float64
	RecoveryThreshold   float64
	DegradedSpeedFactor float64

	// Reactive obstacle avoidance
	AvoidLookahead float64
	AvoidClearance float64
	AvoidStrength  float64

	// Soft world boundary, shared shape with the flock
	BoundsMargin   float64
	BoundsStrength float64
}

// DefaultUAVParams returns the stock pursuit tuning.
func DefaultUAVParams() UAVParams {
	return UAVParams{
		MaxSpeed:            8.0,
		MaxAccel:            2.5,
		MaxTurnRate:         0.35,
		SearchRadius:        150.0,
		CaptureRadius:       12.0,
		DistanceWeight:      1.0,
		EnergyWeight:        0.5,
		RetargetInterval:    15,
		MaxLeadTime:         40.0,
		PatrolCenter:        Vector3{X: 400, Y: 300, Z: 60},
		PatrolRadius:        100.0,
		PatrolSpeed:         4.0,
		EnergyMax:           100.0,
		BaseDrain:           0.05,
		AccelDrainCoeff:     0.02,
		SpeedDrainCoeff:     0.005,
		RegenRate:           0.15,
		RecoveryThreshold:   25.0,
		DegradedSpeedFactor: 0.5,
		AvoidLookahead:      60.0,
		AvoidClearance:      4.0,
		AvoidStrength:       25.0,
		BoundsMargin:        50.0,
		BoundsStrength:      0.1,
	}
}

// Capture records a successful intercept of a bird.
type Capture struct {
	BirdID   int64
	Position Vector3
}

// UAV is the single pursuit aircraft. It observes the flock through
// post-tick snapshots and holds its target as a weak id reference, never a
// pointer, since birds can be removed between ticks.
type UAV struct {
	Position Vector3
	Velocity Vector3
	Energy   float64
	Mode     UAVMode

	targetID *int64
	degraded bool

	patrolPhase   float64
	sinceRetarget uint64

	predictedPath []Vector3

	params  UAVParams
	bounds  Bounds
	terrain Terrain
}

// NewUAV creates a patrolling UAV at the given position with full energy.
func NewUAV(position Vector3, params UAVParams, bounds Bounds, terrain Terrain) *UAV {
	return &UAV{
		Position: position,
		Energy:   params.EnergyMax,
		Mode:     UAVModePatrolling,
		params:   params,
		bounds:   bounds,
		terrain:  terrain,
	}
}

// TargetID returns the pursued bird's id, or nil while patrolling.
func (u *UAV) TargetID() *int64 {
	return u.targetID
}

// Degraded reports whether the UAV is in the reduced-speed energy penalty.
func (u *UAV) Degraded() bool {
	return u.degraded
}

// PredictedPath returns the waypoints of the current steering plan for the
// reporting layer. The slice is rebuilt every tick.
func (u *UAV) PredictedPath() []Vector3 {
	return u.predictedPath
}

// Params returns the controller tuning.
func (u *UAV) Params() UAVParams {
	return u.params
}

// Advance runs one controller tick against the flock's post-tick snapshot:
// target upkeep and selection, intercept prediction, steering with turn and
// acceleration limits, reactive obstacle avoidance, the energy model, and
// the capture check. It mutates only UAV state and returns the capture made
// this tick, if any.
func (u *UAV) Advance(dt float64, birds []BirdSnapshot) *Capture {
	u.sinceRetarget++

	target := u.currentTarget(birds)
	if target == nil || u.sinceRetarget >= u.params.RetargetInterval {
		target = u.selectTarget(birds)
		u.sinceRetarget = 0
	}

	var steerTarget Vector3
	if target != nil && !u.degraded {
		u.Mode = UAVModePursuing
		id := target.ID
		u.targetID = &id
		steerTarget = u.interceptPoint(*target)
	} else {
		u.Mode = UAVModePatrolling
		u.targetID = nil
		steerTarget = u.patrolPoint(dt)
	}

	avoided := u.avoidObstacles(steerTarget)
	accel := u.steer(avoided)
	u.move(accel, dt)
	u.updateEnergy(accel, dt)

	u.predictedPath = u.buildPath(avoided, steerTarget)

	if u.Mode == UAVModePursuing && target != nil {
		if u.Position.DistanceTo(target.Position) < u.params.CaptureRadius {
			u.targetID = nil
			u.sinceRetarget = 0
			return &Capture{BirdID: target.ID, Position: target.Position}
		}
	}
	return nil
}

// currentTarget resolves the weak target reference against the snapshot.
// A missing or perched bird clears the reference.
func (u *UAV) currentTarget(birds []BirdSnapshot) *BirdSnapshot {
	if u.targetID == nil {
		return nil
	}
	for i := range birds {
		if birds[i].ID == *u.targetID {
			if birds[i].State == BirdStatePerched {
				break
			}
			return &birds[i]
		}
	}
	u.targetID = nil
	return nil
}

// selectTarget scores every eligible bird and returns the best, or nil
// when none qualifies. Closer and weaker birds score higher; ties go to
// the lowest id, so selection is deterministic for a given snapshot.
func (u *UAV) selectTarget(birds []BirdSnapshot) *BirdSnapshot {
	var best *BirdSnapshot
	bestScore := 0.0

	for i := range birds {
		b := &birds[i]
		if b.State == BirdStatePerched {
			continue
		}
		dist := u.Position.DistanceTo(b.Position)
		if u.params.SearchRadius > 0 && dist > u.params.SearchRadius {
			continue
		}

		score := u.params.DistanceWeight/(1.0+dist) + u.params.EnergyWeight/(1.0+b.Energy)
		if best == nil || score > bestScore || (score == bestScore && b.ID < best.ID) {
			best = b
			bestScore = score
		}
	}
	return best
}

// interceptPoint predicts where to meet the target, assuming it holds its
// current velocity. The time to intercept satisfies
//
//	|target.Position + target.Velocity*t - u.Position| = MaxSpeed * t
//
// which expands to a quadratic in t. The smallest positive root wins; a
// negative discriminant, no positive root, or a degenerate quadratic all
// fall back to the target's current position.
func (u *UAV) interceptPoint(target BirdSnapshot) Vector3 {
	rel := target.Position.Subtract(u.Position)
	speed := u.effectiveMaxSpeed()

	a := target.Velocity.MagnitudeSq() - speed*speed
	b := 2 * rel.Dot(target.Velocity)
	c := rel.MagnitudeSq()

	t, ok := smallestPositiveRoot(a, b, c)
	if !ok {
		return target.Position
	}
	if u.params.MaxLeadTime > 0 && t > u.params.MaxLeadTime {
		t = u.params.MaxLeadTime
	}
	return target.Position.Add(target.Velocity.Scale(t))
}

// smallestPositiveRoot solves a*t^2 + b*t + c = 0 for the smallest t > 0.
func smallestPositiveRoot(a, b, c float64) (float64, bool) {
	const eps = 1e-9

	if math.Abs(a) < eps {
		// Linear: b*t + c = 0.
		if math.Abs(b) < eps {
			return 0, false
		}
		t := -c / b
		if t > 0 {
			return t, true
		}
		return 0, false
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > 0 {
		return t1, true
	}
	if t2 > 0 {
		return t2, true
	}
	return 0, false
}

// patrolPoint advances the loiter circle phase and returns the point to
// chase. The circuit is a fixed circle around PatrolCenter traversed at
// PatrolSpeed, so the path is fully deterministic.
func (u *UAV) patrolPoint(dt float64) Vector3 {
	if u.params.PatrolRadius <= 0 {
		return u.params.PatrolCenter
	}
	omega := u.params.PatrolSpeed / u.params.PatrolRadius
	u.patrolPhase = math.Mod(u.patrolPhase+omega*dt, 2*math.Pi)
	return Vector3{
		X: u.params.PatrolCenter.X + u.params.PatrolRadius*math.Cos(u.patrolPhase),
		Y: u.params.PatrolCenter.Y + u.params.PatrolRadius*math.Sin(u.patrolPhase),
		Z: u.params.PatrolCenter.Z,
	}
}

// avoidObstacles deflects the steering target away from obstacles found by
// sampling the straight path within the lookahead distance. Each blocked
// sample contributes a repulsion along the local free-space direction,
// estimated by probing the six axis neighbors, inversely proportional to
// the sample's distance. Purely reactive; recomputed from scratch every
// tick.
func (u *UAV) avoidObstacles(steerTarget Vector3) Vector3 {
	if u.terrain == nil || u.params.AvoidLookahead <= 0 {
		return steerTarget
	}

	toTarget := steerTarget.Subtract(u.Position)
	span := toTarget.Magnitude()
	if span == 0 {
		return steerTarget
	}
	if span > u.params.AvoidLookahead {
		span = u.params.AvoidLookahead
	}
	dir := toTarget.Normalize()

	step := u.params.AvoidClearance
	if step <= 0 {
		step = 1.0
	}

	var repulsion Vector3
	for d := step; d <= span; d += step {
		sample := u.Position.Add(dir.Scale(d))
		if !u.terrain.IsObstacle(sample, u.params.AvoidClearance) {
			continue
		}
		away := u.freeSpaceNormal(sample, step)
		if away.IsZero() {
			// Fully enclosed sample, back off along the ray.
			away = dir.Scale(-1)
		}
		repulsion = repulsion.Add(away.Scale(u.params.AvoidStrength / d))
	}

	if repulsion.IsZero() {
		return steerTarget
	}

	// Push the aim point sideways rather than braking: keep the component
	// of the repulsion orthogonal to the flight direction, plus a climb
	// when the geometry offers no side to slip around.
	lateral := repulsion.Subtract(dir.Scale(repulsion.Dot(dir)))
	if lateral.IsZero() {
		lateral = Vector3{Z: u.params.AvoidStrength}
	}
	return steerTarget.Add(lateral)
}

// freeSpaceNormal estimates the direction out of an obstacle at a blocked
// point by probing the six axis neighbors and summing the clear ones.
func (u *UAV) freeSpaceNormal(blocked Vector3, step float64) Vector3 {
	offset := 3 * step
	probes := []Vector3{
		{X: offset}, {X: -offset},
		{Y: offset}, {Y: -offset},
		{Z: offset}, {Z: -offset},
	}

	var normal Vector3
	for _, p := range probes {
		if !u.terrain.IsObstacle(blocked.Add(p), u.params.AvoidClearance) {
			normal = normal.Add(p)
		}
	}
	return normal.Normalize()
}

// steer computes the bounded acceleration toward the aim point.
func (u *UAV) steer(aim Vector3) Vector3 {
	desired := aim.Subtract(u.Position).Normalize().Scale(u.effectiveMaxSpeed())
	accel := desired.Subtract(u.Velocity).ClampMagnitude(u.params.MaxAccel)
	accel = accel.Add(boundsForce(u.Position, u.bounds, u.params.BoundsMargin, u.params.BoundsStrength))
	return accel.ClampMagnitude(u.params.MaxAccel)
}

// move applies the acceleration under the speed cap and turn-rate limit,
// then advances and confines the position.
func (u *UAV) move(accel Vector3, dt float64) {
	candidate := u.Velocity.Add(accel.Scale(dt)).ClampMagnitude(u.effectiveMaxSpeed())

	if !u.Velocity.IsZero() && !candidate.IsZero() {
		limited := u.Velocity.RotateToward(candidate, u.params.MaxTurnRate*dt)
		u.Velocity = limited.Normalize().Scale(candidate.Magnitude())
	} else {
		u.Velocity = candidate
	}

	u.Position = u.bounds.Clamp(u.Position.Add(u.Velocity.Scale(dt)))
	if u.terrain != nil {
		floor := u.terrain.HeightAt(u.Position.X, u.Position.Y) + u.params.AvoidClearance
		if u.Position.Z < floor {
			u.Position.Z = floor
		}
	}
}

// effectiveMaxSpeed applies the degraded-flight penalty.
func (u *UAV) effectiveMaxSpeed() float64 {
	if u.degraded {
		return u.params.MaxSpeed * u.params.DegradedSpeedFactor
	}
	return u.params.MaxSpeed
}

// updateEnergy drains proportionally to acceleration and speed. Hitting
// zero forces degraded patrol until the baseline regen brings energy back
// over the recovery threshold.
func (u *UAV) updateEnergy(accel Vector3, dt float64) {
	drain := u.params.BaseDrain +
		u.params.AccelDrainCoeff*accel.Magnitude() +
		u.params.SpeedDrainCoeff*u.Velocity.Magnitude()
	u.Energy -= drain * dt

	if u.degraded {
		u.Energy += u.params.RegenRate * dt
		if u.Energy >= u.params.RecoveryThreshold {
			u.degraded = false
		}
	}

	if u.Energy <= 0 {
		u.Energy = 0
		if !u.degraded {
			u.degraded = true
			u.Mode = UAVModePatrolling
			u.targetID = nil
		}
	}
	if u.Energy > u.params.EnergyMax {
		u.Energy = u.params.EnergyMax
	}
}

// buildPath assembles the waypoint polyline handed to the reporting layer.
func (u *UAV) buildPath(avoided, raw Vector3) []Vector3 {
	path := make([]Vector3, 0, 3)
	path = append(path, u.Position, avoided)
	if avoided != raw {
		path = append(path, raw)
	}
	return path
}

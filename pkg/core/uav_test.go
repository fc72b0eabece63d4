package core

import (
	"math"
	"testing"
)

func uavBounds() Bounds {
	return Bounds{Max: Vec3(5000, 5000, 500)}
}

func cruiser(id int64, pos, vel Vector3, energy float64) BirdSnapshot {
	return BirdSnapshot{ID: id, Position: pos, Velocity: vel, Energy: energy, State: BirdStateCruising}
}

// ---------- Target selection ----------

func TestAdvance_SelectsCloseWeakTarget(t *testing.T) {
	u := NewUAV(Vec3(100, 100, 50), DefaultUAVParams(), uavBounds(), nil)

	birds := []BirdSnapshot{
		cruiser(2, Vec3(200, 100, 50), Vector3{}, 90), // far and fit
		cruiser(5, Vec3(140, 100, 50), Vector3{}, 10), // close and tired
	}
	u.Advance(1.0, birds)

	if u.Mode != UAVModePursuing {
		t.Fatalf("expected pursuit, mode=%s", u.Mode)
	}
	if id := u.TargetID(); id == nil || *id != 5 {
		t.Errorf("expected target 5, got %v", id)
	}
}

func TestAdvance_TieBreaksToLowestID(t *testing.T) {
	u := NewUAV(Vec3(100, 100, 50), DefaultUAVParams(), uavBounds(), nil)

	// Mirrored positions, identical energy: identical scores.
	birds := []BirdSnapshot{
		cruiser(9, Vec3(150, 100, 50), Vector3{}, 50),
		cruiser(3, Vec3(50, 100, 50), Vector3{}, 50),
	}
	u.Advance(1.0, birds)

	if id := u.TargetID(); id == nil || *id != 3 {
		t.Errorf("score tie should pick the lowest id, got %v", id)
	}
}

func TestAdvance_SkipsPerchedAndOutOfRange(t *testing.T) {
	u := NewUAV(Vec3(100, 100, 50), DefaultUAVParams(), uavBounds(), nil)

	perched := BirdSnapshot{ID: 1, Position: Vec3(110, 100, 0), Energy: 5, State: BirdStatePerched}
	far := cruiser(2, Vec3(400, 100, 50), Vector3{}, 50) // beyond the search radius

	u.Advance(1.0, []BirdSnapshot{perched, far})
	if u.Mode != UAVModePatrolling {
		t.Fatalf("no eligible bird should leave the controller patrolling, mode=%s", u.Mode)
	}
	if u.TargetID() != nil {
		t.Errorf("expected no target, got %v", *u.TargetID())
	}

	near := cruiser(7, Vec3(160, 100, 50), Vector3{}, 50)
	u.Advance(1.0, []BirdSnapshot{perched, far, near})
	if id := u.TargetID(); id == nil || *id != 7 {
		t.Errorf("expected the eligible bird 7, got %v", id)
	}
}

func TestAdvance_ClearsMissingOrPerchedTarget(t *testing.T) {
	u := NewUAV(Vec3(100, 100, 50), DefaultUAVParams(), uavBounds(), nil)

	u.Advance(1.0, []BirdSnapshot{cruiser(1, Vec3(180, 100, 50), Vector3{}, 50)})
	if id := u.TargetID(); id == nil || *id != 1 {
		t.Fatalf("setup failed, target %v", id)
	}

	// Target vanished from the snapshot; a new eligible bird takes over.
	u.Advance(1.0, []BirdSnapshot{cruiser(2, Vec3(100, 180, 50), Vector3{}, 50)})
	if id := u.TargetID(); id == nil || *id != 2 {
		t.Errorf("expected retarget to 2 after target vanished, got %v", id)
	}

	// Target perched mid-pursuit; it becomes ineligible.
	perched := BirdSnapshot{ID: 2, Position: Vec3(100, 180, 0), Energy: 0, State: BirdStatePerched}
	u.Advance(1.0, []BirdSnapshot{perched, cruiser(6, Vec3(100, 40, 50), Vector3{}, 50)})
	if id := u.TargetID(); id == nil || *id != 6 {
		t.Errorf("expected retarget to 6 after target perched, got %v", id)
	}
}

// ---------- Intercept prediction ----------

func TestInterceptPoint_LeadsCrossingTarget(t *testing.T) {
	u := NewUAV(Vector3{}, DefaultUAVParams(), uavBounds(), nil)
	u.params.MaxSpeed = 2

	target := cruiser(1, Vec3(10, 0, 0), Vec3(0, 1, 0), 50)
	got := u.interceptPoint(target)

	want := Vec3(10, 10/math.Sqrt(3), 0)
	if !vecNear(got, want, 1e-6) {
		t.Errorf("intercept point %+v, want %+v", got, want)
	}
	// The meeting point is reachable exactly at max speed.
	tMeet := got.Subtract(target.Position).Magnitude() / 1.0
	if math.Abs(got.Magnitude()-u.params.MaxSpeed*tMeet) > 1e-6 {
		t.Errorf("intercept not on the reachable cone: |p|=%f, s*t=%f", got.Magnitude(), u.params.MaxSpeed*tMeet)
	}
}

func TestInterceptPoint_HeadOnClosesAtMidpoint(t *testing.T) {
	u := NewUAV(Vector3{}, DefaultUAVParams(), uavBounds(), nil)
	u.params.MaxSpeed = 2

	target := cruiser(1, Vec3(10, 0, 0), Vec3(-2, 0, 0), 50)
	if got := u.interceptPoint(target); !vecNear(got, Vec3(5, 0, 0), 1e-9) {
		t.Errorf("head-on intercept %+v, want (5,0,0)", got)
	}
}

func TestInterceptPoint_FallsBackWhenUncatchable(t *testing.T) {
	u := NewUAV(Vector3{}, DefaultUAVParams(), uavBounds(), nil)
	u.params.MaxSpeed = 2

	// Faster target fleeing straight away: no positive root.
	fleeing := cruiser(1, Vec3(10, 0, 0), Vec3(5, 0, 0), 50)
	if got := u.interceptPoint(fleeing); got != fleeing.Position {
		t.Errorf("uncatchable target should fall back to its position, got %+v", got)
	}

	// Equal speed straight away: degenerate quadratic, still uncatchable.
	matched := cruiser(1, Vec3(10, 0, 0), Vec3(2, 0, 0), 50)
	if got := u.interceptPoint(matched); got != matched.Position {
		t.Errorf("matched-speed fallback failed, got %+v", got)
	}
}

func TestInterceptPoint_LeadTimeCapped(t *testing.T) {
	u := NewUAV(Vector3{}, DefaultUAVParams(), uavBounds(), nil)
	u.params.MaxSpeed = 2
	u.params.MaxLeadTime = 1

	target := cruiser(1, Vec3(10, 0, 0), Vec3(-2, 0, 0), 50)
	if got := u.interceptPoint(target); !vecNear(got, Vec3(8, 0, 0), 1e-9) {
		t.Errorf("lead time cap ignored, got %+v", got)
	}
}

func TestSmallestPositiveRoot(t *testing.T) {
	cases := []struct {
		name    string
		a, b, c float64
		want    float64
		ok      bool
	}{
		{"two positive roots picks smaller", 1, -5, 6, 2, true},
		{"one positive root", 1, -1, -6, 3, true},
		{"no real roots", 1, 0, 1, 0, false},
		{"negative roots only", 1, 5, 6, 0, false},
		{"linear positive", 0, -2, 6, 3, true},
		{"linear negative", 0, 2, 6, 0, false},
		{"fully degenerate", 0, 0, 5, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := smallestPositiveRoot(tc.a, tc.b, tc.c)
			if ok != tc.ok {
				t.Fatalf("ok=%v, want %v", ok, tc.ok)
			}
			if ok && math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("root=%f, want %f", got, tc.want)
			}
		})
	}
}

// ---------- Pursuit ----------

func TestAdvance_ClosesOnSlowerTarget(t *testing.T) {
	u := NewUAV(Vec3(100, 100, 50), DefaultUAVParams(), uavBounds(), nil)

	target := cruiser(7, Vec3(180, 100, 50), Vec3(2, 0, 0), 60)
	for tick := 0; tick < 300; tick++ {
		target.Position = target.Position.Add(target.Velocity)
		if captured := u.Advance(1.0, []BirdSnapshot{target}); captured != nil {
			if captured.BirdID != 7 {
				t.Errorf("captured wrong bird %d", captured.BirdID)
			}
			if u.TargetID() != nil {
				t.Error("capture should clear the target")
			}
			return
		}
	}
	t.Fatal("faster pursuer never captured a slower straight-line target")
}

// ---------- Patrol ----------

func TestAdvance_PatrolIsDeterministic(t *testing.T) {
	bounds := Bounds{Max: Vec3(800, 600, 120)}
	a := NewUAV(DefaultUAVParams().PatrolCenter, DefaultUAVParams(), bounds, nil)
	b := NewUAV(DefaultUAVParams().PatrolCenter, DefaultUAVParams(), bounds, nil)

	for tick := 0; tick < 200; tick++ {
		a.Advance(1.0, nil)
		b.Advance(1.0, nil)
		if a.Mode != UAVModePatrolling {
			t.Fatalf("tick %d: patrol with no birds, mode=%s", tick, a.Mode)
		}
		if a.Position != b.Position || a.Velocity != b.Velocity || a.Energy != b.Energy {
			t.Fatalf("tick %d: identical controllers diverged: %+v vs %+v", tick, a.Position, b.Position)
		}
	}
}

func TestAdvance_PatrolTracksCircuit(t *testing.T) {
	params := DefaultUAVParams()
	bounds := Bounds{Max: Vec3(800, 600, 120)}
	u := NewUAV(params.PatrolCenter, params, bounds, nil)

	for tick := 0; tick < 150; tick++ {
		u.Advance(1.0, nil)
	}
	// Settled on the loiter circle: stays near the patrol radius.
	for tick := 0; tick < 50; tick++ {
		u.Advance(1.0, nil)
		dist := u.Position.Subtract(params.PatrolCenter).Horizontal().Magnitude()
		if dist < params.PatrolRadius-50 || dist > params.PatrolRadius+50 {
			t.Fatalf("tick %d: drifted off the loiter circle, distance %f", tick, dist)
		}
	}
}

// ---------- Energy ----------

func TestAdvance_ExhaustionForcesDegradedPatrol(t *testing.T) {
	params := DefaultUAVParams()
	params.SearchRadius = 0 // unlimited, the patrol loiter drifts far from the bird
	u := NewUAV(Vec3(100, 100, 50), params, uavBounds(), nil)
	u.Energy = 0.05

	birds := []BirdSnapshot{cruiser(1, Vec3(200, 100, 50), Vector3{}, 50)}

	exhausted := false
	for tick := 0; tick < 10; tick++ {
		u.Advance(1.0, birds)
		if u.Degraded() {
			exhausted = true
			break
		}
	}
	if !exhausted {
		t.Fatal("energy never hit zero")
	}
	if u.Mode != UAVModePatrolling || u.TargetID() != nil {
		t.Fatalf("degraded flight must drop pursuit: mode=%s target=%v", u.Mode, u.TargetID())
	}

	reducedCap := u.params.MaxSpeed*u.params.DegradedSpeedFactor + 1e-9
	recovered := false
	for tick := 0; tick < 2000; tick++ {
		u.Advance(1.0, birds)
		if u.Degraded() {
			if u.Mode != UAVModePatrolling {
				t.Fatalf("tick %d: pursued while degraded", tick)
			}
			if speed := u.Velocity.Magnitude(); speed > reducedCap {
				t.Fatalf("tick %d: degraded speed %f above cap %f", tick, speed, reducedCap)
			}
			continue
		}
		recovered = true
		break
	}
	if !recovered {
		t.Fatal("never recovered from degraded flight")
	}
	if u.Energy < u.params.RecoveryThreshold-1e-9 {
		t.Errorf("recovered below threshold: %f", u.Energy)
	}

	// Back to full capability: the nearby bird is fair game again.
	u.Advance(1.0, birds)
	if u.Mode != UAVModePursuing {
		t.Errorf("expected pursuit after recovery, mode=%s", u.Mode)
	}
}

// ---------- Obstacle avoidance ----------

func TestAvoidObstacles_SlipsAroundOffsetBlock(t *testing.T) {
	// Block offset to +Y of the flight line: the clear side is -Y.
	terrain := blockTerrain{min: Vec3(40, -2, 0), max: Vec3(60, 20, 100)}
	u := NewUAV(Vec3(0, 0, 50), DefaultUAVParams(), uavBounds(), terrain)

	aim := Vec3(100, 0, 50)
	avoided := u.avoidObstacles(aim)

	if avoided == aim {
		t.Fatal("blocked path produced no deflection")
	}
	if avoided.Y >= aim.Y {
		t.Errorf("expected deflection toward the clear -Y side, got %+v", avoided)
	}
}

func TestAvoidObstacles_ClimbsOverSymmetricWall(t *testing.T) {
	// Wide wall centered on the flight line: no side preference, climb.
	terrain := blockTerrain{min: Vec3(40, -200, 0), max: Vec3(60, 200, 100)}
	u := NewUAV(Vec3(0, 0, 50), DefaultUAVParams(), uavBounds(), terrain)

	aim := Vec3(100, 0, 50)
	avoided := u.avoidObstacles(aim)

	if avoided.Z <= aim.Z {
		t.Errorf("expected a climb over the wall, got %+v", avoided)
	}
}

func TestAvoidObstacles_ClearPathUntouched(t *testing.T) {
	terrain := blockTerrain{min: Vec3(40, 300, 0), max: Vec3(60, 400, 100)}
	u := NewUAV(Vec3(0, 0, 50), DefaultUAVParams(), uavBounds(), terrain)

	aim := Vec3(100, 0, 50)
	if avoided := u.avoidObstacles(aim); avoided != aim {
		t.Errorf("clear path should pass through unchanged, got %+v", avoided)
	}
}

// ---------- Capture ----------

func TestAdvance_CaptureWithinRadius(t *testing.T) {
	params := DefaultUAVParams()
	u := NewUAV(Vec3(100, 100, 50), params, uavBounds(), nil)

	// Well inside the capture radius after one tick of closing.
	bird := cruiser(4, Vec3(106, 100, 50), Vector3{}, 50)
	captured := u.Advance(1.0, []BirdSnapshot{bird})
	if captured == nil {
		t.Fatal("expected an immediate capture")
	}
	if captured.BirdID != 4 {
		t.Errorf("captured %d, want 4", captured.BirdID)
	}
	if captured.Position != bird.Position {
		t.Errorf("capture recorded at %+v, want bird position %+v", captured.Position, bird.Position)
	}
	if u.TargetID() != nil {
		t.Error("capture must clear the target reference")
	}
}

package core

import (
	"math/rand"
)

// BirdState identifies a bird's flight mode. Exactly one is active per bird.
type BirdState string

const (
	BirdStateCruising BirdState = "CRUISING" // Powered level flight
	BirdStateSoaring  BirdState = "SOARING"  // Riding a thermal, gaining energy
	BirdStateGliding  BirdState = "GLIDING"  // Unpowered descent, low drain
	BirdStatePerched  BirdState = "PERCHED"  // Grounded, regenerating
)

// BirdParams holds the per-bird behavioral constants, read once at
// initialization.
type BirdParams struct {
	EnergyMax       float64
	SpawnEnergyFrac float64

	// Per-unit-time energy rates
	CruiseCost float64
	GlideCost  float64
	PerchRegen float64

	// State transition thresholds
	RecoveryThreshold  float64
	LowEnergyThreshold float64
	SoarMinStrength    float64

	// State-dependent speed caps
	MaxCruiseSpeed float64
	MaxSoarSpeed   float64
	MaxGlideSpeed  float64
}

// DefaultBirdParams returns the stock tuning for the demo flock.
func DefaultBirdParams() BirdParams {
	return BirdParams{
		EnergyMax:          100.0,
		SpawnEnergyFrac:    1.0,
		CruiseCost:         0.1,
		GlideCost:          0.03,
		PerchRegen:         0.3,
		RecoveryThreshold:  30.0,
		LowEnergyThreshold: 20.0,
		SoarMinStrength:    0.1,
		MaxCruiseSpeed:     4.0,
		MaxSoarSpeed:       2.5,
		MaxGlideSpeed:      3.0,
	}
}

// MaxSpeed returns the speed cap for a state. Perched birds do not move.
func (p BirdParams) MaxSpeed(state BirdState) float64 {
	switch state {
	case BirdStateSoaring:
		return p.MaxSoarSpeed
	case BirdStateGliding:
		return p.MaxGlideSpeed
	case BirdStatePerched:
		return 0
	default:
		return p.MaxCruiseSpeed
	}
}

// Bird is a single flock agent. Birds are owned exclusively by the Flock;
// external callers hold only ids.
type Bird struct {
	ID       int64
	Position Vector3
	Velocity Vector3
	Energy   float64
	State    BirdState

	// Private wander stream. Seeding per bird keeps a tick's outcome
	// independent of the order birds are updated in.
	rng *rand.Rand
}

func newBird(id int64, position Vector3, p BirdParams, seed int64) *Bird {
	return &Bird{
		ID:       id,
		Position: position,
		State:    BirdStateCruising,
		Energy:   p.EnergyMax * p.SpawnEnergyFrac,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Heading is the unit direction of travel, zero while perched.
func (b *Bird) Heading() Vector3 {
	return b.Velocity.Normalize()
}

// wander returns a small random steering impulse from the bird's own
// stream, mostly horizontal.
func (b *Bird) wander() Vector3 {
	v := Vector3{
		X: b.rng.Float64()*2 - 1,
		Y: b.rng.Float64()*2 - 1,
		Z: (b.rng.Float64()*2 - 1) * 0.3,
	}
	return v.Normalize()
}

// nextBirdState resolves the transition table for one tick. Conditions are
// checked in priority order and the first match wins, so every
// (state, condition) pair has exactly one outcome:
//
//  1. Out of energy forces PERCHED from any state.
//  2. A perched bird that has regenerated past the recovery threshold
//     resumes CRUISING, otherwise stays PERCHED.
//  3. Any airborne bird inside a sufficiently strong thermal is SOARING.
//  4. A soaring bird that left its thermal falls back to GLIDING.
//  5. A gliding bird below the low-energy threshold keeps gliding to
//     conserve energy.
//  6. Everything else cruises.
func nextBirdState(current BirdState, energy float64, soarable bool, p BirdParams) BirdState {
	switch {
	case energy <= 0:
		return BirdStatePerched
	case current == BirdStatePerched:
		if energy >= p.RecoveryThreshold {
			return BirdStateCruising
		}
		return BirdStatePerched
	case soarable:
		return BirdStateSoaring
	case current == BirdStateSoaring:
		return BirdStateGliding
	case current == BirdStateGliding && energy < p.LowEnergyThreshold:
		return BirdStateGliding
	default:
		return BirdStateCruising
	}
}

// nextEnergy advances an energy value one tick for the resolved state,
// clamped to [0, EnergyMax]. Cruise drain scales with how hard the bird is
// flying relative to its cruise cap, so drain never exceeds CruiseCost per
// unit time.
func nextEnergy(energy float64, state BirdState, speed, soarStrength, dt float64, p BirdParams) float64 {
	switch state {
	case BirdStateCruising:
		factor := 1.0
		if p.MaxCruiseSpeed > 0 {
			factor = speed / p.MaxCruiseSpeed
			if factor > 1 {
				factor = 1
			}
		}
		energy -= p.CruiseCost * factor * dt
	case BirdStateSoaring:
		energy += soarStrength * dt
	case BirdStateGliding:
		energy -= p.GlideCost * dt
	case BirdStatePerched:
		energy += p.PerchRegen * dt
	}

	if energy < 0 {
		return 0
	}
	if energy > p.EnergyMax {
		return p.EnergyMax
	}
	return energy
}

// BirdSnapshot is an immutable copy of a bird's observable state, taken
// before a tick mutates anything.
type BirdSnapshot struct {
	ID       int64
	Position Vector3
	Velocity Vector3
	Energy   float64
	State    BirdState
}

// Snapshot copies the bird's observable fields.
func (b *Bird) Snapshot() BirdSnapshot {
	return BirdSnapshot{
		ID:       b.ID,
		Position: b.Position,
		Velocity: b.Velocity,
		Energy:   b.Energy,
		State:    b.State,
	}
}

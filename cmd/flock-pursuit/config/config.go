// Package config defines the YAML configuration surface for the flock
// pursuit simulation and the mapping onto the core tuning structs.
package config

import (
	"fmt"
	"time"

	"github.com/Bra-moth/UAV-Path-Planning/pkg/core"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/terrain"
)

// Config is the root configuration for a flock pursuit run
type Config struct {
	Simulation SimulationSettings `yaml:"simulation"`
	World      WorldSettings      `yaml:"world"`
	Flock      FlockSettings      `yaml:"flock"`
	Bird       BirdSettings       `yaml:"bird"`
	UAV        UAVSettings        `yaml:"uav"`
	Terrain    TerrainSettings    `yaml:"terrain"`
	Thermals   ThermalSettings    `yaml:"thermals"`
	Reporting  ReportingSettings  `yaml:"reporting"`
}

// SimulationSettings contains run-level parameters
type SimulationSettings struct {
	Name           string        `yaml:"name"`
	Description    string        `yaml:"description"`
	DurationTicks  uint64        `yaml:"duration_ticks"`
	UpdateInterval time.Duration `yaml:"update_interval"`
	Seed           int64         `yaml:"seed"`
}

// Vec3 is a YAML-friendly point
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3) vector() core.Vector3 {
	return core.Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

func fromVector(v core.Vector3) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// WorldSettings sizes the world box and the fixed-step clock
type WorldSettings struct {
	BoundsMin     Vec3    `yaml:"bounds_min"`
	BoundsMax     Vec3    `yaml:"bounds_max"`
	TickDT        float64 `yaml:"tick_dt"`
	SpawnAttempts int     `yaml:"spawn_attempts"`
	SpawnAltMin   float64 `yaml:"spawn_altitude_min"`
	SpawnAltMax   float64 `yaml:"spawn_altitude_max"`
}

// FlockSettings contains the steering tuning shared by every bird
type FlockSettings struct {
	InitialBirds       int     `yaml:"initial_birds"`
	PerceptionRadius   float64 `yaml:"perception_radius"`
	SeparationDistance float64 `yaml:"separation_distance"`
	SeparationWeight   float64 `yaml:"separation_weight"`
	AlignmentWeight    float64 `yaml:"alignment_weight"`
	CohesionWeight     float64 `yaml:"cohesion_weight"`
	WanderWeight       float64 `yaml:"wander_weight"`
	SteerStrength      float64 `yaml:"steer_strength"`
	BoundsMargin       float64 `yaml:"bounds_margin"`
	BoundsStrength     float64 `yaml:"bounds_strength"`
	BirdClearance      float64 `yaml:"bird_clearance"`
}

// BirdSettings contains the per-bird energy model and speed caps
type BirdSettings struct {
	EnergyMax          float64 `yaml:"energy_max"`
	SpawnEnergyFrac    float64 `yaml:"spawn_energy_fraction"`
	CruiseCost         float64 `yaml:"cruise_cost"`
	GlideCost          float64 `yaml:"glide_cost"`
	PerchRegen         float64 `yaml:"perch_regen"`
	RecoveryThreshold  float64 `yaml:"recovery_threshold"`
	LowEnergyThreshold float64 `yaml:"low_energy_threshold"`
	SoarMinStrength    float64 `yaml:"soar_min_strength"`
	MaxCruiseSpeed     float64 `yaml:"max_cruise_speed"`
	MaxSoarSpeed       float64 `yaml:"max_soar_speed"`
	MaxGlideSpeed      float64 `yaml:"max_glide_speed"`
}

// UAVSettings contains the pursuit aircraft tuning
type UAVSettings struct {
	MaxSpeed         float64 `yaml:"max_speed"`
	MaxAccel         float64 `yaml:"max_accel"`
	MaxTurnRate      float64 `yaml:"max_turn_rate"`
	SearchRadius     float64 `yaml:"search_radius"`
	CaptureRadius    float64 `yaml:"capture_radius"`
	DistanceWeight   float64 `yaml:"distance_weight"`
	EnergyWeight     float64 `yaml:"energy_weight"`
	RetargetInterval uint64  `yaml:"retarget_interval"`
	MaxLeadTime      float64 `yaml:"max_lead_time"`

	Patrol    PatrolSettings    `yaml:"patrol"`
	Energy    UAVEnergySettings `yaml:"energy"`
	Avoidance AvoidanceSettings `yaml:"avoidance"`

	BoundsMargin   float64 `yaml:"bounds_margin"`
	BoundsStrength float64 `yaml:"bounds_strength"`
}

// PatrolSettings describes the loiter circuit flown with no target
type PatrolSettings struct {
	Center Vec3    `yaml:"center"`
	Radius float64 `yaml:"radius"`
	Speed  float64 `yaml:"speed"`
}

// UAVEnergySettings describes the battery drain and recovery model
type UAVEnergySettings struct {
	Max                 float64 `yaml:"max"`
	BaseDrain           float64 `yaml:"base_drain"`
	AccelDrainCoeff     float64 `yaml:"accel_drain_coeff"`
	SpeedDrainCoeff     float64 `yaml:"speed_drain_coeff"`
	RegenRate           float64 `yaml:"regen_rate"`
	RecoveryThreshold   float64 `yaml:"recovery_threshold"`
	DegradedSpeedFactor float64 `yaml:"degraded_speed_factor"`
}

// AvoidanceSettings describes reactive obstacle avoidance
type AvoidanceSettings struct {
	Lookahead float64 `yaml:"lookahead"`
	Clearance float64 `yaml:"clearance"`
	Strength  float64 `yaml:"strength"`
}

// TerrainSettings picks the ground model. Kind is "flat" or "noise".
type TerrainSettings struct {
	Kind       string  `yaml:"kind"`
	FlatHeight float64 `yaml:"flat_height"`

	BaseHeight      float64 `yaml:"base_height"`
	HillAmplitude   float64 `yaml:"hill_amplitude"`
	HillScale       float64 `yaml:"hill_scale"`
	DetailAmplitude float64 `yaml:"detail_amplitude"`
	DetailScale     float64 `yaml:"detail_scale"`
	RoughAmplitude  float64 `yaml:"rough_amplitude"`
	RoughScale      float64 `yaml:"rough_scale"`

	Trees TreeSettings `yaml:"trees"`
}

// TreeSettings sizes the obstacle field planted on noise terrain
type TreeSettings struct {
	Count     int     `yaml:"count"`
	RadiusMin float64 `yaml:"radius_min"`
	RadiusMax float64 `yaml:"radius_max"`
	HeightMin float64 `yaml:"height_min"`
	HeightMax float64 `yaml:"height_max"`
}

// ThermalSpec schedules one updraft column
type ThermalSpec struct {
	AtTick   uint64  `yaml:"at_tick"`
	Center   Vec3    `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
	TTLTicks uint64  `yaml:"ttl_ticks"`
}

// ThermalSettings seeds the thermal field with scripted columns and an
// optional random generator that keeps new columns appearing over the run.
type ThermalSettings struct {
	Scripted []ThermalSpec `yaml:"scripted"`

	RandomEvery uint64  `yaml:"random_every_ticks"`
	RadiusMin   float64 `yaml:"radius_min"`
	RadiusMax   float64 `yaml:"radius_max"`
	StrengthMin float64 `yaml:"strength_min"`
	StrengthMax float64 `yaml:"strength_max"`
	TTLMin      uint64  `yaml:"ttl_min_ticks"`
	TTLMax      uint64  `yaml:"ttl_max_ticks"`
}

// ReportingSettings controls console output and CSV capture
type ReportingSettings struct {
	ConsoleLevel  string `yaml:"console_level"`
	ProgressEvery uint64 `yaml:"progress_every"`
	EnableCSV     bool   `yaml:"enable_csv"`
	OutputDir     string `yaml:"output_dir"`
	PerBirdCSV    bool   `yaml:"per_bird_csv"`
	Summary       bool   `yaml:"summary"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Simulation.Name == "" {
		return fmt.Errorf("simulation name is required")
	}

	if c.Simulation.DurationTicks == 0 {
		return fmt.Errorf("duration must be at least one tick")
	}

	if c.Simulation.UpdateInterval < 0 {
		return fmt.Errorf("update interval must not be negative")
	}

	if c.World.TickDT <= 0 {
		return fmt.Errorf("tick dt must be positive")
	}

	if c.World.BoundsMin.X >= c.World.BoundsMax.X ||
		c.World.BoundsMin.Y >= c.World.BoundsMax.Y ||
		c.World.BoundsMin.Z >= c.World.BoundsMax.Z {
		return fmt.Errorf("world bounds min must be less than max on every axis")
	}

	if c.World.SpawnAttempts <= 0 {
		return fmt.Errorf("spawn attempts must be positive")
	}

	if c.World.SpawnAltMin >= c.World.SpawnAltMax {
		return fmt.Errorf("spawn altitude min must be less than max")
	}

	if c.Flock.InitialBirds < 0 {
		return fmt.Errorf("initial bird count must not be negative")
	}

	if c.Flock.PerceptionRadius <= 0 {
		return fmt.Errorf("perception radius must be positive")
	}

	if c.Flock.SeparationDistance <= 0 {
		return fmt.Errorf("separation distance must be positive")
	}

	if c.Flock.SeparationDistance > c.Flock.PerceptionRadius {
		return fmt.Errorf("separation distance must not exceed the perception radius")
	}

	// Validate steering weights sum to something usable
	weightSum := c.Flock.SeparationWeight + c.Flock.AlignmentWeight +
		c.Flock.CohesionWeight + c.Flock.WanderWeight
	if weightSum <= 0 {
		return fmt.Errorf("steering weights must sum to a positive value")
	}

	if c.Bird.EnergyMax <= 0 {
		return fmt.Errorf("bird energy max must be positive")
	}

	if c.Bird.SpawnEnergyFrac < 0 || c.Bird.SpawnEnergyFrac > 1 {
		return fmt.Errorf("spawn energy fraction must be between 0.0 and 1.0")
	}

	if c.Bird.LowEnergyThreshold >= c.Bird.RecoveryThreshold {
		return fmt.Errorf("low energy threshold must be below the recovery threshold")
	}

	if c.Bird.RecoveryThreshold > c.Bird.EnergyMax {
		return fmt.Errorf("recovery threshold must not exceed energy max")
	}

	if c.Bird.MaxCruiseSpeed <= 0 || c.Bird.MaxSoarSpeed <= 0 || c.Bird.MaxGlideSpeed <= 0 {
		return fmt.Errorf("bird speed caps must be positive")
	}

	if c.UAV.MaxSpeed <= 0 {
		return fmt.Errorf("uav max speed must be positive")
	}

	if c.UAV.MaxAccel <= 0 {
		return fmt.Errorf("uav max acceleration must be positive")
	}

	if c.UAV.MaxTurnRate <= 0 {
		return fmt.Errorf("uav max turn rate must be positive")
	}

	if c.UAV.SearchRadius < 0 {
		return fmt.Errorf("uav search radius must not be negative")
	}

	if c.UAV.CaptureRadius <= 0 {
		return fmt.Errorf("uav capture radius must be positive")
	}

	if c.UAV.SearchRadius > 0 && c.UAV.CaptureRadius >= c.UAV.SearchRadius {
		return fmt.Errorf("uav capture radius must be less than the search radius")
	}

	if c.UAV.DistanceWeight+c.UAV.EnergyWeight <= 0 {
		return fmt.Errorf("uav scoring weights must sum to a positive value")
	}

	if c.UAV.MaxLeadTime <= 0 {
		return fmt.Errorf("uav max lead time must be positive")
	}

	if c.UAV.Patrol.Radius <= 0 {
		return fmt.Errorf("patrol radius must be positive")
	}

	if c.UAV.Patrol.Speed <= 0 || c.UAV.Patrol.Speed > c.UAV.MaxSpeed {
		return fmt.Errorf("patrol speed must be positive and within the uav max speed")
	}

	if c.UAV.Energy.Max <= 0 {
		return fmt.Errorf("uav energy max must be positive")
	}

	if c.UAV.Energy.RecoveryThreshold <= 0 || c.UAV.Energy.RecoveryThreshold > c.UAV.Energy.Max {
		return fmt.Errorf("uav recovery threshold must be between zero and energy max")
	}

	if c.UAV.Energy.DegradedSpeedFactor <= 0 || c.UAV.Energy.DegradedSpeedFactor > 1 {
		return fmt.Errorf("degraded speed factor must be between 0.0 and 1.0")
	}

	if c.Terrain.Kind != "flat" && c.Terrain.Kind != "noise" {
		return fmt.Errorf("terrain kind must be one of: flat, noise")
	}

	if c.Terrain.Trees.Count < 0 {
		return fmt.Errorf("tree count must not be negative")
	}

	if c.Terrain.Trees.Count > 0 {
		if c.Terrain.Trees.RadiusMin > c.Terrain.Trees.RadiusMax {
			return fmt.Errorf("tree radius min must not exceed max")
		}
		if c.Terrain.Trees.HeightMin > c.Terrain.Trees.HeightMax {
			return fmt.Errorf("tree height min must not exceed max")
		}
	}

	for i, spec := range c.Thermals.Scripted {
		if spec.Radius <= 0 {
			return fmt.Errorf("scripted thermal %d: radius must be positive", i)
		}
		if spec.Strength <= 0 {
			return fmt.Errorf("scripted thermal %d: strength must be positive", i)
		}
	}

	if c.Thermals.RandomEvery > 0 {
		if c.Thermals.RadiusMin <= 0 || c.Thermals.RadiusMin > c.Thermals.RadiusMax {
			return fmt.Errorf("random thermal radius range is invalid")
		}
		if c.Thermals.StrengthMin <= 0 || c.Thermals.StrengthMin > c.Thermals.StrengthMax {
			return fmt.Errorf("random thermal strength range is invalid")
		}
		if c.Thermals.TTLMin > c.Thermals.TTLMax {
			return fmt.Errorf("random thermal ttl min must not exceed max")
		}
	}

	switch c.Reporting.ConsoleLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("console level must be one of: debug, info, warn, error")
	}

	if c.Reporting.EnableCSV && c.Reporting.OutputDir == "" {
		return fmt.Errorf("output directory is required when csv capture is enabled")
	}

	return nil
}

// WorldConfig maps the configuration onto the core tuning structs.
func (c *Config) WorldConfig() core.WorldConfig {
	return core.WorldConfig{
		World: core.WorldParams{
			Bounds: core.Bounds{
				Min: c.World.BoundsMin.vector(),
				Max: c.World.BoundsMax.vector(),
			},
			TickDT:        c.World.TickDT,
			Seed:          c.Simulation.Seed,
			SpawnAttempts: c.World.SpawnAttempts,
			SpawnAltMin:   c.World.SpawnAltMin,
			SpawnAltMax:   c.World.SpawnAltMax,
		},
		Flock: core.FlockParams{
			PerceptionRadius:   c.Flock.PerceptionRadius,
			SeparationDistance: c.Flock.SeparationDistance,
			SeparationWeight:   c.Flock.SeparationWeight,
			AlignmentWeight:    c.Flock.AlignmentWeight,
			CohesionWeight:     c.Flock.CohesionWeight,
			WanderWeight:       c.Flock.WanderWeight,
			SteerStrength:      c.Flock.SteerStrength,
			BoundsMargin:       c.Flock.BoundsMargin,
			BoundsStrength:     c.Flock.BoundsStrength,
			BirdClearance:      c.Flock.BirdClearance,
		},
		Bird: core.BirdParams{
			EnergyMax:          c.Bird.EnergyMax,
			SpawnEnergyFrac:    c.Bird.SpawnEnergyFrac,
			CruiseCost:         c.Bird.CruiseCost,
			GlideCost:          c.Bird.GlideCost,
			PerchRegen:         c.Bird.PerchRegen,
			RecoveryThreshold:  c.Bird.RecoveryThreshold,
			LowEnergyThreshold: c.Bird.LowEnergyThreshold,
			SoarMinStrength:    c.Bird.SoarMinStrength,
			MaxCruiseSpeed:     c.Bird.MaxCruiseSpeed,
			MaxSoarSpeed:       c.Bird.MaxSoarSpeed,
			MaxGlideSpeed:      c.Bird.MaxGlideSpeed,
		},
		UAV: core.UAVParams{
			MaxSpeed:            c.UAV.MaxSpeed,
			MaxAccel:            c.UAV.MaxAccel,
			MaxTurnRate:         c.UAV.MaxTurnRate,
			SearchRadius:        c.UAV.SearchRadius,
			CaptureRadius:       c.UAV.CaptureRadius,
			DistanceWeight:      c.UAV.DistanceWeight,
			EnergyWeight:        c.UAV.EnergyWeight,
			RetargetInterval:    c.UAV.RetargetInterval,
			MaxLeadTime:         c.UAV.MaxLeadTime,
			PatrolCenter:        c.UAV.Patrol.Center.vector(),
			PatrolRadius:        c.UAV.Patrol.Radius,
			PatrolSpeed:         c.UAV.Patrol.Speed,
			EnergyMax:           c.UAV.Energy.Max,
			BaseDrain:           c.UAV.Energy.BaseDrain,
			AccelDrainCoeff:     c.UAV.Energy.AccelDrainCoeff,
			SpeedDrainCoeff:     c.UAV.Energy.SpeedDrainCoeff,
			RegenRate:           c.UAV.Energy.RegenRate,
			RecoveryThreshold:   c.UAV.Energy.RecoveryThreshold,
			DegradedSpeedFactor: c.UAV.Energy.DegradedSpeedFactor,
			AvoidLookahead:      c.UAV.Avoidance.Lookahead,
			AvoidClearance:      c.UAV.Avoidance.Clearance,
			AvoidStrength:       c.UAV.Avoidance.Strength,
			BoundsMargin:        c.UAV.BoundsMargin,
			BoundsStrength:      c.UAV.BoundsStrength,
		},
	}
}

// TerrainParams maps the terrain settings onto the generator tuning. The
// simulation seed drives terrain generation so one seed fixes the whole run.
func (c *Config) TerrainParams() terrain.Params {
	return terrain.Params{
		Seed:            c.Simulation.Seed,
		BaseHeight:      c.Terrain.BaseHeight,
		HillAmplitude:   c.Terrain.HillAmplitude,
		HillScale:       c.Terrain.HillScale,
		DetailAmplitude: c.Terrain.DetailAmplitude,
		DetailScale:     c.Terrain.DetailScale,
		RoughAmplitude:  c.Terrain.RoughAmplitude,
		RoughScale:      c.Terrain.RoughScale,
		TreeCount:       c.Terrain.Trees.Count,
		TreeRadiusMin:   c.Terrain.Trees.RadiusMin,
		TreeRadiusMax:   c.Terrain.Trees.RadiusMax,
		TreeHeightMin:   c.Terrain.Trees.HeightMin,
		TreeHeightMax:   c.Terrain.Trees.HeightMax,
	}
}

// BuildTerrain constructs the configured terrain model.
func (c *Config) BuildTerrain() core.Terrain {
	if c.Terrain.Kind == "flat" {
		return terrain.Flat{Height: c.Terrain.FlatHeight}
	}
	bounds := core.Bounds{Min: c.World.BoundsMin.vector(), Max: c.World.BoundsMax.vector()}
	return terrain.NewNoise(c.TerrainParams(), bounds)
}

// String returns a human-readable representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf(`Flock Pursuit Configuration:
  Name: %s
  Duration: %d ticks @ %.2fs each
  Update Interval: %v
  Seed: %d

World:
  Bounds: [%.0f %.0f %.0f] to [%.0f %.0f %.0f]
  Spawn Altitude: %.0f-%.0f

Flock:
  Initial Birds: %d
  Perception Radius: %.1f
  Separation Distance: %.1f
  Weights (sep/align/coh/wander): %.2f/%.2f/%.2f/%.2f

Bird Energy:
  Max: %.0f
  Rates (cruise/glide/perch): %.3f/%.3f/+%.3f
  Thresholds (low/recovery): %.0f/%.0f

UAV:
  Max Speed: %.1f (accel %.1f, turn %.2f rad)
  Search Radius: %.1f
  Capture Radius: %.1f
  Score Weights (distance/energy): %.2f/%.2f
  Patrol: radius %.0f @ speed %.1f around [%.0f %.0f %.0f]

Terrain:
  Kind: %s
  Trees: %d

Thermals:
  Scripted: %d
  Random: every %d ticks

Reporting:
  Console Level: %s
  Progress Every: %d ticks
  CSV Enabled: %t
  Output Dir: %s`,
		c.Simulation.Name,
		c.Simulation.DurationTicks,
		c.World.TickDT,
		c.Simulation.UpdateInterval,
		c.Simulation.Seed,
		c.World.BoundsMin.X, c.World.BoundsMin.Y, c.World.BoundsMin.Z,
		c.World.BoundsMax.X, c.World.BoundsMax.Y, c.World.BoundsMax.Z,
		c.World.SpawnAltMin, c.World.SpawnAltMax,
		c.Flock.InitialBirds,
		c.Flock.PerceptionRadius,
		c.Flock.SeparationDistance,
		c.Flock.SeparationWeight, c.Flock.AlignmentWeight,
		c.Flock.CohesionWeight, c.Flock.WanderWeight,
		c.Bird.EnergyMax,
		c.Bird.CruiseCost, c.Bird.GlideCost, c.Bird.PerchRegen,
		c.Bird.LowEnergyThreshold, c.Bird.RecoveryThreshold,
		c.UAV.MaxSpeed, c.UAV.MaxAccel, c.UAV.MaxTurnRate,
		c.UAV.SearchRadius,
		c.UAV.CaptureRadius,
		c.UAV.DistanceWeight, c.UAV.EnergyWeight,
		c.UAV.Patrol.Radius, c.UAV.Patrol.Speed,
		c.UAV.Patrol.Center.X, c.UAV.Patrol.Center.Y, c.UAV.Patrol.Center.Z,
		c.Terrain.Kind,
		c.Terrain.Trees.Count,
		len(c.Thermals.Scripted),
		c.Thermals.RandomEvery,
		c.Reporting.ConsoleLevel,
		c.Reporting.ProgressEvery,
		c.Reporting.EnableCSV,
		c.Reporting.OutputDir)
}

// GetDefaultConfig returns a configuration with sensible defaults
func GetDefaultConfig() *Config {
	world := core.DefaultWorldParams()
	flock := core.DefaultFlockParams()
	bird := core.DefaultBirdParams()
	uav := core.DefaultUAVParams()
	ground := terrain.DefaultParams()

	return &Config{
		Simulation: SimulationSettings{
			Name:           "Flock Pursuit",
			Description:    "A soaring bird flock hunted by a single patrol UAV",
			DurationTicks:  600,
			UpdateInterval: 100 * time.Millisecond,
			Seed:           world.Seed,
		},
		World: WorldSettings{
			BoundsMin:     fromVector(world.Bounds.Min),
			BoundsMax:     fromVector(world.Bounds.Max),
			TickDT:        world.TickDT,
			SpawnAttempts: world.SpawnAttempts,
			SpawnAltMin:   world.SpawnAltMin,
			SpawnAltMax:   world.SpawnAltMax,
		},
		Flock: FlockSettings{
			InitialBirds:       24,
			PerceptionRadius:   flock.PerceptionRadius,
			SeparationDistance: flock.SeparationDistance,
			SeparationWeight:   flock.SeparationWeight,
			AlignmentWeight:    flock.AlignmentWeight,
			CohesionWeight:     flock.CohesionWeight,
			WanderWeight:       flock.WanderWeight,
			SteerStrength:      flock.SteerStrength,
			BoundsMargin:       flock.BoundsMargin,
			BoundsStrength:     flock.BoundsStrength,
			BirdClearance:      flock.BirdClearance,
		},
		Bird: BirdSettings{
			EnergyMax:          bird.EnergyMax,
			SpawnEnergyFrac:    bird.SpawnEnergyFrac,
			CruiseCost:         bird.CruiseCost,
			GlideCost:          bird.GlideCost,
			PerchRegen:         bird.PerchRegen,
			RecoveryThreshold:  bird.RecoveryThreshold,
			LowEnergyThreshold: bird.LowEnergyThreshold,
			SoarMinStrength:    bird.SoarMinStrength,
			MaxCruiseSpeed:     bird.MaxCruiseSpeed,
			MaxSoarSpeed:       bird.MaxSoarSpeed,
			MaxGlideSpeed:      bird.MaxGlideSpeed,
		},
		UAV: UAVSettings{
			MaxSpeed:         uav.MaxSpeed,
			MaxAccel:         uav.MaxAccel,
			MaxTurnRate:      uav.MaxTurnRate,
			SearchRadius:     uav.SearchRadius,
			CaptureRadius:    uav.CaptureRadius,
			DistanceWeight:   uav.DistanceWeight,
			EnergyWeight:     uav.EnergyWeight,
			RetargetInterval: uav.RetargetInterval,
			MaxLeadTime:      uav.MaxLeadTime,
			Patrol: PatrolSettings{
				Center: fromVector(uav.PatrolCenter),
				Radius: uav.PatrolRadius,
				Speed:  uav.PatrolSpeed,
			},
			Energy: UAVEnergySettings{
				Max:                 uav.EnergyMax,
				BaseDrain:           uav.BaseDrain,
				AccelDrainCoeff:     uav.AccelDrainCoeff,
				SpeedDrainCoeff:     uav.SpeedDrainCoeff,
				RegenRate:           uav.RegenRate,
				RecoveryThreshold:   uav.RecoveryThreshold,
				DegradedSpeedFactor: uav.DegradedSpeedFactor,
			},
			Avoidance: AvoidanceSettings{
				Lookahead: uav.AvoidLookahead,
				Clearance: uav.AvoidClearance,
				Strength:  uav.AvoidStrength,
			},
			BoundsMargin:   uav.BoundsMargin,
			BoundsStrength: uav.BoundsStrength,
		},
		Terrain: TerrainSettings{
			Kind:            "noise",
			FlatHeight:      0,
			BaseHeight:      ground.BaseHeight,
			HillAmplitude:   ground.HillAmplitude,
			HillScale:       ground.HillScale,
			DetailAmplitude: ground.DetailAmplitude,
			DetailScale:     ground.DetailScale,
			RoughAmplitude:  ground.RoughAmplitude,
			RoughScale:      ground.RoughScale,
			Trees: TreeSettings{
				Count:     ground.TreeCount,
				RadiusMin: ground.TreeRadiusMin,
				RadiusMax: ground.TreeRadiusMax,
				HeightMin: ground.TreeHeightMin,
				HeightMax: ground.TreeHeightMax,
			},
		},
		Thermals: ThermalSettings{
			Scripted: []ThermalSpec{
				{AtTick: 0, Center: Vec3{X: 250, Y: 200, Z: 0}, Radius: 60, Strength: 0.6},
				{AtTick: 0, Center: Vec3{X: 550, Y: 400, Z: 0}, Radius: 45, Strength: 0.4},
				{AtTick: 150, Center: Vec3{X: 400, Y: 150, Z: 0}, Radius: 50, Strength: 0.8, TTLTicks: 200},
			},
			RandomEvery: 120,
			RadiusMin:   30,
			RadiusMax:   70,
			StrengthMin: 0.2,
			StrengthMax: 0.9,
			TTLMin:      100,
			TTLMax:      300,
		},
		Reporting: ReportingSettings{
			ConsoleLevel:  "info",
			ProgressEvery: 25,
			EnableCSV:     true,
			OutputDir:     "reports",
			PerBirdCSV:    false,
			Summary:       true,
		},
	}
}

// Package reporting assembles the end-of-run summary: how the flock fared,
// how the pursuit went, and what the thermal field did. A Collector sits on
// the recorder fan-out during the run and condenses the tick stream into a
// Summary that can be printed, or saved as JSON and Markdown.
package reporting

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Bra-moth/UAV-Path-Planning/pkg/logger"
	"github.com/Bra-moth/UAV-Path-Planning/pkg/recorder"
)

// Color definitions
var (
	colorHeader  = color.New(color.FgGreen, color.Bold)
	colorSection = color.New(color.FgCyan, color.Bold)
)

// Summary is the condensed view of one complete run.
type Summary struct {
	Metadata Metadata        `json:"metadata"`
	Flock    FlockAnalysis   `json:"flock"`
	UAV      UAVAnalysis     `json:"uav"`
	Thermals ThermalAnalysis `json:"thermals"`
	Events   map[string]int  `json:"events"`
	Captures []CaptureEntry  `json:"captures"`
}

// Metadata identifies the run the summary describes.
type Metadata struct {
	Name        string    `json:"name"`
	Seed        int64     `json:"seed"`
	Ticks       uint64    `json:"ticks"`
	SimTime     float64   `json:"sim_time"`
	WallTime    string    `json:"wall_time"`
	GeneratedAt time.Time `json:"generated_at"`
}

// FlockAnalysis aggregates the bird population over the whole run.
type FlockAnalysis struct {
	FinalBirds   int     `json:"final_birds"`
	PeakBirds    int     `json:"peak_birds"`
	BirdsAdded   int     `json:"birds_added"`
	BirdsRemoved int     `json:"birds_removed"`
	MeanEnergy   float64 `json:"mean_energy"`
	StdDevEnergy float64 `json:"stddev_energy"`
	MinEnergy    float64 `json:"min_energy"`
	MaxEnergy    float64 `json:"max_energy"`

	// StateOccupancy is the fraction of bird-ticks spent in each state.
	StateOccupancy map[string]float64 `json:"state_occupancy"`
}

// UAVAnalysis aggregates the pursuit aircraft over the whole run.
type UAVAnalysis struct {
	Captures        int     `json:"captures"`
	MeanCaptureGap  float64 `json:"mean_capture_gap_ticks"`
	PursuitFraction float64 `json:"pursuit_fraction"`
	MeanSpeed       float64 `json:"mean_speed"`
	MeanEnergy      float64 `json:"mean_energy"`
	MinEnergy       float64 `json:"min_energy"`
	DegradedTicks   uint64  `json:"degraded_ticks"`
	DegradedSpells  int     `json:"degraded_spells"`
}

// ThermalAnalysis aggregates the updraft field over the whole run.
type ThermalAnalysis struct {
	Added      int     `json:"added"`
	PeakActive int     `json:"peak_active"`
	MeanActive float64 `json:"mean_active"`
}

// CaptureEntry records one successful intercept.
type CaptureEntry struct {
	Tick    uint64 `json:"tick"`
	BirdID  int64  `json:"bird_id"`
	Message string `json:"message"`
}

// Collector condenses the tick stream into run statistics. It implements
// recorder.Recorder so it rides the same fan-out as the console and CSV
// recorders. Like them it expects the single-threaded world loop.
type Collector struct {
	name  string
	seed  int64
	start time.Time

	ticks   uint64
	simTime float64

	birdEnergies []float64
	stateTicks   map[string]int
	birdTicks    int
	finalBirds   int
	peakBirds    int

	uavSpeeds      []float64
	uavEnergies    []float64
	pursuitTicks   uint64
	degradedTicks  uint64
	degradedSpells int
	lastDegraded   bool

	thermalCounts []float64
	peakThermals  int

	eventCounts  map[string]int
	captures     []CaptureEntry
	captureTicks []float64
}

// NewCollector creates a collector for one run.
func NewCollector(name string, seed int64) *Collector {
	return &Collector{
		name:        name,
		seed:        seed,
		start:       time.Now(),
		stateTicks:  make(map[string]int),
		eventCounts: make(map[string]int),
	}
}

func (c *Collector) RecordTick(report recorder.TickReport) {
	c.ticks = report.Tick
	c.simTime = report.SimTime

	c.finalBirds = len(report.Birds)
	if c.finalBirds > c.peakBirds {
		c.peakBirds = c.finalBirds
	}
	for _, b := range report.Birds {
		c.birdEnergies = append(c.birdEnergies, b.Energy)
		c.stateTicks[b.State]++
		c.birdTicks++
	}

	v := report.UAV.Velocity
	c.uavSpeeds = append(c.uavSpeeds, math.Sqrt(v.X*v.X+v.Y*v.Y+v.Z*v.Z))
	c.uavEnergies = append(c.uavEnergies, report.UAV.Energy)
	if report.UAV.Mode == "PURSUING" {
		c.pursuitTicks++
	}
	if report.UAV.Degraded {
		c.degradedTicks++
		if !c.lastDegraded {
			c.degradedSpells++
		}
	}
	c.lastDegraded = report.UAV.Degraded

	c.thermalCounts = append(c.thermalCounts, float64(report.Thermals))
	if report.Thermals > c.peakThermals {
		c.peakThermals = report.Thermals
	}
}

func (c *Collector) RecordEvent(event recorder.Event) {
	c.eventCounts[event.Type]++
	if event.Type == recorder.EventCapture {
		c.captures = append(c.captures, CaptureEntry{
			Tick:    event.Tick,
			BirdID:  event.BirdID,
			Message: event.Message,
		})
		c.captureTicks = append(c.captureTicks, float64(event.Tick))
	}
}

func (c *Collector) Close() error { return nil }

// Summarize builds the Summary from everything recorded so far.
func (c *Collector) Summarize() *Summary {
	s := &Summary{
		Metadata: Metadata{
			Name:        c.name,
			Seed:        c.seed,
			Ticks:       c.ticks,
			SimTime:     c.simTime,
			WallTime:    time.Since(c.start).Round(time.Millisecond).String(),
			GeneratedAt: time.Now(),
		},
		Flock: FlockAnalysis{
			FinalBirds:     c.finalBirds,
			PeakBirds:      c.peakBirds,
			BirdsAdded:     c.eventCounts[recorder.EventBirdAdded],
			BirdsRemoved:   c.eventCounts[recorder.EventBirdRemoved],
			StateOccupancy: make(map[string]float64),
		},
		UAV: UAVAnalysis{
			Captures:       len(c.captures),
			DegradedTicks:  c.degradedTicks,
			DegradedSpells: c.degradedSpells,
		},
		Thermals: ThermalAnalysis{
			Added:      c.eventCounts[recorder.EventThermalAdded],
			PeakActive: c.peakThermals,
		},
		Events:   make(map[string]int, len(c.eventCounts)),
		Captures: append([]CaptureEntry(nil), c.captures...),
	}

	for k, v := range c.eventCounts {
		s.Events[k] = v
	}

	if len(c.birdEnergies) > 0 {
		s.Flock.MeanEnergy = stat.Mean(c.birdEnergies, nil)
		s.Flock.MinEnergy = floats.Min(c.birdEnergies)
		s.Flock.MaxEnergy = floats.Max(c.birdEnergies)
	}
	if len(c.birdEnergies) > 1 {
		s.Flock.StdDevEnergy = stat.StdDev(c.birdEnergies, nil)
	}
	for state, ticks := range c.stateTicks {
		s.Flock.StateOccupancy[state] = float64(ticks) / float64(c.birdTicks)
	}

	if n := len(c.uavSpeeds); n > 0 {
		s.UAV.MeanSpeed = stat.Mean(c.uavSpeeds, nil)
		s.UAV.MeanEnergy = stat.Mean(c.uavEnergies, nil)
		s.UAV.MinEnergy = floats.Min(c.uavEnergies)
		s.UAV.PursuitFraction = float64(c.pursuitTicks) / float64(n)
	}
	if len(c.captureTicks) > 1 {
		gaps := make([]float64, len(c.captureTicks)-1)
		for i := 1; i < len(c.captureTicks); i++ {
			gaps[i-1] = c.captureTicks[i] - c.captureTicks[i-1]
		}
		s.UAV.MeanCaptureGap = stat.Mean(gaps, nil)
	}

	if len(c.thermalCounts) > 0 {
		s.Thermals.MeanActive = stat.Mean(c.thermalCounts, nil)
	}

	return s
}

// Save writes the summary as JSON and Markdown under dir and returns the
// path of the JSON file.
func (s *Summary) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	base := filepath.Join(dir, fmt.Sprintf("summary_seed%d_%s", s.Metadata.Seed, timestamp))

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(base+".json", data, 0644); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}
	if err := os.WriteFile(base+".md", []byte(s.markdown()), 0644); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}

	logger.Successf("Run summary saved to: %s", base+".json")
	return base + ".json", nil
}

// markdown renders the summary for humans reading the report directory.
func (s *Summary) markdown() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s Run Summary\n\n", s.Metadata.Name))
	sb.WriteString(fmt.Sprintf("**Seed:** %d\n", s.Metadata.Seed))
	sb.WriteString(fmt.Sprintf("**Ticks:** %d (sim time %.0f)\n", s.Metadata.Ticks, s.Metadata.SimTime))
	sb.WriteString(fmt.Sprintf("**Wall Time:** %s\n", s.Metadata.WallTime))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", s.Metadata.GeneratedAt.Format("2006-01-02 15:04:05")))

	sb.WriteString("## Flock\n\n")
	sb.WriteString(fmt.Sprintf("- **Birds:** %d final, %d peak (%d added, %d removed)\n",
		s.Flock.FinalBirds, s.Flock.PeakBirds, s.Flock.BirdsAdded, s.Flock.BirdsRemoved))
	sb.WriteString(fmt.Sprintf("- **Energy:** %.1f mean, %.1f stddev, range %.1f-%.1f\n",
		s.Flock.MeanEnergy, s.Flock.StdDevEnergy, s.Flock.MinEnergy, s.Flock.MaxEnergy))
	for _, state := range sortedStates(s.Flock.StateOccupancy) {
		sb.WriteString(fmt.Sprintf("- **%s:** %.1f%% of bird-ticks\n",
			state, s.Flock.StateOccupancy[state]*100))
	}
	sb.WriteString("\n")

	sb.WriteString("## UAV\n\n")
	sb.WriteString(fmt.Sprintf("- **Captures:** %d", s.UAV.Captures))
	if s.UAV.MeanCaptureGap > 0 {
		sb.WriteString(fmt.Sprintf(" (every %.0f ticks on average)", s.UAV.MeanCaptureGap))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("- **Pursuit Time:** %.1f%% of ticks\n", s.UAV.PursuitFraction*100))
	sb.WriteString(fmt.Sprintf("- **Mean Speed:** %.2f\n", s.UAV.MeanSpeed))
	sb.WriteString(fmt.Sprintf("- **Energy:** %.1f mean, %.1f minimum\n", s.UAV.MeanEnergy, s.UAV.MinEnergy))
	if s.UAV.DegradedSpells > 0 {
		sb.WriteString(fmt.Sprintf("- **Degraded:** %d spell(s), %d ticks total\n",
			s.UAV.DegradedSpells, s.UAV.DegradedTicks))
	}
	sb.WriteString("\n")

	sb.WriteString("## Thermals\n\n")
	sb.WriteString(fmt.Sprintf("- **Added:** %d\n", s.Thermals.Added))
	sb.WriteString(fmt.Sprintf("- **Active:** %.1f mean, %d peak\n\n", s.Thermals.MeanActive, s.Thermals.PeakActive))

	if len(s.Events) > 0 {
		sb.WriteString("## Events\n\n")
		types := make([]string, 0, len(s.Events))
		for t := range s.Events {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			sb.WriteString(fmt.Sprintf("- **%s:** %d\n", t, s.Events[t]))
		}
		sb.WriteString("\n")
	}

	if len(s.Captures) > 0 {
		sb.WriteString("## Captures\n\n")
		for _, entry := range s.Captures {
			sb.WriteString(fmt.Sprintf("- tick %d: %s\n", entry.Tick, entry.Message))
		}
	}

	return sb.String()
}

// Print writes a colored summary to the console.
func (s *Summary) Print() {
	colorHeader.Printf("\n%s\n", strings.Repeat("=", 56))
	colorHeader.Printf("  %s: run summary (seed %d)\n", s.Metadata.Name, s.Metadata.Seed)
	colorHeader.Println(strings.Repeat("=", 56))
	fmt.Printf("%d ticks | sim time %.0f | wall %s\n",
		s.Metadata.Ticks, s.Metadata.SimTime, s.Metadata.WallTime)

	colorSection.Println("\nFlock")
	fmt.Printf("  birds:  %d final, %d peak (%d added, %d removed)\n",
		s.Flock.FinalBirds, s.Flock.PeakBirds, s.Flock.BirdsAdded, s.Flock.BirdsRemoved)
	fmt.Printf("  energy: %.1f avg, %.1f stddev, range %.1f-%.1f\n",
		s.Flock.MeanEnergy, s.Flock.StdDevEnergy, s.Flock.MinEnergy, s.Flock.MaxEnergy)
	occ := make([]string, 0, len(s.Flock.StateOccupancy))
	for _, state := range sortedStates(s.Flock.StateOccupancy) {
		occ = append(occ, fmt.Sprintf("%s %.0f%%", state, s.Flock.StateOccupancy[state]*100))
	}
	if len(occ) > 0 {
		fmt.Printf("  states: %s\n", strings.Join(occ, ", "))
	}

	colorSection.Println("\nUAV")
	gap := "-"
	if s.UAV.MeanCaptureGap > 0 {
		gap = fmt.Sprintf("every %.0f ticks", s.UAV.MeanCaptureGap)
	}
	fmt.Printf("  captures: %d (%s)\n", s.UAV.Captures, gap)
	fmt.Printf("  pursuit:  %.1f%% of ticks | mean speed %.2f\n",
		s.UAV.PursuitFraction*100, s.UAV.MeanSpeed)
	fmt.Printf("  energy:   %.1f avg, %.1f min | degraded %d spell(s), %d ticks\n",
		s.UAV.MeanEnergy, s.UAV.MinEnergy, s.UAV.DegradedSpells, s.UAV.DegradedTicks)

	colorSection.Println("\nThermals")
	fmt.Printf("  %d added | %.1f active avg, %d peak\n",
		s.Thermals.Added, s.Thermals.MeanActive, s.Thermals.PeakActive)
}

// sortedStates orders states by descending occupancy so the biggest share
// prints first; ties fall back to name order for stable output.
func sortedStates(occupancy map[string]float64) []string {
	states := make([]string, 0, len(occupancy))
	for state := range occupancy {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool {
		if occupancy[states[i]] != occupancy[states[j]] {
			return occupancy[states[i]] > occupancy[states[j]]
		}
		return states[i] < states[j]
	})
	return states
}

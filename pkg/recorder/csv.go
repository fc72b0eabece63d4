package recorder

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// TickRow is the aggregated per-tick CSV record.
type TickRow struct {
	Tick    uint64  `csv:"tick"`
	SimTime float64 `csv:"sim_time"`

	Birds    int `csv:"birds"`
	Cruising int `csv:"cruising"`
	Soaring  int `csv:"soaring"`
	Gliding  int `csv:"gliding"`
	Perched  int `csv:"perched"`

	MeanEnergy float64 `csv:"mean_energy"`
	MinEnergy  float64 `csv:"min_energy"`
	MaxEnergy  float64 `csv:"max_energy"`

	Thermals int `csv:"thermals"`

	UAVX      float64 `csv:"uav_x"`
	UAVY      float64 `csv:"uav_y"`
	UAVZ      float64 `csv:"uav_z"`
	UAVSpeed  float64 `csv:"uav_speed"`
	UAVEnergy float64 `csv:"uav_energy"`
	UAVMode   string  `csv:"uav_mode"`
	TargetID  int64   `csv:"target_id"`

	CapturesTotal int `csv:"captures_total"`
}

// BirdRow is one bird's per-tick CSV record, written only when per-bird
// output is enabled.
type BirdRow struct {
	Tick   uint64  `csv:"tick"`
	ID     int64   `csv:"bird_id"`
	X      float64 `csv:"x"`
	Y      float64 `csv:"y"`
	Z      float64 `csv:"z"`
	VX     float64 `csv:"vx"`
	VY     float64 `csv:"vy"`
	VZ     float64 `csv:"vz"`
	Energy float64 `csv:"energy"`
	State  string  `csv:"state"`
}

// CSV writes tick summaries, optional per-bird rows, and events as CSV
// files in an output directory.
type CSV struct {
	dir       string
	ticksFile *os.File
	eventFile *os.File
	birdsFile *os.File

	ticksHeaderWritten  bool
	eventsHeaderWritten bool
	birdsHeaderWritten  bool
}

// NewCSV creates the output directory and opens ticks.csv and events.csv,
// plus birds.csv when perBird is set. Returns nil when dir is empty
// (output disabled).
func NewCSV(dir string, perBird bool) (*CSV, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	c := &CSV{dir: dir}

	f, err := os.Create(filepath.Join(dir, "ticks.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating ticks.csv: %w", err)
	}
	c.ticksFile = f

	f, err = os.Create(filepath.Join(dir, "events.csv"))
	if err != nil {
		c.ticksFile.Close()
		return nil, fmt.Errorf("creating events.csv: %w", err)
	}
	c.eventFile = f

	if perBird {
		f, err = os.Create(filepath.Join(dir, "birds.csv"))
		if err != nil {
			c.ticksFile.Close()
			c.eventFile.Close()
			return nil, fmt.Errorf("creating birds.csv: %w", err)
		}
		c.birdsFile = f
	}

	return c, nil
}

// Dir returns the output directory path.
func (c *CSV) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *CSV) RecordTick(report TickReport) {
	if c == nil {
		return
	}

	row := summarize(report)
	records := []TickRow{row}
	if !c.ticksHeaderWritten {
		_ = gocsv.Marshal(records, c.ticksFile)
		c.ticksHeaderWritten = true
	} else {
		_ = gocsv.MarshalWithoutHeaders(records, c.ticksFile)
	}

	if c.birdsFile == nil {
		return
	}
	rows := make([]BirdRow, 0, len(report.Birds))
	for _, b := range report.Birds {
		rows = append(rows, BirdRow{
			Tick:   report.Tick,
			ID:     b.ID,
			X:      b.Position.X,
			Y:      b.Position.Y,
			Z:      b.Position.Z,
			VX:     b.Velocity.X,
			VY:     b.Velocity.Y,
			VZ:     b.Velocity.Z,
			Energy: b.Energy,
			State:  b.State,
		})
	}
	if len(rows) == 0 {
		return
	}
	if !c.birdsHeaderWritten {
		_ = gocsv.Marshal(rows, c.birdsFile)
		c.birdsHeaderWritten = true
	} else {
		_ = gocsv.MarshalWithoutHeaders(rows, c.birdsFile)
	}
}

func (c *CSV) RecordEvent(event Event) {
	if c == nil {
		return
	}
	records := []Event{event}
	if !c.eventsHeaderWritten {
		_ = gocsv.Marshal(records, c.eventFile)
		c.eventsHeaderWritten = true
	} else {
		_ = gocsv.MarshalWithoutHeaders(records, c.eventFile)
	}
}

// Close flushes and closes all output files.
func (c *CSV) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{c.ticksFile, c.eventFile, c.birdsFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// summarize reduces a tick report to its CSV row.
func summarize(report TickReport) TickRow {
	row := TickRow{
		Tick:          report.Tick,
		SimTime:       report.SimTime,
		Birds:         len(report.Birds),
		Thermals:      report.Thermals,
		UAVX:          report.UAV.Position.X,
		UAVY:          report.UAV.Position.Y,
		UAVZ:          report.UAV.Position.Z,
		UAVEnergy:     report.UAV.Energy,
		UAVMode:       report.UAV.Mode,
		CapturesTotal: report.CapturesTotal,
	}

	v := report.UAV.Velocity
	row.UAVSpeed = pointMagnitude(v)

	if report.UAV.TargetID != nil {
		row.TargetID = *report.UAV.TargetID
	}

	for i, b := range report.Birds {
		switch b.State {
		case "CRUISING":
			row.Cruising++
		case "SOARING":
			row.Soaring++
		case "GLIDING":
			row.Gliding++
		case "PERCHED":
			row.Perched++
		}
		row.MeanEnergy += b.Energy
		if i == 0 || b.Energy < row.MinEnergy {
			row.MinEnergy = b.Energy
		}
		if i == 0 || b.Energy > row.MaxEnergy {
			row.MaxEnergy = b.Energy
		}
	}
	if len(report.Birds) > 0 {
		row.MeanEnergy /= float64(len(report.Birds))
	}
	return row
}

func pointMagnitude(p Point) float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

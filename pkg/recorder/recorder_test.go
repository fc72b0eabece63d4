package recorder

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// countingRecorder tallies calls for fan-out tests.
type countingRecorder struct {
	ticks    int
	events   int
	closed   bool
	closeErr error
}

func (c *countingRecorder) RecordTick(TickReport) { c.ticks++ }
func (c *countingRecorder) RecordEvent(Event)     { c.events++ }
func (c *countingRecorder) Close() error {
	c.closed = true
	return c.closeErr
}

// ---------- summarize ----------

func sampleReport() TickReport {
	target := int64(2)
	return TickReport{
		Tick:    10,
		SimTime: 10,
		Birds: []BirdStatus{
			{ID: 1, Energy: 10, State: "CRUISING"},
			{ID: 2, Energy: 50, State: "SOARING"},
			{ID: 3, Energy: 90, State: "PERCHED"},
		},
		UAV: UAVStatus{
			Velocity: Point{X: 3, Y: 4},
			Energy:   80,
			Mode:     "PURSUING",
			TargetID: &target,
		},
		Thermals:      2,
		CapturesTotal: 1,
	}
}

func TestSummarize_AggregatesBirdRows(t *testing.T) {
	row := summarize(sampleReport())

	if row.Birds != 3 {
		t.Errorf("Birds = %d, want 3", row.Birds)
	}
	if row.Cruising != 1 || row.Soaring != 1 || row.Gliding != 0 || row.Perched != 1 {
		t.Errorf("state counts = C%d S%d G%d P%d, want C1 S1 G0 P1",
			row.Cruising, row.Soaring, row.Gliding, row.Perched)
	}
	if row.MeanEnergy != 50 {
		t.Errorf("MeanEnergy = %v, want 50", row.MeanEnergy)
	}
	if row.MinEnergy != 10 || row.MaxEnergy != 90 {
		t.Errorf("energy range = %v-%v, want 10-90", row.MinEnergy, row.MaxEnergy)
	}
	if row.UAVSpeed != 5 {
		t.Errorf("UAVSpeed = %v, want 5 for velocity (3,4,0)", row.UAVSpeed)
	}
	if row.TargetID != 2 {
		t.Errorf("TargetID = %d, want 2", row.TargetID)
	}
	if row.Thermals != 2 || row.CapturesTotal != 1 {
		t.Errorf("Thermals/Captures = %d/%d, want 2/1", row.Thermals, row.CapturesTotal)
	}
}

func TestSummarize_EmptyFlock(t *testing.T) {
	row := summarize(TickReport{Tick: 1})

	if row.Birds != 0 || row.MeanEnergy != 0 || row.MinEnergy != 0 || row.MaxEnergy != 0 {
		t.Errorf("empty report produced nonzero flock stats: %+v", row)
	}
	if row.TargetID != 0 {
		t.Errorf("TargetID = %d, want 0 with no target", row.TargetID)
	}
}

// ---------- CSV ----------

func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "\n"))
}

func TestCSV_WritesTickEventAndBirdFiles(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCSV(dir, true)
	if err != nil {
		t.Fatalf("NewCSV: %v", err)
	}

	c.RecordTick(sampleReport())
	c.RecordTick(sampleReport())
	c.RecordEvent(NewEvent(10, EventCapture, 2, "bird 2 captured"))
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Header plus one row per record.
	if got := countLines(t, filepath.Join(dir, "ticks.csv")); got != 3 {
		t.Errorf("ticks.csv has %d lines, want 3", got)
	}
	if got := countLines(t, filepath.Join(dir, "events.csv")); got != 2 {
		t.Errorf("events.csv has %d lines, want 2", got)
	}
	// Header plus one row per bird per tick.
	if got := countLines(t, filepath.Join(dir, "birds.csv")); got != 7 {
		t.Errorf("birds.csv has %d lines, want 7", got)
	}

	data, err := os.ReadFile(filepath.Join(dir, "ticks.csv"))
	if err != nil {
		t.Fatalf("reading ticks.csv: %v", err)
	}
	header := strings.Split(strings.TrimSpace(string(data)), "\n")[0]
	for _, col := range []string{"tick", "mean_energy", "uav_mode", "captures_total"} {
		if !strings.Contains(header, col) {
			t.Errorf("ticks.csv header missing %q: %s", col, header)
		}
	}
}

func TestCSV_PerBirdDisabled(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCSV(dir, false)
	if err != nil {
		t.Fatalf("NewCSV: %v", err)
	}
	c.RecordTick(sampleReport())
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "birds.csv")); !os.IsNotExist(err) {
		t.Error("birds.csv exists with per-bird output disabled")
	}
}

func TestCSV_EmptyDirDisablesOutput(t *testing.T) {
	c, err := NewCSV("", true)
	if err != nil {
		t.Fatalf("NewCSV: %v", err)
	}
	if c != nil {
		t.Fatal("expected nil recorder for empty dir")
	}

	// All methods are safe on the nil recorder.
	c.RecordTick(sampleReport())
	c.RecordEvent(NewEvent(1, EventBirdAdded, 1, "x"))
	if c.Dir() != "" {
		t.Errorf("Dir = %q, want empty", c.Dir())
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

// ---------- Multi ----------

func TestNewMulti_SkipsNilAndFansOut(t *testing.T) {
	a := &countingRecorder{}
	b := &countingRecorder{}
	m := NewMulti(nil, a, nil, b)

	m.RecordTick(sampleReport())
	m.RecordEvent(NewEvent(1, EventBirdAdded, 1, "x"))

	for i, r := range []*countingRecorder{a, b} {
		if r.ticks != 1 || r.events != 1 {
			t.Errorf("recorder %d got %d ticks, %d events, want 1 and 1", i, r.ticks, r.events)
		}
	}
}

func TestMulti_CloseClosesAllAndKeepsFirstError(t *testing.T) {
	first := errors.New("first")
	a := &countingRecorder{closeErr: first}
	b := &countingRecorder{closeErr: errors.New("second")}
	m := NewMulti(a, b)

	if err := m.Close(); err != first {
		t.Errorf("Close = %v, want the first error", err)
	}
	if !a.closed || !b.closed {
		t.Error("Close skipped a recorder after an error")
	}
}

func TestNewEvent_StampsUniqueIDs(t *testing.T) {
	e1 := NewEvent(5, EventCapture, 3, "m")
	e2 := NewEvent(5, EventCapture, 3, "m")

	if e1.ID == "" || e1.ID == e2.ID {
		t.Error("event ids must be unique and non-empty")
	}
	if e1.Tick != 5 || e1.Type != EventCapture || e1.BirdID != 3 || e1.Message != "m" {
		t.Errorf("event fields = %+v", e1)
	}
}

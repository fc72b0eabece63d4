// Package recorder is the reporting boundary of the simulation core. Every
// tick the world hands a TickReport to a Recorder; discrete occurrences
// (spawns, removals, captures, rejections) arrive as Events. Recorders only
// consume; nothing flows back into the simulation.
package recorder

import (
	"github.com/google/uuid"
)

// Point is a plain 3D coordinate for reporting rows.
type Point struct {
	X, Y, Z float64
}

// BirdStatus is one bird's observable state within a tick report.
type BirdStatus struct {
	ID       int64
	Position Point
	Velocity Point
	Energy   float64
	State    string
}

// UAVStatus is the UAV's observable state within a tick report.
type UAVStatus struct {
	Position Point
	Velocity Point
	Energy   float64
	Mode     string
	Degraded bool

	// TargetID is nil while patrolling.
	TargetID *int64

	// Path is the steering plan polyline for visualization.
	Path []Point
}

// TickReport is the full per-tick view handed to recorders.
type TickReport struct {
	Tick     uint64
	SimTime  float64
	Birds    []BirdStatus
	UAV      UAVStatus
	Thermals int

	// CapturesTotal is the running capture count including this tick.
	CapturesTotal int
}

// Event types emitted by the simulation.
const (
	EventBirdAdded         = "bird_added"
	EventBirdRemoved       = "bird_removed"
	EventThermalAdded      = "thermal_added"
	EventCapture           = "capture"
	EventPlacementRejected = "placement_rejected"
	EventCommandIgnored    = "command_ignored"
	EventUAVDegraded       = "uav_degraded"
	EventUAVRecovered      = "uav_recovered"
)

// Event is a discrete simulation occurrence.
type Event struct {
	ID      string `csv:"event_id"`
	Tick    uint64 `csv:"tick"`
	Type    string `csv:"type"`
	BirdID  int64  `csv:"bird_id"`
	Message string `csv:"message"`
}

// NewEvent stamps a fresh event with a unique id.
func NewEvent(tick uint64, eventType string, birdID int64, message string) Event {
	return Event{
		ID:      uuid.NewString(),
		Tick:    tick,
		Type:    eventType,
		BirdID:  birdID,
		Message: message,
	}
}

// Recorder consumes tick reports and events.
type Recorder interface {
	RecordTick(report TickReport)
	RecordEvent(event Event)
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordTick(TickReport) {}
func (Nop) RecordEvent(Event)     {}
func (Nop) Close() error          { return nil }

// Multi fans out to several recorders in order.
type Multi struct {
	recorders []Recorder
}

// NewMulti combines recorders; nil entries are skipped.
func NewMulti(recorders ...Recorder) *Multi {
	m := &Multi{}
	for _, r := range recorders {
		if r != nil {
			m.recorders = append(m.recorders, r)
		}
	}
	return m
}

func (m *Multi) RecordTick(report TickReport) {
	for _, r := range m.recorders {
		r.RecordTick(report)
	}
}

func (m *Multi) RecordEvent(event Event) {
	for _, r := range m.recorders {
		r.RecordEvent(event)
	}
}

// Close closes every recorder and returns the first error.
func (m *Multi) Close() error {
	var firstErr error
	for _, r := range m.recorders {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

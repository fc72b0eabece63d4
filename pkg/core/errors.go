package core

import "fmt"

// PlacementError reports a spawn or thermal position that cannot be used.
// The request is skipped and the simulation continues.
type PlacementError struct {
	Position Vector3
	Reason   string
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("placement rejected at (%.1f, %.1f, %.1f): %s", e.Position.X, e.Position.Y, e.Position.Z, e.Reason)
}

// InvalidReferenceError reports an operation against a bird id that no
// longer exists. Callers treat it as a no-op; it is never fatal.
type InvalidReferenceError struct {
	ID int64
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("bird %d does not exist", e.ID)
}

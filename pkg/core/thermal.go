package core

// ThermalUpdraft is a bounded column of rising air. Birds soaring inside it
// gain energy at the updraft's strength per unit time.
type ThermalUpdraft struct {
	ID       int64
	Center   Vector3
	Radius   float64
	Strength float64

	// ExpiresAtTick removes the thermal at the start of that tick.
	// Zero means it persists until explicit removal.
	ExpiresAtTick uint64
}

// Contains reports whether the point lies strictly inside the updraft
// column. Containment is horizontal; thermals span the full altitude range.
func (t *ThermalUpdraft) Contains(p Vector3) bool {
	dx := p.X - t.Center.X
	dy := p.Y - t.Center.Y
	return dx*dx+dy*dy < t.Radius*t.Radius
}

// ThermalField is the registry of active updrafts. Queries are linear in
// the number of thermals, which stays small relative to the flock.
type ThermalField struct {
	thermals []*ThermalUpdraft
	nextID   int64
}

func NewThermalField() *ThermalField {
	return &ThermalField{nextID: 1}
}

// Add registers an updraft and returns its id. Radius and strength must be
// positive; the caller validates before adding.
func (f *ThermalField) Add(center Vector3, radius, strength float64, expiresAtTick uint64) int64 {
	id := f.nextID
	f.nextID++
	f.thermals = append(f.thermals, &ThermalUpdraft{
		ID:            id,
		Center:        center,
		Radius:        radius,
		Strength:      strength,
		ExpiresAtTick: expiresAtTick,
	})
	return id
}

// Remove deletes the updraft with the given id. Unknown ids are a no-op.
func (f *ThermalField) Remove(id int64) {
	for i, t := range f.thermals {
		if t.ID == id {
			f.thermals = append(f.thermals[:i], f.thermals[i+1:]...)
			return
		}
	}
}

// Prune drops updrafts whose expiry tick has been reached and returns how
// many were dropped. Called at the start of each tick before any reads.
func (f *ThermalField) Prune(tick uint64) int {
	kept := f.thermals[:0]
	for _, t := range f.thermals {
		if t.ExpiresAtTick == 0 || tick < t.ExpiresAtTick {
			kept = append(kept, t)
		}
	}
	pruned := len(f.thermals) - len(kept)
	f.thermals = kept
	return pruned
}

// Query returns the strength of the strongest updraft containing the point,
// and whether any updraft contains it.
func (f *ThermalField) Query(p Vector3) (float64, bool) {
	best := 0.0
	found := false
	for _, t := range f.thermals {
		if t.Contains(p) && (!found || t.Strength > best) {
			best = t.Strength
			found = true
		}
	}
	return best, found
}

// Count returns the number of active updrafts.
func (f *ThermalField) Count() int {
	return len(f.thermals)
}

// Thermals returns the active updrafts for reporting. The slice is shared;
// callers must not mutate it.
func (f *ThermalField) Thermals() []*ThermalUpdraft {
	return f.thermals
}

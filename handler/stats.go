package handler

import "sync/atomic"

// Stats tracks handler statistics
type Stats struct {
	processed atomic.Uint64
	filtered  atomic.Uint64
	rotations atomic.Uint64
	errors    atomic.Uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementProcessed counts a record written to the output
func (s *Stats) IncrementProcessed() {
	s.processed.Add(1)
}

// IncrementFiltered counts a record dropped by the handler's level
func (s *Stats) IncrementFiltered() {
	s.filtered.Add(1)
}

// IncrementRotations counts a completed rollover
func (s *Stats) IncrementRotations() {
	s.rotations.Add(1)
}

// IncrementErrors counts a failed write or rollover
func (s *Stats) IncrementErrors() {
	s.errors.Add(1)
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	s.processed.Store(0)
	s.filtered.Store(0)
	s.rotations.Store(0)
	s.errors.Store(0)
}

// Snapshot is a point-in-time copy of handler statistics
type Snapshot struct {
	Processed uint64
	Filtered  uint64
	Rotations uint64
	Errors    uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	return Snapshot{
		Processed: s.processed.Load(),
		Filtered:  s.filtered.Load(),
		Rotations: s.rotations.Load(),
		Errors:    s.errors.Load(),
	}
}

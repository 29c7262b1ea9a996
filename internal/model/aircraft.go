package model

import "math"

// MinUniform is the smallest uniform draw accepted by DrawFaultInterval, to
// avoid a degenerate ln(0) when the caller's RNG produces (or rounds to) 0.
const MinUniform = 0.001

// Aircraft is a single physical vehicle instance with a persistent identity
// across the run. It is never destroyed or duplicated once created; it is
// mutated only by whichever component currently holds it.
type Aircraft struct {
	Class ClassID
	Tail  int64

	remainingInterval int64 // seconds (engine ticks); may be "infinite" (see RemainingInterval)
	infinite          bool
}

// NewAircraft constructs a tail with its fault interval left unset; callers
// must call DrawFaultInterval once before the aircraft's first flight.
func NewAircraft(class ClassID, tail int64) *Aircraft {
	return &Aircraft{Class: class, Tail: tail}
}

// RemainingInterval returns the remaining fault-free flight time and whether
// it is finite. An infinite interval means the class has FaultsPerHour == 0.
func (a *Aircraft) RemainingInterval() (seconds int64, infinite bool) {
	return a.remainingInterval, a.infinite
}

// DrawFaultInterval samples a fresh exponential fault interval with mean
// meanIntervalSeconds, given a caller-supplied uniform draw u in (0,1).
// Randomness is centralized in the simulation's RNG service (see
// internal/sim); Aircraft itself holds no random source so its behavior is
// fully determined by the draw it's handed.
//
// u is clamped away from 0 to avoid ln(0); meanIntervalSeconds == +Inf means
// the class never faults, and the interval is stored as infinite.
func (a *Aircraft) DrawFaultInterval(u float64, meanIntervalSeconds float64) int64 {
	if math.IsInf(meanIntervalSeconds, 1) {
		a.infinite = true
		a.remainingInterval = 0
		return math.MaxInt64
	}
	if u < MinUniform {
		u = MinUniform
	}
	if u > 1 {
		u = 1
	}
	seconds := int64(math.Round(-math.Log(u) * meanIntervalSeconds))
	if seconds < 1 {
		seconds = 1
	}
	a.infinite = false
	a.remainingInterval = seconds
	return seconds
}

// ConsumeInterval decrements the remaining fault interval by seconds. The
// caller guarantees seconds is non-negative and does not exceed the current
// remaining interval.
func (a *Aircraft) ConsumeInterval(seconds int64) {
	if a.infinite {
		return
	}
	a.remainingInterval -= seconds
	if a.remainingInterval < 0 {
		a.remainingInterval = 0
	}
}

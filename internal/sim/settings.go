package sim

import (
	"fmt"

	"evtolsim/internal/model"
)

// PassengerCountOption controls how many passengers board a ready aircraft.
type PassengerCountOption string

const (
	PassengerCountAlwaysFull PassengerCountOption = "always_full"
	PassengerCountRandom     PassengerCountOption = "random"
)

// FaultOption controls how an in-flight fault affects the flight in progress.
type FaultOption string

const (
	FaultCountOnly        FaultOption = "count_only"
	FaultGroundImmediate  FaultOption = "ground_immediately"
	FaultGroundAtFlightEnd FaultOption = "ground_at_end"
)

// Settings is the full set of values a Simulation needs to run. Field names
// and units mirror the YAML keys of internal/config's Config.
type Settings struct {
	// SimulationDurationSeconds is the horizon, in the engine's own ticks
	// (see UnitsPerMinute).
	SimulationDurationSeconds int64
	ChargerCount              int
	PlaneCount                int
	MinPerClass               int
	PassengerCountOption      PassengerCountOption
	MaxPassengerDelaySeconds  int64
	FaultOption               FaultOption
	RandomSeed                int64

	// UnitsPerMinute maps engine ticks to real time: 60 means a tick is a
	// second, 1 means a tick is a minute. Defaults to 60 when zero.
	UnitsPerMinute float64

	// Classes overrides some or all of the five built-in class specs, keyed
	// by index. A nil/empty entry falls back to the corresponding default.
	Classes [model.ClassCount]*model.ClassSpec
}

// InvalidSpecError reports a configuration error detected before a run
// starts (non-positive physical parameter, infeasible fleet constraint).
type InvalidSpecError struct {
	Msg string
}

func (e *InvalidSpecError) Error() string { return "invalid specification: " + e.Msg }

// resolvedClasses returns the effective class table, applying any overrides.
func (s Settings) resolvedClasses() [model.ClassCount]model.ClassSpec {
	defaults := model.DefaultClassTable()
	var out [model.ClassCount]model.ClassSpec
	for i := range out {
		if s.Classes[i] != nil {
			out[i] = *s.Classes[i]
		} else {
			out[i] = defaults[i]
		}
	}
	return out
}

// Validate checks the settings for internal consistency, returning an
// *InvalidSpecError describing the first problem found.
func (s Settings) Validate() error {
	if s.SimulationDurationSeconds < 0 {
		return &InvalidSpecError{Msg: "simulation_duration must be >= 0"}
	}
	if s.ChargerCount < 0 {
		return &InvalidSpecError{Msg: "charger_count must be >= 0"}
	}
	if s.PlaneCount < 0 {
		return &InvalidSpecError{Msg: "plane_count must be >= 0"}
	}
	if s.MinPerClass < 0 {
		return &InvalidSpecError{Msg: "min_per_class must be >= 0"}
	}
	if s.MinPerClass*model.ClassCount > s.PlaneCount {
		return &InvalidSpecError{Msg: fmt.Sprintf("min_per_class*classCount (%d) exceeds plane_count (%d)", s.MinPerClass*model.ClassCount, s.PlaneCount)}
	}
	if s.MaxPassengerDelaySeconds < 0 {
		return &InvalidSpecError{Msg: "max_passenger_delay must be >= 0"}
	}
	switch s.PassengerCountOption {
	case PassengerCountAlwaysFull, PassengerCountRandom:
	default:
		return &InvalidSpecError{Msg: fmt.Sprintf("unknown passenger_count_option %q", s.PassengerCountOption)}
	}
	switch s.FaultOption {
	case FaultCountOnly, FaultGroundImmediate, FaultGroundAtFlightEnd:
	default:
		return &InvalidSpecError{Msg: fmt.Sprintf("unknown fault_option %q", s.FaultOption)}
	}
	for i, c := range s.resolvedClasses() {
		if err := c.Validate(); err != nil {
			return &InvalidSpecError{Msg: fmt.Sprintf("class %d: %v", i, err)}
		}
	}
	return nil
}

// unitsPerMinuteOrDefault returns UnitsPerMinute, defaulting to 60.
func (s Settings) unitsPerMinuteOrDefault() float64 {
	if s.UnitsPerMinute == 0 {
		return 60
	}
	return s.UnitsPerMinute
}

package sim

import (
	"fmt"
	"math"

	"evtolsim/internal/model"
)

// Flight is the ephemeral EventSource representing one aircraft airborne
// between departure and either a fault or its scheduled landing. A Flight is
// installed once, dispatches once per in-flight fault it survives and once
// more when it ends, and is never re-installed after it returns "stay=false".
type Flight struct {
	aircraft   *model.Aircraft
	class      model.ClassSpec
	derived    model.Derived
	passengers int

	startTime     int64
	scheduledEnd  int64
	nextFault     int64 // may be math.MaxInt64
	intervalStart int64 // time the aircraft's current fault interval began
	faultsSoFar   int
	mustGround    bool
}

// newFlight constructs a Flight departing at t0.
func newFlight(t0 int64, aircraft *model.Aircraft, passengers int, derived model.Derived, class model.ClassSpec) *Flight {
	remaining, infinite := aircraft.RemainingInterval()
	nextFault := int64(math.MaxInt64)
	if !infinite {
		nextFault = t0 + remaining
	}
	return &Flight{
		aircraft:      aircraft,
		class:         class,
		derived:       derived,
		passengers:    passengers,
		startTime:     t0,
		scheduledEnd:  t0 + derived.FlightSecondsFull,
		nextFault:     nextFault,
		intervalStart: t0,
	}
}

// NextDue implements EventSource.
func (f *Flight) NextDue() int64 {
	return min64(f.scheduledEnd, f.nextFault)
}

// Label implements EventSource.
func (f *Flight) Label() string {
	return fmt.Sprintf("flight[tail=%d]", f.aircraft.Tail)
}

// Dispatch implements EventSource. See SPEC_FULL.md §4.4 for the exact
// fault/completion state machine this encodes.
func (f *Flight) Dispatch(now int64, ctx *dispatchContext) bool {
	if now == f.nextFault {
		f.faultsSoFar++
		u := ctx.rng.uniform01()
		newInterval := f.aircraft.DrawFaultInterval(u, f.derived.MeanFaultIntervalSeconds)
		if newInterval == math.MaxInt64 {
			f.nextFault = math.MaxInt64
		} else {
			f.nextFault = now + newInterval
		}
		f.intervalStart = now

		switch ctx.settings.FaultOption {
		case FaultGroundImmediate:
			f.land(now, ctx, true)
			return false
		case FaultGroundAtFlightEnd:
			f.mustGround = true
		}

		nextDue := min64(f.scheduledEnd, f.nextFault)
		if nextDue > now {
			return true
		}
		// Fault coincided with scheduled completion; fall through below.
	}

	f.land(now, ctx, false)
	return false
}

// land finalizes the flight at now, either because it reached its scheduled
// end (truncatedByFault == false) or was grounded mid-air by a fault
// (truncatedByFault == true).
func (f *Flight) land(now int64, ctx *dispatchContext, truncatedByFault bool) {
	duration := now - f.startTime
	passengerMiles := float64(duration) * float64(f.passengers) * f.class.CruiseMPH / 3600

	ctx.records.addFlight(FlightRecord{
		Tail:            f.aircraft.Tail,
		Class:           f.aircraft.Class,
		StartTime:       f.startTime,
		EndTime:         now,
		DurationSeconds: duration,
		Passengers:      f.passengers,
		Faults:          f.faultsSoFar,
		PassengerMiles:  passengerMiles,
		Truncated:       truncatedByFault,
	})

	if truncatedByFault {
		ctx.pending.insert(ctx, f.aircraft, Grounded)
		return
	}

	f.aircraft.ConsumeInterval(now - f.intervalStart)
	if f.mustGround {
		ctx.pending.insert(ctx, f.aircraft, Grounded)
		return
	}
	ctx.chargers.admit(ctx, now, f.aircraft)
}

// CloseOut implements EventSource: a flight still airborne at the horizon is
// recorded as truncated; the aircraft is not returned to any queue. A flight
// that never accrued any airborne time (the horizon landed at or before its
// own departure) produced no observable event and is not recorded at all.
func (f *Flight) CloseOut(now int64, ctx *dispatchContext) {
	duration := now - f.startTime
	if duration <= 0 {
		return
	}
	passengerMiles := float64(duration) * float64(f.passengers) * f.class.CruiseMPH / 3600
	ctx.records.addFlight(FlightRecord{
		Tail:            f.aircraft.Tail,
		Class:           f.aircraft.Class,
		StartTime:       f.startTime,
		EndTime:         now,
		DurationSeconds: duration,
		Passengers:      f.passengers,
		Faults:          f.faultsSoFar,
		PassengerMiles:  passengerMiles,
		Truncated:       true,
	})
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

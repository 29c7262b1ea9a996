package sim

import (
	"container/heap"
	"testing"
)

// countInFlight reports how many Flight sources are currently installed in
// the scheduler (as opposed to the two long-lived PendingQueue/ChargerBank
// sources, which are always installed).
func countInFlight(s *Scheduler) int {
	n := 0
	for _, it := range s.h {
		if _, ok := it.source.(*Flight); ok {
			n++
		}
	}
	return n
}

// TestFleetConservedAcrossEveryDispatch follows §8's conservation property: a
// fleet's aircraft are always in exactly one of pending, charging, waiting or
// in-flight, and the total never drifts from the fleet size. It drives the
// scheduler's dispatch loop directly (rather than through Scheduler.Run) so
// it can assert the invariant after every single dispatch, not just once at
// the end of the run.
func TestFleetConservedAcrossEveryDispatch(t *testing.T) {
	settings := baseSettings()
	settings.PlaneCount = 20
	settings.ChargerCount = 5
	settings.FaultOption = FaultGroundAtFlightEnd
	settings.SimulationDurationSeconds = 10800
	grounding := *settings.Classes[0]
	grounding.FaultsPerHour = 2
	for i := range settings.Classes {
		settings.Classes[i] = &grounding
	}

	sim, err := NewSimulation(settings)
	if err != nil {
		t.Fatalf("NewSimulation() error = %v", err)
	}

	rng := newRNGService(settings.RandomSeed)
	scheduler := NewScheduler(settings.SimulationDurationSeconds)
	pending := NewPendingQueue()
	chargers := NewChargerBank(settings.ChargerCount)
	records := newRecordSink()
	dctx := &dispatchContext{
		scheduler: scheduler,
		pending:   pending,
		chargers:  chargers,
		records:   records,
		rng:       rng,
		derived:   sim.derived,
		classes:   sim.classes,
		settings:  settings,
	}

	sim.generateFleet(dctx, rng)
	scheduler.Install(pending)
	scheduler.Install(chargers)

	dispatches := 0
	for {
		if len(scheduler.h) == 0 {
			break
		}
		top := scheduler.h[0]
		due := top.due
		if due > scheduler.horizon {
			scheduler.now = scheduler.horizon
			break
		}
		scheduler.now = due
		dctx.now = due

		heap.Pop(&scheduler.h)
		delete(scheduler.byIdent, top.source)

		stay := top.source.Dispatch(due, dctx)
		if stay {
			newDue := top.source.NextDue()
			if newDue <= due {
				t.Fatalf("scheduler livelock: %q did not advance past %d", top.source.Label(), due)
			}
			scheduler.Install(top.source)
		}
		dispatches++

		total := len(pending.entries) + len(chargers.active) + len(chargers.waitList) + countInFlight(scheduler)
		if total != settings.PlaneCount {
			t.Fatalf("conservation violated after dispatch %d at t=%d: pending=%d charging=%d waiting=%d in-flight=%d sum=%d, want %d",
				dispatches, scheduler.now, len(pending.entries), len(chargers.active), len(chargers.waitList), countInFlight(scheduler), total, settings.PlaneCount)
		}
	}

	if dispatches == 0 {
		t.Fatal("expected at least one dispatch over a 10800-second horizon")
	}
}

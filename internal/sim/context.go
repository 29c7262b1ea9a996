package sim

import "evtolsim/internal/model"

// dispatchContext is the bundle of shared state handed to every EventSource's
// Dispatch/CloseOut call. It is borrowed, never owned: no EventSource keeps a
// copy of it beyond the call in which it was passed, which is what lets
// PendingQueue, ChargerBank and Flight mutate each other (via ctx.pending,
// ctx.chargers, ctx.scheduler) without holding back-pointers to one another.
type dispatchContext struct {
	now int64

	scheduler *Scheduler
	pending   *PendingQueue
	chargers  *ChargerBank
	records   *recordSink
	rng       *rngService

	derived  [model.ClassCount]model.Derived
	classes  [model.ClassCount]model.ClassSpec
	settings Settings
}

func (c *dispatchContext) derivedFor(class model.ClassID) model.Derived {
	return c.derived[class]
}

func (c *dispatchContext) classFor(class model.ClassID) model.ClassSpec {
	return c.classes[class]
}

// passengerCount samples the number of passengers boarding for class.
func (c *dispatchContext) passengerCount(class model.ClassID) int {
	seats := c.classes[class].Seats
	switch c.settings.PassengerCountOption {
	case PassengerCountRandom:
		return c.rng.uniformInt(1, seats)
	default:
		return seats
	}
}

// passengerDelay samples a boarding delay in [0, MaxPassengerDelaySeconds].
func (c *dispatchContext) passengerDelay() int64 {
	return c.rng.uniformIntRange64(c.settings.MaxPassengerDelaySeconds)
}

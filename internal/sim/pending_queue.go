package sim

import (
	"math"
	"sort"

	"evtolsim/internal/model"
)

// pendingEntry is one aircraft waiting in the PendingQueue, ordered by
// readyAt with insertion order (seq) as the tie-break.
type pendingEntry struct {
	aircraft *model.Aircraft
	readyAt  int64
	seq      int64
}

// PendingQueue holds aircraft waiting to fly, or permanently grounded
// (readyAt == +Inf). It is one of the two long-lived EventSources owned by
// a Simulation; it never leaves the scheduler once installed.
type PendingQueue struct {
	entries []pendingEntry
	seq     int64
}

// NewPendingQueue constructs an empty queue.
func NewPendingQueue() *PendingQueue {
	return &PendingQueue{}
}

// Grounded is the ready_at_time used to permanently retire an aircraft.
const Grounded = math.MaxInt64

// insert adds aircraft to the queue at readyAt, preserving order. If the
// insertion produces a new minimum and the queue is already installed, the
// scheduler is asked to resort it.
func (p *PendingQueue) insert(ctx *dispatchContext, aircraft *model.Aircraft, readyAt int64) {
	e := pendingEntry{aircraft: aircraft, readyAt: readyAt, seq: p.seq}
	p.seq++

	i := sort.Search(len(p.entries), func(i int) bool {
		if p.entries[i].readyAt != e.readyAt {
			return p.entries[i].readyAt > e.readyAt
		}
		return p.entries[i].seq > e.seq
	})
	p.entries = append(p.entries, pendingEntry{})
	copy(p.entries[i+1:], p.entries[i:])
	p.entries[i] = e

	if i == 0 && ctx != nil {
		ctx.scheduler.Resort(p)
	}
}

// NextDue implements EventSource.
func (p *PendingQueue) NextDue() int64 {
	if len(p.entries) == 0 {
		return math.MaxInt64
	}
	return p.entries[0].readyAt
}

// Label implements EventSource.
func (p *PendingQueue) Label() string { return "pending-queue" }

// Dispatch implements EventSource: every aircraft ready at or before now
// departs on a fresh Flight.
func (p *PendingQueue) Dispatch(now int64, ctx *dispatchContext) bool {
	for len(p.entries) > 0 && p.entries[0].readyAt <= now {
		e := p.entries[0]
		p.entries = p.entries[1:]

		class := e.aircraft.Class
		passengers := ctx.passengerCount(class)
		flight := newFlight(now, e.aircraft, passengers, ctx.derivedFor(class), ctx.classFor(class))
		ctx.scheduler.Install(flight)
	}
	return true
}

// CloseOut implements EventSource: aircraft still waiting at the horizon are
// dropped without a statistics record.
func (p *PendingQueue) CloseOut(now int64, ctx *dispatchContext) {}

package sim

import (
	"container/heap"
	"fmt"
)

// EventSource is anything installed in the scheduler's ordered structure.
// Implementations are *PendingQueue, *ChargerBank, and *Flight.
type EventSource interface {
	// NextDue returns the tick at which this source next wants to be
	// dispatched. May be math.MaxInt64 to mean "never" (empty/idle).
	NextDue() int64
	// Dispatch runs the source's event callback at now. The return value
	// reports whether the source should remain installed ("stay") or has
	// been fully consumed (e.g. a completed Flight).
	Dispatch(now int64, ctx *dispatchContext) (stay bool)
	// CloseOut is called once, after the run loop ends, for every source
	// still installed at that time.
	CloseOut(now int64, ctx *dispatchContext)
	// Label identifies the source in diagnostics.
	Label() string
}

// schedItem is one entry in the scheduler's priority heap.
type schedItem struct {
	source EventSource
	due    int64
	seq    int64 // insertion sequence, for FIFO tie-break
	index  int   // heap index, maintained by schedHeap
}

// schedHeap implements container/heap.Interface, ordering by (due, seq).
type schedHeap []*schedItem

func (h schedHeap) Len() int { return len(h) }
func (h schedHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}
func (h schedHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *schedHeap) Push(x any) {
	it := x.(*schedItem)
	it.index = len(*h)
	*h = append(*h, it)
}
func (h *schedHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}

// InvariantViolationError reports a fatal scheduler or invariant failure.
type InvariantViolationError struct {
	Msg string
}

func (e *InvariantViolationError) Error() string { return "invariant violation: " + e.Msg }

// Scheduler is the quantum clock: an ordered set of EventSources, advanced by
// jumping directly to the next due source rather than ticking uniformly.
type Scheduler struct {
	horizon int64
	now     int64

	h       schedHeap
	byIdent map[EventSource]*schedItem
	seq     int64
}

// NewScheduler creates a scheduler with the given horizon (inclusive).
func NewScheduler(horizon int64) *Scheduler {
	s := &Scheduler{
		horizon: horizon,
		byIdent: make(map[EventSource]*schedItem),
	}
	heap.Init(&s.h)
	return s
}

// Now returns the scheduler's current clock value.
func (s *Scheduler) Now() int64 { return s.now }

// Install inserts source into the scheduler keyed by its current NextDue.
// Tie-break among equal due times is insertion order (FIFO).
func (s *Scheduler) Install(source EventSource) {
	if _, ok := s.byIdent[source]; ok {
		panic(fmt.Sprintf("sim: source %q already installed", source.Label()))
	}
	it := &schedItem{source: source, due: source.NextDue(), seq: s.seq}
	s.seq++
	heap.Push(&s.h, it)
	s.byIdent[source] = it
}

// Resort removes and re-installs source, refreshing its due time and
// insertion sequence. Used when a source's NextDue changes while it is
// installed, as a result of a mutation performed by another source's
// dispatch (never by the source's own dispatch on itself).
func (s *Scheduler) Resort(source EventSource) {
	it, ok := s.byIdent[source]
	if !ok {
		// Not installed (e.g. a Flight that already completed); nothing to do.
		return
	}
	heap.Remove(&s.h, it.index)
	delete(s.byIdent, source)
	s.Install(source)
}

// installedCount reports how many sources are currently installed.
func (s *Scheduler) installedCount() int { return len(s.h) }

// Run drives the core loop: repeatedly dispatch the minimum-due source until
// the structure empties or the next due time would exceed the horizon, then
// close out every source still installed. The horizon is an inclusive bound:
// a source due exactly at the horizon still dispatches (a flight or charge
// that completes exactly on the horizon is recorded complete, not
// truncated); only a due time strictly past the horizon breaks to close-out.
// ctx.now is kept in sync with the scheduler's own clock for dispatch
// callbacks to read.
func (s *Scheduler) Run(ctx *dispatchContext, cancelled func() bool) error {
	for {
		if cancelled != nil && cancelled() {
			return nil
		}
		if len(s.h) == 0 {
			break
		}
		top := s.h[0]
		due := top.due
		if due > s.horizon {
			s.now = s.horizon
			break
		}
		if due < s.now {
			return &InvariantViolationError{Msg: fmt.Sprintf("time moved backward: dispatching %q at %d < now %d", top.source.Label(), due, s.now)}
		}
		s.now = due
		ctx.now = s.now

		heap.Pop(&s.h)
		delete(s.byIdent, top.source)

		stay := top.source.Dispatch(s.now, ctx)
		if stay {
			newDue := top.source.NextDue()
			if newDue <= due {
				return &InvariantViolationError{Msg: fmt.Sprintf("scheduler livelock: %q did not advance past %d", top.source.Label(), due)}
			}
			s.Install(top.source)
		}
	}

	for _, it := range s.h {
		it.source.CloseOut(s.now, ctx)
	}
	return nil
}

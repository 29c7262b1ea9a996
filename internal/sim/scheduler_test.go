package sim

import "testing"

// fakeSource is a minimal EventSource for exercising the Scheduler in
// isolation, without the queue/flight machinery.
type fakeSource struct {
	label      string
	due        int64
	dispatches []int64
	closedOut  bool
	// advanceBy, if non-zero, is added to due after each dispatch; stay is
	// true while advances remain.
	advanceBy int64
	advances  int
}

func (f *fakeSource) NextDue() int64 { return f.due }
func (f *fakeSource) Label() string  { return f.label }
func (f *fakeSource) Dispatch(now int64, ctx *dispatchContext) bool {
	f.dispatches = append(f.dispatches, now)
	if f.advances <= 0 {
		return false
	}
	f.advances--
	f.due += f.advanceBy
	return true
}
func (f *fakeSource) CloseOut(now int64, ctx *dispatchContext) { f.closedOut = true }

func TestSchedulerDispatchesInTimeOrder(t *testing.T) {
	s := NewScheduler(1000)
	a := &fakeSource{label: "a", due: 50}
	b := &fakeSource{label: "b", due: 10}
	c := &fakeSource{label: "c", due: 30}
	s.Install(a)
	s.Install(b)
	s.Install(c)

	if err := s.Run(&dispatchContext{}, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(b.dispatches) != 1 || b.dispatches[0] != 10 {
		t.Errorf("b dispatched at %v, want [10]", b.dispatches)
	}
	if len(c.dispatches) != 1 || c.dispatches[0] != 30 {
		t.Errorf("c dispatched at %v, want [30]", c.dispatches)
	}
	if len(a.dispatches) != 1 || a.dispatches[0] != 50 {
		t.Errorf("a dispatched at %v, want [50]", a.dispatches)
	}
	if a.closedOut || b.closedOut || c.closedOut {
		t.Errorf("sources fully consumed by their own dispatch should not also receive CloseOut")
	}
}

// orderedSource is like fakeSource but records its label into a shared
// slice on dispatch, so relative dispatch order across sources is visible.
type orderedSource struct {
	label string
	due   int64
	order *[]string
}

func (o *orderedSource) NextDue() int64 { return o.due }
func (o *orderedSource) Label() string  { return o.label }
func (o *orderedSource) Dispatch(now int64, ctx *dispatchContext) bool {
	*o.order = append(*o.order, o.label)
	return false
}
func (o *orderedSource) CloseOut(now int64, ctx *dispatchContext) {}

func TestSchedulerTieBreakIsFIFO(t *testing.T) {
	s := NewScheduler(1000)
	var order []string
	a := &orderedSource{label: "a", due: 10, order: &order}
	b := &orderedSource{label: "b", due: 10, order: &order}
	s.Install(a)
	s.Install(b)

	if err := s.Run(&dispatchContext{}, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("dispatch order = %v, want [a b] (FIFO on equal due time)", order)
	}
}

func TestSchedulerDispatchesAtHorizonInclusive(t *testing.T) {
	s := NewScheduler(100)
	a := &fakeSource{label: "a", due: 100}
	s.Install(a)

	if err := s.Run(&dispatchContext{}, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(a.dispatches) != 1 || a.dispatches[0] != 100 {
		t.Errorf("source due exactly at horizon should dispatch, got %v", a.dispatches)
	}
	if a.closedOut {
		t.Errorf("a source fully consumed by its own dispatch at the horizon should not also be closed out")
	}
	if s.Now() != 100 {
		t.Errorf("Now() = %d, want 100", s.Now())
	}
}

func TestSchedulerClosesOutSourceDueStrictlyPastHorizon(t *testing.T) {
	s := NewScheduler(100)
	a := &fakeSource{label: "a", due: 101}
	s.Install(a)

	if err := s.Run(&dispatchContext{}, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(a.dispatches) != 0 {
		t.Errorf("source due past the horizon should not dispatch, got %v", a.dispatches)
	}
	if !a.closedOut {
		t.Errorf("source still installed at the horizon should be closed out")
	}
	if s.Now() != 100 {
		t.Errorf("Now() = %d, want 100", s.Now())
	}
}

func TestSchedulerRejectsDoubleInstall(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic installing an already-installed source")
		}
	}()
	s := NewScheduler(1000)
	a := &fakeSource{label: "a", due: 10}
	s.Install(a)
	s.Install(a)
}

func TestSchedulerLivelockDetected(t *testing.T) {
	s := NewScheduler(1000)
	a := &fakeSource{label: "a", due: 10, advanceBy: 0, advances: 1}
	s.Install(a)

	err := s.Run(&dispatchContext{}, nil)
	if err == nil {
		t.Fatal("expected livelock error, got nil")
	}
	if _, ok := err.(*InvariantViolationError); !ok {
		t.Errorf("error type = %T, want *InvariantViolationError", err)
	}
}

func TestSchedulerCancellationStopsLoop(t *testing.T) {
	s := NewScheduler(1000)
	a := &fakeSource{label: "a", due: 10}
	s.Install(a)

	err := s.Run(&dispatchContext{}, func() bool { return true })
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(a.dispatches) != 0 {
		t.Errorf("cancelled run should not dispatch anything, got %v", a.dispatches)
	}
}

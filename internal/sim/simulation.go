package sim

import (
	"context"
	"log"

	"evtolsim/internal/model"
)

// ClassResult is the aggregated, per-class outcome of one simulation run.
type ClassResult struct {
	Class ClassIDName

	TotalFlights   int
	AvgFlightTime  float64
	AvgFlightMiles float64

	TotalCharges          int
	AvgChargeTime         float64
	AvgChargeTimePlusWait float64

	TotalFaults         int
	TotalPassengerMiles float64
}

// ClassIDName pairs a model.ClassID with its label, so callers outside
// internal/model don't need to import it just to print a result row.
type ClassIDName struct {
	ID   model.ClassID
	Name string
}

// Simulation composes the engine: it owns the scheduler, the two long-lived
// queues, the RNG service and the record sink for exactly one run.
type Simulation struct {
	settings Settings
	classes  [model.ClassCount]model.ClassSpec
	derived  [model.ClassCount]model.Derived
	verbose  bool
}

// NewSimulation validates settings and constructs a Simulation ready to Run.
func NewSimulation(settings Settings) (*Simulation, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	classes := settings.resolvedClasses()
	unitsPerMinute := settings.unitsPerMinuteOrDefault()

	s := &Simulation{settings: settings, classes: classes}
	for i, c := range classes {
		s.derived[i] = model.DeriveClass(c, unitsPerMinute)
	}
	return s, nil
}

// SetVerbose toggles synchronous logging (§6.2) of one line when a run starts
// and one when it ends; individual dispatches are not logged.
func (s *Simulation) SetVerbose(v bool) { s.verbose = v }

// Run drains the simulation to its horizon (or until ctx is cancelled) and
// returns the per-class aggregate results.
func (s *Simulation) Run(ctx context.Context) ([model.ClassCount]ClassResult, error) {
	rng := newRNGService(s.settings.RandomSeed)
	scheduler := NewScheduler(s.settings.SimulationDurationSeconds)
	pending := NewPendingQueue()
	chargers := NewChargerBank(s.settings.ChargerCount)
	records := newRecordSink()

	dctx := &dispatchContext{
		scheduler: scheduler,
		pending:   pending,
		chargers:  chargers,
		records:   records,
		rng:       rng,
		derived:   s.derived,
		classes:   s.classes,
		settings:  s.settings,
	}

	s.generateFleet(dctx, rng)

	scheduler.Install(pending)
	scheduler.Install(chargers)

	if s.verbose {
		log.Printf("[sim] starting run: horizon=%d planes=%d chargers=%d", s.settings.SimulationDurationSeconds, s.settings.PlaneCount, s.settings.ChargerCount)
	}

	cancelled := func() bool {
		select {
		case <-ctx.Done():
			return true
		default:
			return false
		}
	}
	if err := scheduler.Run(dctx, cancelled); err != nil {
		return [model.ClassCount]ClassResult{}, err
	}
	if cancelled() {
		return [model.ClassCount]ClassResult{}, ctx.Err()
	}

	if s.verbose {
		log.Printf("[sim] run complete at t=%d: %d flight records, %d charge records", scheduler.Now(), len(records.flights), len(records.charges))
	}

	return s.aggregate(records), nil
}

// generateFleet implements §4.7's class-balancing algorithm: each of the K
// classes is guaranteed min_per_class tails, when min_per_class*K <= N.
func (s *Simulation) generateFleet(ctx *dispatchContext, rng *rngService) {
	n := s.settings.PlaneCount
	k := model.ClassCount
	m := s.settings.MinPerClass

	needed := make([]int, k)
	stillNeeded := 0
	for c := range needed {
		needed[c] = m
		stillNeeded += m
	}

	var tail int64
	for i := 0; i < n; i++ {
		c := rng.classDraw(k)
		if stillNeeded > 0 && needed[c] == 0 {
			for spins := 0; spins < k && needed[c] == 0; spins++ {
				c = (c + 1) % k
			}
		}
		if needed[c] > 0 {
			needed[c]--
			stillNeeded--
		}

		tail++
		aircraft := model.NewAircraft(model.ClassID(c), tail)
		mean := ctx.derivedFor(model.ClassID(c)).MeanFaultIntervalSeconds
		aircraft.DrawFaultInterval(rng.uniform01(), mean)

		readyAt := rng.uniformIntRange64(s.settings.MaxPassengerDelaySeconds)
		if s.settings.ChargerCount == 0 {
			// With no chargers the fleet is grounded from the start.
			readyAt = Grounded
		}
		ctx.pending.insert(nil, aircraft, readyAt)
	}
}

// aggregate reduces the record sink into per-class statistics, excluding
// truncated records from every averaged field per §4.6 step 7.
func (s *Simulation) aggregate(records *recordSink) [model.ClassCount]ClassResult {
	var results [model.ClassCount]ClassResult
	for c := range results {
		results[c].Class = ClassIDName{ID: model.ClassID(c), Name: model.ClassID(c).String()}
	}

	var flightTimeSum [model.ClassCount]float64
	var countedFlights [model.ClassCount]int
	for _, r := range records.flights {
		results[r.Class].TotalFlights++
		results[r.Class].TotalFaults += r.Faults
		results[r.Class].TotalPassengerMiles += r.PassengerMiles
		if r.Truncated {
			continue
		}
		countedFlights[r.Class]++
		flightTimeSum[r.Class] += float64(r.DurationSeconds)
	}

	var chargeTimeSum, chargePlusWaitSum [model.ClassCount]float64
	var countedCharges [model.ClassCount]int
	for _, r := range records.charges {
		results[r.Class].TotalCharges++
		if r.Truncated {
			continue
		}
		countedCharges[r.Class]++
		chargeTimeSum[r.Class] += float64(r.ChargeSeconds)
		chargePlusWaitSum[r.Class] += float64(r.ChargePlusWaitSeconds)
	}

	for c := range results {
		if countedFlights[c] > 0 {
			results[c].AvgFlightTime = flightTimeSum[c] / float64(countedFlights[c])
			results[c].AvgFlightMiles = results[c].AvgFlightTime * s.classes[c].CruiseMPH / 3600
		}
		if countedCharges[c] > 0 {
			results[c].AvgChargeTime = chargeTimeSum[c] / float64(countedCharges[c])
			results[c].AvgChargeTimePlusWait = chargePlusWaitSum[c] / float64(countedCharges[c])
		}
	}
	return results
}

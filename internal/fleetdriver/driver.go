// Package fleetdriver runs N independent simulations concurrently and
// averages their per-class results, the way the teacher's CLI fans work out
// across goroutines and joins with a sync.WaitGroup. It never reaches into
// the engine's scheduler/queue internals — only sim.Simulation's public
// Run method.
package fleetdriver

import (
	"context"
	"math"
	"sort"
	"sync"

	"evtolsim/internal/model"
	"evtolsim/internal/sim"
)

// RunSpec is one run's settings. RunBatch gives every run a distinct,
// deterministic seed: the caller's seed plus the run index, or the run index
// plus one when the caller's seed is zero.
type RunSpec struct {
	Settings sim.Settings
}

// BatchResult is the outcome of N runs for a single class: the mean across
// runs plus the 5th/95th percentile, the same percentile helper shape the
// teacher uses for LMP price-stat summaries.
type BatchResult struct {
	Class ClassSummary

	MeanTotalFlights float64
	MeanAvgFlightTime   float64
	MeanTotalCharges    float64
	MeanAvgChargeTime   float64
	MeanTotalFaults     float64
	MeanPassengerMiles  float64
	P05PassengerMiles   float64
	P95PassengerMiles   float64
}

// ClassSummary names the class a BatchResult row belongs to.
type ClassSummary struct {
	ID   model.ClassID
	Name string
}

type runOutcome struct {
	results [model.ClassCount]sim.ClassResult
	err     error
}

// RunBatch runs count independent simulations of settings concurrently
// (bounded by maxConcurrency goroutines), then averages their per-class
// results. It waits for every run to finish, then returns the error of the
// lowest-indexed run that failed, if any. A failed run does not cancel the
// others; cancelling ctx aborts every run still in progress.
func RunBatch(ctx context.Context, settings sim.Settings, count int, maxConcurrency int) ([model.ClassCount]BatchResult, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = count
	}

	outcomes := make([]runOutcome, count)
	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup

	for i := 0; i < count; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			runSettings := settings
			if runSettings.RandomSeed == 0 {
				runSettings.RandomSeed = int64(i) + 1
			} else {
				runSettings.RandomSeed = runSettings.RandomSeed + int64(i)
			}

			s, err := sim.NewSimulation(runSettings)
			if err != nil {
				outcomes[i] = runOutcome{err: err}
				return
			}
			res, err := s.Run(ctx)
			outcomes[i] = runOutcome{results: res, err: err}
		}(i)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.err != nil {
			return [model.ClassCount]BatchResult{}, o.err
		}
	}

	return aggregate(outcomes), nil
}

func aggregate(outcomes []runOutcome) [model.ClassCount]BatchResult {
	var out [model.ClassCount]BatchResult
	for c := 0; c < model.ClassCount; c++ {
		out[c].Class = ClassSummary{ID: model.ClassID(c), Name: model.ClassID(c).String()}

		n := float64(len(outcomes))
		var flightsSum, flightTimeSum, chargesSum, chargeTimeSum, faultsSum, milesSum float64
		miles := make([]float64, 0, len(outcomes))
		for _, o := range outcomes {
			r := o.results[c]
			flightsSum += float64(r.TotalFlights)
			flightTimeSum += r.AvgFlightTime
			chargesSum += float64(r.TotalCharges)
			chargeTimeSum += r.AvgChargeTime
			faultsSum += float64(r.TotalFaults)
			milesSum += r.TotalPassengerMiles
			miles = append(miles, r.TotalPassengerMiles)
		}
		if n == 0 {
			continue
		}
		out[c].MeanTotalFlights = flightsSum / n
		out[c].MeanAvgFlightTime = flightTimeSum / n
		out[c].MeanTotalCharges = chargesSum / n
		out[c].MeanAvgChargeTime = chargeTimeSum / n
		out[c].MeanTotalFaults = faultsSum / n
		out[c].MeanPassengerMiles = milesSum / n

		sort.Float64s(miles)
		out[c].P05PassengerMiles = percentileSorted(miles, 0.05)
		out[c].P95PassengerMiles = percentileSorted(miles, 0.95)
	}
	return out
}

// percentileSorted linearly interpolates the q-th percentile of an
// already-sorted slice.
func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

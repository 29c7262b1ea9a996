// Package simresult writes simulation outputs to CSV, the same
// one-column-per-field style the teacher's backtest ledger writer uses. The
// simulation engine itself performs no file I/O; this package is an outer
// layer invoked by the CLI after a run completes.
package simresult

import (
	"encoding/csv"
	"os"
	"strconv"

	"evtolsim/internal/model"
	"evtolsim/internal/sim"
)

// WriteSummaryCSV writes one row per aircraft class with the aggregate
// statistics from a completed run.
func WriteSummaryCSV(path string, results [model.ClassCount]sim.ClassResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"class",
		"total_flights",
		"avg_flight_time_seconds",
		"avg_flight_miles",
		"total_charges",
		"avg_charge_time_seconds",
		"avg_charge_time_plus_wait_seconds",
		"total_faults",
		"total_passenger_miles",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.Class.Name,
			strconv.Itoa(r.TotalFlights),
			fmtFloat(r.AvgFlightTime),
			fmtFloat(r.AvgFlightMiles),
			strconv.Itoa(r.TotalCharges),
			fmtFloat(r.AvgChargeTime),
			fmtFloat(r.AvgChargeTimePlusWait),
			strconv.Itoa(r.TotalFaults),
			fmtFloat(r.TotalPassengerMiles),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

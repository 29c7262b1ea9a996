package model

import (
	"math"
	"testing"
)

func TestDeriveClassDefaultUnits(t *testing.T) {
	spec := ClassSpec{CruiseMPH: 120, BatteryKWh: 320, ChargeHours: 0.6, EnergyKWhPerMile: 1.6, Seats: 4, FaultsPerHour: 0}
	d := DeriveClass(spec, 60)

	if got, want := d.RangeMiles, 200.0; got != want {
		t.Errorf("RangeMiles = %v, want %v", got, want)
	}
	if got, want := d.FlightSecondsFull, int64(6000); got != want {
		t.Errorf("FlightSecondsFull = %v, want %v", got, want)
	}
	if got, want := d.ChargeSeconds, int64(2160); got != want {
		t.Errorf("ChargeSeconds = %v, want %v", got, want)
	}
	if !math.IsInf(d.MeanFaultIntervalSeconds, 1) {
		t.Errorf("MeanFaultIntervalSeconds = %v, want +Inf", d.MeanFaultIntervalSeconds)
	}
}

func TestDeriveClassFaultRate(t *testing.T) {
	spec := ClassSpec{CruiseMPH: 100, BatteryKWh: 100, ChargeHours: 0.2, EnergyKWhPerMile: 1.5, Seats: 5, FaultsPerHour: 3600}
	d := DeriveClass(spec, 60)
	if got, want := d.MeanFaultIntervalSeconds, 1.0; got != want {
		t.Errorf("MeanFaultIntervalSeconds = %v, want %v", got, want)
	}
}

func TestDeriveClassUnitsPerMinuteScaling(t *testing.T) {
	spec := ClassSpec{CruiseMPH: 120, BatteryKWh: 320, ChargeHours: 0.6, EnergyKWhPerMile: 1.6, Seats: 4, FaultsPerHour: 1}
	seconds := DeriveClass(spec, 60)
	minutes := DeriveClass(spec, 1)
	if minutes.FlightSecondsFull*60 != seconds.FlightSecondsFull {
		t.Errorf("minute-ticks FlightSecondsFull*60 = %d, want %d", minutes.FlightSecondsFull*60, seconds.FlightSecondsFull)
	}
}

func TestClassSpecValidate(t *testing.T) {
	valid := ClassSpec{CruiseMPH: 1, BatteryKWh: 1, ChargeHours: 1, EnergyKWhPerMile: 1, Seats: 1, FaultsPerHour: 0}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid spec rejected: %v", err)
	}

	cases := []ClassSpec{
		{CruiseMPH: 0, BatteryKWh: 1, ChargeHours: 1, EnergyKWhPerMile: 1, Seats: 1},
		{CruiseMPH: 1, BatteryKWh: 0, ChargeHours: 1, EnergyKWhPerMile: 1, Seats: 1},
		{CruiseMPH: 1, BatteryKWh: 1, ChargeHours: 0, EnergyKWhPerMile: 1, Seats: 1},
		{CruiseMPH: 1, BatteryKWh: 1, ChargeHours: 1, EnergyKWhPerMile: 0, Seats: 1},
		{CruiseMPH: 1, BatteryKWh: 1, ChargeHours: 1, EnergyKWhPerMile: 1, Seats: 0},
		{CruiseMPH: 1, BatteryKWh: 1, ChargeHours: 1, EnergyKWhPerMile: 1, Seats: 1, FaultsPerHour: -1},
	}
	for i, c := range cases {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected validation error, got nil", i)
		}
	}
}

func TestDefaultClassTableAllValid(t *testing.T) {
	for i, c := range DefaultClassTable() {
		if err := c.Validate(); err != nil {
			t.Errorf("default class %d invalid: %v", i, err)
		}
	}
}

func TestClassIDString(t *testing.T) {
	if ClassAlpha.String() != "Alpha" {
		t.Errorf("ClassAlpha.String() = %q, want Alpha", ClassAlpha.String())
	}
	if ClassID(99).String() != "Unknown" {
		t.Errorf("out-of-range ClassID.String() = %q, want Unknown", ClassID(99).String())
	}
}

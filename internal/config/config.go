// Package config loads and validates the YAML settings document that
// drives a simulation run, the CLI, and the HTTP API.
package config

import (
	"fmt"
	"os"

	"evtolsim/internal/model"
	"evtolsim/internal/sim"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	SimulationDurationSeconds int64           `yaml:"simulation_duration_seconds"`
	ChargerCount              int             `yaml:"charger_count"`
	PlaneCount                int             `yaml:"plane_count"`
	MinPerClass               int             `yaml:"min_per_class"`
	PassengerCountOption      string          `yaml:"passenger_count_option"`
	MaxPassengerDelaySeconds  int64           `yaml:"max_passenger_delay_seconds"`
	FaultOption               string          `yaml:"fault_option"`
	RandomSeed                int64           `yaml:"random_seed"`
	UnitsPerMinute            float64         `yaml:"units_per_minute"`
	Classes                   []ClassOverride `yaml:"classes"`
}

// ClassOverride replaces one row of the built-in five-class table. Index
// selects the class by position (0=Alpha .. 4=Echo); any zero-valued field
// falls back to the built-in default for that class.
type ClassOverride struct {
	Index            int     `yaml:"index"`
	CruiseMPH        float64 `yaml:"cruise_mph"`
	BatteryKWh       float64 `yaml:"battery_kwh"`
	ChargeHours      float64 `yaml:"charge_hours"`
	EnergyKWhPerMile float64 `yaml:"energy_kwh_per_mile"`
	Seats            int     `yaml:"seats"`
	FaultsPerHour    float64 `yaml:"faults_per_hour"`
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked reads a config file without validating it, useful for
// debugging or printing a partially-filled-in document.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.PassengerCountOption == "" {
		c.PassengerCountOption = string(sim.PassengerCountAlwaysFull)
	}
	if c.FaultOption == "" {
		c.FaultOption = string(sim.FaultCountOnly)
	}
	return &c, nil
}

// Validate checks the document for internal consistency by constructing the
// real sim.Settings/sim.Simulation and surfacing whatever error it returns,
// rather than duplicating the engine's own invariants here.
func (c *Config) Validate() error {
	_, err := c.ToSimulation()
	if err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	return nil
}

// ToSettings converts the loaded document into sim.Settings.
func (c *Config) ToSettings() sim.Settings {
	s := sim.Settings{
		SimulationDurationSeconds: c.SimulationDurationSeconds,
		ChargerCount:              c.ChargerCount,
		PlaneCount:                c.PlaneCount,
		MinPerClass:               c.MinPerClass,
		PassengerCountOption:      sim.PassengerCountOption(c.PassengerCountOption),
		MaxPassengerDelaySeconds:  c.MaxPassengerDelaySeconds,
		FaultOption:               sim.FaultOption(c.FaultOption),
		RandomSeed:                c.RandomSeed,
		UnitsPerMinute:            c.UnitsPerMinute,
	}
	for _, o := range c.Classes {
		if o.Index < 0 || o.Index >= model.ClassCount {
			continue
		}
		spec := classOverrideToSpec(o)
		s.Classes[o.Index] = &spec
	}
	return s
}

// ToSimulation constructs a sim.Simulation from the document, the same
// validation path the engine itself uses.
func (c *Config) ToSimulation() (*sim.Simulation, error) {
	return sim.NewSimulation(c.ToSettings())
}

func classOverrideToSpec(o ClassOverride) model.ClassSpec {
	spec := model.DefaultClassTable()[o.Index]
	if o.CruiseMPH != 0 {
		spec.CruiseMPH = o.CruiseMPH
	}
	if o.BatteryKWh != 0 {
		spec.BatteryKWh = o.BatteryKWh
	}
	if o.ChargeHours != 0 {
		spec.ChargeHours = o.ChargeHours
	}
	if o.EnergyKWhPerMile != 0 {
		spec.EnergyKWhPerMile = o.EnergyKWhPerMile
	}
	if o.Seats != 0 {
		spec.Seats = o.Seats
	}
	if o.FaultsPerHour != 0 {
		spec.FaultsPerHour = o.FaultsPerHour
	}
	return spec
}

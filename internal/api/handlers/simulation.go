package handlers

import (
	"net/http"

	"evtolsim/internal/api/models"
	"evtolsim/internal/fleetdriver"
	"evtolsim/internal/model"
	"evtolsim/internal/sim"

	"github.com/gin-gonic/gin"
)

// SimulationHandler handles simulation-related requests.
type SimulationHandler struct{}

// NewSimulationHandler constructs a SimulationHandler.
func NewSimulationHandler() *SimulationHandler {
	return &SimulationHandler{}
}

// RunSimulation handles POST /api/v1/simulations.
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	settings := toSettings(req)
	s, err := sim.NewSimulation(settings)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_SPEC", err.Error())
		return
	}

	results, err := s.Run(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "RUN_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, models.SimulationResponse{
		Status:  "ok",
		Results: toClassStats(results),
	})
}

// RunBatch handles POST /api/v1/simulations/batch.
func (h *SimulationHandler) RunBatch(c *gin.Context) {
	var req models.BatchSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Runs <= 0 {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "runs must be > 0")
		return
	}

	settings := toSettings(req.SimulationRequest)
	if _, err := sim.NewSimulation(settings); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_SPEC", err.Error())
		return
	}

	results, err := fleetdriver.RunBatch(c.Request.Context(), settings, req.Runs, req.MaxConcurrency)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "RUN_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, models.BatchSimulationResponse{
		Status:  "ok",
		Runs:    req.Runs,
		Results: toBatchClassStats(results),
	})
}

func toSettings(req models.SimulationRequest) sim.Settings {
	s := sim.Settings{
		SimulationDurationSeconds: req.SimulationDurationSeconds,
		ChargerCount:              req.ChargerCount,
		PlaneCount:                req.PlaneCount,
		MinPerClass:               req.MinPerClass,
		PassengerCountOption:      sim.PassengerCountOption(req.PassengerCountOption),
		MaxPassengerDelaySeconds:  req.MaxPassengerDelaySeconds,
		FaultOption:               sim.FaultOption(req.FaultOption),
		RandomSeed:                req.RandomSeed,
		UnitsPerMinute:            req.UnitsPerMinute,
	}
	if s.PassengerCountOption == "" {
		s.PassengerCountOption = sim.PassengerCountAlwaysFull
	}
	if s.FaultOption == "" {
		s.FaultOption = sim.FaultCountOnly
	}
	for _, o := range req.Classes {
		if o.Index < 0 || o.Index >= model.ClassCount {
			continue
		}
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
		s.Classes[o.Index] = &spec
	}
	return s
}

func toClassStats(results [model.ClassCount]sim.ClassResult) []models.ClassStats {
	out := make([]models.ClassStats, 0, model.ClassCount)
	for _, r := range results {
		out = append(out, models.ClassStats{
			Class:                 r.Class.Name,
			TotalFlights:          r.TotalFlights,
			AvgFlightTimeSeconds:  r.AvgFlightTime,
			AvgFlightMiles:        r.AvgFlightMiles,
			TotalCharges:          r.TotalCharges,
			AvgChargeTimeSeconds:  r.AvgChargeTime,
			AvgChargeTimePlusWait: r.AvgChargeTimePlusWait,
			TotalFaults:           r.TotalFaults,
			TotalPassengerMiles:   r.TotalPassengerMiles,
		})
	}
	return out
}

func toBatchClassStats(results [model.ClassCount]fleetdriver.BatchResult) []models.BatchClassStats {
	out := make([]models.BatchClassStats, 0, model.ClassCount)
	for _, r := range results {
		out = append(out, models.BatchClassStats{
			Class:              r.Class.Name,
			MeanTotalFlights:   r.MeanTotalFlights,
			MeanAvgFlightTime:  r.MeanAvgFlightTime,
			MeanTotalCharges:   r.MeanTotalCharges,
			MeanAvgChargeTime:  r.MeanAvgChargeTime,
			MeanTotalFaults:    r.MeanTotalFaults,
			MeanPassengerMiles: r.MeanPassengerMiles,
			P05PassengerMiles:  r.P05PassengerMiles,
			P95PassengerMiles:  r.P95PassengerMiles,
		})
	}
	return out
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}

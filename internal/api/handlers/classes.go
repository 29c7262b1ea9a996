package handlers

import (
	"net/http"

	"evtolsim/internal/api/models"
	"evtolsim/internal/model"

	"github.com/gin-gonic/gin"
)

// ListClasses handles GET /api/v1/classes, returning the five built-in
// aircraft class specifications and their derived range.
func ListClasses(c *gin.Context) {
	defaults := model.DefaultClassTable()
	out := make([]models.ClassInfo, 0, model.ClassCount)
	for i, spec := range defaults {
		derived := model.DeriveClass(spec, 60)
		out = append(out, models.ClassInfo{
			Index:            i,
			Name:             model.ClassID(i).String(),
			CruiseMPH:        spec.CruiseMPH,
			BatteryKWh:       spec.BatteryKWh,
			ChargeHours:      spec.ChargeHours,
			EnergyKWhPerMile: spec.EnergyKWhPerMile,
			Seats:            spec.Seats,
			FaultsPerHour:    spec.FaultsPerHour,
			RangeMiles:       derived.RangeMiles,
		})
	}
	c.JSON(http.StatusOK, gin.H{"classes": out})
}

// Command simapi serves the simulation engine over HTTP.
package main

import (
	"fmt"
	"log"
	"os"

	"evtolsim/internal/api/handlers"
	"evtolsim/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	simHandler := handlers.NewSimulationHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/simulations", simHandler.RunSimulation)
		api.POST("/simulations/batch", simHandler.RunBatch)
		api.GET("/classes", handlers.ListClasses)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("[simapi] starting on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("[simapi] failed to start server: %v", err)
	}
}

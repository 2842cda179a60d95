package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/madridpricer/backend/config"
	httpDelivery "github.com/madridpricer/backend/internal/delivery/http"
	"github.com/madridpricer/backend/internal/infrastructure/artifact"
	"github.com/madridpricer/backend/internal/infrastructure/cache"
	"github.com/madridpricer/backend/internal/infrastructure/dataset"
	"github.com/madridpricer/backend/internal/infrastructure/geodata"
	"github.com/madridpricer/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MadridPricer Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Load the two read-only artifacts. A failure here keeps the server up
	// in degraded mode: every prediction answers 503 until the artifacts
	// are fixed and the process restarted.
	var predictionService *usecase.PredictionService
	model, err := artifact.LoadModel(cfg.Model.Path)
	if err != nil {
		log.Printf("WARNING: model artifact failed to load: %v", err)
	}
	columns, err := artifact.LoadColumns(cfg.Model.ColumnsPath)
	if err != nil {
		log.Printf("WARNING: column schema artifact failed to load: %v", err)
	}

	var translator *usecase.Translator
	if columns != nil {
		translator, err = usecase.NewTranslator(columns)
		if err != nil {
			log.Printf("WARNING: column schema drifted from translator: %v", err)
		}
	}
	predictionService = usecase.NewPredictionService(model, translator)
	if predictionService.Ready() {
		log.Printf("Prediction service ready (%d features)", len(columns))
	} else {
		log.Printf("WARNING: prediction service in degraded mode - predictions will fail")
	}

	// Investor bargain view
	memoryCache := cache.NewMemoryCache()
	bargainRepo := dataset.NewBargainCSVRepository(cfg.Data.BargainsPath)
	bargainService := usecase.NewBargainService(bargainRepo, memoryCache, usecase.BargainServiceConfig{
		CacheTTL: cfg.Data.CacheTTL,
	})
	log.Printf("Bargain dataset: %s (cache TTL %s)", cfg.Data.BargainsPath, cfg.Data.CacheTTL)

	// Neighbourhood boundaries for the map; optional, the API degrades to 503
	boundaries, err := geodata.Load(cfg.Data.GeoJSONPath)
	if err != nil {
		log.Printf("WARNING: neighbourhood boundaries failed to load: %v", err)
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(predictionService, bargainService, boundaries)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)

	// Local .env is optional; real deployments use the environment
	_ = godotenv.Load()
}

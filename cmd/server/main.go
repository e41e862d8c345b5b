package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mealcart/backend/config"
	httpDelivery "github.com/mealcart/backend/internal/delivery/http"
	"github.com/mealcart/backend/internal/infrastructure/pricestore"
	"github.com/mealcart/backend/internal/infrastructure/seed"
	"github.com/mealcart/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MealCart Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Freshness window: %s", cfg.Prices.FreshnessWindow)

	// Infrastructure
	store := pricestore.NewMemoryStore()
	catalog := seed.NewCatalog()

	// Usecase layer
	view := usecase.NewPriceView(store, nil, usecase.PriceViewConfig{
		FreshnessWindow: cfg.Prices.FreshnessWindow,
	})
	ingestor := usecase.NewIngestor(store, nil)
	optimizer := usecase.NewOptimizer(catalog, usecase.OptimizerConfig{
		BudgetTolerance:   cfg.Optimizer.BudgetTolerance,
		MaxPerItemBase:    cfg.Optimizer.MaxPerItemBase,
		MinProteinVariety: cfg.Optimizer.MinProteinVariety,
		ProteinFloorBase:  cfg.Optimizer.ProteinFloorBase,
	})
	planner := usecase.NewPlanner(
		view,
		optimizer,
		usecase.NewAssembler(),
		usecase.NewSummarizer(usecase.SummarizerConfig{
			FlatProteinTargetG: cfg.Nutrition.FlatProteinTargetG,
			FlatCalorieTarget:  cfg.Nutrition.FlatCalorieTarget,
		}),
		usecase.PlannerConfig{SolverTimeout: cfg.Optimizer.SolverTimeout},
	)

	if cfg.Prices.SeedDemoData {
		seedDemoPrices(ingestor)
	}

	log.Printf("Optimizer: tolerance=%.0f%%, variety>=%d, solver timeout=%s",
		cfg.Optimizer.BudgetTolerance*100,
		cfg.Optimizer.MinProteinVariety,
		cfg.Optimizer.SolverTimeout)

	handler := httpDelivery.NewHandler(planner, view, ingestor, catalog)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedDemoPrices loads the bundled Vienna demo prices through the normal
// ingestion path so the API answers without a live price collaborator.
func seedDemoPrices(ingestor *usecase.Ingestor) {
	demo := seed.DemoPrices()
	records := make([]usecase.RawPriceRecord, len(demo))
	for i, d := range demo {
		records[i] = usecase.RawPriceRecord{
			ProductName: d.ProductName,
			Store:       d.Store,
			City:        d.City,
			Currency:    d.Currency,
			Price:       d.Price,
			Quantity:    d.Quantity,
			OnSale:      d.OnSale,
			SalePrice:   d.SalePrice,
			URL:         d.URL,
		}
	}
	accepted, skipped, err := ingestor.Ingest(context.Background(), records)
	if err != nil {
		log.Fatalf("Failed to seed demo prices: %v", err)
	}
	log.Printf("Seeded %d demo prices (%d skipped)", accepted, skipped)
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

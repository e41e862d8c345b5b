package config

import (
	"os"
	"testing"
	"time"
)

// clearEnv removes every MEALCART_ variable so tests see only defaults plus
// what they set themselves.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MEALCART_SERVER.PORT",
		"MEALCART_SERVER.ENVIRONMENT",
		"MEALCART_OPTIMIZER.BUDGET_TOLERANCE",
		"MEALCART_OPTIMIZER.SOLVER_TIMEOUT",
		"MEALCART_PRICES.FRESHNESS_WINDOW",
		"MEALCART_RATELIMIT.PER_IP",
	} {
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("environment = %q, want development", cfg.Server.Environment)
	}
	if cfg.Prices.FreshnessWindow != 168*time.Hour {
		t.Errorf("freshness window = %v, want 168h", cfg.Prices.FreshnessWindow)
	}
	if cfg.Optimizer.BudgetTolerance != 0.02 {
		t.Errorf("budget tolerance = %v, want 0.02", cfg.Optimizer.BudgetTolerance)
	}
	if cfg.Optimizer.MinProteinVariety != 3 {
		t.Errorf("min protein variety = %d, want 3", cfg.Optimizer.MinProteinVariety)
	}
	if cfg.Optimizer.SolverTimeout != 5*time.Second {
		t.Errorf("solver timeout = %v, want 5s", cfg.Optimizer.SolverTimeout)
	}
	if cfg.RateLimit.PerIP != 5.0 {
		t.Errorf("rate limit = %v, want 5", cfg.RateLimit.PerIP)
	}
	if !cfg.Prices.SeedDemoData {
		t.Error("seed_demo_data should default to true")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080", Environment: "development"},
			Prices: PricesConfig{FreshnessWindow: 168 * time.Hour},
			Optimizer: OptimizerConfig{
				BudgetTolerance:   0.02,
				MaxPerItemBase:    2000,
				MinProteinVariety: 3,
				ProteinFloorBase:  300,
				SolverTimeout:     5 * time.Second,
			},
			RateLimit: RateLimitConfig{PerIP: 5, Burst: 10},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		if err := validate(base()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("negative tolerance rejected", func(t *testing.T) {
		cfg := base()
		cfg.Optimizer.BudgetTolerance = -0.1
		if err := validate(cfg); err == nil {
			t.Error("expected error for negative tolerance")
		}
	})

	t.Run("excessive tolerance rejected", func(t *testing.T) {
		cfg := base()
		cfg.Optimizer.BudgetTolerance = 0.9
		if err := validate(cfg); err == nil {
			t.Error("expected error for tolerance above 0.5")
		}
	})

	t.Run("zero variety rejected", func(t *testing.T) {
		cfg := base()
		cfg.Optimizer.MinProteinVariety = 0
		if err := validate(cfg); err == nil {
			t.Error("expected error for zero variety minimum")
		}
	})

	t.Run("zero solver timeout rejected", func(t *testing.T) {
		cfg := base()
		cfg.Optimizer.SolverTimeout = 0
		if err := validate(cfg); err == nil {
			t.Error("expected error for zero solver timeout")
		}
	})

	t.Run("zero freshness window rejected", func(t *testing.T) {
		cfg := base()
		cfg.Prices.FreshnessWindow = 0
		if err := validate(cfg); err == nil {
			t.Error("expected error for zero freshness window")
		}
	})

	t.Run("zero rate limit rejected", func(t *testing.T) {
		cfg := base()
		cfg.RateLimit.PerIP = 0
		if err := validate(cfg); err == nil {
			t.Error("expected error for zero rate limit")
		}
	})
}

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Prices    PricesConfig
	Optimizer OptimizerConfig
	Nutrition NutritionConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PricesConfig holds price repository configuration.
type PricesConfig struct {
	// FreshnessWindow is the maximum observation age before it is flagged
	// stale.
	FreshnessWindow time.Duration `mapstructure:"freshness_window"`
	SeedDemoData    bool          `mapstructure:"seed_demo_data"`
}

// OptimizerConfig holds the optimization constraint defaults.
type OptimizerConfig struct {
	BudgetTolerance   float64       `mapstructure:"budget_tolerance"`
	MaxPerItemBase    float64       `mapstructure:"max_per_item_base"`
	MinProteinVariety int           `mapstructure:"min_protein_variety"`
	ProteinFloorBase  float64       `mapstructure:"protein_floor_base"`
	SolverTimeout     time.Duration `mapstructure:"solver_timeout"`
}

// NutritionConfig holds the summarizer's fallback targets.
type NutritionConfig struct {
	FlatProteinTargetG float64 `mapstructure:"flat_protein_target_g"`
	FlatCalorieTarget  float64 `mapstructure:"flat_calorie_target"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	PerIP float64 `mapstructure:"per_ip"` // requests per second
	Burst int     `mapstructure:"burst"`
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mealcart/")

	v.SetEnvPrefix("MEALCART")
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Price repository defaults
	v.SetDefault("prices.freshness_window", "168h") // 7 days
	v.SetDefault("prices.seed_demo_data", true)

	// Optimizer defaults
	v.SetDefault("optimizer.budget_tolerance", 0.02)
	v.SetDefault("optimizer.max_per_item_base", 2000.0)
	v.SetDefault("optimizer.min_protein_variety", 3)
	v.SetDefault("optimizer.protein_floor_base", 300.0)
	v.SetDefault("optimizer.solver_timeout", "5s")

	// Nutrition defaults
	v.SetDefault("nutrition.flat_protein_target_g", 56.0)
	v.SetDefault("nutrition.flat_calorie_target", 2000.0)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 5.0)
	v.SetDefault("ratelimit.burst", 10)
}

// validate validates the configuration.
func validate(config *Config) error {
	if config.Optimizer.BudgetTolerance < 0 || config.Optimizer.BudgetTolerance > 0.5 {
		return fmt.Errorf("budget tolerance must be in [0, 0.5], got: %v", config.Optimizer.BudgetTolerance)
	}
	if config.Optimizer.MinProteinVariety < 1 {
		return fmt.Errorf("minimum protein variety must be at least 1, got: %d", config.Optimizer.MinProteinVariety)
	}
	if config.Optimizer.SolverTimeout <= 0 {
		return fmt.Errorf("solver timeout must be positive, got: %v", config.Optimizer.SolverTimeout)
	}
	if config.Prices.FreshnessWindow <= 0 {
		return fmt.Errorf("freshness window must be positive, got: %v", config.Prices.FreshnessWindow)
	}
	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("per-IP rate limit must be positive, got: %v", config.RateLimit.PerIP)
	}
	return nil
}

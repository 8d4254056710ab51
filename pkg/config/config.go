package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// FeePercent is the exchange fee fraction, e.g. "0.005" for 0.5%.
	FeePercent decimal.Decimal

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string

	// CORSAllowedOrigins is a comma separated origin list; "*" allows all.
	CORSAllowedOrigins string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("FEE_PERCENT", "0.005")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = viper.GetString("CORS_ALLOWED_ORIGINS")

	feePercentStr := viper.GetString("FEE_PERCENT")
	feePercent, err := decimal.NewFromString(feePercentStr)
	if err != nil {
		return nil, fmt.Errorf("invalid value for FEE_PERCENT ('%s'): %w", feePercentStr, err)
	}
	if feePercent.IsNegative() || feePercent.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("FEE_PERCENT must be within [0, 1), got '%s'", feePercentStr)
	}
	cfg.FeePercent = feePercent

	return cfg, nil
}

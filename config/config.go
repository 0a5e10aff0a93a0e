package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/auth"
	"storefront/pricing"
)

type Config struct {
	Env          string
	DBConnStr    string
	JWTSecret    []byte
	ServerPort   string
	TokenTTL     time.Duration
	CORSOrigins  []string
	ShippingFlat decimal.Decimal
	TaxRate      decimal.Decimal
}

// LoadConfig reads the environment. Call godotenv.Load first to pick up a
// local .env file.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Env:         getEnvOrDefault("APP_ENV", "dev"),
		DBConnStr:   getEnvOrDefault("DB_CONN", "host=localhost port=5432 user=postgres dbname=storefront sslmode=disable"),
		JWTSecret:   []byte(getEnvOrDefault("JWT_SECRET", "")),
		ServerPort:  getEnvOrDefault("PORT", "8080"),
		CORSOrigins: splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost:5173")),
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(getEnvOrDefault("TOKEN_TTL", auth.DefaultTokenTTL.String())); err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if cfg.ShippingFlat, err = decimal.NewFromString(getEnvOrDefault("SHIPPING_FLAT", pricing.DefaultShipping.String())); err != nil {
		return nil, fmt.Errorf("SHIPPING_FLAT: %w", err)
	}
	if cfg.TaxRate, err = decimal.NewFromString(getEnvOrDefault("TAX_RATE", pricing.DefaultTaxRate.String())); err != nil {
		return nil, fmt.Errorf("TAX_RATE: %w", err)
	}
	if cfg.ShippingFlat.IsNegative() || cfg.TaxRate.IsNegative() {
		return nil, fmt.Errorf("SHIPPING_FLAT and TAX_RATE must not be negative")
	}
	return cfg, nil
}

func (c *Config) Production() bool { return c.Env == "prod" }

func getEnvOrDefault(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

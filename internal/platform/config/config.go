package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	StoreDriver   string
	MigrationsURL string

	JWTSecret string
	JWTIssuer string

	// Presentation
	OrganizationName string
	CurrencySymbol   string
	Denominations    []string

	SessionIdleTimeout time.Duration

	// HTTP edge
	RateLimit          string
	RateLimitRedisURL  string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "offering-reconciliation")
	v.SetDefault("ORGANIZATION_NAME", "Congregation")
	v.SetDefault("CURRENCY_SYMBOL", "£")
	v.SetDefault("DENOMINATIONS", "50,20,10,5")
	v.SetDefault("SESSION_IDLE_TIMEOUT", "12h")
	v.SetDefault("RATE_LIMIT", "120-M")
	v.SetDefault("RATE_LIMIT_REDIS_URL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:       v.GetString("PGSQL_URL"),
		Port:              v.GetString("PORT"),
		IsProduction:      v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:     v.GetBool("ENABLE_DB_CHECK"),
		StoreDriver:       strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		MigrationsURL:     v.GetString("MIGRATIONS_PATH"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTIssuer:         v.GetString("JWT_ISSUER"),
		OrganizationName:  v.GetString("ORGANIZATION_NAME"),
		CurrencySymbol:    v.GetString("CURRENCY_SYMBOL"),
		RateLimit:         v.GetString("RATE_LIMIT"),
		RateLimitRedisURL: v.GetString("RATE_LIMIT_REDIS_URL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_DRIVER is %q", StoreDriverPostgres)
		}
	case StoreDriverMemory:
		log.Println("Warning: STORE_DRIVER=memory. Committed records are lost on restart.")
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q (want %q or %q)", cfg.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.Denominations = splitList(v.GetString("DENOMINATIONS"))
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	idleStr := v.GetString("SESSION_IDLE_TIMEOUT")
	idle, err := time.ParseDuration(idleStr)
	if err != nil || idle <= 0 {
		idle = 12 * time.Hour
		log.Printf("Warning: Invalid value for SESSION_IDLE_TIMEOUT ('%s'). Defaulting to %s.\n", idleStr, idle)
	}
	cfg.SessionIdleTimeout = idle

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package config loads service configuration from the process environment.
//
// A local .env file is honoured when present (see Load). Every value has a
// default except the secrets and connection strings, which Validate checks.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

const minSecretLength = 16

// Config is the root configuration object.
type Config struct {
	Service   ServiceConfig
	Logging   LoggingConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	CORS      CORSConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig
	Shutdown  ShutdownConfig
}

type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
}

type LoggingConfig struct {
	Level string
}

type DatabaseConfig struct {
	Driver        string
	URL           string
	MaxConns      int32
	MongoURI      string
	MongoDatabase string
}

type AuthConfig struct {
	JWTSecret     string
	JWTIssuer     string
	TokenTTL      time.Duration
	CookieEnabled bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

type ShutdownConfig struct {
	Timeout        string
	ReadinessDrain string
}

// Load reads configuration from the environment, after loading .env if one exists.
func Load() *Config {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "sales-service"),
			Version: getEnv("SERVICE_VERSION", "dev"),
			Env:     getEnv("ENV", "development"),
			Port:    getEnv("PORT", "8080"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Driver:        strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			URL:           getEnv("DATABASE_URL", ""),
			MaxConns:      int32(getEnvInt("DB_MAX_CONNS", 10)),
			MongoURI:      getEnv("MONGO_URI", ""),
			MongoDatabase: getEnv("MONGO_DATABASE", "sales"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			JWTIssuer:     getEnv("JWT_ISSUER", "sales-service"),
			TokenTTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
			CookieEnabled: getEnvBool("AUTH_COOKIE_ENABLED", true),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvFloat("OTEL_SAMPLE_RATE", 1.0),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PYROSCOPE_ENDPOINT", "http://localhost:4040"),
		},
		Shutdown: ShutdownConfig{
			Timeout:        getEnv("SHUTDOWN_TIMEOUT", "10s"),
			ReadinessDrain: getEnv("READINESS_DRAIN_DELAY", "0s"),
		},
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Service.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DB_DRIVER=postgres"))
		}
		if c.Database.MaxConns <= 0 {
			errs = append(errs, errors.New("DB_MAX_CONNS must be positive"))
		}
	case DriverMongo:
		if c.Database.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when DB_DRIVER=mongo"))
		}
		if c.Database.MongoDatabase == "" {
			errs = append(errs, errors.New("MONGO_DATABASE is required when DB_DRIVER=mongo"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.Auth.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, errors.New("OTEL_SAMPLE_RATE must be within [0, 1]"))
	}

	if _, err := time.ParseDuration(c.Shutdown.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err))
	}
	if _, err := time.ParseDuration(c.Shutdown.ReadinessDrain); err != nil {
		errs = append(errs, fmt.Errorf("invalid READINESS_DRAIN_DELAY: %w", err))
	}

	return errors.Join(errs...)
}

// GetShutdownTimeoutDuration returns the graceful shutdown budget.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Shutdown.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetReadinessDrainDelayDuration returns how long /ready reports 503 before the HTTP server stops.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.Shutdown.ReadinessDrain)
	if err != nil {
		return 0
	}
	return d
}

// HTTPAddress returns the listen address.
func (c *Config) HTTPAddress() string {
	return ":" + c.Service.Port
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return f
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return def
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

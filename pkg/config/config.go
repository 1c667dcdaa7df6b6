package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	ServiceProperty = "property"
	ServiceUser     = "user"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type AppConfig struct {
	Service     string
	Port        string
	Environment string

	Database    DatabaseConfig
	UserService UserServiceConfig
	Telemetry   TelemetrySettings

	LokiURL string
	// SQLLogLevel is the zerolog level of the SQL statement log.
	SQLLogLevel string

	RateLimitEnabled bool
	RateLimitStore   string
	RedisAddr        string
	RateLimitConfigs map[string]RateLimitConfig

	EnforceHTTPS bool
}

type DatabaseConfig struct {
	Driver string
	Path   string
	URL    string
}

type UserServiceConfig struct {
	URL     string
	Timeout time.Duration
}

type TelemetrySettings struct {
	Enabled      bool
	OTLPEndpoint string
	MetricsPort  string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service", ServiceProperty)
	v.SetDefault("server.port", "8080")
	v.SetDefault("environment", "development")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "booking.db")
	v.SetDefault("database.url", "")
	v.SetDefault("user_service.url", "http://localhost:8081")
	v.SetDefault("user_service.timeout", 5*time.Second)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4317")
	v.SetDefault("telemetry.metrics_port", "9090")
	v.SetDefault("logging.loki_url", "")
	v.SetDefault("logging.sql_level", "")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.store", StoreMemory)
	v.SetDefault("rate_limit.redis_addr", "localhost:6379")
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("enforce_https", false)
}

// Load reads defaults, then the optional file at configPath, then BOOKING_*
// environment variables (BOOKING_DATABASE_DRIVER for database.driver).
func Load(configPath string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BOOKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func GetDefaultConfig() *AppConfig {
	v := viper.New()
	setDefaults(v)

	cfg, _ := fromViper(v)
	return cfg
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		Service:     v.GetString("service"),
		Port:        v.GetString("server.port"),
		Environment: v.GetString("environment"),
		Database: DatabaseConfig{
			Driver: v.GetString("database.driver"),
			Path:   v.GetString("database.path"),
			URL:    v.GetString("database.url"),
		},
		UserService: UserServiceConfig{
			URL:     v.GetString("user_service.url"),
			Timeout: v.GetDuration("user_service.timeout"),
		},
		Telemetry: TelemetrySettings{
			Enabled:      v.GetBool("telemetry.enabled"),
			OTLPEndpoint: v.GetString("telemetry.otlp_endpoint"),
			MetricsPort:  v.GetString("telemetry.metrics_port"),
		},
		LokiURL:          v.GetString("logging.loki_url"),
		SQLLogLevel:      sqlLogLevel(v.GetString("logging.sql_level"), v.GetString("environment")),
		RateLimitEnabled: v.GetBool("rate_limit.enabled"),
		RateLimitStore:   v.GetString("rate_limit.store"),
		RedisAddr:        v.GetString("rate_limit.redis_addr"),
		EnforceHTTPS:     v.GetBool("enforce_https"),
	}

	base := RateLimitConfig{
		Requests: v.GetInt("rate_limit.requests"),
		Window:   v.GetDuration("rate_limit.window"),
	}

	// Creation and batch endpoints get a fifth of the general budget.
	strict := RateLimitConfig{Requests: max(base.Requests/5, 1), Window: base.Window}

	cfg.RateLimitConfigs = map[string]RateLimitConfig{
		"POST /api/v1/properties":       strict,
		"POST /api/v1/properties/batch": strict,
		"POST /api/v1/users":            strict,
		"POST /api/v1/users/batch":      strict,
		"default":                       base,
	}

	if _, err := zerolog.ParseLevel(cfg.SQLLogLevel); err != nil {
		return nil, fmt.Errorf("invalid logging.sql_level %q: %w", cfg.SQLLogLevel, err)
	}

	switch cfg.Service {
	case ServiceProperty, ServiceUser:
	default:
		return nil, fmt.Errorf("unknown service %q", cfg.Service)
	}

	switch cfg.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	switch cfg.RateLimitStore {
	case StoreMemory, StoreRedis:
	default:
		return nil, fmt.Errorf("unknown rate limit store %q", cfg.RateLimitStore)
	}

	return cfg, nil
}

// sqlLogLevel logs every statement in development and only failures elsewhere.
func sqlLogLevel(level, environment string) string {
	if level != "" {
		return level
	}

	if environment == "development" {
		return zerolog.DebugLevel.String()
	}

	return zerolog.ErrorLevel.String()
}

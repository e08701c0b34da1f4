package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Admin    AdminConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	EventsChannel string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig covers password hashing and throttling of the credential endpoints.
type AuthConfig struct {
	BcryptCost         int
	RateLimitPerSecond int
	RateLimitBurst     int
}

// AdminConfig holds the console operator credentials and token settings.
type AdminConfig struct {
	Username        string
	Password        string
	JWTSecret       string
	TokenTTLMinutes int
}

// Enabled reports whether console credentials were configured.
func (a AdminConfig) Enabled() bool {
	return a.Username != "" && a.Password != ""
}

// devJWTSecret signs console tokens only when APP_ENV=development.
const devJWTSecret = "dev-secret"

// validateSecret requires a real signing secret once the console is enabled outside
// development, and fills in the development default otherwise.
func (a *AdminConfig) validateSecret(env string) error {
	if !a.Enabled() {
		return nil
	}
	if env == "development" {
		if a.JWTSecret == "" {
			a.JWTSecret = devJWTSecret
		}
		return nil
	}
	if a.JWTSecret == "" || a.JWTSecret == devJWTSecret {
		return fmt.Errorf("ADMIN_JWT_SECRET must be set when the admin console is enabled in %s", env)
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	bcryptCost := getEnvAsInt("AUTH_BCRYPT_COST", 12)
	if bcryptCost < 4 || bcryptCost > 31 {
		return nil, fmt.Errorf("invalid AUTH_BCRYPT_COST: %d", bcryptCost)
	}

	appEnv := getEnv("APP_ENV", "development")
	admin := AdminConfig{
		Username:        os.Getenv("ADMIN_USERNAME"),
		Password:        os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:       os.Getenv("ADMIN_JWT_SECRET"),
		TokenTTLMinutes: getEnvAsInt("ADMIN_TOKEN_TTL_MINUTES", 60),
	}
	if err := admin.validateSecret(appEnv); err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "water-service"),
			Env:                   appEnv,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            redisDB,
			EventsChannel: getEnv("REDIS_EVENTS_CHANNEL", "water.events"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			BcryptCost:         bcryptCost,
			RateLimitPerSecond: getEnvAsInt("AUTH_RATE_LIMIT_PER_SECOND", 5),
			RateLimitBurst:     getEnvAsInt("AUTH_RATE_LIMIT_BURST", 10),
		},
		Admin: admin,
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/davicafu/hexatransactions/internal/infra/db/mongodb"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `validate:"oneof=development staging production test"`
	HTTPPort    string `validate:"required,numeric"`
	LogLevel    string `validate:"oneof=debug info warn error"`

	StoreDriver          string `validate:"oneof=mongodb memory"`
	MongoURI             string `validate:"required_if=StoreDriver mongodb"`
	MongoDBName          string `validate:"required"`
	MongoURIOptions      string
	MongoConnectTimeout  time.Duration `validate:"gt=0"`
	MongoConnectAttempts int           `validate:"min=1"`

	DefaultPageLimit int `validate:"min=1,max=100"`

	RateLimitPerMinute int `validate:"min=0"`
	RateLimitBurst     int `validate:"min=1"`
	RedisAddr          string

	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration `validate:"gt=0"`

	SeedFakeTransactions int `validate:"min=0"`
}

// LoadConfig lee la configuración del entorno (y de .env si existe) y la
// valida. Un valor mal formado es un error, no se sustituye por el default.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	l := loader{}
	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		HTTPPort:    getEnv("HTTP_PORT", "8001"),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),

		StoreDriver:          strings.ToLower(getEnv("STORE_DRIVER", "mongodb")),
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:          getEnv("MONGO_DB_NAME", "transactions"),
		MongoURIOptions:      getEnv("MONGO_URI_OPTIONS", ""),
		MongoConnectTimeout:  l.duration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		MongoConnectAttempts: l.int("MONGO_CONNECT_ATTEMPTS", 3),

		DefaultPageLimit: l.int("TRANSACTIONS_DEFAULT_LIMIT", 20),

		RateLimitPerMinute: l.int("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     l.int("RATE_LIMIT_BURST", 20),
		RedisAddr:          getEnv("REDIS_ADDR", ""),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ShutdownTimeout:    l.duration("SHUTDOWN_TIMEOUT", 10*time.Second),

		SeedFakeTransactions: l.int("SEED_FAKE_TRANSACTIONS", 0),
	}
	if l.err != nil {
		return nil, l.err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MongoOptions traduce la configuración a las opciones de conexión.
func (c *Config) MongoOptions() mongodb.Options {
	return mongodb.Options{
		URI:            c.MongoURI,
		Database:       c.MongoDBName,
		URIOptions:     c.MongoURIOptions,
		ConnectTimeout: c.MongoConnectTimeout,
		PingAttempts:   c.MongoConnectAttempts,
		RetryDelay:     2 * time.Second,
	}
}

// Addr es la dirección de escucha del servidor HTTP.
func (c *Config) Addr() string {
	return ":" + c.HTTPPort
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// loader acumula los errores de parseo.
type loader struct {
	err error
}

func (l *loader) int(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		l.err = errors.Join(l.err, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (l *loader) duration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		l.err = errors.Join(l.err, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

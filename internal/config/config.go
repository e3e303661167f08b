package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	Environment         string
	JWTSecret           string
	TokenTTL            time.Duration
	ServiceablePinCodes []string
	RedisURL            string
	AMQPURL             string
	CORSAllowedOrigins  []string
	AuthRateLimit       int
	AuthRateWindow      time.Duration
	ResetRateLimit      int
	ResetRateWindow     time.Duration
	ResetTokenTTL       time.Duration
	RelayPollInterval   time.Duration
	RelayBatchSize      int
	WorkerPoolSize      int
	ShutdownTimeout     time.Duration
}

// Production reports whether the service runs with APP_ENV=production.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

const (
	defaultRunAddress        = ":5000"
	defaultEnvironment       = "development"
	defaultJWTSecret         = "change-me-in-production"
	defaultTokenTTL          = 24 * time.Hour
	defaultServiceablePin    = "825301"
	defaultCORSOrigins       = "http://localhost:5173"
	defaultAuthRateLimit     = 100
	defaultAuthRateWindow    = 15 * time.Minute
	defaultResetRateLimit    = 5
	defaultResetRateWindow   = time.Hour
	defaultResetTokenTTL     = time.Hour
	defaultRelayPollInterval = 2 * time.Second
	defaultRelayBatchSize    = 32
	defaultWorkerPoolSize    = 4
	defaultShutdownTimeout   = 10 * time.Second
)

// Load parses configuration from a .env file, environment variables and flags, in that order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		Environment:       getString(lookup, "APP_ENV", defaultEnvironment),
		JWTSecret:         getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:          getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		RedisURL:          getString(lookup, "REDIS_URL", ""),
		AMQPURL:           getString(lookup, "AMQP_URL", ""),
		AuthRateLimit:     getInt(lookup, "AUTH_RATE_LIMIT", defaultAuthRateLimit),
		AuthRateWindow:    getDuration(lookup, "AUTH_RATE_WINDOW", defaultAuthRateWindow),
		ResetRateLimit:    getInt(lookup, "RESET_RATE_LIMIT", defaultResetRateLimit),
		ResetRateWindow:   getDuration(lookup, "RESET_RATE_WINDOW", defaultResetRateWindow),
		ResetTokenTTL:     getDuration(lookup, "RESET_TOKEN_TTL", defaultResetTokenTTL),
		RelayPollInterval: getDuration(lookup, "RELAY_POLL_INTERVAL", defaultRelayPollInterval),
		RelayBatchSize:    getInt(lookup, "RELAY_BATCH_SIZE", defaultRelayBatchSize),
		WorkerPoolSize:    getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("bazzarnet", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pinCodes           = getString(lookup, "SERVICEABLE_PINCODES", defaultServiceablePin)
		origins            = getString(lookup, "CORS_ALLOWED_ORIGINS", defaultCORSOrigins)
		pollIntervalStr    = cfg.RelayPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "Runtime environment")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "Redis URL for shared rate limit counters")
	fs.StringVar(&cfg.AMQPURL, "amqp", cfg.AMQPURL, "AMQP URL for order events")
	fs.StringVar(&pinCodes, "pincodes", pinCodes, "Comma separated serviceable pin codes")
	fs.StringVar(&origins, "cors-origins", origins, "Comma separated allowed CORS origins")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent relay workers")
	fs.IntVar(&cfg.RelayBatchSize, "relay-batch", cfg.RelayBatchSize, "Maximum events per relay batch")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between outbox polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.RelayPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	cfg.ServiceablePinCodes = splitList(pinCodes)
	if len(cfg.ServiceablePinCodes) == 0 {
		cfg.ServiceablePinCodes = []string{defaultServiceablePin}
	}
	cfg.CORSAllowedOrigins = splitList(origins)

	normalizeInt(&cfg.AuthRateLimit, defaultAuthRateLimit)
	normalizeInt(&cfg.ResetRateLimit, defaultResetRateLimit)
	normalizeInt(&cfg.RelayBatchSize, defaultRelayBatchSize)
	normalizeInt(&cfg.WorkerPoolSize, defaultWorkerPoolSize)
	normalizeDuration(&cfg.TokenTTL, defaultTokenTTL)
	normalizeDuration(&cfg.AuthRateWindow, defaultAuthRateWindow)
	normalizeDuration(&cfg.ResetRateWindow, defaultResetRateWindow)
	normalizeDuration(&cfg.ResetTokenTTL, defaultResetTokenTTL)
	normalizeDuration(&cfg.RelayPollInterval, defaultRelayPollInterval)
	normalizeDuration(&cfg.ShutdownTimeout, defaultShutdownTimeout)

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func normalizeDuration(v *time.Duration, def time.Duration) {
	if *v <= 0 {
		*v = def
	}
}

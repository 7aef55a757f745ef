package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	JWTSecret         string
	TokenTTL          time.Duration
	OrderNumberPrefix string
	AMQPURL           string
	AMQPExchange      string
	RelayPollInterval time.Duration
	RelayWorkers      int
	RelayBatchSize    int
	ShutdownTimeout   time.Duration
	RateLimitRPS      float64
	RateLimitBurst    int
	FeeTableFile      string
	AdminEmail        string
	AdminPassword     string
}

const (
	defaultRunAddress        = ":8080"
	defaultJWTSecret         = "change-me-in-production"
	defaultTokenTTL          = 24 * time.Hour
	defaultOrderNumberPrefix = "QC"
	defaultAMQPExchange      = "order_status"
	defaultRelayPollInterval = 2 * time.Second
	defaultRelayWorkers      = 4
	defaultRelayBatchSize    = 32
	defaultShutdownTimeout   = 10 * time.Second
	defaultRateLimitRPS      = 20
	defaultRateLimitBurst    = 40
)

// Load reads an optional .env file, then parses flags and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		JWTSecret:         getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:          getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		OrderNumberPrefix: getString(lookup, "ORDER_NUMBER_PREFIX", defaultOrderNumberPrefix),
		AMQPURL:           getString(lookup, "AMQP_URL", ""),
		AMQPExchange:      getString(lookup, "AMQP_EXCHANGE", defaultAMQPExchange),
		RelayPollInterval: getDuration(lookup, "RELAY_POLL_INTERVAL", defaultRelayPollInterval),
		RelayWorkers:      getInt(lookup, "RELAY_WORKERS", defaultRelayWorkers),
		RelayBatchSize:    getInt(lookup, "RELAY_BATCH_SIZE", defaultRelayBatchSize),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		RateLimitRPS:      getFloat(lookup, "RATE_LIMIT_RPS", defaultRateLimitRPS),
		RateLimitBurst:    getInt(lookup, "RATE_LIMIT_BURST", defaultRateLimitBurst),
		FeeTableFile:      getString(lookup, "FEE_TABLE_FILE", ""),
		AdminEmail:        getString(lookup, "ADMIN_EMAIL", ""),
		AdminPassword:     getString(lookup, "ADMIN_PASSWORD", ""),
	}

	fset := flag.NewFlagSet("quickmart", flag.ContinueOnError)
	fset.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.TokenTTL.String()
		pollIntervalStr    = cfg.RelayPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fset.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fset.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fset.StringVar(&cfg.AMQPURL, "amqp", cfg.AMQPURL, "RabbitMQ URL for status events")
	fset.StringVar(&cfg.AMQPExchange, "amqp-exchange", cfg.AMQPExchange, "Exchange for status events")
	fset.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fset.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Lifetime of issued tokens")
	fset.StringVar(&cfg.OrderNumberPrefix, "order-prefix", cfg.OrderNumberPrefix, "Prefix of human readable order numbers")
	fset.IntVar(&cfg.RelayWorkers, "relay-workers", cfg.RelayWorkers, "Number of concurrent event publishers")
	fset.StringVar(&pollIntervalStr, "relay-interval", pollIntervalStr, "Interval between outbox polls")
	fset.IntVar(&cfg.RelayBatchSize, "relay-batch", cfg.RelayBatchSize, "Maximum events per outbox poll")
	fset.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fset.Float64Var(&cfg.RateLimitRPS, "rate-limit", cfg.RateLimitRPS, "Requests per second allowed per client")
	fset.IntVar(&cfg.RateLimitBurst, "rate-burst", cfg.RateLimitBurst, "Burst size of the rate limiter")
	fset.StringVar(&cfg.FeeTableFile, "fee-table", cfg.FeeTableFile, "YAML file with delivery fee policy")
	fset.StringVar(&cfg.AdminEmail, "admin-email", cfg.AdminEmail, "Email of the bootstrap admin account")
	fset.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "Password of the bootstrap admin account")

	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.RelayPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid relay interval: %w", err)
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

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.RelayWorkers <= 0 {
		cfg.RelayWorkers = defaultRelayWorkers
	}

	if cfg.RelayBatchSize <= 0 {
		cfg.RelayBatchSize = defaultRelayBatchSize
	}

	if cfg.RelayPollInterval <= 0 {
		cfg.RelayPollInterval = defaultRelayPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = defaultRateLimitRPS
	}

	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = defaultRateLimitBurst
	}

	cfg.OrderNumberPrefix = strings.ToUpper(strings.TrimSpace(cfg.OrderNumberPrefix))
	if cfg.OrderNumberPrefix == "" {
		cfg.OrderNumberPrefix = defaultOrderNumberPrefix
	}

	if cfg.AMQPExchange == "" {
		cfg.AMQPExchange = defaultAMQPExchange
	}

	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return nil, fmt.Errorf("admin email and password must be set together")
	}

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

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
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

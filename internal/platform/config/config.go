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

// Ledger snapshot backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// DefaultSnapshotKey names the single snapshot slot the ledger is stored under.
const DefaultSnapshotKey = "ch_receipts"

// Server captures process level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	Logging         LoggingConfig
	Ledger          LedgerConfig
	Payment         PaymentConfig
	Redis           RedisConfig
	Postgres        PostgresConfig
	Mongo           MongoConfig
	SMS             SMSConfig
}

type LoggingConfig struct {
	Level  string
	Format string
}

// LedgerConfig selects where the receipt ledger snapshot lives.
type LedgerConfig struct {
	Backend string
	Key     string
	File    string
}

// PaymentConfig tunes the simulated payment step.
type PaymentConfig struct {
	Delay time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// SMSConfig controls receipt confirmations over AWS SNS.
type SMSConfig struct {
	Enabled     bool
	Region      string
	SenderID    string
	CountryCode string
}

// Load reads an optional .env file and then builds the config from the environment.
func Load() (Server, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Server{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var errs []error
	duration := func(key string, def time.Duration) time.Duration {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return d
	}
	integer := func(key string, def int) int {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return n
	}

	cfg := Server{
		Addr:            envOr("COOLIEHUB_ADDR", ":8080"),
		ShutdownTimeout: duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Logging: LoggingConfig{
			Level:  strings.ToLower(envOr("LOG_LEVEL", "info")),
			Format: strings.ToLower(envOr("LOG_FORMAT", "json")),
		},
		Ledger: LedgerConfig{
			Backend: strings.ToLower(envOr("LEDGER_BACKEND", BackendFile)),
			Key:     envOr("LEDGER_KEY", DefaultSnapshotKey),
			File:    envOr("LEDGER_FILE", "data/"+DefaultSnapshotKey+".json"),
		},
		Payment: PaymentConfig{
			Delay: duration("PAYMENT_DELAY", 600*time.Millisecond),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: integer("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns: integer("DB_MAX_IDLE_CONNS", 2),
		},
		Mongo: MongoConfig{
			URI:        os.Getenv("MONGO_URI"),
			Database:   envOr("MONGO_DATABASE", "cooliehub"),
			Collection: envOr("MONGO_COLLECTION", "ledger_snapshots"),
		},
		SMS: SMSConfig{
			Enabled:     os.Getenv("SMS_ENABLED") == "true",
			Region:      envOr("AWS_REGION", "ap-south-1"),
			SenderID:    envOr("SMS_SENDER_ID", "CHUBFN"),
			CountryCode: envOr("SMS_COUNTRY_CODE", "+91"),
		},
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Server{}, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs to connect.
func (s Server) Validate() error {
	switch s.Ledger.Backend {
	case BackendMemory:
	case BackendFile:
		if s.Ledger.File == "" {
			return errors.New("LEDGER_FILE is required for the file backend")
		}
	case BackendRedis:
		if s.Redis.URL == "" {
			return errors.New("REDIS_URL is required for the redis backend")
		}
	case BackendPostgres:
		if s.Postgres.DSN == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	case BackendMongo:
		if s.Mongo.URI == "" {
			return errors.New("MONGO_URI is required for the mongo backend")
		}
	default:
		return fmt.Errorf("unknown LEDGER_BACKEND %q", s.Ledger.Backend)
	}
	if s.Ledger.Key == "" {
		return errors.New("LEDGER_KEY must not be empty")
	}
	if s.Payment.Delay < 0 {
		return errors.New("PAYMENT_DELAY must not be negative")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Package config provides configuration structures and validation for the ledger service.
// Settings come from defaults, an optional .env file and the environment, and cover the
// HTTP server, the optional database journal, the optional Kafka integration and the
// month-end accrual worker pool.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/interest-ledger/internal/domain/shared"
)

// Config holds the complete application configuration.
// Database and Kafka sections are only validated when their subsystem is enabled.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Storage     StorageConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Accrual     AccrualConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// StorageConfig selects where the ledger journal lives
type StorageConfig struct {
	Backend shared.StorageBackend
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Enabled           bool
	Brokers           string
	TransactionTopic  string // Inbound transaction requests
	EventsTopic       string // Outbound ledger events
	NumPartitions     int    // Number of partitions for created topics
	ReplicationFactor int    // Replication factor for created topics
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string // Topic for Dead Letter Queue
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// AccrualConfig contains month-end accrual configuration
type AccrualConfig struct {
	WorkerPoolSize int // Maximum number of accounts accrued concurrently
}

// DatabaseEnabled reports whether the journal is backed by Postgres and MongoDB
func (c *Config) DatabaseEnabled() bool {
	return c.Storage.Backend == shared.StorageBackendDatabase
}

// validate performs validation of all configuration values. Every violation is
// collected so a misconfigured deployment reports all problems at once.
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	if !c.Storage.Backend.IsValid() {
		validationErrors = append(validationErrors,
			fmt.Sprintf("STORAGE_BACKEND must be one of %q or %q", shared.StorageBackendMemory, shared.StorageBackendDatabase))
	}

	if c.Kafka.Enabled {
		validationErrors = append(validationErrors, c.validateKafka()...)
	}

	if c.DatabaseEnabled() {
		validationErrors = append(validationErrors, c.validatePostgres()...)
		validationErrors = append(validationErrors, c.validateMongo()...)
	}

	if c.Accrual.WorkerPoolSize <= 0 {
		validationErrors = append(validationErrors, "ACCRUAL_WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}

func (c *Config) validateKafka() []string {
	var errs []string
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, "KAFKA_BROKERS is required")
	}
	if c.Kafka.TransactionTopic == "" {
		errs = append(errs, "KAFKA_TRANSACTION_TOPIC is required")
	}
	if c.Kafka.EventsTopic == "" {
		errs = append(errs, "KAFKA_EVENTS_TOPIC is required")
	}
	if c.Kafka.NumPartitions <= 0 {
		errs = append(errs, "KAFKA_NUM_PARTITIONS must be greater than 0")
	}
	if c.Kafka.ReplicationFactor <= 0 {
		errs = append(errs, "KAFKA_REPLICATION_FACTOR must be greater than 0")
	}
	if c.Kafka.ConsumerGroup == "" {
		errs = append(errs, "KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.MinBytes <= 0 {
		errs = append(errs, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.Kafka.MaxBytes <= 0 {
		errs = append(errs, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	}
	if c.Kafka.MaxWait <= 0 {
		errs = append(errs, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}
	if c.Kafka.DLQTopic == "" {
		errs = append(errs, "KAFKA_DLQ_TOPIC is required")
	}
	return errs
}

func (c *Config) validatePostgres() []string {
	var errs []string
	if c.Postgres.URL == "" {
		errs = append(errs, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		errs = append(errs, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		errs = append(errs, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		errs = append(errs, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		errs = append(errs, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}
	if c.Postgres.MigrationsPath == "" {
		errs = append(errs, "POSTGRES_MIGRATIONS_PATH is required")
	}
	return errs
}

func (c *Config) validateMongo() []string {
	var errs []string
	if c.MongoDB.URI == "" {
		errs = append(errs, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		errs = append(errs, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		errs = append(errs, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		errs = append(errs, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize <= 0 {
		errs = append(errs, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		errs = append(errs, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}
	return errs
}

// Package config provides configuration structures and validation for the ledger.
// Settings come from an optional .env file and the environment; the resulting
// Config is built once at startup and passed to every component that needs it.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration, one field per subsystem.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Kafka       KafkaConfig
	Snapshot    SnapshotConfig
	Ledger      LedgerConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or text
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL              string        // Database connection string
	MaxConns         int32         // Maximum number of open connections
	MinConns         int32         // Minimum number of idle connections
	ConnMaxLifetime  time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime  time.Duration // Maximum idle time of a connection
	MigrationsPath   string        // Path to migration files
	OperationTimeout time.Duration // Upper bound for a single repository call
}

// MongoDBConfig contains MongoDB configuration for the snapshot archive
type MongoDBConfig struct {
	URI                string
	Database           string
	Timeout            time.Duration
	MaxPoolSize        uint64
	MinPoolSize        uint64
	MaxConnIdleTime    time.Duration
	SnapshotCollection string
}

// KafkaConfig contains Kafka configuration for snapshot notices
type KafkaConfig struct {
	Enabled           bool
	Brokers           string
	SnapshotTopic     string
	NumPartitions     int // Number of partitions for topics
	ReplicationFactor int // Replication factor for topics
	WriteTimeout      time.Duration
}

// SnapshotConfig contains settings for the backup and restore tool
type SnapshotConfig struct {
	Dir            string
	WorkerPoolSize int
	PageSize       int
}

// LedgerConfig contains request-level ledger settings
type LedgerConfig struct {
	SeedOnStartup   bool
	DefaultPageSize int
	MaxPageSize     int
}

// validate checks every value and reports all problems at once
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Logging config
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		validationErrors = append(validationErrors, "LOG_FORMAT must be json or text")
	}

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

	// Validate PostgreSQL config
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}
	if c.Postgres.OperationTimeout <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_OPERATION_TIMEOUT must be greater than 0")
	}

	// Validate MongoDB config
	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.SnapshotCollection == "" {
		validationErrors = append(validationErrors, "MONGO_SNAPSHOT_COLLECTION is required")
	}

	// Kafka is optional; only check it when notices are switched on
	if c.Kafka.Enabled {
		if c.Kafka.Brokers == "" {
			validationErrors = append(validationErrors, "KAFKA_BROKERS is required when KAFKA_ENABLED is set")
		}
		if c.Kafka.SnapshotTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_SNAPSHOT_TOPIC is required when KAFKA_ENABLED is set")
		}
		if c.Kafka.WriteTimeout <= 0 {
			validationErrors = append(validationErrors, "KAFKA_WRITE_TIMEOUT must be greater than 0")
		}
	}

	// Validate Snapshot config
	if c.Snapshot.Dir == "" {
		validationErrors = append(validationErrors, "SNAPSHOT_DIR is required")
	}
	if c.Snapshot.WorkerPoolSize <= 0 {
		validationErrors = append(validationErrors, "SNAPSHOT_WORKER_POOL_SIZE must be greater than 0")
	}
	if c.Snapshot.PageSize <= 0 {
		validationErrors = append(validationErrors, "SNAPSHOT_PAGE_SIZE must be greater than 0")
	}

	// Validate Ledger config
	if c.Ledger.MaxPageSize <= 0 {
		validationErrors = append(validationErrors, "LEDGER_MAX_PAGE_SIZE must be greater than 0")
	}
	if c.Ledger.DefaultPageSize <= 0 || c.Ledger.DefaultPageSize > c.Ledger.MaxPageSize {
		validationErrors = append(validationErrors, "LEDGER_DEFAULT_PAGE_SIZE must be between 1 and LEDGER_MAX_PAGE_SIZE")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
	"github.com/vladislavdragonenkov/wms/internal/storage/filesystem"
	"github.com/vladislavdragonenkov/wms/internal/storage/memory"
	"github.com/vladislavdragonenkov/wms/internal/storage/postgres"
	"github.com/vladislavdragonenkov/wms/internal/storage/s3"
	"github.com/vladislavdragonenkov/wms/internal/storage/sqlite"
)

// Поддерживаемые носители снимков.
const (
	DriverFS       = "fs"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

const (
	defaultConnectAttempts = 5
	defaultConnectBackoff  = 500 * time.Millisecond
)

// Config описывает выбор и параметры носителя.
type Config struct {
	Driver              string
	DataDir             string
	SQLitePath          string
	PostgresDSN         string
	PostgresAutoMigrate bool
	S3                  s3.Config

	// ConnectAttempts ограничивает повторы подключения к сетевым носителям.
	ConnectAttempts uint64
	ConnectBackoff  time.Duration
}

// Pinger реализуют носители, доступность которых можно проверить.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NormalizeDriver приводит имя драйвера к каноническому виду.
func NormalizeDriver(driver string) string {
	driver = strings.ToLower(strings.TrimSpace(driver))
	switch driver {
	case "", "file", "filesystem", "json":
		return DriverFS
	case "inmemory", "mem":
		return DriverMemory
	case "sqlite3":
		return DriverSQLite
	case "postgresql", "pg":
		return DriverPostgres
	default:
		return driver
	}
}

// Open создаёт носитель снимков по cfg.Driver.
func Open(ctx context.Context, cfg Config, logger *log.Entry) (collection.Backend, error) {
	if logger == nil {
		logger = log.WithField("component", "storage")
	}
	driver := NormalizeDriver(cfg.Driver)
	logger = logger.WithField("driver", driver)

	switch driver {
	case DriverFS:
		backend, err := filesystem.Open(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		logger.WithField("dir", cfg.DataDir).Info("filesystem storage initialized")
		return backend, nil
	case DriverMemory:
		logger.Warn("in-memory storage: data will not survive restart")
		return memory.NewBackend(), nil
	case DriverSQLite:
		backend, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.WithField("path", backend.Path()).Info("sqlite storage initialized")
		return backend, nil
	case DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case DriverS3:
		backend, err := s3.New(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		logger.WithFields(log.Fields{
			"bucket": cfg.S3.Bucket,
			"prefix": cfg.S3.Prefix,
		}).Info("s3 storage initialized")
		return backend, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg Config, logger *log.Entry) (*postgres.Store, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("postgres dsn is required for postgres storage driver")
	}

	store, err := retry.DoValue(ctx, connectBackoff(cfg), func(ctx context.Context) (*postgres.Store, error) {
		s, err := postgres.Open(ctx, cfg.PostgresDSN, postgres.WithLogger(logger))
		if err != nil {
			logger.WithError(err).Warn("postgres is not reachable yet")
			return nil, retry.RetryableError(err)
		}
		return s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if cfg.PostgresAutoMigrate {
		if err := store.MigrateUp(ctx, 0); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
	}
	logger.Info("postgres storage initialized")
	return store, nil
}

func connectBackoff(cfg Config) retry.Backoff {
	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = defaultConnectAttempts
	}
	base := cfg.ConnectBackoff
	if base <= 0 {
		base = defaultConnectBackoff
	}
	return retry.WithMaxRetries(attempts-1, retry.NewExponential(base))
}

package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vladislavdragonenkov/wms/internal/storage"
	"github.com/vladislavdragonenkov/wms/internal/storage/s3"
)

// Допустимые значения StorageDriver.
const (
	StorageDriverFS       = storage.DriverFS
	StorageDriverMemory   = storage.DriverMemory
	StorageDriverSQLite   = storage.DriverSQLite
	StorageDriverPostgres = storage.DriverPostgres
	StorageDriverS3       = storage.DriverS3
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string
	// GRPCHealthAddr — адрес gRPC health-сервера; пустая строка отключает его.
	GRPCHealthAddr string

	StorageDriver       string
	DataDir             string
	SQLitePath          string
	PostgresDSN         string
	PostgresAutoMigrate bool
	S3                  s3.Config

	KafkaBrokers []string

	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string
}

// DefaultConfig возвращает настройки по умолчанию: файловое хранилище в ./data.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":4000",
		MetricsAddr:         ":9090",
		GRPCHealthAddr:      ":50051",
		StorageDriver:       StorageDriverFS,
		DataDir:             "./data",
		SQLitePath:          "./data/wms.db",
		PostgresAutoMigrate: true,
		S3: s3.Config{
			Region: "us-east-1",
			Prefix: "wms/",
		},
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// StorageConfig переводит настройки в параметры носителя.
func (c Config) StorageConfig() storage.Config {
	return storage.Config{
		Driver:              c.StorageDriver,
		DataDir:             c.DataDir,
		SQLitePath:          c.SQLitePath,
		PostgresDSN:         c.PostgresDSN,
		PostgresAutoMigrate: c.PostgresAutoMigrate,
		S3:                  c.S3,
	}
}

// fileConfig — формат YAML-файла настроек. Незаданные поля не меняют базу.
type fileConfig struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	GRPCHealth struct {
		Addr *string `yaml:"addr"`
	} `yaml:"grpc_health"`
	Storage struct {
		Driver   string `yaml:"driver"`
		DataDir  string `yaml:"data_dir"`
		SQLite   string `yaml:"sqlite_path"`
		Postgres struct {
			DSN         string `yaml:"dsn"`
			AutoMigrate *bool  `yaml:"auto_migrate"`
		} `yaml:"postgres"`
		S3 struct {
			Bucket          string `yaml:"bucket"`
			Region          string `yaml:"region"`
			Endpoint        string `yaml:"endpoint"`
			Prefix          string `yaml:"prefix"`
			AccessKeyID     string `yaml:"access_key_id"`
			SecretAccessKey string `yaml:"secret_access_key"`
			PathStyle       *bool  `yaml:"path_style"`
		} `yaml:"s3"`
	} `yaml:"storage"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
	} `yaml:"kafka"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	Log             struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// LoadConfigFile накладывает YAML-файл на base.
func LoadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config file: %w", err)
	}
	return ParseConfigYAML(data, base)
}

// ParseConfigYAML накладывает YAML-документ на base.
func ParseConfigYAML(data []byte, base Config) (Config, error) {
	var fc fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return base, fmt.Errorf("parse config file: %w", err)
	}

	cfg := base
	setString(&cfg.HTTPAddr, fc.HTTP.Addr)
	setString(&cfg.MetricsAddr, fc.Metrics.Addr)
	if fc.GRPCHealth.Addr != nil {
		cfg.GRPCHealthAddr = strings.TrimSpace(*fc.GRPCHealth.Addr)
	}
	if fc.Storage.Driver != "" {
		cfg.StorageDriver = storage.NormalizeDriver(fc.Storage.Driver)
	}
	setString(&cfg.DataDir, fc.Storage.DataDir)
	setString(&cfg.SQLitePath, fc.Storage.SQLite)
	setString(&cfg.PostgresDSN, fc.Storage.Postgres.DSN)
	if fc.Storage.Postgres.AutoMigrate != nil {
		cfg.PostgresAutoMigrate = *fc.Storage.Postgres.AutoMigrate
	}
	setString(&cfg.S3.Bucket, fc.Storage.S3.Bucket)
	setString(&cfg.S3.Region, fc.Storage.S3.Region)
	setString(&cfg.S3.Endpoint, fc.Storage.S3.Endpoint)
	setString(&cfg.S3.Prefix, fc.Storage.S3.Prefix)
	setString(&cfg.S3.AccessKeyID, fc.Storage.S3.AccessKeyID)
	setString(&cfg.S3.SecretAccessKey, fc.Storage.S3.SecretAccessKey)
	if fc.Storage.S3.PathStyle != nil {
		cfg.S3.PathStyle = *fc.Storage.S3.PathStyle
	}
	if len(fc.Kafka.Brokers) > 0 {
		cfg.KafkaBrokers = SplitBrokers(strings.Join(fc.Kafka.Brokers, ","))
	}
	if fc.ShutdownTimeout != "" {
		timeout, err := time.ParseDuration(fc.ShutdownTimeout)
		if err != nil || timeout <= 0 {
			return base, fmt.Errorf("parse config file: shutdown_timeout must be a positive duration, got %q", fc.ShutdownTimeout)
		}
		cfg.ShutdownTimeout = timeout
	}
	setString(&cfg.LogLevel, fc.Log.Level)
	setString(&cfg.LogFormat, fc.Log.Format)
	return cfg, nil
}

// SplitBrokers разбирает список брокеров через запятую, пропуская пустые.
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

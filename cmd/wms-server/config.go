package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/wms/internal/app"
	"github.com/vladislavdragonenkov/wms/internal/storage"
)

const (
	envConfigFile          = "WMS_CONFIG_FILE"
	envHTTPAddr            = "WMS_HTTP_ADDR"
	envMetricsAddr         = "WMS_METRICS_ADDR"
	envGRPCHealthAddr      = "WMS_GRPC_HEALTH_ADDR"
	envStorageDriver       = "WMS_STORAGE_DRIVER"
	envDataDir             = "WMS_DATA_DIR"
	envSQLitePath          = "WMS_SQLITE_PATH"
	envPostgresDSN         = "WMS_POSTGRES_DSN"
	envPostgresAutoMigrate = "WMS_POSTGRES_AUTO_MIGRATE"
	envS3Bucket            = "WMS_S3_BUCKET"
	envS3Region            = "WMS_S3_REGION"
	envS3Endpoint          = "WMS_S3_ENDPOINT"
	envS3Prefix            = "WMS_S3_PREFIX"
	envS3PathStyle         = "WMS_S3_PATH_STYLE"
	envKafkaBrokers        = "WMS_KAFKA_BROKERS"
	envShutdownTimeout     = "WMS_SHUTDOWN_TIMEOUT"
	envLogLevel            = "WMS_LOG_LEVEL"
	envLogFormat           = "WMS_LOG_FORMAT"
)

type envLookup func(key string) (string, bool)

// loadConfig применяет YAML-файл из WMS_CONFIG_FILE, затем переменные окружения.
func loadConfig(lookup envLookup) (app.Config, []string) {
	base := app.DefaultConfig()
	var warnings []string

	if path, ok := lookupTrimmed(lookup, envConfigFile); ok {
		fromFile, err := app.LoadConfigFile(path, base)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s ignored: %v", envConfigFile, err))
		} else {
			base = fromFile
		}
	}

	cfg, envWarnings := readConfigFromEnv(base, lookup)
	return cfg, append(warnings, envWarnings...)
}

// readConfigFromEnv накладывает переменные окружения на cfg.
// Некорректные значения игнорируются с предупреждением.
func readConfigFromEnv(cfg app.Config, lookup envLookup) (app.Config, []string) {
	var warnings []string

	if v, ok := lookupTrimmed(lookup, envHTTPAddr); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := lookupTrimmed(lookup, envMetricsAddr); ok {
		cfg.MetricsAddr = v
	}
	if v, ok := lookup(envGRPCHealthAddr); ok {
		cfg.GRPCHealthAddr = strings.TrimSpace(v)
	}
	if v, ok := lookupTrimmed(lookup, envStorageDriver); ok {
		cfg.StorageDriver = storage.NormalizeDriver(v)
	}
	if v, ok := lookupTrimmed(lookup, envDataDir); ok {
		cfg.DataDir = v
	}
	if v, ok := lookupTrimmed(lookup, envSQLitePath); ok {
		cfg.SQLitePath = v
	}
	if v, ok := lookupTrimmed(lookup, envPostgresDSN); ok {
		cfg.PostgresDSN = v
	}
	if v, ok := lookupTrimmed(lookup, envPostgresAutoMigrate); ok {
		parsed, err := parseBool(v)
		if err != nil {
			warnings = append(warnings, invalidValue(envPostgresAutoMigrate, v, err))
		} else {
			cfg.PostgresAutoMigrate = parsed
		}
	}
	if v, ok := lookupTrimmed(lookup, envS3Bucket); ok {
		cfg.S3.Bucket = v
	}
	if v, ok := lookupTrimmed(lookup, envS3Region); ok {
		cfg.S3.Region = v
	}
	if v, ok := lookupTrimmed(lookup, envS3Endpoint); ok {
		cfg.S3.Endpoint = v
	}
	if v, ok := lookupTrimmed(lookup, envS3Prefix); ok {
		cfg.S3.Prefix = v
	}
	if v, ok := lookupTrimmed(lookup, envS3PathStyle); ok {
		parsed, err := parseBool(v)
		if err != nil {
			warnings = append(warnings, invalidValue(envS3PathStyle, v, err))
		} else {
			cfg.S3.PathStyle = parsed
		}
	}
	if v, ok := lookupTrimmed(lookup, envKafkaBrokers); ok {
		cfg.KafkaBrokers = app.SplitBrokers(v)
	}
	if v, ok := lookupTrimmed(lookup, envShutdownTimeout); ok {
		parsed, err := parseDuration(v, func(d time.Duration) bool { return d > 0 }, "must be > 0")
		if err != nil {
			warnings = append(warnings, invalidValue(envShutdownTimeout, v, err))
		} else {
			cfg.ShutdownTimeout = parsed
		}
	}
	if v, ok := lookupTrimmed(lookup, envLogLevel); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookupTrimmed(lookup, envLogFormat); ok {
		format := strings.ToLower(v)
		if format != "text" && format != "json" {
			warnings = append(warnings, invalidValue(envLogFormat, v, fmt.Errorf("must be text or json")))
		} else {
			cfg.LogFormat = format
		}
	}

	return cfg, warnings
}

func lookupTrimmed(lookup envLookup, key string) (string, bool) {
	v, ok := lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func invalidValue(key, value string, err error) string {
	return fmt.Sprintf("invalid %s=%q, using default: %v", key, value, err)
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q", raw)
	}
}

func parseDuration(raw string, valid func(time.Duration) bool, rule string) (time.Duration, error) {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if valid != nil && !valid(value) {
		return 0, fmt.Errorf("value %s %s", value, rule)
	}
	return value, nil
}

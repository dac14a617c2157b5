package main

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/wms/internal/app"
	"github.com/vladislavdragonenkov/wms/internal/storage"
	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
	"github.com/vladislavdragonenkov/wms/internal/version"
)

// globalOptions — флаги, общие для всех команд.
type globalOptions struct {
	configFile  string
	driver      string
	dataDir     string
	sqlitePath  string
	postgresDSN string
	logLevel    string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "wmsctl",
		Short:         "Administrative tool for the water management store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML config file shared with wms-server")
	flags.StringVar(&opts.driver, "driver", "", "storage driver: fs|memory|sqlite|postgres|s3")
	flags.StringVar(&opts.dataDir, "data-dir", "", "snapshot directory for the fs driver")
	flags.StringVar(&opts.sqlitePath, "sqlite-path", "", "database file for the sqlite driver")
	flags.StringVar(&opts.postgresDSN, "postgres-dsn", "", "DSN for the postgres driver")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	cmd.AddCommand(newCollectionsCommand(opts))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}

// config собирает конфигурацию: значения по умолчанию, файл, затем флаги.
func (o *globalOptions) config() (app.Config, error) {
	cfg := app.DefaultConfig()
	if o.configFile != "" {
		loaded, err := app.LoadConfigFile(o.configFile, cfg)
		if err != nil {
			return app.Config{}, err
		}
		cfg = loaded
	}

	if v := strings.TrimSpace(o.driver); v != "" {
		cfg.StorageDriver = storage.NormalizeDriver(v)
	}
	if v := strings.TrimSpace(o.dataDir); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(o.sqlitePath); v != "" {
		cfg.SQLitePath = v
	}
	if v := strings.TrimSpace(o.postgresDSN); v != "" {
		cfg.PostgresDSN = v
	}
	return cfg, nil
}

func (o *globalOptions) logger() *log.Entry {
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	level, err := log.ParseLevel(o.logLevel)
	if err != nil {
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger.WithField("component", "wmsctl")
}

// openStore открывает хранилище коллекций по общим флагам.
func (o *globalOptions) openStore(ctx context.Context) (*collection.Store, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	logger := o.logger()

	backend, err := storage.Open(ctx, cfg.StorageConfig(), logger)
	if err != nil {
		return nil, err
	}
	store, err := collection.Open(ctx, backend, collection.WithLogger(logger))
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return store, nil
}

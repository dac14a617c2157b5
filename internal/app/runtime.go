package app

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/wms/internal/health"
	"github.com/vladislavdragonenkov/wms/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/wms/internal/metrics"
	"github.com/vladislavdragonenkov/wms/internal/repository"
	"github.com/vladislavdragonenkov/wms/internal/service/water"
	"github.com/vladislavdragonenkov/wms/internal/storage"
	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
	"github.com/vladislavdragonenkov/wms/internal/transport/httpapi"
)

// runtimeDependencies — всё, что Run собирает до запуска серверов.
type runtimeDependencies struct {
	store          *collection.Store
	services       httpapi.Services
	producer       *kafka.Producer
	httpMetrics    *metrics.HTTPMetrics
	storageChecker healthcheck.Checker
	kafkaChecker   healthcheck.Checker
	closeFn        func() error
}

// initRuntimeDependencies открывает носитель, загружает коллекции и
// собирает репозитории и сервисы. При ошибке всё открытое закрывается.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	backend, err := storage.Open(ctx, cfg.StorageConfig(), logger.WithField("component", "storage"))
	if err != nil {
		return nil, err
	}

	store, err := collection.Open(ctx, backend,
		collection.WithLogger(logger.WithField("component", "collection-store")),
		collection.WithObserver(metrics.NewStoreMetrics(nil)),
	)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("load collections: %w", err)
	}

	deps, err := buildServices(ctx, store, cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	deps.storageChecker = healthcheck.NewSimpleChecker("storage", func() error { return nil })
	if pinger, ok := backend.(storage.Pinger); ok {
		deps.storageChecker = healthcheck.NewPingChecker("storage", 0, true, pinger.Ping)
	}
	return deps, nil
}

func buildServices(ctx context.Context, store *collection.Store, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	houses, err := repository.NewHouseRepository(ctx, store)
	if err != nil {
		return nil, err
	}
	meters, err := repository.NewWaterMeterRepository(ctx, store)
	if err != nil {
		return nil, err
	}
	usages, err := repository.NewWaterUsageRepository(ctx, store)
	if err != nil {
		return nil, err
	}
	readings, err := repository.NewWaterReadingRepository(ctx, store)
	if err != nil {
		return nil, err
	}

	eventMetrics := metrics.NewEventMetrics(nil)
	var publisher domain.EventPublisher = domain.NopPublisher{}
	producer, err := initKafkaProducer(cfg.KafkaBrokers, eventMetrics, logger)
	if err == nil && producer != nil {
		publisher = producer
	}

	serviceLogger := logger.WithField("layer", "service")
	deps := &runtimeDependencies{
		store:       store,
		producer:    producer,
		httpMetrics: metrics.NewHTTPMetrics(nil),
		services: httpapi.Services{
			Houses:   water.NewHouseService(houses, publisher, serviceLogger),
			Meters:   water.NewWaterMeterService(meters, publisher, serviceLogger),
			Usages:   water.NewWaterUsageService(usages, meters, publisher, serviceLogger),
			Readings: water.NewWaterReadingService(readings, meters, publisher, eventMetrics, serviceLogger),
		},
	}
	if len(cfg.KafkaBrokers) > 0 {
		deps.kafkaChecker = healthcheck.NewPingChecker("kafka", 0, false, func(context.Context) error {
			if deps.producer == nil {
				return errors.New("kafka producer is not connected")
			}
			return nil
		})
	}
	deps.closeFn = func() error {
		closeKafka(deps.producer, logger)
		return store.Close()
	}
	return deps, nil
}

package water

import (
	"context"
	"errors"
	"sync"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/wms/internal/domain"
	"github.com/vladislavdragonenkov/wms/internal/repository"
	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
	"github.com/vladislavdragonenkov/wms/internal/storage/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Collection+":"+string(e.Type))
	}
	return out
}

type countingAlerts struct {
	mu     sync.Mutex
	meters []string
}

func (c *countingAlerts) RecordAlert(meterID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meters = append(c.meters, meterID)
}

type fixture struct {
	houses    *HouseService
	meters    *WaterMeterService
	usages    *WaterUsageService
	readings  *WaterReadingService
	publisher *recordingPublisher
	alerts    *countingAlerts
	backend   *memory.Backend
}

func loggerForTests() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.ErrorLevel)
	return logger.WithField("component", "service-test")
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	backend := memory.NewBackend()
	store, err := collection.Open(ctx, backend, collection.WithLogger(loggerForTests()))
	require.NoError(t, err)

	houseRepo, err := repository.NewHouseRepository(ctx, store)
	require.NoError(t, err)
	meterRepo, err := repository.NewWaterMeterRepository(ctx, store)
	require.NoError(t, err)
	usageRepo, err := repository.NewWaterUsageRepository(ctx, store)
	require.NoError(t, err)
	readingRepo, err := repository.NewWaterReadingRepository(ctx, store)
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	alerts := &countingAlerts{}
	logger := loggerForTests()
	return &fixture{
		houses:    NewHouseService(houseRepo, publisher, logger),
		meters:    NewWaterMeterService(meterRepo, publisher, logger),
		usages:    NewWaterUsageService(usageRepo, meterRepo, publisher, logger),
		readings:  NewWaterReadingService(readingRepo, meterRepo, publisher, alerts, logger),
		publisher: publisher,
		alerts:    alerts,
		backend:   backend,
	}
}

var errBrokerDown = errors.New("broker down")

func ptr[T any](v T) *T { return &v }

package repository

import (
	"context"
	"time"

	"github.com/vladislavdragonenkov/wms/internal/domain"
	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
)

// WaterReadingRepository хранит сырые показания счётчиков.
type WaterReadingRepository struct {
	items *Collection[domain.WaterReading, *domain.WaterReading]
}

// NewWaterReadingRepository привязывает репозиторий к коллекции показаний.
func NewWaterReadingRepository(ctx context.Context, store *collection.Store, opts ...Option) (*WaterReadingRepository, error) {
	items, err := newCollection[domain.WaterReading, *domain.WaterReading](ctx, store, spec[domain.WaterReading]{
		name:     domain.CollectionReadings,
		defaults: domain.ReadingDefaults,
		normalize: func(r *domain.WaterReading) {
			r.Timestamp = r.Timestamp.UTC()
		},
	}, opts)
	if err != nil {
		return nil, err
	}
	return &WaterReadingRepository{items: items}, nil
}

func (r *WaterReadingRepository) Create(ctx context.Context, reading domain.WaterReading) (domain.WaterReading, error) {
	return r.items.Create(ctx, reading, nil)
}

func (r *WaterReadingRepository) FindByID(ctx context.Context, id string) (domain.WaterReading, bool, error) {
	return r.items.FindByID(ctx, id)
}

func (r *WaterReadingRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.items.Delete(ctx, id)
}

func (r *WaterReadingRepository) FindAll(ctx context.Context) ([]domain.WaterReading, error) {
	return r.items.FindAll(ctx)
}

func (r *WaterReadingRepository) FindByMeterID(ctx context.Context, meterID string) ([]domain.WaterReading, error) {
	return r.items.Filter(ctx, func(rd domain.WaterReading) bool {
		return rd.MeterID == meterID
	})
}

// FindByTimeRange возвращает показания с timestamp в [start, end].
func (r *WaterReadingRepository) FindByTimeRange(ctx context.Context, start, end time.Time) ([]domain.WaterReading, error) {
	return r.items.Filter(ctx, func(rd domain.WaterReading) bool {
		return inRange(rd.Timestamp, start, end)
	})
}

var _ domain.WaterReadingRepository = (*WaterReadingRepository)(nil)

package repository

import (
	"context"
	"time"

	"github.com/vladislavdragonenkov/wms/internal/domain"
	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
)

// WaterUsageRepository хранит записи о потреблении.
type WaterUsageRepository struct {
	items *Collection[domain.WaterUsage, *domain.WaterUsage]
}

// NewWaterUsageRepository привязывает репозиторий к коллекции потребления.
func NewWaterUsageRepository(ctx context.Context, store *collection.Store, opts ...Option) (*WaterUsageRepository, error) {
	items, err := newCollection[domain.WaterUsage, *domain.WaterUsage](ctx, store, spec[domain.WaterUsage]{
		name:     domain.CollectionUsages,
		defaults: domain.UsageDefaults,
		normalize: func(u *domain.WaterUsage) {
			u.ReadingDate = u.ReadingDate.UTC()
		},
	}, opts)
	if err != nil {
		return nil, err
	}
	return &WaterUsageRepository{items: items}, nil
}

func (r *WaterUsageRepository) Create(ctx context.Context, usage domain.WaterUsage) (domain.WaterUsage, error) {
	return r.items.Create(ctx, usage, nil)
}

func (r *WaterUsageRepository) FindByID(ctx context.Context, id string) (domain.WaterUsage, bool, error) {
	return r.items.FindByID(ctx, id)
}

func (r *WaterUsageRepository) Update(ctx context.Context, id string, patch domain.UsagePatch) (domain.WaterUsage, bool, error) {
	return r.items.Update(ctx, id, patch, nil)
}

func (r *WaterUsageRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.items.Delete(ctx, id)
}

func (r *WaterUsageRepository) FindAll(ctx context.Context) ([]domain.WaterUsage, error) {
	return r.items.FindAll(ctx)
}

func (r *WaterUsageRepository) FindByMeterID(ctx context.Context, meterID string) ([]domain.WaterUsage, error) {
	return r.items.Filter(ctx, func(u domain.WaterUsage) bool {
		return u.MeterID == meterID
	})
}

// FindByMeterIDs выбирает записи любого из счётчиков за один проход.
func (r *WaterUsageRepository) FindByMeterIDs(ctx context.Context, meterIDs []string) ([]domain.WaterUsage, error) {
	set := make(map[string]struct{}, len(meterIDs))
	for _, id := range meterIDs {
		set[id] = struct{}{}
	}
	return r.items.Filter(ctx, func(u domain.WaterUsage) bool {
		_, ok := set[u.MeterID]
		return ok
	})
}

// FindByDateRange возвращает записи с readingDate в [start, end].
func (r *WaterUsageRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.WaterUsage, error) {
	return r.items.Filter(ctx, func(u domain.WaterUsage) bool {
		return inRange(u.ReadingDate, start, end)
	})
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

var _ domain.WaterUsageRepository = (*WaterUsageRepository)(nil)

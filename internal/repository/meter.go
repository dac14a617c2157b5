package repository

import (
	"context"

	"github.com/vladislavdragonenkov/wms/internal/domain"
	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
)

// WaterMeterRepository хранит счётчики и следит за уникальностью номера.
type WaterMeterRepository struct {
	items *Collection[domain.WaterMeter, *domain.WaterMeter]
}

// NewWaterMeterRepository привязывает репозиторий к коллекции счётчиков.
func NewWaterMeterRepository(ctx context.Context, store *collection.Store, opts ...Option) (*WaterMeterRepository, error) {
	items, err := newCollection[domain.WaterMeter, *domain.WaterMeter](ctx, store, spec[domain.WaterMeter]{
		name:     domain.CollectionMeters,
		defaults: domain.MeterDefaults,
		normalize: func(m *domain.WaterMeter) {
			m.InstallationDate = m.InstallationDate.UTC()
			m.LastReadingDate = m.LastReadingDate.UTC()
		},
	}, opts)
	if err != nil {
		return nil, err
	}
	return &WaterMeterRepository{items: items}, nil
}

// Create отклоняет отрицательный порог до обращения к хранилищу,
// а дубликат номера — под блокировкой коллекции, поэтому две
// одновременные регистрации одного номера не пройдут обе.
func (r *WaterMeterRepository) Create(ctx context.Context, meter domain.WaterMeter) (domain.WaterMeter, error) {
	if meter.Threshold < 0 {
		return domain.WaterMeter{}, domain.ErrInvalidThreshold
	}
	return r.items.Create(ctx, meter, func(view View[domain.WaterMeter], rec domain.WaterMeter) error {
		return ensureMeterNumberFree(view, rec.MeterNumber, rec.ID)
	})
}

func (r *WaterMeterRepository) FindByID(ctx context.Context, id string) (domain.WaterMeter, bool, error) {
	return r.items.FindByID(ctx, id)
}

// Update отклоняет порог <= 0 и номер, уже занятый другим счётчиком.
func (r *WaterMeterRepository) Update(ctx context.Context, id string, patch domain.MeterPatch) (domain.WaterMeter, bool, error) {
	if patch.Threshold != nil && *patch.Threshold <= 0 {
		return domain.WaterMeter{}, false, domain.ErrInvalidThreshold
	}
	return r.items.Update(ctx, id, patch, func(view View[domain.WaterMeter], before, after domain.WaterMeter) error {
		if before.MeterNumber == after.MeterNumber {
			return nil
		}
		return ensureMeterNumberFree(view, after.MeterNumber, after.ID)
	})
}

func (r *WaterMeterRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.items.Delete(ctx, id)
}

func (r *WaterMeterRepository) FindAll(ctx context.Context) ([]domain.WaterMeter, error) {
	return r.items.FindAll(ctx)
}

// FindByMeterNumber ищет счётчик по точному номеру.
func (r *WaterMeterRepository) FindByMeterNumber(ctx context.Context, meterNumber string) (domain.WaterMeter, bool, error) {
	found, err := r.items.Filter(ctx, func(m domain.WaterMeter) bool {
		return m.MeterNumber == meterNumber
	})
	if err != nil || len(found) == 0 {
		return domain.WaterMeter{}, false, err
	}
	return found[0], true, nil
}

// FindByHouseID возвращает счётчики дома.
func (r *WaterMeterRepository) FindByHouseID(ctx context.Context, houseID string) ([]domain.WaterMeter, error) {
	return r.items.Filter(ctx, func(m domain.WaterMeter) bool {
		return m.HouseID == houseID
	})
}

func ensureMeterNumberFree(view View[domain.WaterMeter], meterNumber, selfID string) error {
	taken := false
	err := view.Each(func(m domain.WaterMeter) bool {
		if m.ID != selfID && m.MeterNumber == meterNumber {
			taken = true
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrMeterNumberExists
	}
	return nil
}

var _ domain.WaterMeterRepository = (*WaterMeterRepository)(nil)

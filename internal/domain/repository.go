package domain

import (
	"context"
	"time"
)

// Отсутствие записи репозитории сообщают флагом found=false,
// ошибка возвращается только при сбое хранилища или нарушении инварианта.

// HouseRepository описывает хранилище домов.
type HouseRepository interface {
	Create(ctx context.Context, house House) (House, error)
	FindByID(ctx context.Context, id string) (House, bool, error)
	Update(ctx context.Context, id string, patch HousePatch) (House, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	FindAll(ctx context.Context) ([]House, error)
	// FindByOwnerName ищет дома по подстроке имени владельца без учёта регистра.
	FindByOwnerName(ctx context.Context, ownerName string) ([]House, error)
}

// WaterMeterRepository описывает хранилище счётчиков.
type WaterMeterRepository interface {
	// Create отклоняет дублирующийся номер счётчика (ErrMeterNumberExists)
	// и отрицательный порог (ErrInvalidThreshold).
	Create(ctx context.Context, meter WaterMeter) (WaterMeter, error)
	FindByID(ctx context.Context, id string) (WaterMeter, bool, error)
	// Update отклоняет порог <= 0 и номер, занятый другим счётчиком.
	Update(ctx context.Context, id string, patch MeterPatch) (WaterMeter, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	FindAll(ctx context.Context) ([]WaterMeter, error)
	FindByMeterNumber(ctx context.Context, meterNumber string) (WaterMeter, bool, error)
	FindByHouseID(ctx context.Context, houseID string) ([]WaterMeter, error)
}

// WaterUsageRepository описывает хранилище записей о потреблении.
type WaterUsageRepository interface {
	Create(ctx context.Context, usage WaterUsage) (WaterUsage, error)
	FindByID(ctx context.Context, id string) (WaterUsage, bool, error)
	Update(ctx context.Context, id string, patch UsagePatch) (WaterUsage, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	FindAll(ctx context.Context) ([]WaterUsage, error)
	FindByMeterID(ctx context.Context, meterID string) ([]WaterUsage, error)
	FindByMeterIDs(ctx context.Context, meterIDs []string) ([]WaterUsage, error)
	// FindByDateRange включает обе границы.
	FindByDateRange(ctx context.Context, start, end time.Time) ([]WaterUsage, error)
}

// WaterReadingRepository описывает хранилище сырых показаний.
type WaterReadingRepository interface {
	Create(ctx context.Context, reading WaterReading) (WaterReading, error)
	FindByID(ctx context.Context, id string) (WaterReading, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	FindAll(ctx context.Context) ([]WaterReading, error)
	FindByMeterID(ctx context.Context, meterID string) ([]WaterReading, error)
	FindByTimeRange(ctx context.Context, start, end time.Time) ([]WaterReading, error)
}

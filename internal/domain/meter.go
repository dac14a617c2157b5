package domain

import "time"

// DefaultMeterThreshold — порог расхода (л/ч) по умолчанию.
const DefaultMeterThreshold = 1000

// MeterStatus описывает состояние счётчика.
type MeterStatus string

const (
	MeterStatusActive      MeterStatus = "active"
	MeterStatusInactive    MeterStatus = "inactive"
	MeterStatusMaintenance MeterStatus = "maintenance"
)

// Valid проверяет, что статус входит в допустимый набор.
func (s MeterStatus) Valid() bool {
	switch s {
	case MeterStatusActive, MeterStatusInactive, MeterStatusMaintenance:
		return true
	default:
		return false
	}
}

// WaterMeter — счётчик воды, установленный в доме.
type WaterMeter struct {
	ID               string      `json:"id"`
	HouseID          string      `json:"houseId" validate:"required"`
	MeterNumber      string      `json:"meterNumber" validate:"required"`
	Location         string      `json:"location" validate:"required"`
	InstallationDate time.Time   `json:"installationDate"`
	LastReading      float64     `json:"lastReading" validate:"gte=0"`
	LastReadingDate  time.Time   `json:"lastReadingDate"`
	Status           MeterStatus `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
	// Threshold — допустимый расход в литрах в час.
	Threshold float64 `json:"threshold" validate:"gte=0"`
}

func (m *WaterMeter) GetID() string   { return m.ID }
func (m *WaterMeter) SetID(id string) { m.ID = id }

// MeterDefaults возвращает значения по умолчанию для нового счётчика.
func MeterDefaults(now time.Time) WaterMeter {
	return WaterMeter{
		InstallationDate: now,
		LastReading:      0,
		LastReadingDate:  now,
		Status:           MeterStatusActive,
		Threshold:        DefaultMeterThreshold,
	}
}

// MeterPatch — частичное обновление счётчика.
type MeterPatch struct {
	HouseID          *string      `json:"houseId,omitempty" validate:"omitnil,min=1"`
	MeterNumber      *string      `json:"meterNumber,omitempty" validate:"omitnil,min=1"`
	Location         *string      `json:"location,omitempty" validate:"omitnil,min=1"`
	InstallationDate *time.Time   `json:"installationDate,omitempty"`
	LastReading      *float64     `json:"lastReading,omitempty" validate:"omitnil,gte=0"`
	LastReadingDate  *time.Time   `json:"lastReadingDate,omitempty"`
	Status           *MeterStatus `json:"status,omitempty" validate:"omitnil,oneof=active inactive maintenance"`
	Threshold        *float64     `json:"threshold,omitempty"`
}

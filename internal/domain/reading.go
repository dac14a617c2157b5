package domain

import "time"

// WaterReading — сырое показание счётчика с мгновенным расходом.
// Если расход превышает порог счётчика, показание помечается как тревожное.
type WaterReading struct {
	ID          string    `json:"id"`
	MeterID     string    `json:"meterId" validate:"required"`
	Reading     float64   `json:"reading" validate:"gte=0"`
	Timestamp   time.Time `json:"timestamp"`
	FlowRate    float64   `json:"flowRate" validate:"gte=0"`
	IsAlert     bool      `json:"isAlert"`
	AlertReason string    `json:"alertReason,omitempty"`
}

func (r *WaterReading) GetID() string   { return r.ID }
func (r *WaterReading) SetID(id string) { r.ID = id }

// ReadingDefaults возвращает значения по умолчанию для нового показания.
func ReadingDefaults(now time.Time) WaterReading {
	return WaterReading{Timestamp: now}
}

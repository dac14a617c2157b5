package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageStatus — статус оплаты записи о потреблении.
type UsageStatus string

const (
	UsageStatusPending UsageStatus = "pending"
	UsageStatusPaid    UsageStatus = "paid"
	UsageStatusOverdue UsageStatus = "overdue"
)

// Valid проверяет, что статус входит в допустимый набор.
func (s UsageStatus) Valid() bool {
	switch s {
	case UsageStatusPending, UsageStatusPaid, UsageStatusOverdue:
		return true
	default:
		return false
	}
}

// WaterUsage — показание счётчика за период с суммой к оплате.
type WaterUsage struct {
	ID          string          `json:"id"`
	MeterID     string          `json:"meterId" validate:"required"`
	Reading     float64         `json:"reading" validate:"required"`
	ReadingDate time.Time       `json:"readingDate" validate:"required"`
	Consumption float64         `json:"consumption" validate:"gte=0"`
	BillAmount  decimal.Decimal `json:"billAmount" validate:"gte=0"`
	Status      UsageStatus     `json:"status" validate:"required,oneof=pending paid overdue"`
}

func (u *WaterUsage) GetID() string   { return u.ID }
func (u *WaterUsage) SetID(id string) { u.ID = id }

// UsageDefaults возвращает значения по умолчанию для новой записи о потреблении.
func UsageDefaults(now time.Time) WaterUsage {
	return WaterUsage{
		ReadingDate: now,
		Consumption: 0,
		BillAmount:  decimal.Zero,
		Status:      UsageStatusPending,
	}
}

// UsagePatch — частичное обновление записи о потреблении.
type UsagePatch struct {
	MeterID     *string          `json:"meterId,omitempty" validate:"omitnil,min=1"`
	Reading     *float64         `json:"reading,omitempty"`
	ReadingDate *time.Time       `json:"readingDate,omitempty"`
	Consumption *float64         `json:"consumption,omitempty" validate:"omitnil,gte=0"`
	BillAmount  *decimal.Decimal `json:"billAmount,omitempty" validate:"omitnil,gte=0"`
	Status      *UsageStatus     `json:"status,omitempty" validate:"omitnil,oneof=pending paid overdue"`
}

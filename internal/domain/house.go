package domain

// HouseStatus описывает состояние дома.
type HouseStatus string

const (
	HouseStatusActive   HouseStatus = "active"
	HouseStatusInactive HouseStatus = "inactive"
)

// Valid проверяет, что статус входит в допустимый набор.
func (s HouseStatus) Valid() bool {
	switch s {
	case HouseStatusActive, HouseStatusInactive:
		return true
	default:
		return false
	}
}

// House — дом, к которому привязаны счётчики.
type House struct {
	ID            string      `json:"id"`
	Address       string      `json:"address" validate:"required"`
	OwnerName     string      `json:"ownerName" validate:"required"`
	ContactNumber string      `json:"contactNumber" validate:"required"`
	Email         string      `json:"email" validate:"required,email"`
	Status        HouseStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (h *House) GetID() string   { return h.ID }
func (h *House) SetID(id string) { h.ID = id }

// HouseDefaults возвращает значения, которыми заполняются пустые поля при создании.
func HouseDefaults() House {
	return House{Status: HouseStatusActive}
}

// HousePatch — частичное обновление дома: меняются только заданные поля.
type HousePatch struct {
	Address       *string      `json:"address,omitempty" validate:"omitnil,min=1"`
	OwnerName     *string      `json:"ownerName,omitempty" validate:"omitnil,min=1"`
	ContactNumber *string      `json:"contactNumber,omitempty" validate:"omitnil,min=1"`
	Email         *string      `json:"email,omitempty" validate:"omitnil,email"`
	Status        *HouseStatus `json:"status,omitempty" validate:"omitnil,oneof=active inactive"`
}

package domain

import (
	"errors"
	"fmt"
)

// Базовые классы ошибок. Конкретные ошибки оборачивают их через %w,
// поэтому транспорт классифицирует ответ одним errors.Is.
var (
	// ErrNotFound — запись отсутствует в коллекции.
	ErrNotFound = errors.New("not found")
	// ErrConflict — операция нарушает уникальность.
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument — входные данные не прошли проверку.
	ErrInvalidArgument = errors.New("invalid argument")
)

var (
	ErrHouseNotFound   = fmt.Errorf("house %w", ErrNotFound)
	ErrMeterNotFound   = fmt.Errorf("meter %w", ErrNotFound)
	ErrUsageNotFound   = fmt.Errorf("water usage record %w", ErrNotFound)
	ErrReadingNotFound = fmt.Errorf("water reading %w", ErrNotFound)

	// ErrMeterNumberExists — номер счётчика уже занят другим счётчиком.
	ErrMeterNumberExists = fmt.Errorf("%w: meter number already exists", ErrConflict)

	// ErrInvalidThreshold — порог расхода должен быть больше нуля.
	ErrInvalidThreshold = fmt.Errorf("%w: threshold must be greater than 0", ErrInvalidArgument)
	// ErrInvalidStatus — статус не входит в допустимый набор.
	ErrInvalidStatus = fmt.Errorf("%w: invalid status", ErrInvalidArgument)
	// ErrInvalidDateRange — начало диапазона позже конца.
	ErrInvalidDateRange = fmt.Errorf("%w: start date must not be after end date", ErrInvalidArgument)
	// ErrMissingFields — не заполнены обязательные поля.
	ErrMissingFields = fmt.Errorf("%w: missing required fields", ErrInvalidArgument)
)

// IsNotFound сообщает, что ошибка относится к отсутствующей записи.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict проверяет, является ли ошибка нарушением уникальности.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsInvalidArgument проверяет, является ли ошибка ошибкой валидации.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

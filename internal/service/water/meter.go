package water

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

// WaterMeterService — регистрация и обслуживание счётчиков.
type WaterMeterService struct {
	repo     domain.WaterMeterRepository
	validate *validator.Validate
	notify   notifier
	logger   *log.Entry
}

// NewWaterMeterService создаёт сервис счётчиков.
func NewWaterMeterService(repo domain.WaterMeterRepository, publisher domain.EventPublisher, logger *log.Entry) *WaterMeterService {
	logger = componentLogger(logger, "water-meter")
	return &WaterMeterService{
		repo:     repo,
		validate: newValidator(),
		notify:   newNotifier(publisher, logger),
		logger:   logger,
	}
}

// RegisterMeter регистрирует счётчик; номер должен быть уникальным.
// Существование дома не проверяется.
func (s *WaterMeterService) RegisterMeter(ctx context.Context, meter domain.WaterMeter) (domain.WaterMeter, error) {
	if err := s.validate.Struct(meter); err != nil {
		return domain.WaterMeter{}, validationError(err)
	}

	created, err := s.repo.Create(ctx, meter)
	if err != nil {
		return domain.WaterMeter{}, fmt.Errorf("register meter %s: %w", meter.MeterNumber, err)
	}

	s.logger.WithFields(log.Fields{
		"meter_id":     created.ID,
		"meter_number": created.MeterNumber,
		"house_id":     created.HouseID,
	}).Info("meter registered")
	s.notify.publish(ctx, domain.CollectionMeters, created.ID, domain.ChangeCreated, created)
	return created, nil
}

func (s *WaterMeterService) GetMeterByID(ctx context.Context, id string) (domain.WaterMeter, error) {
	meter, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.WaterMeter{}, err
	}
	if !ok {
		return domain.WaterMeter{}, domain.ErrMeterNotFound
	}
	return meter, nil
}

func (s *WaterMeterService) GetMeterByNumber(ctx context.Context, meterNumber string) (domain.WaterMeter, error) {
	meter, ok, err := s.repo.FindByMeterNumber(ctx, meterNumber)
	if err != nil {
		return domain.WaterMeter{}, err
	}
	if !ok {
		return domain.WaterMeter{}, domain.ErrMeterNotFound
	}
	return meter, nil
}

func (s *WaterMeterService) UpdateMeter(ctx context.Context, id string, patch domain.MeterPatch) (domain.WaterMeter, error) {
	if err := s.validate.Struct(patch); err != nil {
		return domain.WaterMeter{}, validationError(err)
	}

	meter, ok, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.WaterMeter{}, fmt.Errorf("update meter %s: %w", id, err)
	}
	if !ok {
		return domain.WaterMeter{}, domain.ErrMeterNotFound
	}

	s.notify.publish(ctx, domain.CollectionMeters, meter.ID, domain.ChangeUpdated, meter)
	return meter, nil
}

func (s *WaterMeterService) DeleteMeter(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete meter %s: %w", id, err)
	}
	if !removed {
		return domain.ErrMeterNotFound
	}

	s.logger.WithField("meter_id", id).Info("meter deleted")
	s.notify.publish(ctx, domain.CollectionMeters, id, domain.ChangeDeleted, nil)
	return nil
}

func (s *WaterMeterService) GetAllMeters(ctx context.Context) ([]domain.WaterMeter, error) {
	return s.repo.FindAll(ctx)
}

func (s *WaterMeterService) GetMetersByHouse(ctx context.Context, houseID string) ([]domain.WaterMeter, error) {
	return s.repo.FindByHouseID(ctx, houseID)
}

// UpdateMeterStatus переводит счётчик в другой статус.
func (s *WaterMeterService) UpdateMeterStatus(ctx context.Context, id string, status domain.MeterStatus) (domain.WaterMeter, error) {
	if !status.Valid() {
		return domain.WaterMeter{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	return s.UpdateMeter(ctx, id, domain.MeterPatch{Status: &status})
}

// UpdateMeterThreshold меняет порог расхода; порог должен быть больше нуля.
func (s *WaterMeterService) UpdateMeterThreshold(ctx context.Context, id string, threshold float64) (domain.WaterMeter, error) {
	if threshold <= 0 {
		return domain.WaterMeter{}, domain.ErrInvalidThreshold
	}
	return s.UpdateMeter(ctx, id, domain.MeterPatch{Threshold: &threshold})
}

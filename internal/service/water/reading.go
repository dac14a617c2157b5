package water

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

// AlertRecorder получает уведомления о тревожных показаниях (метрики).
type AlertRecorder interface {
	RecordAlert(meterID string)
}

type nopAlertRecorder struct{}

func (nopAlertRecorder) RecordAlert(string) {}

// WaterReadingService принимает сырые показания и отмечает превышение порога.
type WaterReadingService struct {
	repo     domain.WaterReadingRepository
	meters   domain.WaterMeterRepository
	validate *validator.Validate
	notify   notifier
	alerts   AlertRecorder
	logger   *log.Entry
}

// NewWaterReadingService создаёт сервис показаний. alerts может быть nil.
func NewWaterReadingService(
	repo domain.WaterReadingRepository,
	meters domain.WaterMeterRepository,
	publisher domain.EventPublisher,
	alerts AlertRecorder,
	logger *log.Entry,
) *WaterReadingService {
	logger = componentLogger(logger, "water-reading")
	if alerts == nil {
		alerts = nopAlertRecorder{}
	}
	return &WaterReadingService{
		repo:     repo,
		meters:   meters,
		validate: newValidator(),
		notify:   newNotifier(publisher, logger),
		alerts:   alerts,
		logger:   logger,
	}
}

// Record сохраняет показание существующего счётчика. Если расход выше порога,
// показание помечается тревожным и публикуется событие alert.
// Последнее показание счётчика обновляется в любом случае.
func (s *WaterReadingService) Record(ctx context.Context, reading domain.WaterReading) (domain.WaterReading, error) {
	if err := s.validate.Struct(reading); err != nil {
		return domain.WaterReading{}, validationError(err)
	}

	meter, ok, err := s.meters.FindByID(ctx, reading.MeterID)
	if err != nil {
		return domain.WaterReading{}, err
	}
	if !ok {
		return domain.WaterReading{}, domain.ErrMeterNotFound
	}

	reading.IsAlert = reading.FlowRate > meter.Threshold
	reading.AlertReason = ""
	if reading.IsAlert {
		reading.AlertReason = fmt.Sprintf("flow rate %.2f L/h exceeds threshold %.2f L/h", reading.FlowRate, meter.Threshold)
	}

	created, err := s.repo.Create(ctx, reading)
	if err != nil {
		return domain.WaterReading{}, fmt.Errorf("record reading for meter %s: %w", meter.ID, err)
	}
	s.notify.publish(ctx, domain.CollectionReadings, created.ID, domain.ChangeCreated, created)

	lastReading := created.Reading
	lastReadingDate := created.Timestamp
	updatedMeter, ok, err := s.meters.Update(ctx, meter.ID, domain.MeterPatch{
		LastReading:     &lastReading,
		LastReadingDate: &lastReadingDate,
	})
	switch {
	case err != nil:
		return created, fmt.Errorf("update last reading of meter %s: %w", meter.ID, err)
	case ok:
		s.notify.publish(ctx, domain.CollectionMeters, updatedMeter.ID, domain.ChangeUpdated, updatedMeter)
	}

	if created.IsAlert {
		s.alerts.RecordAlert(meter.ID)
		s.logger.WithFields(log.Fields{
			"meter_id":  meter.ID,
			"flow_rate": created.FlowRate,
			"threshold": meter.Threshold,
		}).Warn("flow rate above meter threshold")
		s.notify.publish(ctx, domain.CollectionReadings, created.ID, domain.ChangeAlert, created)
	}
	return created, nil
}

func (s *WaterReadingService) FindByID(ctx context.Context, id string) (domain.WaterReading, error) {
	reading, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.WaterReading{}, err
	}
	if !ok {
		return domain.WaterReading{}, domain.ErrReadingNotFound
	}
	return reading, nil
}

func (s *WaterReadingService) FindAll(ctx context.Context) ([]domain.WaterReading, error) {
	return s.repo.FindAll(ctx)
}

func (s *WaterReadingService) FindByMeterID(ctx context.Context, meterID string) ([]domain.WaterReading, error) {
	return s.repo.FindByMeterID(ctx, meterID)
}

func (s *WaterReadingService) FindByTimeRange(ctx context.Context, start, end time.Time) ([]domain.WaterReading, error) {
	if start.After(end) {
		return nil, domain.ErrInvalidDateRange
	}
	return s.repo.FindByTimeRange(ctx, start, end)
}

func (s *WaterReadingService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete reading %s: %w", id, err)
	}
	if !removed {
		return domain.ErrReadingNotFound
	}
	s.notify.publish(ctx, domain.CollectionReadings, id, domain.ChangeDeleted, nil)
	return nil
}

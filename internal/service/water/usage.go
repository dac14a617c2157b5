package water

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

// WaterUsageService — учёт потребления и счетов.
type WaterUsageService struct {
	repo     domain.WaterUsageRepository
	meters   domain.WaterMeterRepository
	validate *validator.Validate
	notify   notifier
	logger   *log.Entry
}

// NewWaterUsageService создаёт сервис потребления. meters нужен для выборки по дому.
func NewWaterUsageService(
	repo domain.WaterUsageRepository,
	meters domain.WaterMeterRepository,
	publisher domain.EventPublisher,
	logger *log.Entry,
) *WaterUsageService {
	logger = componentLogger(logger, "water-usage")
	return &WaterUsageService{
		repo:     repo,
		meters:   meters,
		validate: newValidator(),
		notify:   newNotifier(publisher, logger),
		logger:   logger,
	}
}

// Create требует meterId, reading, readingDate и status; сумма счёта не отрицательна.
func (s *WaterUsageService) Create(ctx context.Context, usage domain.WaterUsage) (domain.WaterUsage, error) {
	if err := s.validate.Struct(usage); err != nil {
		return domain.WaterUsage{}, validationError(err)
	}

	created, err := s.repo.Create(ctx, usage)
	if err != nil {
		return domain.WaterUsage{}, fmt.Errorf("create water usage: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"usage_id": created.ID,
		"meter_id": created.MeterID,
	}).Info("water usage recorded")
	s.notify.publish(ctx, domain.CollectionUsages, created.ID, domain.ChangeCreated, created)
	return created, nil
}

func (s *WaterUsageService) FindAll(ctx context.Context) ([]domain.WaterUsage, error) {
	return s.repo.FindAll(ctx)
}

func (s *WaterUsageService) FindByID(ctx context.Context, id string) (domain.WaterUsage, error) {
	usage, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.WaterUsage{}, err
	}
	if !ok {
		return domain.WaterUsage{}, domain.ErrUsageNotFound
	}
	return usage, nil
}

func (s *WaterUsageService) Update(ctx context.Context, id string, patch domain.UsagePatch) (domain.WaterUsage, error) {
	if err := s.validate.Struct(patch); err != nil {
		return domain.WaterUsage{}, validationError(err)
	}

	usage, ok, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.WaterUsage{}, fmt.Errorf("update water usage %s: %w", id, err)
	}
	if !ok {
		return domain.WaterUsage{}, domain.ErrUsageNotFound
	}

	s.notify.publish(ctx, domain.CollectionUsages, usage.ID, domain.ChangeUpdated, usage)
	return usage, nil
}

func (s *WaterUsageService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete water usage %s: %w", id, err)
	}
	if !removed {
		return domain.ErrUsageNotFound
	}

	s.notify.publish(ctx, domain.CollectionUsages, id, domain.ChangeDeleted, nil)
	return nil
}

func (s *WaterUsageService) FindByMeterID(ctx context.Context, meterID string) ([]domain.WaterUsage, error) {
	return s.repo.FindByMeterID(ctx, meterID)
}

// FindByDateRange включает обе границы.
func (s *WaterUsageService) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.WaterUsage, error) {
	if start.After(end) {
		return nil, domain.ErrInvalidDateRange
	}
	return s.repo.FindByDateRange(ctx, start, end)
}

// FindByHouseID собирает записи всех счётчиков дома.
func (s *WaterUsageService) FindByHouseID(ctx context.Context, houseID string) ([]domain.WaterUsage, error) {
	meters, err := s.meters.FindByHouseID(ctx, houseID)
	if err != nil {
		return nil, fmt.Errorf("find meters of house %s: %w", houseID, err)
	}

	if len(meters) == 0 {
		return []domain.WaterUsage{}, nil
	}

	ids := make([]string, 0, len(meters))
	for _, meter := range meters {
		ids = append(ids, meter.ID)
	}
	usages, err := s.repo.FindByMeterIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find usage of house %s: %w", houseID, err)
	}
	return usages, nil
}

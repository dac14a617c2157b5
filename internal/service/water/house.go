package water

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

// HouseService — операции над домами.
type HouseService struct {
	repo     domain.HouseRepository
	validate *validator.Validate
	notify   notifier
	logger   *log.Entry
}

// NewHouseService создаёт сервис домов.
func NewHouseService(repo domain.HouseRepository, publisher domain.EventPublisher, logger *log.Entry) *HouseService {
	logger = componentLogger(logger, "house")
	return &HouseService{
		repo:     repo,
		validate: newValidator(),
		notify:   newNotifier(publisher, logger),
		logger:   logger,
	}
}

// Create требует адрес, имя владельца, телефон и email.
func (s *HouseService) Create(ctx context.Context, house domain.House) (domain.House, error) {
	if err := s.validate.Struct(house); err != nil {
		return domain.House{}, validationError(err)
	}

	created, err := s.repo.Create(ctx, house)
	if err != nil {
		return domain.House{}, fmt.Errorf("create house: %w", err)
	}

	s.logger.WithField("house_id", created.ID).Info("house created")
	s.notify.publish(ctx, domain.CollectionHouses, created.ID, domain.ChangeCreated, created)
	return created, nil
}

func (s *HouseService) FindAll(ctx context.Context) ([]domain.House, error) {
	return s.repo.FindAll(ctx)
}

func (s *HouseService) FindByID(ctx context.Context, id string) (domain.House, error) {
	house, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.House{}, err
	}
	if !ok {
		return domain.House{}, domain.ErrHouseNotFound
	}
	return house, nil
}

func (s *HouseService) Update(ctx context.Context, id string, patch domain.HousePatch) (domain.House, error) {
	if err := s.validate.Struct(patch); err != nil {
		return domain.House{}, validationError(err)
	}

	house, ok, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.House{}, fmt.Errorf("update house %s: %w", id, err)
	}
	if !ok {
		return domain.House{}, domain.ErrHouseNotFound
	}

	s.notify.publish(ctx, domain.CollectionHouses, house.ID, domain.ChangeUpdated, house)
	return house, nil
}

func (s *HouseService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete house %s: %w", id, err)
	}
	if !removed {
		return domain.ErrHouseNotFound
	}

	s.logger.WithField("house_id", id).Info("house deleted")
	s.notify.publish(ctx, domain.CollectionHouses, id, domain.ChangeDeleted, nil)
	return nil
}

func (s *HouseService) FindByOwnerName(ctx context.Context, ownerName string) ([]domain.House, error) {
	return s.repo.FindByOwnerName(ctx, ownerName)
}

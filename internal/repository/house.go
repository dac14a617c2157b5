package repository

import (
	"context"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/wms/internal/domain"
	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
)

// HouseRepository хранит дома в коллекции "houses".
type HouseRepository struct {
	items *Collection[domain.House, *domain.House]
}

// NewHouseRepository привязывает репозиторий к коллекции домов.
func NewHouseRepository(ctx context.Context, store *collection.Store, opts ...Option) (*HouseRepository, error) {
	items, err := newCollection[domain.House, *domain.House](ctx, store, spec[domain.House]{
		name: domain.CollectionHouses,
		defaults: func(_ time.Time) domain.House {
			return domain.HouseDefaults()
		},
	}, opts)
	if err != nil {
		return nil, err
	}
	return &HouseRepository{items: items}, nil
}

func (r *HouseRepository) Create(ctx context.Context, house domain.House) (domain.House, error) {
	return r.items.Create(ctx, house, nil)
}

func (r *HouseRepository) FindByID(ctx context.Context, id string) (domain.House, bool, error) {
	return r.items.FindByID(ctx, id)
}

func (r *HouseRepository) Update(ctx context.Context, id string, patch domain.HousePatch) (domain.House, bool, error) {
	return r.items.Update(ctx, id, patch, nil)
}

func (r *HouseRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.items.Delete(ctx, id)
}

func (r *HouseRepository) FindAll(ctx context.Context) ([]domain.House, error) {
	return r.items.FindAll(ctx)
}

// FindByOwnerName ищет подстроку в имени владельца без учёта регистра.
func (r *HouseRepository) FindByOwnerName(ctx context.Context, ownerName string) ([]domain.House, error) {
	needle := strings.ToLower(ownerName)
	return r.items.Filter(ctx, func(h domain.House) bool {
		return strings.Contains(strings.ToLower(h.OwnerName), needle)
	})
}

var _ domain.HouseRepository = (*HouseRepository)(nil)

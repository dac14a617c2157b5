package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"time"

	"dario.cat/mergo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
)

// record — ограничение на указатель доменной записи.
type record[T any] interface {
	*T
	GetID() string
	SetID(string)
}

// Option настраивает репозиторий.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock подменяет источник времени для значений по умолчанию.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator подменяет генератор идентификаторов.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		if newID != nil {
			o.newID = newID
		}
	}
}

func defaultOptions() options {
	return options{
		now: func() time.Time { return time.Now().UTC() },
		// UUIDv7 упорядочен по времени создания, поэтому сортировка по id
		// совпадает с порядком вставки.
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// spec описывает тип записи для обобщённого репозитория.
type spec[T any] struct {
	name      string
	defaults  func(now time.Time) T
	normalize func(*T)
}

// View — типизированное представление коллекции внутри транзакции.
type View[T any] struct {
	tx *collection.Tx
}

// Each декодирует и обходит записи, пока fn возвращает true.
func (v View[T]) Each(fn func(T) bool) error {
	var decodeErr error
	v.tx.Each(func(id string, raw json.RawMessage) bool {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			decodeErr = fmt.Errorf("decode record %s: %w", id, err)
			return false
		}
		return fn(item)
	})
	return decodeErr
}

// Collection — обобщённый репозиторий поверх одной именованной коллекции.
// Каждая изменяющая операция сохраняет коллекцию целиком.
type Collection[T any, P record[T]] struct {
	c    *collection.Collection
	spec spec[T]
	opts options
}

func newCollection[T any, P record[T]](ctx context.Context, store *collection.Store, s spec[T], opts []Option) (*Collection[T, P], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Collection[T, P]{
		c:    store.Collection(ctx, s.name),
		spec: s,
		opts: o,
	}

	// Повреждённая запись должна остановить запуск, а не всплыть на первом чтении.
	var decodeErr error
	r.c.Each(func(id string, raw json.RawMessage) bool {
		if _, err := decodeRecord[T](raw); err != nil {
			decodeErr = fmt.Errorf("%w: %s/%s: %w", collection.ErrCorruptSnapshot, s.name, id, err)
			return false
		}
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return r, nil
}

// Name возвращает имя коллекции.
func (r *Collection[T, P]) Name() string { return r.c.Name() }

// Create присваивает новый id, заполняет пустые поля значениями по умолчанию,
// выполняет check под блокировкой коллекции и сохраняет запись.
func (r *Collection[T, P]) Create(ctx context.Context, partial T, check func(View[T], T) error) (T, error) {
	var zero T

	rec := partial
	if r.spec.defaults != nil {
		if err := mergo.Merge(&rec, r.spec.defaults(r.opts.now()), mergo.WithTransformers(zeroFiller{})); err != nil {
			return zero, fmt.Errorf("apply defaults: %w", err)
		}
	}
	if r.spec.normalize != nil {
		r.spec.normalize(&rec)
	}

	var out T
	err := r.c.Update(ctx, func(tx *collection.Tx) error {
		id := r.opts.newID()
		for tx.Has(id) {
			id = r.opts.newID()
		}
		P(&rec).SetID(id)

		if check != nil {
			if err := check(View[T]{tx: tx}, rec); err != nil {
				return err
			}
		}

		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode %s record: %w", r.spec.name, err)
		}
		tx.Put(id, raw)
		out, err = decodeRecord[T](raw)
		return err
	})
	if err != nil {
		return zero, err
	}
	return out, nil
}

// FindByID возвращает запись и флаг её наличия.
func (r *Collection[T, P]) FindByID(_ context.Context, id string) (T, bool, error) {
	var zero T
	raw, ok := r.c.Get(id)
	if !ok {
		return zero, false, nil
	}
	item, err := decodeRecord[T](raw)
	if err != nil {
		return zero, false, fmt.Errorf("decode %s/%s: %w", r.spec.name, id, err)
	}
	return item, true, nil
}

// Update накладывает на существующую запись только присутствующие в patch поля.
// id записи не меняется, даже если patch его содержит. Отсутствующая запись
// не создаётся: возвращается found=false.
func (r *Collection[T, P]) Update(ctx context.Context, id string, patch any, check func(view View[T], before, after T) error) (T, bool, error) {
	var zero T

	patchRaw, err := json.Marshal(patch)
	if err != nil {
		return zero, false, fmt.Errorf("encode %s patch: %w", r.spec.name, err)
	}

	var (
		out   T
		found bool
	)
	err = r.c.Update(ctx, func(tx *collection.Tx) error {
		raw, ok := tx.Get(id)
		if !ok {
			return nil
		}
		found = true

		before, err := decodeRecord[T](raw)
		if err != nil {
			return fmt.Errorf("decode %s/%s: %w", r.spec.name, id, err)
		}
		after, err := decodeRecord[T](raw)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(patchRaw, &after); err != nil {
			return fmt.Errorf("apply %s patch: %w", r.spec.name, err)
		}
		P(&after).SetID(id)
		if r.spec.normalize != nil {
			r.spec.normalize(&after)
		}

		if check != nil {
			if err := check(View[T]{tx: tx}, before, after); err != nil {
				return err
			}
		}

		updated, err := json.Marshal(after)
		if err != nil {
			return fmt.Errorf("encode %s record: %w", r.spec.name, err)
		}
		tx.Put(id, updated)
		out, err = decodeRecord[T](updated)
		return err
	})
	if err != nil {
		return zero, found, err
	}
	return out, found, nil
}

// Delete удаляет запись. Снимок сохраняется, только если запись была.
func (r *Collection[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	removed := false
	err := r.c.Update(ctx, func(tx *collection.Tx) error {
		removed = tx.Delete(id)
		return nil
	})
	return removed, err
}

// FindAll возвращает все записи, отсортированные по id.
func (r *Collection[T, P]) FindAll(ctx context.Context) ([]T, error) {
	return r.Filter(ctx, nil)
}

// Filter линейно просматривает коллекцию и возвращает записи, для которых
// pred вернул true (nil — все записи). Результат отсортирован по id.
func (r *Collection[T, P]) Filter(_ context.Context, pred func(T) bool) ([]T, error) {
	type entry struct {
		id   string
		item T
	}

	var (
		entries   []entry
		decodeErr error
	)
	r.c.Each(func(id string, raw json.RawMessage) bool {
		item, err := decodeRecord[T](raw)
		if err != nil {
			decodeErr = fmt.Errorf("decode %s/%s: %w", r.spec.name, id, err)
			return false
		}
		if pred == nil || pred(item) {
			entries = append(entries, entry{id: id, item: item})
		}
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	result := make([]T, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.item)
	}
	return result, nil
}

func decodeRecord[T any](raw json.RawMessage) (T, error) {
	var item T
	err := json.Unmarshal(raw, &item)
	return item, err
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// zeroFiller учит mergo заполнять нулевые time.Time и decimal.Decimal:
// у этих структур нет экспортируемых полей, и без трансформера mergo их пропускает.
type zeroFiller struct{}

func (zeroFiller) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	switch typ {
	case timeType:
		return func(dst, src reflect.Value) error {
			if dst.CanSet() && dst.Interface().(time.Time).IsZero() {
				dst.Set(src)
			}
			return nil
		}
	case decimalType:
		return func(dst, src reflect.Value) error {
			if dst.CanSet() && dst.Interface().(decimal.Decimal).IsZero() {
				dst.Set(src)
			}
			return nil
		}
	default:
		return nil
	}
}

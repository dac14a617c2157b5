package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Store — процессный реестр именованных коллекций поверх Backend.
// Создаётся один раз при старте и передаётся во все репозитории.
type Store struct {
	backend  Backend
	logger   *log.Entry
	observer Observer

	mu          sync.Mutex
	collections map[string]*Collection
}

// Option настраивает Store.
type Option func(*Store)

// WithLogger задаёт логгер хранилища.
func WithLogger(logger *log.Entry) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver подключает наблюдателя за записью снимков.
func WithObserver(observer Observer) Option {
	return func(s *Store) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// Open загружает все снимки из backend. Если хоть один снимок не читается,
// возвращается ошибка: запускаться с частично загруженными данными нельзя.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, errors.New("collection backend is required")
	}

	s := &Store{
		backend:     backend,
		logger:      log.WithField("component", "collection-store"),
		observer:    nopObserver{},
		collections: make(map[string]*Collection),
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := backend.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}

	total := 0
	for name, records := range loaded {
		if !ValidName(name) {
			return nil, fmt.Errorf("%w: invalid collection name %q", ErrCorruptSnapshot, name)
		}
		if records == nil {
			records = Records{}
		}
		s.collections[name] = &Collection{name: name, store: s, records: records}
		total += len(records)
	}

	s.logger.WithFields(log.Fields{
		"collections": len(s.collections),
		"records":     total,
	}).Info("collections loaded")

	return s, nil
}

// Collection возвращает коллекцию по имени, создавая пустую при первом обращении.
// Пустой снимок новой коллекции записывается сразу, чтобы она пережила перезапуск;
// ошибка этой записи только логируется, следующее изменение повторит сохранение.
// Недопустимое имя — ошибка программиста, метод паникует.
func (s *Store) Collection(ctx context.Context, name string) *Collection {
	if !ValidName(name) {
		panic(fmt.Sprintf("collection: invalid name %q", name))
	}

	s.mu.Lock()
	if c, ok := s.collections[name]; ok {
		s.mu.Unlock()
		return c
	}
	c := &Collection{name: name, store: s, records: Records{}}
	s.collections[name] = c
	// Блокируем коллекцию до публикации, чтобы пустой снимок
	// не перезаписал чужое изменение.
	c.mu.Lock()
	s.mu.Unlock()
	defer c.mu.Unlock()

	if err := c.persistLocked(ctx); err != nil {
		s.logger.WithError(err).WithField("collection", name).Warn("failed to write empty snapshot")
	} else {
		s.logger.WithField("collection", name).Debug("collection created")
	}
	return c
}

// SaveChanges записывает текущее содержимое коллекции целиком.
// Для неизвестной коллекции ничего не делает.
func (s *Store) SaveChanges(ctx context.Context, name string) error {
	c, ok := s.lookup(name)
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistLocked(ctx)
}

// ClearCollection очищает коллекцию на месте и удаляет её снимок.
// Ссылки на коллекцию, полученные ранее, остаются рабочими.
func (s *Store) ClearCollection(ctx context.Context, name string) error {
	if c, ok := s.lookup(name); ok {
		c.mu.Lock()
		defer c.mu.Unlock()
		clear(c.records)
	}
	if err := s.backend.Remove(ctx, name); err != nil {
		return fmt.Errorf("remove snapshot %s: %w", name, err)
	}
	s.logger.WithField("collection", name).Info("collection cleared")
	return nil
}

// ClearAll очищает все известные коллекции.
func (s *Store) ClearAll(ctx context.Context) error {
	var errs []error
	for _, name := range s.Names() {
		if err := s.ClearCollection(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Names возвращает отсортированные имена коллекций.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close закрывает backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) lookup(name string) (*Collection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	return c, ok
}

func (s *Store) save(ctx context.Context, name string, records Records) error {
	start := time.Now()
	err := s.backend.Save(ctx, name, records)
	s.observer.SnapshotSaved(name, len(records), time.Since(start), err)
	return err
}

package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
)

// Backend хранит закодированные снимки коллекций в памяти процесса.
// Подходит для тестов и локального запуска без диска: данные не переживают рестарт.
type Backend struct {
	mu    sync.RWMutex
	units map[string][]byte
}

// NewBackend возвращает in-memory носитель снимков.
func NewBackend() *Backend {
	return &Backend{units: make(map[string][]byte)}
}

// LoadAll декодирует все сохранённые снимки.
func (b *Backend) LoadAll(_ context.Context) (map[string]collection.Records, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make(map[string]collection.Records, len(b.units))
	for name, data := range b.units {
		records, err := collection.DecodeSnapshot(name, data)
		if err != nil {
			return nil, err
		}
		result[name] = records
	}
	return result, nil
}

// Save сериализует коллекцию так же, как файловый носитель,
// чтобы в тестах проверялся тот же формат.
func (b *Backend) Save(_ context.Context, name string, records collection.Records) error {
	data, err := collection.EncodeSnapshot(records)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.units[name] = data
	return nil
}

// Remove удаляет снимок коллекции.
func (b *Backend) Remove(_ context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.units, name)
	return nil
}

func (b *Backend) Close() error { return nil }

// Snapshot возвращает копию сохранённого снимка (для тестов и отладки).
func (b *Backend) Snapshot(name string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.units[name]
	if !ok {
		return nil, false
	}
	return bytes.Clone(data), true
}

// Names возвращает имена сохранённых коллекций.
func (b *Backend) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.units))
	for name := range b.units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ collection.Backend = (*Backend)(nil)

package collection

import (
	"context"
	"time"
)

// Backend — долговременный носитель снимков коллекций.
// Каждая коллекция хранится отдельной единицей (файлом, строкой, объектом)
// и всегда перезаписывается целиком.
type Backend interface {
	// LoadAll читает все сохранённые коллекции. Ошибка разбора любого
	// снимка должна оборачивать ErrCorruptSnapshot.
	LoadAll(ctx context.Context) (map[string]Records, error)
	// Save атомарно заменяет снимок коллекции. Реализация не должна
	// удерживать records после возврата.
	Save(ctx context.Context, name string, records Records) error
	// Remove удаляет снимок; отсутствие снимка не ошибка.
	Remove(ctx context.Context, name string) error
	Close() error
}

// Observer получает уведомления о записи снимков (метрики, трассировка).
type Observer interface {
	SnapshotSaved(collection string, records int, duration time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) SnapshotSaved(string, int, time.Duration, error) {}

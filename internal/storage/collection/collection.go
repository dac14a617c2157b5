package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// snapshotWriteTimeout ограничивает одну запись снимка на носитель.
const snapshotWriteTimeout = 30 * time.Second

// Collection — именованный набор записей одного типа.
// Чтение идёт под разделяемой блокировкой, изменения — только через Update.
type Collection struct {
	name  string
	store *Store

	mu      sync.RWMutex
	records Records
}

// Name возвращает имя коллекции.
func (c *Collection) Name() string { return c.name }

// Len возвращает количество записей.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Get возвращает копию закодированной записи.
func (c *Collection) Get(id string) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	raw, ok := c.records[id]
	if !ok {
		return nil, false
	}
	return bytes.Clone(raw), true
}

// Has сообщает, есть ли запись с таким идентификатором.
func (c *Collection) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.records[id]
	return ok
}

// Each обходит записи, пока fn возвращает true. Порядок не определён.
// Внутри fn нельзя вызывать Update той же коллекции.
func (c *Collection) Each(fn func(id string, raw json.RawMessage) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for id, raw := range c.records {
		if !fn(id, raw) {
			return
		}
	}
}

// Update выполняет fn над подготовленным представлением коллекции.
// Изменения применяются, только если fn вернула nil; после применения
// снимок записывается под той же блокировкой, поэтому на носителе всегда
// лежит некоторый префикс принятых изменений.
//
// Если запись снимка не удалась, изменение остаётся в памяти, а ошибка
// оборачивает ErrPersist.
func (c *Collection) Update(ctx context.Context, fn func(tx *Tx) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx := &Tx{base: c.records}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty() {
		return nil
	}
	tx.apply(c.records)
	return c.persistLocked(ctx)
}

// persistLocked пишет снимок независимо от отмены ctx: изменение уже
// принято в памяти, и отменённый запрос не должен терять его на носителе.
// Запись ограничена snapshotWriteTimeout.
func (c *Collection) persistLocked(ctx context.Context) error {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotWriteTimeout)
	defer cancel()

	if err := c.store.save(writeCtx, c.name, c.records); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPersist, c.name, err)
	}
	return nil
}

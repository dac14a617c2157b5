package collection

import (
	"bytes"
	"encoding/json"
)

// Tx — представление коллекции внутри Update. Записи и удаления
// накапливаются и применяются к коллекции только при успешном завершении.
type Tx struct {
	base    Records
	puts    map[string]json.RawMessage
	deletes map[string]struct{}
}

// Get возвращает запись с учётом накопленных изменений.
func (tx *Tx) Get(id string) (json.RawMessage, bool) {
	if raw, ok := tx.puts[id]; ok {
		return raw, true
	}
	if _, ok := tx.deletes[id]; ok {
		return nil, false
	}
	raw, ok := tx.base[id]
	return raw, ok
}

// Has сообщает, видна ли запись в транзакции.
func (tx *Tx) Has(id string) bool {
	_, ok := tx.Get(id)
	return ok
}

// Len возвращает количество видимых записей.
func (tx *Tx) Len() int {
	n := 0
	tx.Each(func(string, json.RawMessage) bool {
		n++
		return true
	})
	return n
}

// Each обходит видимые записи, пока fn возвращает true.
func (tx *Tx) Each(fn func(id string, raw json.RawMessage) bool) {
	for id, raw := range tx.base {
		if _, ok := tx.puts[id]; ok {
			continue
		}
		if _, ok := tx.deletes[id]; ok {
			continue
		}
		if !fn(id, raw) {
			return
		}
	}
	for id, raw := range tx.puts {
		if !fn(id, raw) {
			return
		}
	}
}

// Put вставляет или заменяет запись.
func (tx *Tx) Put(id string, raw json.RawMessage) {
	if tx.puts == nil {
		tx.puts = make(map[string]json.RawMessage)
	}
	delete(tx.deletes, id)
	tx.puts[id] = bytes.Clone(raw)
}

// Delete удаляет запись и сообщает, была ли она видна.
func (tx *Tx) Delete(id string) bool {
	if !tx.Has(id) {
		return false
	}
	delete(tx.puts, id)
	if _, ok := tx.base[id]; ok {
		if tx.deletes == nil {
			tx.deletes = make(map[string]struct{})
		}
		tx.deletes[id] = struct{}{}
	}
	return true
}

func (tx *Tx) dirty() bool {
	return len(tx.puts) > 0 || len(tx.deletes) > 0
}

func (tx *Tx) apply(records Records) {
	for id := range tx.deletes {
		delete(records, id)
	}
	for id, raw := range tx.puts {
		records[id] = raw
	}
}

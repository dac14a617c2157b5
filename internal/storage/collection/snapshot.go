package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrCorruptSnapshot — сохранённый снимок коллекции невозможно разобрать.
	ErrCorruptSnapshot = errors.New("corrupt collection snapshot")
	// ErrPersist — изменение применено в памяти, но снимок не записан.
	ErrPersist = errors.New("persist collection snapshot")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidName проверяет, что имя коллекции можно безопасно использовать
// как имя файла, ключ объекта или первичный ключ таблицы.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Records — содержимое коллекции: идентификатор → закодированная запись.
type Records map[string]json.RawMessage

// Clone возвращает глубокую копию, не разделяющую байты с исходной.
func (r Records) Clone() Records {
	out := make(Records, len(r))
	for id, raw := range r {
		out[id] = bytes.Clone(raw)
	}
	return out
}

// EncodeSnapshot сериализует коллекцию в JSON-объект с отступом в два пробела.
func EncodeSnapshot(records Records) ([]byte, error) {
	if records == nil {
		records = Records{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot разбирает снимок коллекции name.
// Любая ошибка разбора оборачивается в ErrCorruptSnapshot.
func DecodeSnapshot(name string, data []byte) (Records, error) {
	var records Records
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptSnapshot, name, err)
	}
	if records == nil {
		records = Records{}
	}
	return records, nil
}

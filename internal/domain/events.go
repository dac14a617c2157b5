package domain

import (
	"context"
	"time"
)

// ChangeType — вид изменения записи.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
	// ChangeAlert — показание превысило порог счётчика.
	ChangeAlert ChangeType = "alert"
)

// Имена коллекций, в которых хранятся записи.
const (
	CollectionHouses   = "houses"
	CollectionMeters   = "waterMeters"
	CollectionUsages   = "waterUsages"
	CollectionReadings = "waterReadings"
)

// ChangeEvent описывает изменение записи для внешних подписчиков.
type ChangeEvent struct {
	Collection string     `json:"collection"`
	RecordID   string     `json:"recordId"`
	Type       ChangeType `json:"type"`
	Timestamp  time.Time  `json:"timestamp"`
	// Record — состояние записи после изменения; пусто для удаления.
	Record any `json:"record,omitempty"`
}

// NewChangeEvent создаёт событие с текущим временем.
func NewChangeEvent(collection, recordID string, changeType ChangeType, record any) ChangeEvent {
	return ChangeEvent{
		Collection: collection,
		RecordID:   recordID,
		Type:       changeType,
		Timestamp:  time.Now().UTC(),
		Record:     record,
	}
}

// EventPublisher доставляет события об изменениях наружу.
type EventPublisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// NopPublisher отбрасывает события; используется, когда брокер не настроен.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ChangeEvent) error { return nil }

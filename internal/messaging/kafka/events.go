package kafka

import "github.com/vladislavdragonenkov/wms/internal/domain"

// Topics для Kafka
const (
	TopicHouseEvents   = "wms.houses.events"
	TopicMeterEvents   = "wms.meters.events"
	TopicUsageEvents   = "wms.usages.events"
	TopicReadingEvents = "wms.readings.events"
	// TopicMeterAlerts получает показания с превышением порога.
	TopicMeterAlerts = "wms.meters.alerts"
)

// Kafka headers
const (
	HeaderCollection = "x-collection"
	HeaderChangeType = "x-change-type"
)

var collectionTopics = map[string]string{
	domain.CollectionHouses:   TopicHouseEvents,
	domain.CollectionMeters:   TopicMeterEvents,
	domain.CollectionUsages:   TopicUsageEvents,
	domain.CollectionReadings: TopicReadingEvents,
}

// TopicFor возвращает топик для события. Второе значение false,
// если коллекция неизвестна.
func TopicFor(event domain.ChangeEvent) (string, bool) {
	if event.Type == domain.ChangeAlert {
		return TopicMeterAlerts, true
	}
	topic, ok := collectionTopics[event.Collection]
	return topic, ok
}

package water

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

// notifier публикует события об изменениях. Запись уже сохранена к моменту
// публикации, поэтому ошибка брокера только логируется.
type notifier struct {
	publisher domain.EventPublisher
	logger    *log.Entry
}

func newNotifier(publisher domain.EventPublisher, logger *log.Entry) notifier {
	if publisher == nil {
		publisher = domain.NopPublisher{}
	}
	return notifier{publisher: publisher, logger: logger}
}

func (n notifier) publish(ctx context.Context, collection, id string, changeType domain.ChangeType, record any) {
	event := domain.NewChangeEvent(collection, id, changeType, record)
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.WithError(err).WithFields(log.Fields{
			"collection": collection,
			"record_id":  id,
			"type":       changeType,
		}).Warn("failed to publish change event")
	}
}

func componentLogger(logger *log.Entry, name string) *log.Entry {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return logger.WithField("service", name)
}

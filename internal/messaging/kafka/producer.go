package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

// PublishRecorder получает результат каждой отправки (метрики).
type PublishRecorder interface {
	RecordPublish(topic string, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordPublish(string, error) {}

// Producer публикует события об изменениях записей в Kafka.
type Producer struct {
	producer sarama.SyncProducer
	recorder PublishRecorder
	logger   *log.Entry
}

var _ domain.EventPublisher = (*Producer)(nil)

// NewProducer создает новый Kafka producer
func NewProducer(brokers []string, recorder PublishRecorder, logger *log.Entry) (*Producer, error) {
	config := sarama.NewConfig()
	config.ClientID = "wms"
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return newProducer(producer, recorder, logger), nil
}

func newProducer(producer sarama.SyncProducer, recorder PublishRecorder, logger *log.Entry) *Producer {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Producer{
		producer: producer,
		recorder: recorder,
		logger:   logger.WithField("component", "kafka-producer"),
	}
}

// Publish отправляет событие в топик его коллекции; ключ сообщения — id записи,
// поэтому события одной записи попадают в одну партицию.
func (p *Producer) Publish(ctx context.Context, event domain.ChangeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	topic, ok := TopicFor(event)
	if !ok {
		return fmt.Errorf("no topic for collection %q", event.Collection)
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.RecordID),
		Value: sarama.ByteEncoder(eventData),
		Headers: []sarama.RecordHeader{
			{Key: []byte(HeaderCollection), Value: []byte(event.Collection)},
			{Key: []byte(HeaderChangeType), Value: []byte(event.Type)},
		},
		Timestamp: timestamp,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	p.recorder.RecordPublish(topic, err)
	if err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"topic": topic,
			"key":   event.RecordID,
		}).Error("failed to send message to kafka")
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":     topic,
		"key":       event.RecordID,
		"partition": partition,
		"offset":    offset,
	}).Debug("message sent to kafka")

	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cleansched/internal/config"
	"cleansched/internal/logger"
	"cleansched/internal/models"

	"github.com/segmentio/kafka-go"
)

// Event is the envelope written to the order-events and staff-events topics.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	At   time.Time   `json:"at"`
}

// Producer streams order and staff mutations to Kafka. In mock mode it only
// logs the event, which is what local development runs use.
type Producer struct {
	orderWriter *kafka.Writer
	staffWriter *kafka.Writer
	logger      *logger.Logger
	mock        bool
}

func NewProducer(cfg config.KafkaConfig, log *logger.Logger) *Producer {
	p := &Producer{logger: log, mock: cfg.MockMode}
	if cfg.MockMode {
		return p
	}

	p.orderWriter = kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topics.OrderEvents,
	})
	p.staffWriter = kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topics.StaffEvents,
	})
	return p
}

func (p *Producer) publish(writer *kafka.Writer, eventType, key string, data interface{}) error {
	event := Event{Type: eventType, Data: data, At: time.Now().UTC()}
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if p.mock {
		p.logger.Info("KAFKA", fmt.Sprintf("[mock] %s: %s", eventType, string(msgBytes)))
		return nil
	}

	return writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(key),
			Value: msgBytes,
		},
	)
}

func (p *Producer) PublishOrderCreated(order models.Order) error {
	return p.publish(p.orderWriter, "order.created", order.ID, order)
}

func (p *Producer) PublishOrderUpdated(order models.Order) error {
	return p.publish(p.orderWriter, "order.updated", order.ID, order)
}

func (p *Producer) PublishOrderDeleted(orderID string) error {
	return p.publish(p.orderWriter, "order.deleted", orderID, map[string]string{"id": orderID})
}

func (p *Producer) PublishStaffCreated(member models.Staff) error {
	return p.publish(p.staffWriter, "staff.created", member.ID, member)
}

func (p *Producer) PublishStaffDeleted(staffID string) error {
	return p.publish(p.staffWriter, "staff.deleted", staffID, map[string]string{"id": staffID})
}

func (p *Producer) Close() {
	if p.orderWriter != nil {
		p.orderWriter.Close()
	}
	if p.staffWriter != nil {
		p.staffWriter.Close()
	}
}

// NoopPublisher satisfies the service publisher interfaces when Kafka is
// disabled entirely.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(models.Order) error { return nil }
func (NoopPublisher) PublishOrderUpdated(models.Order) error { return nil }
func (NoopPublisher) PublishOrderDeleted(string) error       { return nil }
func (NoopPublisher) PublishStaffCreated(models.Staff) error { return nil }
func (NoopPublisher) PublishStaffDeleted(string) error       { return nil }

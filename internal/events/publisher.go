package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/artisanmarket/storefront/internal/domain"
	"github.com/segmentio/kafka-go"
)

const orderCompletedTopic = "order-completed"

// OrderPublisher emits order-completed events for downstream consumers
// (fulfilment, seller notifications). Publishing is best-effort: the
// checkout flow never fails because the broker is down.
type OrderPublisher interface {
	PublishOrderCompleted(ctx context.Context, order *domain.Order)
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderCompletedTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderCompleted(ctx context.Context, order *domain.Order) {
	payload := map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"session_id":   order.SessionID,
		"email":        order.Email,
		"items":        order.Items,
		"total":        order.Totals.Total,
		"completed_at": time.Now(),
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal order event payload: %v", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(order.SessionID), // session id for ordering
		Value: payloadJSON,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order_completed")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("failed to publish order event for %v: %v", order.OrderNumber, err)
	}
}

func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("close kafka writer: %w", err)
	}
	return nil
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCompleted(context.Context, *domain.Order) {}

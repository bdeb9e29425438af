// Package events announces settled sales to other systems.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const EventSaleCompleted = "SaleCompleted"

type Publisher interface {
	PublishSale(ctx context.Context, sale model.Sale) error
	Close() error
}

type SaleCompletedEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   SalePayload `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type SalePayload struct {
	ID            string            `json:"id"`
	Total         float64           `json:"total"`
	PaymentMethod string            `json:"payment_method"`
	CustomerID    string            `json:"customer_id,omitempty"`
	Items         []SaleItemPayload `json:"items"`
}

type SaleItemPayload struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
}

// NewSaleCompletedEvent builds the wire event for a sale.
func NewSaleCompletedEvent(sale model.Sale, at time.Time) SaleCompletedEvent {
	items := make([]SaleItemPayload, len(sale.Items))
	for i, it := range sale.Items {
		items[i] = SaleItemPayload{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			SKU:       it.SKU,
			Quantity:  it.Qty,
		}
	}
	return SaleCompletedEvent{
		EventID:   uuid.NewString(),
		EventType: EventSaleCompleted,
		Payload: SalePayload{
			ID:            sale.ID,
			Total:         sale.Total,
			PaymentMethod: string(sale.PaymentMethod),
			CustomerID:    sale.CustomerID,
			Items:         items,
		},
		Timestamp: at.UTC(),
	}
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			MaxAttempts:            3,
			WriteTimeout:           5 * time.Second,
		},
		now: time.Now,
	}
}

func (p *KafkaPublisher) PublishSale(ctx context.Context, sale model.Sale) error {
	event := NewSaleCompletedEvent(sale, p.now())
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal sale event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(sale.ID), Value: value}); err != nil {
		return fmt.Errorf("write sale event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishSale(context.Context, model.Sale) error { return nil }
func (NopPublisher) Close() error                                  { return nil }

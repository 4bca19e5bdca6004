package ordproducer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/platform/kafka"
)

type orderCompletedPayload struct {
	EventID     uuid.UUID       `json:"event_id"`
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	VehicleID   uuid.UUID       `json:"vehicle_id"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	CompletedAt time.Time       `json:"completed_at"`
}

type service struct {
	producer kafka.Producer
}

func NewOrderProducer(producer kafka.Producer) *service {
	return &service{producer: producer}
}

func (s *service) SendOrderCompleted(ctx context.Context, event model.OrderCompleted) error {
	payload, err := json.Marshal(orderCompletedPayload{
		EventID:     event.EventID,
		OrderID:     event.OrderID,
		OrderNumber: event.OrderNumber,
		CustomerID:  event.CustomerID,
		VehicleID:   event.VehicleID,
		TotalCost:   event.TotalCost,
		CompletedAt: event.CompletedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order_completed event: %w", err)
	}

	if err := s.producer.Send(ctx, event.OrderID[:], payload); err != nil {
		return fmt.Errorf("producer to order.completed topic error: %w", err)
	}

	return nil
}

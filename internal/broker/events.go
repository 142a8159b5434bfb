package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"inventory-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderStatusChanged publishes OrderStatusChanged event
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderDeleted publishes OrderDeleted event
func (ep *EventPublisher) PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishStocktakeRecorded publishes StocktakeRecorded event
func (ep *EventPublisher) PublishStocktakeRecorded(ctx context.Context, event *models.StocktakeRecordedEvent) error {
	key := fmt.Sprintf("stocktake-%s", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishStocktakeResolved publishes StocktakeResolved event
func (ep *EventPublisher) PublishStocktakeResolved(ctx context.Context, event *models.StocktakeResolvedEvent) error {
	key := fmt.Sprintf("stocktake-%d", event.EntryID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishAvailabilityRefreshed publishes AvailabilityRefreshed event
func (ep *EventPublisher) PublishAvailabilityRefreshed(ctx context.Context, event *models.AvailabilityRefreshedEvent) error {
	key := fmt.Sprintf("pass-%s", event.PassID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming refresh-trigger events
type EventHandler struct {
	onOrderStatusChanged func(context.Context, *models.OrderStatusChangedEvent) error
	onOrderDeleted       func(context.Context, *models.OrderDeletedEvent) error
	onStocktakeRecorded  func(context.Context, *models.StocktakeRecordedEvent) error
	onRefreshRequested   func(context.Context, *models.RefreshRequestedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderStatusChanged registers a handler for OrderStatusChanged events
func (eh *EventHandler) OnOrderStatusChanged(handler func(context.Context, *models.OrderStatusChangedEvent) error) {
	eh.onOrderStatusChanged = handler
}

// OnOrderDeleted registers a handler for OrderDeleted events
func (eh *EventHandler) OnOrderDeleted(handler func(context.Context, *models.OrderDeletedEvent) error) {
	eh.onOrderDeleted = handler
}

// OnStocktakeRecorded registers a handler for StocktakeRecorded events
func (eh *EventHandler) OnStocktakeRecorded(handler func(context.Context, *models.StocktakeRecordedEvent) error) {
	eh.onStocktakeRecorded = handler
}

// OnRefreshRequested registers a handler for RefreshRequested events
func (eh *EventHandler) OnRefreshRequested(handler func(context.Context, *models.RefreshRequestedEvent) error) {
	eh.onRefreshRequested = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypeOrderStatusChanged, models.EventTypeOrderDetailsChanged:
		if eh.onOrderStatusChanged != nil {
			var event models.OrderStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderStatusChanged event: %w", err)
			}
			return eh.onOrderStatusChanged(ctx, &event)
		}

	case models.EventTypeOrderDeleted:
		if eh.onOrderDeleted != nil {
			var event models.OrderDeletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderDeleted event: %w", err)
			}
			return eh.onOrderDeleted(ctx, &event)
		}

	case models.EventTypeStocktakeRecorded:
		if eh.onStocktakeRecorded != nil {
			var event models.StocktakeRecordedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal StocktakeRecorded event: %w", err)
			}
			return eh.onStocktakeRecorded(ctx, &event)
		}

	case models.EventTypeStocktakeResolved:
		// Log bookkeeping only; resolving an entry changes no availability.

	case models.EventTypeRefreshRequested:
		if eh.onRefreshRequested != nil {
			var event models.RefreshRequestedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal RefreshRequested event: %w", err)
			}
			return eh.onRefreshRequested(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}

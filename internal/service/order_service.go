package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"inventory-service/internal/engine"
	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Order list tabs.
const (
	TabReceived  = "received"
	TabToday     = "today"
	TabFutures   = "futures"
	TabHold      = "hold"
	TabConfirmed = "confirmed"
	TabShipped   = "shipped"
)

// OrderStore is the command-and-listing boundary to the data collaborator.
type OrderStore interface {
	GetOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) (string, error)
	UpdateOrderDetails(ctx context.Context, orderID, contactName, phone, address, note string) error
	DeleteOrder(ctx context.Context, orderID string) error
	GetStocktakeLog(ctx context.Context) ([]models.StocktakeEntry, error)
	RecordStocktake(ctx context.Context, entry *models.StocktakeEntry) error
	ResolveStocktake(ctx context.Context, id int64) error
}

// CommandSink publishes state-change events that re-trigger refresh passes.
type CommandSink interface {
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error
	PublishStocktakeRecorded(ctx context.Context, event *models.StocktakeRecordedEvent) error
	PublishStocktakeResolved(ctx context.Context, event *models.StocktakeResolvedEvent) error
}

// OrderService handles order listing and the command surface. It mutates
// nothing itself beyond issuing store commands; the availability engine stays
// read-only over orders.
type OrderService struct {
	store        OrderStore
	events       CommandSink
	availability *AvailabilityService
	logger       *zap.Logger
}

// NewOrderService creates a new order service. events may be nil.
func NewOrderService(store OrderStore, events CommandSink, availability *AvailabilityService) *OrderService {
	return &OrderService{
		store:        store,
		events:       events,
		availability: availability,
		logger:       util.GetLogger(),
	}
}

// ListOrders returns orders filtered by tab and search term, unprocessed
// first, then newest first.
func (s *OrderService) ListOrders(ctx context.Context, tab, search string) ([]models.Order, error) {
	orders, err := s.store.GetOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if !tabMatches(o, tab, today) {
			continue
		}
		if search != "" && !searchMatches(o, search) {
			continue
		}
		out = append(out, o)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if (out[i].Status == models.OrderStatusReceived) != (out[j].Status == models.OrderStatusReceived) {
			return out[i].Status == models.OrderStatusReceived
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func tabMatches(o models.Order, tab, today string) bool {
	switch tab {
	case "", "all":
		return true
	case TabReceived:
		return o.Status == models.OrderStatusReceived
	case TabToday:
		return o.Status == models.OrderStatusShipped && o.DeliveryDate == today
	case TabFutures:
		return o.Status == models.OrderStatusFutures
	case TabHold:
		return engine.IsReservationBearing(o)
	case TabConfirmed:
		return o.Status == models.OrderStatusConfirmed
	case TabShipped:
		return o.Status == models.OrderStatusShipped
	default:
		return false
	}
}

func searchMatches(o models.Order, search string) bool {
	t := strings.ToLower(search)
	return strings.Contains(strings.ToLower(o.Company), t) ||
		strings.Contains(strings.ToLower(o.OrderID), t)
}

// GetOrder returns one order together with its parsed line items, the same
// structured preview the matcher consumes.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, []models.OrderLineItem, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, engine.ParseOrderText(order.ItemsText), nil
}

// UpdateStatus applies a status command, publishes the change, and triggers a
// refresh so reservations reflect the new state.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) error {
	old, err := s.store.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return fmt.Errorf("failed to update status for order %s: %w", orderID, err)
	}

	util.StatusCommandsTotal.WithLabelValues(status).Inc()
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("old_status", old),
		zap.String("new_status", status))

	if s.events != nil {
		event := &models.OrderStatusChangedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderStatusChanged,
				Timestamp: time.Now(),
			},
			OrderID:   orderID,
			OldStatus: old,
			NewStatus: status,
		}
		if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}

	s.availability.TriggerRefresh(ctx, "status_command")
	return nil
}

// UpdateDetails applies a contact/address/note command.
func (s *OrderService) UpdateDetails(ctx context.Context, orderID, contactName, phone, address, note string) error {
	if err := s.store.UpdateOrderDetails(ctx, orderID, contactName, phone, address, note); err != nil {
		return fmt.Errorf("failed to update details for order %s: %w", orderID, err)
	}
	s.logger.Info("Order details updated", zap.String("order_id", orderID))
	return nil
}

// DeleteOrder removes an order entirely, publishes the change, and triggers a
// refresh: deleting a hold order frees whatever stock it reserved.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	if err := s.store.DeleteOrder(ctx, orderID); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", orderID, err)
	}

	util.OrderDeletionsTotal.Inc()
	s.logger.Info("Order deleted", zap.String("order_id", orderID))

	if s.events != nil {
		event := &models.OrderDeletedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderDeleted,
				Timestamp: time.Now(),
			},
			OrderID: orderID,
		}
		if err := s.events.PublishOrderDeleted(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderDeleted event", zap.Error(err))
		}
	}

	s.availability.TriggerRefresh(ctx, "delete_command")
	return nil
}

// StocktakeLog returns the stocktake report log.
func (s *OrderService) StocktakeLog(ctx context.Context) ([]models.StocktakeEntry, error) {
	return s.store.GetStocktakeLog(ctx)
}

// RecordStocktake appends a counted-quantity report, publishes the event, and
// triggers a refresh.
func (s *OrderService) RecordStocktake(ctx context.Context, entry *models.StocktakeEntry) error {
	if err := s.store.RecordStocktake(ctx, entry); err != nil {
		return fmt.Errorf("failed to record stocktake: %w", err)
	}

	util.StocktakeReportsTotal.Inc()
	s.logger.Info("Stocktake recorded",
		zap.String("product_id", entry.ProductID),
		zap.Float64("counted_qty", entry.CountedQty))

	if s.events != nil {
		event := &models.StocktakeRecordedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeStocktakeRecorded,
				Timestamp: time.Now(),
			},
			ProductID:  entry.ProductID,
			CountedQty: entry.CountedQty,
		}
		if err := s.events.PublishStocktakeRecorded(ctx, event); err != nil {
			s.logger.Error("Failed to publish StocktakeRecorded event", zap.Error(err))
		}
	}

	s.availability.TriggerRefresh(ctx, "stocktake")
	return nil
}

// ResolveStocktake closes out a pending stocktake report. Resolution is log
// bookkeeping and does not trigger a refresh.
func (s *OrderService) ResolveStocktake(ctx context.Context, id int64) error {
	if err := s.store.ResolveStocktake(ctx, id); err != nil {
		return fmt.Errorf("failed to resolve stocktake entry %d: %w", id, err)
	}

	util.StocktakeResolutionsTotal.Inc()
	s.logger.Info("Stocktake entry resolved", zap.Int64("entry_id", id))

	if s.events != nil {
		event := &models.StocktakeResolvedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeStocktakeResolved,
				Timestamp: time.Now(),
			},
			EntryID: id,
		}
		if err := s.events.PublishStocktakeResolved(ctx, event); err != nil {
			s.logger.Error("Failed to publish StocktakeResolved event", zap.Error(err))
		}
	}

	return nil
}

package worker

import (
	"context"
	"log"
	"time"

	"inventory-service/internal/broker"
	"inventory-service/internal/models"
	"inventory-service/internal/service"
)

// RefreshWorker re-runs the availability engine on a fixed interval and on
// state-changing events from the broker. It never runs passes itself; it only
// triggers the service, which enforces single-flight execution.
type RefreshWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	availability *service.AvailabilityService
	interval     time.Duration
}

// NewRefreshWorker creates a new refresh worker. consumer may be nil when no
// broker is configured; the worker then runs on the ticker alone.
func NewRefreshWorker(
	consumer *broker.Consumer,
	availability *service.AvailabilityService,
	interval time.Duration,
) *RefreshWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnOrderStatusChanged(func(ctx context.Context, event *models.OrderStatusChangedEvent) error {
		availability.TriggerRefresh(ctx, "order_event")
		return nil
	})
	eventHandler.OnOrderDeleted(func(ctx context.Context, event *models.OrderDeletedEvent) error {
		availability.TriggerRefresh(ctx, "order_event")
		return nil
	})
	eventHandler.OnStocktakeRecorded(func(ctx context.Context, event *models.StocktakeRecordedEvent) error {
		availability.TriggerRefresh(ctx, "stocktake_event")
		return nil
	})
	eventHandler.OnRefreshRequested(func(ctx context.Context, event *models.RefreshRequestedEvent) error {
		availability.TriggerRefresh(ctx, "refresh_event")
		return nil
	})

	return &RefreshWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		availability: availability,
		interval:     interval,
	}
}

// Start runs the ticker loop and, when a consumer is configured, the event
// loop. Blocks until the context is cancelled.
func (w *RefreshWorker) Start(ctx context.Context) error {
	log.Printf("Starting refresh worker, interval=%s", w.interval)

	if w.consumer != nil {
		go func() {
			if err := w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage); err != nil && ctx.Err() == nil {
				log.Printf("Refresh event consumer error: %v", err)
			}
		}()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Refresh worker context cancelled, stopping...")
			return ctx.Err()
		case <-ticker.C:
			w.availability.TriggerRefresh(ctx, "interval")
		}
	}
}

// Stop stops the worker
func (w *RefreshWorker) Stop() error {
	log.Println("Stopping refresh worker...")
	if w.consumer != nil {
		return w.consumer.Close()
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inventory-service/internal/engine"
	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DataSource is the read boundary to the external data collaborator.
type DataSource interface {
	GetOrders(ctx context.Context) ([]models.Order, error)
	GetInventory(ctx context.Context) ([]models.InventoryBatchRow, error)
}

// SnapshotCache shares the latest published snapshot across instances.
type SnapshotCache interface {
	CacheSnapshot(ctx context.Context, snap *models.Snapshot, ttl time.Duration) error
	GetCachedSnapshot(ctx context.Context) (*models.Snapshot, error)
}

// EventSink publishes pass-completion events.
type EventSink interface {
	PublishAvailabilityRefreshed(ctx context.Context, event *models.AvailabilityRefreshedEvent) error
}

// AvailabilityService orchestrates engine passes. One pass runs at a time;
// refreshes triggered while a pass is in flight coalesce into a single queued
// rerun instead of interleaving. The published snapshot is replaced as a
// whole, never mutated in place.
type AvailabilityService struct {
	source      DataSource
	cache       SnapshotCache
	events      EventSink
	logger      *zap.Logger
	snapshotTTL time.Duration

	mu         sync.Mutex
	current    *models.Snapshot
	running    bool
	pending    bool
	generation uint64
}

// NewAvailabilityService creates a new availability service. cache and events
// may be nil.
func NewAvailabilityService(source DataSource, cache SnapshotCache, events EventSink, snapshotTTL time.Duration) *AvailabilityService {
	return &AvailabilityService{
		source:      source,
		cache:       cache,
		events:      events,
		logger:      util.GetLogger(),
		snapshotTTL: snapshotTTL,
	}
}

// TriggerRefresh requests a refresh pass without blocking. If a pass is in
// flight, one rerun is queued; extra triggers while queued are coalesced.
func (s *AvailabilityService) TriggerRefresh(ctx context.Context, source string) {
	util.RefreshTriggersTotal.WithLabelValues(source).Inc()

	s.mu.Lock()
	if s.running {
		s.pending = true
		s.mu.Unlock()
		s.logger.Debug("Refresh already in flight, queued rerun", zap.String("source", source))
		return
	}
	s.running = true
	s.mu.Unlock()

	// Callers only request work; they do not own the pass lifetime. The
	// context is detached so a request-scoped trigger being cancelled (the
	// handler already returned 202) cannot kill the pass it queued.
	go s.runLoop(context.WithoutCancel(ctx), source)
}

// RefreshNow runs one pass synchronously, bypassing the queue. Used at
// startup and by tests.
func (s *AvailabilityService) RefreshNow(ctx context.Context) (*models.Snapshot, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	return s.runPass(ctx, gen)
}

func (s *AvailabilityService) runLoop(ctx context.Context, source string) {
	for {
		s.mu.Lock()
		s.generation++
		gen := s.generation
		s.mu.Unlock()

		if _, err := s.runPass(ctx, gen); err != nil {
			s.logger.Error("Refresh pass failed",
				zap.String("source", source),
				zap.Error(err))
		}

		s.mu.Lock()
		if s.pending {
			s.pending = false
			s.mu.Unlock()
			continue
		}
		s.running = false
		s.mu.Unlock()
		return
	}
}

// runPass executes one full parse-aggregate-match-view pass over fresh input
// snapshots and publishes the result, unless a newer pass started meanwhile.
func (s *AvailabilityService) runPass(ctx context.Context, gen uint64) (*models.Snapshot, error) {
	ctx, span := util.StartSpan(ctx, "AvailabilityService.runPass")
	defer span.End()

	start := time.Now()
	defer func() {
		util.RefreshPassDuration.Observe(time.Since(start).Seconds())
	}()

	orders, err := s.source.GetOrders(ctx)
	if err != nil {
		util.RefreshPassesFailed.WithLabelValues("orders_fetch").Inc()
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	rows, err := s.source.GetInventory(ctx)
	if err != nil {
		util.RefreshPassesFailed.WithLabelValues("inventory_fetch").Inc()
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}

	result := engine.ComputeAvailability(orders, rows, engine.Filter{})

	snap := &models.Snapshot{
		PassID:      uuid.New().String(),
		Groups:      result.Groups,
		Diagnosis:   result.Diagnosis,
		OrderCount:  len(orders),
		RowCount:    len(rows),
		GeneratedAt: time.Now(),
	}

	passLog := util.PassLogger(snap.PassID)

	if !s.publish(snap, gen) {
		util.RefreshPassesDiscarded.Inc()
		passLog.Info("Pass superseded, result discarded")
		return snap, nil
	}

	matched, unmatched := 0, 0
	for _, d := range snap.Diagnosis {
		if d.Matched {
			matched++
		} else {
			unmatched++
		}
	}

	util.RefreshPassesTotal.Inc()
	util.ReservationLinesMatched.Set(float64(matched))
	util.ReservationLinesUnmatched.Set(float64(unmatched))
	util.CatalogGroupsTotal.Set(float64(len(snap.Groups)))

	passLog.Info("Pass published",
		zap.Int("groups", len(snap.Groups)),
		zap.Int("matched", matched),
		zap.Int("unmatched", unmatched),
		zap.Duration("took", time.Since(start)))

	if s.cache != nil {
		if err := s.cache.CacheSnapshot(ctx, snap, s.snapshotTTL); err != nil {
			s.logger.Warn("Failed to cache snapshot", zap.Error(err))
		}
	}

	if s.events != nil {
		event := &models.AvailabilityRefreshedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeAvailabilityRefresh,
				Timestamp: time.Now(),
			},
			PassID:         snap.PassID,
			GroupCount:     len(snap.Groups),
			MatchedCount:   matched,
			UnmatchedCount: unmatched,
		}
		if err := s.events.PublishAvailabilityRefreshed(ctx, event); err != nil {
			s.logger.Error("Failed to publish AvailabilityRefreshed event", zap.Error(err))
		}
	}

	return snap, nil
}

// publish swaps in the snapshot unless a newer pass has started since this
// one was generated.
func (s *AvailabilityService) publish(snap *models.Snapshot, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.current = snap
	return true
}

// Snapshot returns the latest published snapshot. When this instance has not
// completed a pass yet, the shared cache is consulted so cold starts can
// still serve data.
func (s *AvailabilityService) Snapshot(ctx context.Context) *models.Snapshot {
	s.mu.Lock()
	snap := s.current
	s.mu.Unlock()
	if snap != nil {
		return snap
	}

	if s.cache != nil {
		cached, err := s.cache.GetCachedSnapshot(ctx)
		if err != nil {
			s.logger.Warn("Failed to read cached snapshot", zap.Error(err))
			return nil
		}
		return cached
	}
	return nil
}

// Availability returns the latest snapshot's groups narrowed by the request
// filter. Returns nil groups when no snapshot exists yet.
func (s *AvailabilityService) Availability(ctx context.Context, filter engine.Filter) ([]models.InventoryGroup, *models.Snapshot) {
	snap := s.Snapshot(ctx)
	if snap == nil {
		return nil, nil
	}
	return engine.FilterGroups(snap.Groups, filter), snap
}

package models

import "time"

// Event types
const (
	EventTypeOrderStatusChanged  = "ORDER_STATUS_CHANGED"
	EventTypeOrderDetailsChanged = "ORDER_DETAILS_CHANGED"
	EventTypeOrderDeleted        = "ORDER_DELETED"
	EventTypeStocktakeRecorded   = "STOCKTAKE_RECORDED"
	EventTypeStocktakeResolved   = "STOCKTAKE_RESOLVED"
	EventTypeRefreshRequested    = "REFRESH_REQUESTED"
	EventTypeAvailabilityRefresh = "AVAILABILITY_REFRESHED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderStatusChangedEvent published when an order status command is applied
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// OrderDeletedEvent published when an order is removed entirely. Deleting a
// hold order frees whatever it reserved, so consumers re-trigger a refresh.
type OrderDeletedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
}

// StocktakeRecordedEvent published when a counted quantity is reported
type StocktakeRecordedEvent struct {
	BaseEvent
	ProductID  string  `json:"product_id"`
	CountedQty float64 `json:"counted_qty"`
}

// StocktakeResolvedEvent published when a pending stocktake report is closed
// out. Resolution is bookkeeping on the log and does not change availability.
type StocktakeResolvedEvent struct {
	BaseEvent
	EntryID int64 `json:"entry_id"`
}

// RefreshRequestedEvent published when a refresh is requested out of band
type RefreshRequestedEvent struct {
	BaseEvent
	Source string `json:"source"`
}

// AvailabilityRefreshedEvent published after a pass result is published
type AvailabilityRefreshedEvent struct {
	BaseEvent
	PassID         string `json:"pass_id"`
	GroupCount     int    `json:"group_count"`
	MatchedCount   int    `json:"matched_count"`
	UnmatchedCount int    `json:"unmatched_count"`
}

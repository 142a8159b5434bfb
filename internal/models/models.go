package models

import "time"

// Order represents a warehouse order as recorded upstream. The engine never
// mutates orders; status changes go through store commands.
type Order struct {
	OrderID      string    `db:"order_id" json:"order_id"`
	Company      string    `db:"company" json:"company"`
	OrderType    string    `db:"order_type" json:"order_type"`
	Status       string    `db:"status" json:"status"`
	ItemsText    string    `db:"items_text" json:"items_text"`
	DeliveryDate string    `db:"delivery_date" json:"delivery_date"`
	ContactName  string    `db:"contact_name" json:"contact_name,omitempty"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Address      string    `db:"address" json:"address,omitempty"`
	Note         string    `db:"note" json:"note,omitempty"`
	Timestamp    time.Time `db:"created_at" json:"timestamp"`
}

// OrderLineItem is one parsed line of an order's free-text body. It is derived
// at read time and never persisted. Quantity is nil when the line carried no
// parsable number; that is distinct from an explicit zero.
type OrderLineItem struct {
	ProductID    string   `json:"product_id"`
	CleanName    string   `json:"clean_name"`
	RawName      string   `json:"raw_name"`
	OriginalLine string   `json:"original_line"`
	Quantity     *float64 `json:"quantity"`
	Unit         string   `json:"unit"`
}

// InventoryBatchRow is one raw ledger row as fetched per refresh.
// Qty arrives as free text and is parsed permissively during aggregation.
type InventoryBatchRow struct {
	ID      string `db:"product_id" json:"id"`
	Name    string `db:"name" json:"name"`
	Spec    string `db:"spec" json:"spec"`
	Packing string `db:"packing" json:"packing"`
	Usage   string `db:"usage" json:"usage"`
	Lot     string `db:"lot" json:"lot"`
	Qty     string `db:"qty" json:"qty"`
}

// Batch is a positive-quantity lot shown under a catalog group.
type Batch struct {
	Lot string  `json:"lot"`
	Qty float64 `json:"qty"`
}

// ReserveDetail records one matched reservation line attached to a group.
type ReserveDetail struct {
	OrderID   string  `json:"order_id"`
	Company   string  `json:"company"`
	OrderType string  `json:"order_type"`
	ItemName  string  `json:"item_name"`
	Qty       float64 `json:"qty"`
}

// InventoryGroup aggregates ledger rows sharing the exact (ID, Name) pair.
// ReservedQty and ReserveDetails are recomputed from scratch every pass.
// ReservedQty may exceed TotalQty; negative availability is a legitimate,
// visible state.
type InventoryGroup struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Spec           string          `json:"spec"`
	Packing        string          `json:"packing"`
	Usage          string          `json:"usage"`
	TotalQty       float64         `json:"total_qty"`
	ReservedQty    float64         `json:"reserved_qty"`
	Available      float64         `json:"available"`
	Batches        []Batch         `json:"batches"`
	ReserveDetails []ReserveDetail `json:"reserve_details"`
}

// GroupKey identifies an InventoryGroup by the exact id/name pair. Two rows
// with the same id but differently-cased names are distinct groups.
type GroupKey struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MatchOutcome is the per-pass diagnosis record for one eligible reservation
// line: which group it resolved to, if any, and at what score.
type MatchOutcome struct {
	OrderID   string        `json:"order_id"`
	Company   string        `json:"company"`
	OrderType string        `json:"order_type"`
	Item      OrderLineItem `json:"item"`
	GroupKey  *GroupKey     `json:"group_key"`
	Score     int           `json:"score"`
	Matched   bool          `json:"matched"`
}

// Snapshot is the atomically published output of one full engine pass.
type Snapshot struct {
	PassID      string           `json:"pass_id"`
	Groups      []InventoryGroup `json:"groups"`
	Diagnosis   []MatchOutcome   `json:"diagnosis"`
	OrderCount  int              `json:"order_count"`
	RowCount    int              `json:"row_count"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// StocktakeEntry is one counted-quantity report appended to the stocktake log.
// The log is a queue of pending corrections: entries stay open until someone
// resolves them.
type StocktakeEntry struct {
	ID          int64      `db:"id" json:"id"`
	ProductID   string     `db:"product_id" json:"product_id"`
	ProductName string     `db:"product_name" json:"product_name"`
	CountedQty  float64    `db:"counted_qty" json:"counted_qty"`
	Note        string     `db:"note" json:"note,omitempty"`
	ReportedBy  string     `db:"reported_by" json:"reported_by,omitempty"`
	Resolved    bool       `db:"resolved" json:"resolved"`
	ResolvedAt  *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Order statuses. An empty status means the order was received but not yet
// processed.
const (
	OrderStatusReceived  = ""
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusFutures   = "FUTURES"
)

// NoBatchLabel is shown for ledger rows with a blank lot.
const NoBatchLabel = "No Batch"

// Package engine implements the read-time transform from raw orders and raw
// inventory rows to the availability read model: free-text parsing, fuzzy
// normalization, tiered reservation matching, and per-group aggregation.
//
// The engine owns no state. Every invocation rebuilds everything from the
// input snapshots, so results are idempotent and fully re-derivable.
package engine

import (
	"inventory-service/internal/models"
)

// Result is the output of one full engine pass.
type Result struct {
	Groups    []models.InventoryGroup
	Diagnosis []models.MatchOutcome
}

// ComputeAvailability runs parse, aggregate, match, and view as one
// synchronous pass. Empty inputs are valid and produce empty, well-formed
// output.
func ComputeAvailability(orders []models.Order, rows []models.InventoryBatchRow, filter Filter) Result {
	catalog := AggregateInventory(rows)
	diagnosis := MatchReservations(orders, catalog)
	groups := BuildAvailability(catalog, filter)
	return Result{Groups: groups, Diagnosis: diagnosis}
}

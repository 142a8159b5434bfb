package engine

import (
	"regexp"
	"strconv"
	"strings"

	"inventory-service/internal/models"
)

// Catalog holds inventory groups in first-seen order. Matching tie-breaks
// depend on a stable iteration order, which a bare map cannot give.
type Catalog struct {
	keys   []models.GroupKey
	groups map[models.GroupKey]*models.InventoryGroup
}

// Keys returns the group keys in aggregation order.
func (c *Catalog) Keys() []models.GroupKey {
	return c.keys
}

// Group returns the group for a key, or nil.
func (c *Catalog) Group(key models.GroupKey) *models.InventoryGroup {
	return c.groups[key]
}

// Len returns the number of groups.
func (c *Catalog) Len() int {
	return len(c.keys)
}

// ResetReservations clears every group's reservation state so a pass always
// re-derives matching from scratch.
func (c *Catalog) ResetReservations() {
	for _, g := range c.groups {
		g.ReservedQty = 0
		g.ReserveDetails = nil
	}
}

// AggregateInventory folds raw ledger rows into per-product groups keyed by
// the exact (id, name) pair. Quantities are parsed permissively; rows with a
// positive quantity also contribute a batch entry, while zero and negative
// rows only affect the total.
func AggregateInventory(rows []models.InventoryBatchRow) *Catalog {
	c := &Catalog{groups: make(map[models.GroupKey]*models.InventoryGroup, len(rows))}

	for _, row := range rows {
		key := models.GroupKey{ID: row.ID, Name: row.Name}
		g, ok := c.groups[key]
		if !ok {
			g = &models.InventoryGroup{
				ID:      row.ID,
				Name:    row.Name,
				Spec:    row.Spec,
				Packing: row.Packing,
				Usage:   row.Usage,
			}
			c.groups[key] = g
			c.keys = append(c.keys, key)
		}

		qty := ParseQty(row.Qty)
		g.TotalQty += qty
		if qty > 0 {
			g.Batches = append(g.Batches, models.Batch{Lot: FormatBatch(row.Lot), Qty: qty})
		}
	}

	return c
}

var reQtyNoise = regexp.MustCompile(`[^0-9.\-+]`)

// ParseQty parses a ledger quantity permissively: thousands separators and any
// other non-numeric characters are stripped before parsing, and anything still
// unparsable counts as zero rather than an error.
func ParseQty(raw string) float64 {
	s := reQtyNoise.ReplaceAllString(strings.TrimSpace(raw), "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatBatch renders a lot label for display. Blank lots get a sentinel, and
// labels that were corrupted into scientific notation upstream (spreadsheet
// exports turning long numeric lots into "1.2E+10") are re-rendered as plain
// integers.
func FormatBatch(lot string) string {
	s := strings.TrimSpace(lot)
	if s == "" {
		return models.NoBatchLabel
	}
	if strings.Contains(strings.ToUpper(s), "E+") {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	}
	return s
}

package engine

import (
	"sort"
	"strings"

	"inventory-service/internal/models"
	"inventory-service/internal/textnorm"
)

// Filter narrows the availability view. Query terms are whitespace-separated
// and combined with AND semantics; there is no OR. MinAvailable keeps only
// groups whose free-to-sell quantity reaches the threshold.
type Filter struct {
	Query        string
	MinAvailable *float64
}

func (f Filter) terms() []string {
	var out []string
	for _, t := range strings.Fields(f.Query) {
		if k := textnorm.Key(t); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// BuildAvailability produces the externally consumed read model: one entry per
// group with stock ever recorded, carrying Available = TotalQty - ReservedQty,
// filtered and sorted descending by total quantity. Ties keep aggregation
// order. Groups whose total is not positive are excluded even when they carry
// reservations; those remain visible in the diagnosis list only.
func BuildAvailability(catalog *Catalog, filter Filter) []models.InventoryGroup {
	terms := filter.terms()

	out := make([]models.InventoryGroup, 0, catalog.Len())
	for _, key := range catalog.Keys() {
		g := *catalog.Group(key)
		if g.TotalQty <= 0 {
			continue
		}
		g.Available = g.TotalQty - g.ReservedQty

		if len(terms) > 0 {
			haystack := textnorm.Key(g.ID) + textnorm.Key(g.Name)
			if !containsAll(haystack, terms) {
				continue
			}
		}
		if filter.MinAvailable != nil && g.Available < *filter.MinAvailable {
			continue
		}

		out = append(out, g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalQty > out[j].TotalQty
	})
	return out
}

// FilterGroups applies a request filter to an already-built availability
// view, using the same term semantics as BuildAvailability. Order is
// preserved.
func FilterGroups(groups []models.InventoryGroup, filter Filter) []models.InventoryGroup {
	terms := filter.terms()
	if len(terms) == 0 && filter.MinAvailable == nil {
		return groups
	}

	out := make([]models.InventoryGroup, 0, len(groups))
	for _, g := range groups {
		if len(terms) > 0 && !containsAll(textnorm.Key(g.ID)+textnorm.Key(g.Name), terms) {
			continue
		}
		if filter.MinAvailable != nil && g.Available < *filter.MinAvailable {
			continue
		}
		out = append(out, g)
	}
	return out
}

func containsAll(haystack string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

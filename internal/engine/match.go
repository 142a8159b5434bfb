package engine

import (
	"strings"
	"unicode/utf8"

	"inventory-service/internal/models"
	"inventory-service/internal/textnorm"
)

// Tiered match scores. Tiers are exclusive per group: once a higher tier
// matches, lower tiers are not tested against that group.
const (
	scoreIDExact     = 100
	scoreIDContained = 80
	scoreRawName     = 60
	scoreCleanName   = 40
)

// IsReservationBearing reports whether an order holds stock against future
// fulfillment. Order types are operator-typed free text, so the marker is a
// substring check in either script.
func IsReservationBearing(o models.Order) bool {
	t := o.OrderType
	return strings.Contains(t, "保留") || strings.Contains(strings.ToLower(t), "hold")
}

// reservationEligible reports whether an order's lines may consume stock:
// reservation-bearing and not yet converted to a real shipment.
func reservationEligible(o models.Order) bool {
	return IsReservationBearing(o) && o.Status != models.OrderStatusShipped
}

type groupTarget struct {
	key       models.GroupKey
	normID    string
	normName  string
	lowerName string
}

// MatchReservations scores every eligible reservation line against every
// catalog group, attaches the arg-max winner's quantity to that group, and
// returns the full diagnosis list. All reservation state on the catalog is
// reset first; running the same inputs twice yields identical reservations.
//
// Ties keep the first group in catalog aggregation order. Lines with an
// unknown or non-positive quantity appear in the diagnosis but are never
// scored: they cannot consume stock.
func MatchReservations(orders []models.Order, catalog *Catalog) []models.MatchOutcome {
	catalog.ResetReservations()

	targets := make([]groupTarget, 0, catalog.Len())
	for _, key := range catalog.Keys() {
		targets = append(targets, groupTarget{
			key:       key,
			normID:    textnorm.Key(key.ID),
			normName:  textnorm.Key(key.Name),
			lowerName: strings.ToLower(key.Name),
		})
	}

	var outcomes []models.MatchOutcome
	for _, o := range orders {
		if !reservationEligible(o) {
			continue
		}
		for _, item := range ParseOrderText(o.ItemsText) {
			outcome := models.MatchOutcome{
				OrderID:   o.OrderID,
				Company:   o.Company,
				OrderType: o.OrderType,
				Item:      item,
			}

			if item.Quantity != nil && *item.Quantity > 0 {
				if key, score := bestMatch(item, targets); key != nil {
					g := catalog.Group(*key)
					g.ReservedQty += *item.Quantity
					g.ReserveDetails = append(g.ReserveDetails, models.ReserveDetail{
						OrderID:   o.OrderID,
						Company:   o.Company,
						OrderType: o.OrderType,
						ItemName:  item.CleanName,
						Qty:       *item.Quantity,
					})
					outcome.GroupKey = key
					outcome.Score = score
					outcome.Matched = true
				}
			}

			outcomes = append(outcomes, outcome)
		}
	}

	return outcomes
}

func bestMatch(item models.OrderLineItem, targets []groupTarget) (*models.GroupKey, int) {
	normName := textnorm.Key(item.CleanName)
	lowerRaw := strings.ToLower(item.RawName)

	var bestKey *models.GroupKey
	bestScore := 0
	for i := range targets {
		score := scoreAgainst(&targets[i], normName, lowerRaw)
		if score > bestScore {
			bestScore = score
			bestKey = &targets[i].key
		}
	}
	return bestKey, bestScore
}

func scoreAgainst(t *groupTarget, normName, lowerRaw string) int {
	// Length guards count runes: a one-character id is too weak a signal to
	// match on, in either script.
	switch {
	case utf8.RuneCountInString(t.normID) > 1 && normName == t.normID:
		return scoreIDExact
	case utf8.RuneCountInString(t.normID) > 1 && strings.Contains(normName, t.normID):
		return scoreIDContained
	case strings.Contains(t.lowerName, lowerRaw):
		return scoreRawName
	case utf8.RuneCountInString(t.normName) > 1 && strings.Contains(t.normName, normName):
		return scoreCleanName
	}
	return 0
}

package services

import (
	"log"
	"reflect"

	"github.com/garvbarthwal/Kisaan-sub001/models"
)

// ResolveFulfillment computes which fulfillment methods are valid for a cart
// and resolves the effective pickup schedule. It is a pure function of the
// line items: safe to re-run on every cart mutation, and it never errors.
// Configuration gaps degrade to documented fallbacks; only the
// submission-time validator blocks anything.
//
// Rules:
//   - No item carries explicit fulfillment options: permissive fallback.
//     Both methods stay available and pickup defers to the farmer's
//     business hours, so unconfigured legacy listings never block checkout.
//   - Otherwise a method is offered only if every item supports it. An item
//     without explicit options counts as supporting neither, which keeps a
//     mixed cart from silently dropping one item's constraint.
//   - Pickup hours: if every pickup-enabled item declares custom hours, the
//     first item's schedule is taken as the effective one (same farmer, so
//     schedules are expected to match). If none do, or if items disagree on
//     whether to defer, fall back to the farmer's business hours as the
//     strictest available source of truth.
func ResolveFulfillment(items []models.CartLineItem) models.FulfillmentAvailability {
	configured := 0
	for _, item := range items {
		if item.Fulfillment != nil {
			configured++
		}
	}

	if configured == 0 {
		return models.FulfillmentAvailability{
			Delivery:           true,
			Pickup:             true,
			PickupHours:        nil,
			NeedsBusinessHours: true,
		}
	}

	delivery := true
	pickup := true
	for _, item := range items {
		if item.Fulfillment == nil {
			delivery = false
			pickup = false
			continue
		}
		delivery = delivery && item.Fulfillment.Delivery
		pickup = pickup && item.Fulfillment.Pickup
	}

	result := models.FulfillmentAvailability{
		Delivery: delivery,
		Pickup:   pickup,
	}

	if !pickup {
		return result
	}

	var withHours, deferred int
	var effective *models.WeeklySchedule
	for _, item := range items {
		if item.Fulfillment == nil || !item.Fulfillment.Pickup {
			continue
		}
		if item.PickupHours != nil {
			withHours++
			if effective == nil {
				effective = item.PickupHours
			} else if !reflect.DeepEqual(*effective, *item.PickupHours) {
				// Upstream data inconsistency: one farmer, two different
				// custom schedules. The first item's schedule still wins,
				// but make the mismatch visible.
				log.Printf("Warning: cart items disagree on custom pickup hours; using first item's schedule (product %s ignored)", item.ProductID)
			}
		} else {
			deferred++
		}
	}

	switch {
	case withHours > 0 && deferred == 0:
		result.PickupHours = effective
	default:
		// All deferred, or mixed custom/deferred: require verified
		// business hours rather than guessing which schedule wins.
		result.NeedsBusinessHours = true
	}

	return result
}

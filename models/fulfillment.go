package models

import "github.com/google/uuid"

// CartLineItem is the read-only snapshot of a cart item that checkout
// operates on. Fulfillment and PickupHours come from the product at snapshot
// time; either may be nil for listings that never configured them.
type CartLineItem struct {
	ProductID   uuid.UUID           `json:"product_id"`
	ProductName string              `json:"product_name"`
	Quantity    int                 `json:"quantity"`
	Price       float64             `json:"price"`
	Unit        string              `json:"unit"`
	Fulfillment *FulfillmentOptions `json:"fulfillment_options,omitempty"`
	PickupHours *WeeklySchedule     `json:"pickup_hours,omitempty"`
}

// FulfillmentAvailability is the derived fulfillment state of a cart,
// recomputed on every cart mutation and never persisted.
//
// Delivery is true only if every line item explicitly enables delivery;
// likewise Pickup. PickupHours is the effective custom schedule when all
// pickup-enabled items share one; otherwise it is nil and NeedsBusinessHours
// directs checkout to the farmer's declared hours.
type FulfillmentAvailability struct {
	Delivery           bool            `json:"delivery"`
	Pickup             bool            `json:"pickup"`
	PickupHours        *WeeklySchedule `json:"pickup_hours,omitempty"`
	NeedsBusinessHours bool            `json:"needs_business_hours"`
}

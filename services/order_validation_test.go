package services_test

import (
	"testing"

	"github.com/garvbarthwal/Kisaan-sub001/models"
	"github.com/garvbarthwal/Kisaan-sub001/services"

	"github.com/stretchr/testify/assert"
)

func TestValidateOrderDraftNoTypeSelected(t *testing.T) {
	got := services.ValidateOrderDraft(models.OrderDraft{}, nil)
	assert.False(t, got.IsValid)
	assert.NotEmpty(t, got.FailureReasons)
}

func TestValidatePickupCollectsEveryGap(t *testing.T) {
	draft := models.OrderDraft{OrderType: models.OrderTypePickup}

	got := services.ValidateOrderDraft(draft, weekdaysOnly())
	assert.False(t, got.IsValid)
	assert.Equal(t, []string{"pickup date", "pickup time"}, got.MissingFields,
		"every missing field is reported at once, not just the first")
}

func TestValidatePickupClosedDayIsHardFailure(t *testing.T) {
	draft := models.OrderDraft{
		OrderType: models.OrderTypePickup,
		PickupDetails: models.PickupDetails{
			Date: "2026-09-06", // Sunday
			Time: "10:00",
		},
	}

	got := services.ValidateOrderDraft(draft, weekdaysOnly())
	assert.False(t, got.IsValid)
	assert.Empty(t, got.MissingFields)
	assert.Len(t, got.FailureReasons, 1)
	assert.Contains(t, got.FailureReasons[0], "sunday")
}

func TestValidatePickupTimeOutsideWindow(t *testing.T) {
	draft := models.OrderDraft{
		OrderType: models.OrderTypePickup,
		PickupDetails: models.PickupDetails{
			Date: "2026-09-02", // Wednesday, open 09:00-17:00
			Time: "18:30",
		},
	}

	got := services.ValidateOrderDraft(draft, weekdaysOnly())
	assert.False(t, got.IsValid)
	assert.Contains(t, got.FailureReasons[0], "outside the available hours")
}

func TestValidatePickupValidSlot(t *testing.T) {
	draft := models.OrderDraft{
		OrderType: models.OrderTypePickup,
		PickupDetails: models.PickupDetails{
			Date: "2026-09-02",
			Time: "09:00", // opening time itself is valid
		},
	}

	got := services.ValidateOrderDraft(draft, weekdaysOnly())
	assert.True(t, got.IsValid)
	assert.Empty(t, got.MissingFields)
	assert.Empty(t, got.FailureReasons)
}

func TestValidatePickupUnconfiguredHoursDoNotBlock(t *testing.T) {
	draft := models.OrderDraft{
		OrderType: models.OrderTypePickup,
		PickupDetails: models.PickupDetails{
			Date: "2026-09-02",
			Time: "23:00",
		},
	}

	got := services.ValidateOrderDraft(draft, nil)
	assert.True(t, got.IsValid, "without a resolved schedule there is no window to enforce")
}

func TestValidatePickupMalformedDate(t *testing.T) {
	draft := models.OrderDraft{
		OrderType: models.OrderTypePickup,
		PickupDetails: models.PickupDetails{
			Date: "02/09/2026",
			Time: "10:00",
		},
	}

	got := services.ValidateOrderDraft(draft, weekdaysOnly())
	assert.False(t, got.IsValid)
	assert.Contains(t, got.FailureReasons[0], "not a valid date")
}

func TestValidateDeliveryMissingStreet(t *testing.T) {
	draft := models.OrderDraft{
		OrderType: models.OrderTypeDelivery,
		DeliveryDetails: models.DeliveryDetails{
			Address: models.DeliveryAddress{City: "Jaipur", State: "Rajasthan"},
			Date:    "2026-09-02",
			Time:    "15:00",
		},
	}

	got := services.ValidateOrderDraft(draft, weekdaysOnly())
	assert.False(t, got.IsValid)
	assert.Equal(t, []string{"street"}, got.MissingFields)
}

func TestValidateDeliveryZipCodeNotRequired(t *testing.T) {
	draft := models.OrderDraft{
		OrderType: models.OrderTypeDelivery,
		DeliveryDetails: models.DeliveryDetails{
			Address: models.DeliveryAddress{
				Street: "14 Mandi Road",
				City:   "Jaipur",
				State:  "Rajasthan",
			},
			Date: "2026-09-06", // Sunday: no hours constraint applies to delivery
			Time: "22:00",
		},
	}

	got := services.ValidateOrderDraft(draft, weekdaysOnly())
	assert.True(t, got.IsValid)
}

package services_test

import (
	"testing"

	"github.com/garvbarthwal/Kisaan-sub001/models"
	"github.com/garvbarthwal/Kisaan-sub001/services"

	"github.com/stretchr/testify/assert"
)

func item(delivery, pickup bool, hours *models.WeeklySchedule) models.CartLineItem {
	return models.CartLineItem{
		ProductName: "tomatoes",
		Quantity:    2,
		Price:       40,
		Unit:        "kg",
		Fulfillment: &models.FulfillmentOptions{Delivery: delivery, Pickup: pickup},
		PickupHours: hours,
	}
}

func weekdaysOnly() *models.WeeklySchedule {
	ws := models.WeeklySchedule{}
	for _, name := range models.WeekdayNames {
		ws[name] = models.DayHours{Open: "09:00", Close: "17:00"}
	}
	ws["saturday"] = models.DayHours{Closed: true}
	ws["sunday"] = models.DayHours{Closed: true}
	return &ws
}

func TestResolveFulfillmentAllSupportDelivery(t *testing.T) {
	got := services.ResolveFulfillment([]models.CartLineItem{
		item(true, false, nil),
		item(true, false, nil),
	})

	assert.True(t, got.Delivery)
	assert.False(t, got.Pickup)
	assert.Nil(t, got.PickupHours)
	assert.False(t, got.NeedsBusinessHours)
}

func TestResolveFulfillmentOneItemBlocksDelivery(t *testing.T) {
	got := services.ResolveFulfillment([]models.CartLineItem{
		item(true, true, nil),
		item(false, true, nil),
	})

	assert.False(t, got.Delivery, "one item without delivery disables it for the whole cart")
	assert.True(t, got.Pickup)
}

func TestResolveFulfillmentNoConfigFallsBackPermissive(t *testing.T) {
	got := services.ResolveFulfillment([]models.CartLineItem{
		{ProductName: "legacy listing", Quantity: 1, Price: 10},
		{ProductName: "another", Quantity: 3, Price: 5},
	})

	assert.True(t, got.Delivery)
	assert.True(t, got.Pickup)
	assert.Nil(t, got.PickupHours)
	assert.True(t, got.NeedsBusinessHours, "pickup defers to the farmer's business hours")
}

func TestResolveFulfillmentPartialConfigIsStrict(t *testing.T) {
	got := services.ResolveFulfillment([]models.CartLineItem{
		item(true, true, nil),
		{ProductName: "unconfigured", Quantity: 1, Price: 10},
	})

	// Once any item declares options, unconfigured items support neither
	assert.False(t, got.Delivery)
	assert.False(t, got.Pickup)
}

func TestResolveFulfillmentUniformCustomHours(t *testing.T) {
	hours := weekdaysOnly()
	got := services.ResolveFulfillment([]models.CartLineItem{
		item(false, true, hours),
		item(false, true, hours),
	})

	assert.True(t, got.Pickup)
	assert.Equal(t, hours, got.PickupHours)
	assert.False(t, got.NeedsBusinessHours)
}

func TestResolveFulfillmentMixedHoursDeferToBusinessHours(t *testing.T) {
	got := services.ResolveFulfillment([]models.CartLineItem{
		item(false, true, weekdaysOnly()),
		item(false, true, nil),
	})

	assert.True(t, got.Pickup)
	assert.Nil(t, got.PickupHours, "mixed custom/deferred never guesses a schedule")
	assert.True(t, got.NeedsBusinessHours)
}

func TestResolveFulfillmentAllDeferred(t *testing.T) {
	got := services.ResolveFulfillment([]models.CartLineItem{
		item(true, true, nil),
		item(true, true, nil),
	})

	assert.True(t, got.Pickup)
	assert.Nil(t, got.PickupHours)
	assert.True(t, got.NeedsBusinessHours)
}

func TestResolveFulfillmentIsIdempotent(t *testing.T) {
	items := []models.CartLineItem{
		item(true, true, weekdaysOnly()),
		item(false, true, weekdaysOnly()),
	}

	first := services.ResolveFulfillment(items)
	second := services.ResolveFulfillment(items)
	assert.Equal(t, first, second)
}

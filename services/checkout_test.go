package services_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/garvbarthwal/Kisaan-sub001/models"
	"github.com/garvbarthwal/Kisaan-sub001/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func openWeek(open, close string) models.WeeklySchedule {
	ws := models.WeeklySchedule{}
	for _, name := range models.WeekdayNames {
		ws[name] = models.DayHours{Open: open, Close: close}
	}
	return ws
}

func newManager(hours *models.WeeklySchedule, calls *int32) *services.CheckoutManager {
	return services.NewCheckoutManager(func(farmerID uuid.UUID) (*models.WeeklySchedule, error) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		return hours, nil
	})
}

func TestBeginAutoSelectsSingleMethod(t *testing.T) {
	cm := newManager(nil, nil)
	userID, farmerID := uuid.New(), uuid.New()

	cm.Begin(userID, farmerID, []models.CartLineItem{item(false, true, weekdaysOnly())})

	session, ok := cm.Session(userID)
	assert.True(t, ok)
	assert.Equal(t, models.OrderTypePickup, session.Draft.OrderType,
		"pickup-only carts skip the selector")
}

func TestBeginClearsStaleSelection(t *testing.T) {
	cm := newManager(nil, nil)
	userID, farmerID := uuid.New(), uuid.New()

	cm.Begin(userID, farmerID, []models.CartLineItem{item(true, true, weekdaysOnly())})
	assert.NoError(t, cm.SetOrderType(userID, models.OrderTypeDelivery))

	// Cart changes so delivery is no longer offered
	cm.Begin(userID, farmerID, []models.CartLineItem{item(false, true, weekdaysOnly())})

	session, _ := cm.Session(userID)
	assert.Equal(t, models.OrderTypePickup, session.Draft.OrderType)
}

func TestSetOrderTypeRejectsUnavailableMethod(t *testing.T) {
	cm := newManager(nil, nil)
	userID, farmerID := uuid.New(), uuid.New()

	cm.Begin(userID, farmerID, []models.CartLineItem{item(false, true, weekdaysOnly())})

	assert.Error(t, cm.SetOrderType(userID, models.OrderTypeDelivery))
	assert.Error(t, cm.SetOrderType(userID, "courier"))
	assert.NoError(t, cm.SetOrderType(userID, models.OrderTypePickup))
}

func TestUpdateDraftPreservesOrderType(t *testing.T) {
	cm := newManager(nil, nil)
	userID, farmerID := uuid.New(), uuid.New()

	cm.Begin(userID, farmerID, []models.CartLineItem{item(false, true, weekdaysOnly())})

	err := cm.UpdateDraft(userID, func(draft *models.OrderDraft) {
		draft.OrderType = models.OrderTypeDelivery // ignored
		draft.PickupDetails.Date = "2026-09-02"
		draft.Notes = "ring the bell"
	})
	assert.NoError(t, err)

	session, _ := cm.Session(userID)
	assert.Equal(t, models.OrderTypePickup, session.Draft.OrderType)
	assert.Equal(t, "2026-09-02", session.Draft.PickupDetails.Date)
	assert.Equal(t, "ring the bell", session.Draft.Notes)
}

func TestBusinessHoursFetchIsSingleFlight(t *testing.T) {
	var calls int32
	cm := newManager(weekdaysOnly(), &calls)
	userID, farmerID := uuid.New(), uuid.New()

	// Unconfigured items defer pickup hours to the farmer's business hours
	items := []models.CartLineItem{{ProductName: "legacy", Quantity: 1, Price: 10}}
	for i := 0; i < 5; i++ {
		cm.Begin(userID, farmerID, items)
	}

	assert.Eventually(t, func() bool {
		return cm.EffectiveSchedule(userID) != nil
	}, time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls),
		"repeated cart mutations must not refetch business hours")
}

func TestBusinessHoursFetchDroppedAfterFarmerSwitch(t *testing.T) {
	farmerA, farmerB := uuid.New(), uuid.New()
	userID := uuid.New()

	// Farmer A's hours arrive slowly; farmer B has none declared
	cm := services.NewCheckoutManager(func(farmerID uuid.UUID) (*models.WeeklySchedule, error) {
		if farmerID == farmerA {
			time.Sleep(100 * time.Millisecond)
			return weekdaysOnly(), nil
		}
		return nil, nil
	})

	items := []models.CartLineItem{{ProductName: "legacy", Quantity: 1, Price: 10}}
	cm.Begin(userID, farmerA, items)
	cm.Begin(userID, farmerB, items)

	// Let farmer A's late fetch land; it must not leak onto B's session
	time.Sleep(300 * time.Millisecond)
	assert.Nil(t, cm.EffectiveSchedule(userID),
		"a fetch started for the previous farmer must not populate the new session")
}

func TestBusinessHoursFetchDroppedAfterDiscard(t *testing.T) {
	userID, farmerID := uuid.New(), uuid.New()

	cm := services.NewCheckoutManager(func(uuid.UUID) (*models.WeeklySchedule, error) {
		time.Sleep(100 * time.Millisecond)
		return weekdaysOnly(), nil
	})

	items := []models.CartLineItem{{ProductName: "legacy", Quantity: 1, Price: 10}}
	cm.Begin(userID, farmerID, items)
	cm.Discard(userID)

	time.Sleep(300 * time.Millisecond)
	_, ok := cm.Session(userID)
	assert.False(t, ok, "a discarded session must not be resurrected by a late fetch")
}

func TestRefreshBusinessHoursRearmsFetch(t *testing.T) {
	var calls int32
	cm := newManager(weekdaysOnly(), &calls)
	userID, farmerID := uuid.New(), uuid.New()

	items := []models.CartLineItem{{ProductName: "legacy", Quantity: 1, Price: 10}}
	cm.Begin(userID, farmerID, items)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, time.Second, 10*time.Millisecond)

	cm.RefreshBusinessHours(userID)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestEffectiveSchedulePrefersCustomHours(t *testing.T) {
	business := openWeek("06:00", "20:00")
	cm := newManager(&business, nil)
	userID, farmerID := uuid.New(), uuid.New()

	custom := weekdaysOnly()
	cm.Begin(userID, farmerID, []models.CartLineItem{item(false, true, custom)})

	assert.Equal(t, custom, cm.EffectiveSchedule(userID))
}

func TestDiscardDropsSession(t *testing.T) {
	cm := newManager(nil, nil)
	userID, farmerID := uuid.New(), uuid.New()

	cm.Begin(userID, farmerID, []models.CartLineItem{item(false, true, weekdaysOnly())})
	cm.Discard(userID)

	_, ok := cm.Session(userID)
	assert.False(t, ok)
	_, err := cm.Validate(userID)
	assert.Error(t, err)
}

func TestValidateUsesEffectiveSchedule(t *testing.T) {
	cm := newManager(nil, nil)
	userID, farmerID := uuid.New(), uuid.New()

	cm.Begin(userID, farmerID, []models.CartLineItem{item(false, true, weekdaysOnly())})
	assert.NoError(t, cm.UpdateDraft(userID, func(draft *models.OrderDraft) {
		draft.PickupDetails = models.PickupDetails{Date: "2026-09-06", Time: "10:00"} // Sunday
	}))

	result, err := cm.Validate(userID)
	assert.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.FailureReasons[0], "sunday")
}

package services_test

import (
	"testing"
	"time"

	"github.com/garvbarthwal/Kisaan-sub001/services"

	"github.com/stretchr/testify/assert"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestResolvePickupDateNeedsDate(t *testing.T) {
	got := services.ResolvePickupDate(nil, weekdaysOnly())
	assert.Equal(t, services.PickupStatusNeedsDate, got.Status)
	assert.False(t, got.IsOpen)
}

func TestResolvePickupDateHoursNotConfigured(t *testing.T) {
	got := services.ResolvePickupDate(date("2026-09-02"), nil)
	assert.Equal(t, services.PickupStatusNotConfigured, got.Status)
	assert.False(t, got.IsOpen, "missing hours inform the user but never claim the farm is open")
}

func TestResolvePickupDateClosedDay(t *testing.T) {
	// 2026-09-06 is a Sunday, closed in the weekdays-only schedule
	got := services.ResolvePickupDate(date("2026-09-06"), weekdaysOnly())
	assert.Equal(t, services.PickupStatusClosed, got.Status)
	assert.Equal(t, "sunday", got.Weekday)
	assert.False(t, got.IsOpen)
	assert.Empty(t, got.Open)
	assert.Empty(t, got.Close)
}

func TestResolvePickupDateOpenDay(t *testing.T) {
	// 2026-09-02 is a Wednesday
	got := services.ResolvePickupDate(date("2026-09-02"), weekdaysOnly())
	assert.Equal(t, services.PickupStatusOpen, got.Status)
	assert.True(t, got.IsOpen)
	assert.Equal(t, "wednesday", got.Weekday)
	assert.Equal(t, "09:00", got.Open)
	assert.Equal(t, "17:00", got.Close)
}

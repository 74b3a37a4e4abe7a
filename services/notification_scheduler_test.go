package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPickupRemindersDayBefore(t *testing.T) {
	now := time.Date(2026, 9, 1, 20, 0, 0, 0, time.Local)

	got, err := pickupReminders("KSN-20260901-0001", "2026-09-02", "11:00", "Farm gate", now)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, time.Date(2026, 9, 2, 8, 0, 0, 0, time.Local), got[0].at)
	assert.Equal(t, time.Date(2026, 9, 2, 10, 0, 0, 0, time.Local), got[1].at)
	assert.Contains(t, got[0].body, "Farm gate")
}

func TestPickupRemindersSkipPastMorning(t *testing.T) {
	// Order placed at 09:30 on the pickup day itself
	now := time.Date(2026, 9, 2, 9, 30, 0, 0, time.Local)

	got, err := pickupReminders("KSN-20260902-0002", "2026-09-02", "11:00", "", now)
	assert.NoError(t, err)
	assert.Len(t, got, 1, "the 08:00 reminder is already in the past and must not be queued")
	assert.Equal(t, "Pickup in 1 Hour ⏰", got[0].title)
	assert.Equal(t, time.Date(2026, 9, 2, 10, 0, 0, 0, time.Local), got[0].at)
}

func TestPickupRemindersSkipPastSlot(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.Local)

	got, err := pickupReminders("KSN-20260902-0003", "2026-09-02", "11:00", "", now)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestPickupRemindersInvalidDate(t *testing.T) {
	_, err := pickupReminders("KSN-20260902-0004", "02/09/2026", "11:00", "", time.Now())
	assert.Error(t, err)
}

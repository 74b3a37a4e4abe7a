package models_test

import (
	"testing"
	"time"

	"github.com/garvbarthwal/Kisaan-sub001/models"

	"github.com/stretchr/testify/assert"
)

func TestIsWithinHoursBounds(t *testing.T) {
	day := models.DayHours{Open: "09:00", Close: "17:00"}

	// Both bounds are inclusive
	assert.True(t, models.IsWithinHours("09:00", day))
	assert.True(t, models.IsWithinHours("17:00", day))
	assert.True(t, models.IsWithinHours("12:30", day))

	assert.False(t, models.IsWithinHours("08:59", day))
	assert.False(t, models.IsWithinHours("17:01", day))
}

func TestIsWithinHoursClosedDay(t *testing.T) {
	day := models.DayHours{Open: "09:00", Close: "17:00", Closed: true}
	assert.False(t, models.IsWithinHours("12:00", day), "a closed day is never open, even with bounds present")
}

func TestIsWithinHoursMissingBounds(t *testing.T) {
	assert.False(t, models.IsWithinHours("12:00", models.DayHours{Close: "17:00"}))
	assert.False(t, models.IsWithinHours("12:00", models.DayHours{Open: "09:00"}))
	assert.False(t, models.IsWithinHours("12:00", models.DayHours{}))
}

func TestWeekdayName(t *testing.T) {
	// 2026-08-30 is a Sunday
	sunday := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "sunday", models.WeekdayName(sunday))
	assert.Equal(t, "monday", models.WeekdayName(sunday.AddDate(0, 0, 1)))
	assert.Equal(t, "saturday", models.WeekdayName(sunday.AddDate(0, 0, 6)))
}

func openWeek(open, close string) models.WeeklySchedule {
	ws := models.WeeklySchedule{}
	for _, name := range models.WeekdayNames {
		ws[name] = models.DayHours{Open: open, Close: close}
	}
	return ws
}

func TestScheduleValidate(t *testing.T) {
	assert.NoError(t, openWeek("08:00", "18:00").Validate())

	missing := openWeek("08:00", "18:00")
	delete(missing, "sunday")
	assert.Error(t, missing.Validate())

	inverted := openWeek("08:00", "18:00")
	inverted["monday"] = models.DayHours{Open: "18:00", Close: "08:00"}
	assert.Error(t, inverted.Validate(), "overnight windows are rejected")

	unbounded := openWeek("08:00", "18:00")
	unbounded["friday"] = models.DayHours{Open: "08:00"}
	assert.Error(t, unbounded.Validate())

	closedDay := openWeek("08:00", "18:00")
	closedDay["sunday"] = models.DayHours{Closed: true}
	assert.NoError(t, closedDay.Validate(), "closed days need no bounds")
}

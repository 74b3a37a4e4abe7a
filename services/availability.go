package services

import (
	"time"

	"github.com/garvbarthwal/Kisaan-sub001/models"
)

// Pickup-date resolution states.
const (
	PickupStatusNeedsDate     = "needs_date"
	PickupStatusNotConfigured = "hours_not_configured"
	PickupStatusClosed        = "closed"
	PickupStatusOpen          = "open"
)

// PickupDateStatus describes whether pickup is possible on a candidate date.
// Open/Close are set only when Status is "open" and bound the time picker
// as well as the final validation.
type PickupDateStatus struct {
	Status  string `json:"status"`
	IsOpen  bool   `json:"is_open"`
	Weekday string `json:"weekday,omitempty"`
	Open    string `json:"open,omitempty"`
	Close   string `json:"close,omitempty"`
	Message string `json:"message,omitempty"`
}

// ResolvePickupDate maps a candidate pickup date against the effective
// weekly schedule.
//
// A nil schedule is informational, not an error: the business-hours fetch
// may still be in flight, or the farmer may simply not have declared hours
// yet. The hard gate happens at submission time.
func ResolvePickupDate(date *time.Time, schedule *models.WeeklySchedule) PickupDateStatus {
	if date == nil {
		return PickupDateStatus{
			Status:  PickupStatusNeedsDate,
			Message: "Select a pickup date",
		}
	}

	if schedule == nil {
		return PickupDateStatus{
			Status:  PickupStatusNotConfigured,
			Message: "Pickup hours are not configured yet",
		}
	}

	weekday := models.WeekdayName(*date)
	day, ok := (*schedule)[weekday]
	if !ok || day.Closed || day.Open == "" || day.Close == "" {
		return PickupDateStatus{
			Status:  PickupStatusClosed,
			Weekday: weekday,
			Message: "Pickup is not available on this day, please select a different date",
		}
	}

	return PickupDateStatus{
		Status:  PickupStatusOpen,
		IsOpen:  true,
		Weekday: weekday,
		Open:    day.Open,
		Close:   day.Close,
	}
}

package services

import (
	"fmt"
	"time"

	"github.com/garvbarthwal/Kisaan-sub001/models"
)

// ValidationResult is the structured outcome of the submission gate. The
// caller blocks submission while IsValid is false and shows every
// accumulated correction at once, never just the first one.
type ValidationResult struct {
	IsValid        bool     `json:"is_valid"`
	MissingFields  []string `json:"missing_fields"`
	FailureReasons []string `json:"failure_reasons"`
}

func (r *ValidationResult) missing(field string) {
	r.MissingFields = append(r.MissingFields, field)
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.FailureReasons = append(r.FailureReasons, fmt.Sprintf(format, args...))
}

// ValidateOrderDraft checks a draft against the effective pickup schedule
// before submission. It never errors; all violations are collected into the
// result.
//
// Pickup requires a date and time, rejects dates the schedule marks closed,
// and requires the time to fall inside that day's open window when one
// resolved. Delivery requires street, city and state (zip code is not
// required), plus a date and time; no business-hours constraint applies to
// delivery since the farmer fulfills it.
func ValidateOrderDraft(draft models.OrderDraft, schedule *models.WeeklySchedule) ValidationResult {
	result := ValidationResult{}

	switch draft.OrderType {
	case models.OrderTypePickup:
		validatePickup(draft.PickupDetails, schedule, &result)
	case models.OrderTypeDelivery:
		validateDelivery(draft.DeliveryDetails, &result)
	default:
		result.fail("select pickup or delivery before submitting")
	}

	result.IsValid = len(result.MissingFields) == 0 && len(result.FailureReasons) == 0
	return result
}

func validatePickup(details models.PickupDetails, schedule *models.WeeklySchedule, result *ValidationResult) {
	if details.Date == "" {
		result.missing("pickup date")
	}
	if details.Time == "" {
		result.missing("pickup time")
	}
	if details.Date == "" {
		return
	}

	parsed, err := time.Parse("2006-01-02", details.Date)
	if err != nil {
		result.fail("pickup date %q is not a valid date", details.Date)
		return
	}

	status := ResolvePickupDate(&parsed, schedule)
	switch status.Status {
	case PickupStatusClosed:
		// Closed day is a hard failure regardless of the chosen time
		result.fail("pickup is not available on %s, please select a different date", status.Weekday)
	case PickupStatusOpen:
		if details.Time != "" {
			day := models.DayHours{Open: status.Open, Close: status.Close}
			if !models.IsWithinHours(details.Time, day) {
				result.fail("pickup time %s is outside the available hours (%s - %s)", details.Time, status.Open, status.Close)
			}
		}
	}
	// PickupStatusNotConfigured stays non-blocking here as well: without
	// a resolved schedule there is no window to enforce.
}

func validateDelivery(details models.DeliveryDetails, result *ValidationResult) {
	if details.Address.Street == "" {
		result.missing("street")
	}
	if details.Address.City == "" {
		result.missing("city")
	}
	if details.Address.State == "" {
		result.missing("state")
	}
	if details.Date == "" {
		result.missing("delivery date")
	}
	if details.Time == "" {
		result.missing("delivery time")
	}
}

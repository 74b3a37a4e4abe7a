package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DayHours represents the open/close window for a single weekday.
// Times are zero-padded 24-hour "HH:MM" strings as entered by the farmer;
// no timezone handling is applied.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// WeeklySchedule maps lowercase weekday names (monday..sunday) to hours.
type WeeklySchedule map[string]DayHours

// WeekdayNames lists the seven permitted schedule keys, Monday first.
var WeekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// weekdayByTime maps time.Weekday (Sunday = 0) to schedule keys. Weekday
// derivation is pinned to this table so the result never depends on a
// runtime locale.
var weekdayByTime = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// WeekdayName returns the schedule key for the given date.
func WeekdayName(t time.Time) string {
	return weekdayByTime[int(t.Weekday())]
}

// IsWithinHours reports whether the "HH:MM" time t falls inside the day's
// open window. Closed days and days missing either bound are never open.
// Zero-padded "HH:MM" strings sort identically to their numeric time order,
// so plain string comparison is sufficient.
func IsWithinHours(t string, day DayHours) bool {
	if day.Closed {
		return false
	}
	if day.Open == "" || day.Close == "" {
		return false
	}
	return day.Open <= t && t <= day.Close
}

// Validate checks the schedule invariants: keys are exactly the seven
// weekday names, and every open day carries both bounds with open <= close.
// Overnight wraparound is not supported.
func (ws WeeklySchedule) Validate() error {
	if len(ws) != len(WeekdayNames) {
		return fmt.Errorf("schedule must contain all 7 days, got %d", len(ws))
	}
	for _, name := range WeekdayNames {
		day, ok := ws[name]
		if !ok {
			return fmt.Errorf("schedule is missing %s", name)
		}
		if day.Closed {
			continue
		}
		if day.Open == "" || day.Close == "" {
			return fmt.Errorf("%s is open but missing open/close times", name)
		}
		if day.Open > day.Close {
			return fmt.Errorf("%s closes before it opens (%s > %s)", name, day.Open, day.Close)
		}
	}
	return nil
}

// Value serializes the schedule for a JSONB column.
func (ws WeeklySchedule) Value() (driver.Value, error) {
	if ws == nil {
		return nil, nil
	}
	return json.Marshal(ws)
}

// Scan deserializes a JSONB column into the schedule.
func (ws *WeeklySchedule) Scan(src interface{}) error {
	if src == nil {
		*ws = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into WeeklySchedule", src)
	}
	return json.Unmarshal(data, ws)
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// FulfillmentOptions declares which fulfillment methods a product supports.
// A nil *FulfillmentOptions on a product means the listing predates
// fulfillment configuration and defers to the permissive fallback.
type FulfillmentOptions struct {
	Delivery bool `json:"delivery"`
	Pickup   bool `json:"pickup"`
}

func (fo FulfillmentOptions) Value() (driver.Value, error) {
	return json.Marshal(fo)
}

func (fo *FulfillmentOptions) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into FulfillmentOptions", src)
	}
	return json.Unmarshal(data, fo)
}

// Product represents a produce listing published by a farmer.
type Product struct {
	ID                uuid.UUID           `json:"id" db:"id"`
	FarmerID          uuid.UUID           `json:"farmer_id" db:"farmer_id"`
	Name              string              `json:"name" db:"name"`
	Category          string              `json:"category" db:"category"`
	Description       string              `json:"description" db:"description"`
	Price             float64             `json:"price" db:"price"`
	Unit              string              `json:"unit" db:"unit"`
	QuantityAvailable int                 `json:"quantity_available" db:"quantity_available"`
	Images            pq.StringArray      `json:"images" db:"images"`
	Fulfillment       *FulfillmentOptions `json:"fulfillment_options,omitempty" db:"fulfillment_options"`
	PickupHours       *WeeklySchedule     `json:"pickup_hours,omitempty" db:"pickup_hours"`
	IsActive          bool                `json:"is_active" db:"is_active"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" db:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (Product) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		farmer_id UUID NOT NULL REFERENCES farmers(id) ON DELETE CASCADE,
		name VARCHAR(200) NOT NULL,
		category VARCHAR(100) NOT NULL,
		description TEXT,
		price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		unit VARCHAR(20) NOT NULL DEFAULT 'kg',
		quantity_available INT NOT NULL DEFAULT 0 CHECK (quantity_available >= 0),
		images TEXT[] DEFAULT '{}',
		fulfillment_options JSONB,
		pickup_hours JSONB,
		is_active BOOLEAN DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Order type selector states for a checkout draft.
const (
	OrderTypeUnset    = ""
	OrderTypePickup   = "pickup"
	OrderTypeDelivery = "delivery"
)

// DeliveryAddress is the address an order is delivered to. ZipCode is
// recognized but not required for a valid address.
type DeliveryAddress struct {
	Street           string   `json:"street"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	ZipCode          string   `json:"zip_code"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	LocationDetected bool     `json:"location_detected"`
}

// PickupDetails carries the customer's chosen pickup slot.
type PickupDetails struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

// DeliveryDetails carries the delivery address and requested slot.
type DeliveryDetails struct {
	Address DeliveryAddress `json:"address"`
	Date    string          `json:"date"`
	Time    string          `json:"time"`
}

// OrderDraft is the mutable in-progress order owned by a checkout session.
// It is held in memory only and discarded on submission or abandonment.
type OrderDraft struct {
	OrderType       string          `json:"order_type"`
	PickupDetails   PickupDetails   `json:"pickup_details"`
	DeliveryDetails DeliveryDetails `json:"delivery_details"`
	PaymentMethod   string          `json:"payment_method"`
	Notes           string          `json:"notes"`
}

// Order represents a submitted order.
type Order struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	OrderNumber     string           `json:"order_number" db:"order_number"`
	UserID          uuid.UUID        `json:"user_id" db:"user_id"`
	FarmerID        uuid.UUID        `json:"farmer_id" db:"farmer_id"`
	Status          string           `json:"status" db:"status"`
	OrderType       string           `json:"order_type" db:"order_type"`
	PickupDetails   *PickupDetails   `json:"pickup_details,omitempty" db:"pickup_details"`
	DeliveryDetails *DeliveryDetails `json:"delivery_details,omitempty" db:"delivery_details"`
	PaymentMethod   string           `json:"payment_method" db:"payment_method"`
	Notes           string           `json:"notes" db:"notes"`
	TotalAmount     float64          `json:"total_amount" db:"total_amount"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
	Items           []OrderItem      `json:"items,omitempty"`
}

// OrderItem represents an item within an order.
type OrderItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	Unit        string    `json:"unit" db:"unit"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (pd PickupDetails) Value() (driver.Value, error) {
	return json.Marshal(pd)
}

func (pd *PickupDetails) Scan(src interface{}) error {
	return scanJSON(src, pd)
}

func (dd DeliveryDetails) Value() (driver.Value, error) {
	return json.Marshal(dd)
}

func (dd *DeliveryDetails) Scan(src interface{}) error {
	return scanJSON(src, dd)
}

func scanJSON(src, dst interface{}) error {
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
		return fmt.Errorf("cannot scan %T", src)
	}
	return json.Unmarshal(data, dst)
}

type jsonColumn[T any] struct {
	dst **T
}

func (c jsonColumn[T]) Scan(src interface{}) error {
	if src == nil {
		*c.dst = nil
		return nil
	}
	v := new(T)
	if err := scanJSON(src, v); err != nil {
		return err
	}
	*c.dst = v
	return nil
}

// JSONColumn adapts a nullable JSONB column to a pointer field: NULL scans
// to nil, anything else allocates and unmarshals.
func JSONColumn[T any](dst **T) sql.Scanner {
	return jsonColumn[T]{dst: dst}
}

func (Order) TableName() string {
	return "orders"
}

func (Order) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		order_number VARCHAR(50) NOT NULL UNIQUE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		farmer_id UUID NOT NULL REFERENCES farmers(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		order_type VARCHAR(20) NOT NULL CHECK (order_type IN ('pickup', 'delivery')),
		pickup_details JSONB,
		delivery_details JSONB,
		payment_method VARCHAR(50) NOT NULL,
		notes TEXT,
		total_amount NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (OrderItem) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		product_name VARCHAR(200) NOT NULL,
		quantity INT NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12,2) NOT NULL,
		unit VARCHAR(20) NOT NULL DEFAULT 'kg',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`
}

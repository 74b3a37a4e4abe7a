package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is an accepted way of paying for an order.
type PaymentMethod struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Label     string    `json:"label" db:"label"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

func (PaymentMethod) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS payment_methods (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(50) NOT NULL UNIQUE,
		label TEXT NOT NULL,
		is_active BOOLEAN DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
